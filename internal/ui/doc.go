// Package ui holds the styling shared by the non-interactive commands:
// the ANSI palette, status symbols, tables, and color profile selection.
//
// The live dashboard has its own truecolor palette in package dashboard;
// this package targets plain terminals and pipes.
package ui
