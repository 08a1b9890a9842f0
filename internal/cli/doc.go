// Package cli implements the vdash command-line interface.
//
// Each cobra command parses flags and hands off to a function that takes
// its collaborators explicitly (an io.Writer, a source client, a config
// path) so the behavior can be tested without a terminal.
//
// # Command Structure
//
//	vdash                 - Live dashboard (same as "vdash watch")
//	vdash watch           - Live dashboard; snapshot when stdout is not a TTY
//	vdash snapshot        - Fetch once and print counter, derived metrics, trend
//	vdash trends          - Print the projected chart points as a table
//	vdash mock            - Seed visits for a date through the mock endpoint
//	vdash init            - Write a commented .vdash.yaml
//	vdash config set|show - Edit or print the effective config
//	vdash version         - Print version information
//
// # Machine Output
//
// --json wraps command output in a JSONEnvelope. Errors are reported in
// the same envelope with a stable code (FETCH_FAILED, CONFIG_INVALID, ...).
package cli
