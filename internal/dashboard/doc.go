// Package dashboard implements the live visit-counter TUI.
//
// The dashboard reads the result cache and never fetches on its own. The
// poll scheduler writes the cache; the cache signals a change; the model
// reloads both slots and re-renders.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds the cache handle, counter history, toast, and layout
//   - Update: processes keystrokes, cache change signals, notifications
//   - View: renders cards, the trend chart, and the footer
//
// # Message Flow
//
//  1. waitForChange blocks on Cache.Changes() and returns cacheChangedMsg
//  2. Update records a history sample if the counter value was replaced
//  3. View() derives today/yesterday/trend from the current snapshot
//  4. waitForChange is re-issued until the cache is disposed
//
// Failure notifications arrive on a notify.Channel and are shown as a
// toast for a few seconds.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh both resources now
//	t           - Toggle line/area chart
//	?           - Toggle help overlay
package dashboard
