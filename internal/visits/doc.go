// Package visits holds the visit-counter data model and the pure
// functions that turn raw snapshots into what the dashboard shows.
//
//	Derive   - day-over-day comparison (yesterday, trend %, direction)
//	Project  - trend series to chart points, order preserved
//	History  - ring buffer of counter samples for the live sparkline
//
// Derive and Project have no side effects and return identical results
// for identical inputs.
package visits
