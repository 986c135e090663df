// Package runner executes one daily quote run.
//
// A run:
//   - Takes a run id and the calendar-day guard key
//   - Skips when the day's guard is already held
//   - Composes and sends the quote email to the mailing list
//   - Releases the guard when the send fails so a retry can go out
//   - Records the run outcome and duration
package runner
