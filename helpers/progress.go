// Package helpers carries the small cross-cutting pieces: progress
// observation and log sinks shared by the download and extraction stages.
package helpers

import "github.com/cheggaaa/pb/v3"

// Progress observes cumulative progress of a transfer or a batch. total is 0
// when the size is not known up front, in which case reporting is
// indeterminate. Observation only; implementations must not fail the run.
type Progress func(current, total int64)

// NopProgress discards all progress updates. Used as the default so tests
// run silent.
func NopProgress(int64, int64) {}

// Logf receives human-readable warnings for localized, non-fatal failures.
type Logf func(format string, args ...any)

// NopLogf discards log output.
func NopLogf(string, ...any) {}

// NewBarProgress couples a pb progress bar to the Progress contract. The
// caller keeps ownership of the bar and finishes it when the transfer ends.
func NewBarProgress(bar *pb.ProgressBar) Progress {
	return func(current, total int64) {
		if total > 0 && bar.Total() != total {
			bar.SetTotal(total)
		}
		bar.SetCurrent(current)
	}
}
