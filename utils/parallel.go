package utils

import (
	"runtime"
)

// ParallelFactor bounds how many independent work items (trees, for one) run at once. Tests may
// lower it.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	// leave room on large machines for the rest of the pipeline
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}
