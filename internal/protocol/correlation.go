package protocol

import (
	"strconv"
	"sync/atomic"
)

// NextID returns the next monotone correlation id for engineID, in the form
// "<engine_id>_<n>". The id never repeats for the lifetime of counter.
func NextID(engineID string, counter *atomic.Uint64) string {
	n := counter.Add(1)
	return engineID + "_" + strconv.FormatUint(n, 10)
}
