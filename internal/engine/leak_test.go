package engine

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures parseAll's worker pool doesn't leak goroutines across
// the package's tests, the same guard the teacher keeps over its own
// concurrent indexing pipeline (internal/core's TestMain).
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
