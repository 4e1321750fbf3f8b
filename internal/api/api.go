package api

import (
	"context"

	"github.com/archlinter/archlint/internal/config"
	"github.com/archlinter/archlint/internal/detect"
)

// LoadConfig loads and resolves path's preset chain, for a caller that
// wants to validate or inspect a config file without also running a
// scan.
func LoadConfig(path string) (*config.Config, error) {
	return config.Load(path, resolvePreset)
}

// ListDetectors reports every registered detector's metadata, the same
// listing `archlint detectors` prints.
func ListDetectors() []detect.Info {
	return detect.All()
}

// Clearer is implemented by a cache that can be reset; ClearCache is a
// thin wrapper so callers that only hold an engine.Cache-shaped value
// can still clear it without importing the cache implementation's
// concrete package.
type Clearer interface {
	Clear()
}

// ClearCache resets c, if c implements Clearer.
func ClearCache(c Clearer) {
	c.Clear()
}

// Scan runs a single one-shot scan of root with opts and discards the
// analyzer afterward; a caller that needs ScanIncremental or Diff should
// keep its own *Analyzer via NewAnalyzer instead.
func Scan(ctx context.Context, root string, opts ScanOptions) (*ScanResult, error) {
	a, err := NewAnalyzer(root, opts)
	if err != nil {
		return nil, err
	}
	return a.Scan(ctx)
}

// ScanOutcome carries ScanAsync's result once its worker goroutine
// finishes.
type ScanOutcome struct {
	Result *ScanResult
	Err    error
}

// ScanAsync runs Scan on its own goroutine and returns immediately with
// a channel the caller receives the outcome from, the worker-thread
// counterpart to Scan's synchronous call — for a host embedding this
// module in an event loop (an editor extension, a dashboard) that can't
// block its own goroutine on a scan of a large tree. The channel is
// buffered so the worker never blocks waiting for a receiver that gave
// up (ctx canceled, caller moved on); callers that want to abandon a
// scan early should cancel ctx rather than stop reading the channel.
func ScanAsync(ctx context.Context, root string, opts ScanOptions) <-chan ScanOutcome {
	out := make(chan ScanOutcome, 1)
	go func() {
		result, err := Scan(ctx, root, opts)
		out <- ScanOutcome{Result: result, Err: err}
	}()
	return out
}
