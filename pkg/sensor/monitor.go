package sensor

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultSampleDelay is the pause between raw readings in the stock build.
const DefaultSampleDelay = 10 * time.Millisecond

// Monitor samples rf every delay and feeds the filter until ctx is done.
//
// Transient read errors are logged and the sample skipped. If the device
// reports ErrUnconfigured the loop stops for good and returns it, so the
// caller can mark the sensor dead rather than poll a missing device forever.
func Monitor(ctx context.Context, rf RangeFinder, f *Filter, delay time.Duration) error {
	if delay <= 0 {
		delay = DefaultSampleDelay
	}

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			dist, err := rf.Distance()
			if err != nil {
				if errors.Is(err, ErrUnconfigured) {
					slog.Warn("obstacle sensor not present, stopping sampler")
					return err
				}
				slog.Debug("obstacle sample failed", "err", err)
				continue
			}
			f.Add(dist)
		}
	}
}
