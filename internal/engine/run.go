package engine

import (
	"context"
	"time"
)

// Run ticks the engine at fps until ctx is done. It is the headless
// counterpart of a display refresh loop.
func (e *Engine) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	e.logger.Info("engine loop started", "fps", fps)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine loop stopped", "ticks", e.ticks)
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}
