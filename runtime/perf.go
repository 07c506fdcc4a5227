// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package runtime

import (
	"fmt"
	"time"

	"s72engine/internal/applog"
	"s72engine/scene"
)

// RunPerformanceTest renders n frames back-to-back against cam with
// no event gating, advancing the animation clock at a fixed 60Hz
// step, and logs the min/avg/max per-frame render time.
func (e *Engine) RunPerformanceTest(n int, cam *scene.Camera) error {
	if n < 1 {
		return fmt.Errorf("runtime: performance test requires at least one frame")
	}
	const step float32 = 1.0 / 60

	var t float32
	var minD, maxD, total time.Duration
	for i := 0; i < n; i++ {
		e.Graph.SetTime(t)

		start := time.Now()
		if _, err := e.RenderFrame(cam); err != nil {
			return fmt.Errorf("runtime: frame %d: %w", i, err)
		}
		d := time.Since(start)

		total += d
		if i == 0 || d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
		t += step
	}

	applog.Log().Infow("performance test complete",
		"frames", n, "min", minD, "avg", total/time.Duration(n), "max", maxD)
	return nil
}
