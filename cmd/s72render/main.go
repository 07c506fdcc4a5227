// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Command s72render loads an s72 scene document and drives it
// through one of the runtime's three execution modes: interactive
// (a window, if the platform provides one), headless event-script
// playback, or a fixed-frame-count performance measurement.
//
// The command-line argument parser is treated as an external
// collaborator; this is the minimum flag decoding needed to
// exercise runtime.Engine and nothing else.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "s72engine/driver/sw"
	"s72engine/cull"
	"s72engine/internal/applog"
	"s72engine/linear"
	"s72engine/parse"
	"s72engine/runtime"
	"s72engine/scene"
	"s72engine/wsi"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer applog.Sync()

	var (
		scenePath  = flag.String("scene", "", "path to the s72 scene document (required)")
		cameraName = flag.String("camera", "User", "name of the camera to render from")
		drawSize   = flag.String("drawing-size", "1280x720", "drawing size, WxH")
		physDev    = flag.String("physical-device", "", "preferred physical device name (advisory)")
		culling    = flag.String("culling", "frustum", "culling mode: none|frustum")
		eventsPath = flag.String("events", "", "headless event-script path")
		headless   = flag.Bool("headless", false, "run without a window, driven by --events")
		perfFrames = flag.Int("performance-test", 0, "render N frames back-to-back and report timings")
	)
	flag.Parse()

	if *scenePath == "" {
		applog.Log().Error("--scene is required")
		return 1
	}
	w, h, err := parseSize(*drawSize)
	if err != nil {
		applog.Log().Errorw("bad --drawing-size", "error", err)
		return 1
	}

	var mode cull.Mode
	switch *culling {
	case "none":
		mode = cull.None
	case "frustum":
		mode = cull.Frustum
	default:
		applog.Log().Errorw("unknown --culling mode", "value", *culling)
		return 1
	}

	if *physDev != "" {
		applog.Log().Debugw("physical device preference noted", "name", *physDev)
	}

	data, err := os.ReadFile(*scenePath)
	if err != nil {
		applog.Log().Errorw("reading scene", "path", *scenePath, "error", err)
		return 1
	}
	doc, err := parse.Parse(data)
	if err != nil {
		applog.Log().Errorw("parsing scene", "path", *scenePath, "error", err)
		return 1
	}

	eng, err := runtime.Open("software", filepath.Dir(*scenePath), doc, w, h, mode)
	if err != nil {
		applog.Log().Errorw("opening engine", "error", err)
		return 1
	}
	defer eng.Close()

	cam, err := eng.CameraByName(*cameraName)
	if err != nil {
		applog.Log().Errorw("selecting camera", "error", err)
		return 1
	}

	switch {
	case *perfFrames > 0:
		if err := eng.RunPerformanceTest(*perfFrames, cam); err != nil {
			applog.Log().Errorw("performance test", "error", err)
			return 1
		}
	case *headless:
		if *eventsPath == "" {
			applog.Log().Error("--headless requires --events")
			return 1
		}
		if err := eng.RunHeadless(*eventsPath, cam); err != nil {
			applog.Log().Errorw("headless run", "error", err)
			return 1
		}
	default:
		if err := runInteractive(eng, cam, w, h); err != nil {
			applog.Log().Errorw("interactive run", "error", err)
			return 1
		}
	}
	return 0
}

// closeSignal is the wsi.WindowHandler that stops runInteractive's
// loop once the window closes.
type closeSignal struct{ closed bool }

func (c *closeSignal) WindowClose(win wsi.Window)                  { c.closed = true }
func (c *closeSignal) WindowResize(win wsi.Window, newW, newH int) {}

// freeFly is the wsi.KeyboardHandler driving cam's Position/Forward
// from held keys: WASD strafes and moves along the look direction,
// the arrow keys yaw/pitch. It only tracks key state; runInteractive
// integrates it once per frame so movement speed is independent of
// how often the window system delivers key-repeat events.
type freeFly struct {
	cam  *scene.Camera
	held map[wsi.Key]bool
}

func newFreeFly(cam *scene.Camera) *freeFly {
	return &freeFly{cam: cam, held: make(map[wsi.Key]bool)}
}

func (f *freeFly) KeyboardIn(win wsi.Window)  {}
func (f *freeFly) KeyboardOut(win wsi.Window) { f.held = make(map[wsi.Key]bool) }

func (f *freeFly) KeyboardKey(key wsi.Key, pressed bool, mod wsi.Modifier) {
	f.held[key] = pressed
}

// moveSpeed and turnRate are in units/second and radians/second.
const (
	moveSpeed = 4.0
	turnRate  = 1.5
)

// Step advances f.cam by dt seconds according to the keys currently
// held.
func (f *freeFly) Step(dt float32) {
	cam := f.cam
	var right linear.V3
	right.Cross(&cam.Forward, &cam.Up)
	right.Norm(&right)

	translate := func(dir *linear.V3, sign float32) {
		var d linear.V3
		d.Scale(sign*moveSpeed*dt, dir)
		cam.Position.Add(&cam.Position, &d)
	}
	if f.held[wsi.KeyW] {
		translate(&cam.Forward, 1)
	}
	if f.held[wsi.KeyS] {
		translate(&cam.Forward, -1)
	}
	if f.held[wsi.KeyD] {
		translate(&right, 1)
	}
	if f.held[wsi.KeyA] {
		translate(&right, -1)
	}

	rotate := func(axis *linear.V3, sign float32) {
		var m linear.M3
		m.Rotate(sign*turnRate*dt, axis)
		var fwd linear.V3
		fwd.Mul(&m, &cam.Forward)
		cam.Forward.Norm(&fwd)
	}
	if f.held[wsi.KeyLeft] {
		rotate(&cam.Up, 1)
	}
	if f.held[wsi.KeyRight] {
		rotate(&cam.Up, -1)
	}
	if f.held[wsi.KeyUp] {
		rotate(&right, 1)
	}
	if f.held[wsi.KeyDown] {
		rotate(&right, -1)
	}
}

// runInteractive opens a window (falling back to the dummy backend
// wsi registers when no real window system is present) and renders
// frames, driving cam with WASD/arrow-key free-fly input, until the
// window is closed.
func runInteractive(eng *runtime.Engine, cam *scene.Camera, w, h int) error {
	win, err := wsi.NewWindow(w, h, "s72render")
	if err != nil {
		return fmt.Errorf("cmd/s72render: opening window: %w", err)
	}
	defer win.Close()
	if err := win.Map(); err != nil {
		return fmt.Errorf("cmd/s72render: mapping window: %w", err)
	}

	sig := &closeSignal{}
	fly := newFreeFly(cam)
	wsi.SetHandlers(sig, fly, nil)

	start := time.Now()
	last := start
	for !sig.closed {
		now := time.Now()
		fly.Step(float32(now.Sub(last).Seconds()))
		last = now
		eng.Graph.SetTime(float32((now.Sub(start) % (120 * time.Second)).Seconds()))

		if _, err := eng.RenderFrame(cam); err != nil {
			return err
		}
		wsi.Dispatch()
	}
	return nil
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("expected WxH, got %q", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("drawing size must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}
