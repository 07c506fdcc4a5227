// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import "testing"

// recorder implements WindowHandler, KeyboardHandler and
// PointerHandler, logging every call it receives so tests can assert
// on call counts rather than depend on stdout.
type recorder struct {
	windowClose, windowResize int
	keyboardIn, keyboardOut   int
	keyboardKey               int
	pointerIn, pointerOut     int
	pointerMotion             int
	pointerButton             int
}

func (r *recorder) WindowClose(win Window)                  { r.windowClose++ }
func (r *recorder) WindowResize(win Window, w, h int)        { r.windowResize++ }
func (r *recorder) KeyboardIn(win Window)                   { r.keyboardIn++ }
func (r *recorder) KeyboardOut(win Window)                  { r.keyboardOut++ }
func (r *recorder) KeyboardKey(key Key, pressed bool, m Modifier) { r.keyboardKey++ }
func (r *recorder) PointerIn(win Window, x, y int)           { r.pointerIn++ }
func (r *recorder) PointerOut(win Window)                    { r.pointerOut++ }
func (r *recorder) PointerMotion(x, y int)                   { r.pointerMotion++ }
func (r *recorder) PointerButton(btn Button, pressed bool, x, y int) { r.pointerButton++ }

func TestPlatformInUseIsNone(t *testing.T) {
	// This module ships no native windowing backend (see init.go),
	// so the dummy implementation is always the one installed.
	if p := PlatformInUse(); p != None {
		t.Errorf("PlatformInUse: have %v, want %v", p, None)
	}
}

func TestDummyNewWindowFails(t *testing.T) {
	win, err := NewWindow(480, 360, "will fail")
	if win != nil || err != errMissing {
		t.Errorf("NewWindow: have (%v, %v), want (nil, %v)", win, err, errMissing)
	}
	if n := len(Windows()); n != 0 {
		t.Errorf("Windows: have %d, want 0", n)
	}
}

func TestDummyDispatchAndAppName(t *testing.T) {
	// Dummy Dispatch and SetAppName are no-ops, but must not panic
	// and must still update the AppName bookkeeping that lives in
	// this package rather than the platform-specific half.
	Dispatch()
	SetAppName("my app")
	if s := AppName(); s != "my app" {
		t.Errorf("AppName: have %q, want %q", s, "my app")
	}
}

func TestHandlerRegistration(t *testing.T) {
	r := &recorder{}
	SetWindowHandler(r)
	SetKeyboardHandler(r)
	SetPointerHandler(r)

	if windowHandler != WindowHandler(r) {
		t.Error("SetWindowHandler did not install the given handler")
	}
	if keyboardHandler != KeyboardHandler(r) {
		t.Error("SetKeyboardHandler did not install the given handler")
	}
	if pointerHandler != PointerHandler(r) {
		t.Error("SetPointerHandler did not install the given handler")
	}

	// Drive every callback directly, since the dummy backend never
	// generates real window-system events to dispatch through them.
	windowHandler.WindowClose(nil)
	windowHandler.WindowResize(nil, 100, 100)
	keyboardHandler.KeyboardIn(nil)
	keyboardHandler.KeyboardKey(KeyW, true, ModShift)
	keyboardHandler.KeyboardOut(nil)
	pointerHandler.PointerIn(nil, 1, 2)
	pointerHandler.PointerMotion(3, 4)
	pointerHandler.PointerButton(BtnLeft, true, 3, 4)
	pointerHandler.PointerOut(nil)

	switch {
	case r.windowClose != 1, r.windowResize != 1:
		t.Error("window handler calls not all recorded")
	case r.keyboardIn != 1, r.keyboardOut != 1, r.keyboardKey != 1:
		t.Error("keyboard handler calls not all recorded")
	case r.pointerIn != 1, r.pointerOut != 1, r.pointerMotion != 1, r.pointerButton != 1:
		t.Error("pointer handler calls not all recorded")
	}
}

func TestSetHandlers(t *testing.T) {
	windowHandler, keyboardHandler, pointerHandler = nil, nil, nil

	wh := &recorder{}
	SetHandlers(wh, nil, nil)
	if windowHandler != WindowHandler(wh) {
		t.Error("SetHandlers: did not install the given WindowHandler")
	}
	if keyboardHandler != nil {
		t.Error("SetHandlers: a nil KeyboardHandler must leave the registration untouched")
	}
	if pointerHandler != nil {
		t.Error("SetHandlers: a nil PointerHandler must leave the registration untouched")
	}

	kh := &recorder{}
	SetHandlers(nil, kh, nil)
	if windowHandler != WindowHandler(wh) {
		t.Error("SetHandlers: a nil WindowHandler must not clear an existing registration")
	}
	if keyboardHandler != KeyboardHandler(kh) {
		t.Error("SetHandlers: did not install the given KeyboardHandler")
	}
}

func TestKeyFromOutOfRange(t *testing.T) {
	if k := keyFrom(len(keymap) + 1000); k != KeyUnknown {
		t.Errorf("keyFrom(out of range): have %v, want %v", k, KeyUnknown)
	}
}
