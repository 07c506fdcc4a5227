// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package runtime

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"s72engine/scene"
)

type eventKind int

const (
	evAvailable eventKind = iota
	evPlay
	evSave
	evMark
)

// event is a single line of a headless event script: a
// non-decreasing microsecond timestamp plus the command it fires.
type event struct {
	t    int64
	kind eventKind
	arg1 string
	arg2 string
}

// parseEvents reads a whitespace-separated event script, one event
// per line: "<t> AVAILABLE", "<t> PLAY <start> <rate>",
// "<t> SAVE <path>", "<t> MARK <text>". Timestamps must be strictly
// non-decreasing, per spec.
func parseEvents(path string) ([]event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}
	defer f.Close()

	var events []event
	var lastT int64 = -1
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("runtime: malformed event line %q", line)
		}
		t, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("runtime: bad timestamp %q: %w", fields[0], err)
		}
		if t < lastT {
			return nil, fmt.Errorf("runtime: timestamp %d precedes earlier event at %d", t, lastT)
		}
		lastT = t

		ev := event{t: t}
		switch fields[1] {
		case "AVAILABLE":
			ev.kind = evAvailable
		case "PLAY":
			if len(fields) < 4 {
				return nil, fmt.Errorf("runtime: PLAY requires <start> <rate>: %q", line)
			}
			ev.kind = evPlay
			ev.arg1, ev.arg2 = fields[2], fields[3]
		case "SAVE":
			if len(fields) < 3 {
				return nil, fmt.Errorf("runtime: SAVE requires a path: %q", line)
			}
			ev.kind = evSave
			ev.arg1 = fields[2]
		case "MARK":
			ev.kind = evMark
			ev.arg1 = strings.Join(fields[2:], " ")
		default:
			return nil, fmt.Errorf("runtime: unknown event %q", fields[1])
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}
	return events, nil
}

// animTime converts an event timestamp (microseconds) to the
// animation clock, wrapping at 120 seconds the same way the
// interactive wall-clock loop does, so PLAY's reset is the only
// thing that ever perturbs it in headless mode.
func animTime(start, rate float32, base, t int64) float32 {
	const wrap = 120
	cur := start + float32(t-base)/1e6*rate
	for cur >= wrap {
		cur -= wrap
	}
	for cur < 0 {
		cur += wrap
	}
	return cur
}

// RunHeadless executes the event script at path against cam,
// advancing the animation clock purely from event timestamps
// (never the wall clock) so that output is a deterministic function
// of the scene, the event stream and the pre-integrated maps it
// references.
func (e *Engine) RunHeadless(path string, cam *scene.Camera) error {
	events, err := parseEvents(path)
	if err != nil {
		return err
	}

	var start, rate float32 = 0, 1
	var base int64

	for _, ev := range events {
		switch ev.kind {
		case evPlay:
			s, err := strconv.ParseFloat(ev.arg1, 32)
			if err != nil {
				return fmt.Errorf("runtime: PLAY start: %w", err)
			}
			r, err := strconv.ParseFloat(ev.arg2, 32)
			if err != nil {
				return fmt.Errorf("runtime: PLAY rate: %w", err)
			}
			start, rate, base = float32(s), float32(r), ev.t

		case evAvailable:
			e.Graph.SetTime(animTime(start, rate, base, ev.t))
			if _, err := e.RenderFrame(cam); err != nil {
				return fmt.Errorf("runtime: AVAILABLE at %d: %w", ev.t, err)
			}

		case evSave:
			e.Graph.SetTime(animTime(start, rate, base, ev.t))
			pix, err := e.RenderFrame(cam)
			if err != nil {
				return fmt.Errorf("runtime: SAVE at %d: %w", ev.t, err)
			}
			if err := WritePPM(ev.arg1, pix, e.Width, e.Height); err != nil {
				return err
			}

		case evMark:
			fmt.Println(ev.arg1)
		}
	}
	return nil
}
