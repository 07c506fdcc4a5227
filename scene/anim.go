// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"sort"

	"s72engine/linear"
	"s72engine/parse"
)

// Channel names the TRS component a driver overrides.
type Channel int

// Driver channels.
const (
	ChanTranslation Channel = iota
	ChanRotation
	ChanScale
)

// Interp names a driver's interpolation mode between keyframes.
const (
	Step Interp = iota
	Linear
	Slerp
)

// Interp is a driver's interpolation mode.
type Interp int

// AnimDriver is a single DRIVER element: a keyframe track sampled
// against a strictly increasing time axis and applied, wrapped
// modulo its own duration, to one TRS channel of one target node.
type AnimDriver struct {
	TargetDocIdx int
	Channel      Channel
	Interp       Interp

	Times    []float32
	ValuesV3 []linear.V3 // translation, scale
	ValuesQ  []linear.Q  // rotation
}

// loadDriver parses a DRIVER node.
func loadDriver(n *parse.Node) (*AnimDriver, error) {
	d := &AnimDriver{TargetDocIdx: int(n.Field("node").Number())}

	switch n.Field("channel").String() {
	case "rotation":
		d.Channel = ChanRotation
	case "scale":
		d.Channel = ChanScale
	default:
		d.Channel = ChanTranslation
	}

	switch n.Field("interpolation").String() {
	case "LINEAR":
		d.Interp = Linear
	case "SLERP":
		d.Interp = Slerp
	default:
		d.Interp = Step
	}

	times := n.Field("times")
	for i := 0; i < len(times.Arr); i++ {
		d.Times = append(d.Times, float32(times.Index(i).Number()))
	}
	if !sort.SliceIsSorted(d.Times, func(i, j int) bool { return d.Times[i] < d.Times[j] }) {
		sort.Float32s(d.Times)
	}

	values := n.Field("values")
	if d.Channel == ChanRotation {
		for i := 0; i+3 < len(values.Arr); i += 4 {
			d.ValuesQ = append(d.ValuesQ, linear.Q{
				V: linear.V3{
					float32(values.Index(i).Number()),
					float32(values.Index(i + 1).Number()),
					float32(values.Index(i + 2).Number()),
				},
				R: float32(values.Index(i + 3).Number()),
			})
		}
	} else {
		for i := 0; i+2 < len(values.Arr); i += 3 {
			d.ValuesV3 = append(d.ValuesV3, linear.V3{
				float32(values.Index(i).Number()),
				float32(values.Index(i + 1).Number()),
				float32(values.Index(i + 2).Number()),
			})
		}
	}
	return d, nil
}

// wrap maps t into [times[0], times[last]], cycling the animation
// every (times[last] - times[0]) seconds.
func (d *AnimDriver) wrap(t float32) float32 {
	if len(d.Times) < 2 {
		return 0
	}
	lo, hi := d.Times[0], d.Times[len(d.Times)-1]
	span := hi - lo
	if span <= 0 {
		return lo
	}
	t -= lo
	t -= span * float32(int(t/span))
	if t < 0 {
		t += span
	}
	return t + lo
}

// span returns the keyframe pair bracketing t and the mix factor.
func (d *AnimDriver) span(t float32) (i0, i1 int, f float32) {
	t = d.wrap(t)
	i1 = sort.Search(len(d.Times), func(i int) bool { return d.Times[i] > t })
	if i1 <= 0 {
		return 0, 0, 0
	}
	if i1 >= len(d.Times) {
		i1 = len(d.Times) - 1
	}
	i0 = i1 - 1
	span := d.Times[i1] - d.Times[i0]
	if span > 0 {
		f = (t - d.Times[i0]) / span
	}
	return
}

// SampleV3 samples a translation/scale driver at time t.
func (d *AnimDriver) SampleV3(t float32) linear.V3 {
	if len(d.ValuesV3) == 0 {
		return linear.V3{}
	}
	i0, i1, f := d.span(t)
	if i0 >= len(d.ValuesV3) {
		i0 = len(d.ValuesV3) - 1
	}
	if i1 >= len(d.ValuesV3) {
		i1 = len(d.ValuesV3) - 1
	}
	if d.Interp == Step || i0 == i1 {
		return d.ValuesV3[i0]
	}
	var out linear.V3
	out.Lerp(&d.ValuesV3[i0], &d.ValuesV3[i1], f)
	return out
}

// SampleQ samples a rotation driver at time t.
func (d *AnimDriver) SampleQ(t float32) linear.Q {
	if len(d.ValuesQ) == 0 {
		return linear.QI()
	}
	i0, i1, f := d.span(t)
	if i0 >= len(d.ValuesQ) {
		i0 = len(d.ValuesQ) - 1
	}
	if i1 >= len(d.ValuesQ) {
		i1 = len(d.ValuesQ) - 1
	}
	if i0 == i1 {
		return d.ValuesQ[i0]
	}
	if d.Interp == Step {
		return d.ValuesQ[i0]
	}
	var out linear.Q
	out.Slerp(&d.ValuesQ[i0], &d.ValuesQ[i1], f)
	return out
}
