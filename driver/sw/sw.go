// Package sw implements driver interfaces using a host-memory
// software rasterizer.
//
// It exists so that the headless and performance-test execution
// modes described in the scene engine's runtime package can produce
// real pixels without depending on a concrete GPU API: the
// rasterization backend is treated as an abstract contract that any
// equivalent modern explicit API can satisfy, and sw is this
// module's instance of that contract. It is not meant to be fast or
// feature-complete; it assumes the fixed vertex binding convention
// the mesh package writes (position, normal, tangent, texcoord,
// color, in that attribute order) rather than a general shader ABI,
// since there is no shader compiler behind it either.
package sw

import (
	"sync"

	"s72engine/driver"
)

const driverName = "software"

type swDriver struct {
	mu   sync.Mutex
	gpu  *GPU
	open bool
}

func (d *swDriver) Open() (driver.GPU, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		d.gpu = newGPU(d)
		d.open = true
	}
	return d.gpu, nil
}

func (d *swDriver) Name() string { return driverName }

func (d *swDriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.gpu = nil
}

func init() {
	driver.Register(&swDriver{})
}
