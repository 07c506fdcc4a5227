// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"testing"

	"s72engine/driver"
)

func TestDrivers(t *testing.T) {
	drivers := driver.Drivers()
	for i := range drivers {
		name := drivers[i].Name()
		for j := 0; j < i; j++ {
			if name == drivers[j].Name() {
				t.Error("driver.Drivers: Driver.Name is not unique")
			}
		}
	}
	drivers2 := driver.Drivers()
	if len(drivers) != len(drivers2) {
		t.Error("driver.Drivers: length mismatch")
	} else {
		for i := range drivers {
			if drivers[i].Name() != drivers2[i].Name() {
				t.Error("driver.Drivers: Driver.Name mismatch")
			}
		}
	}
}

func TestOpenNamedUnknown(t *testing.T) {
	if _, _, err := driver.OpenNamed("no such backend"); err == nil {
		t.Error("driver.OpenNamed: expected error for unregistered name")
	}
}

func TestOpenNamedRegistered(t *testing.T) {
	for _, d := range driver.Drivers() {
		drv, gpu, err := driver.OpenNamed(d.Name())
		if err != nil {
			t.Errorf("driver.OpenNamed(%q): %v", d.Name(), err)
			continue
		}
		if drv.Name() != d.Name() {
			t.Errorf("driver.OpenNamed(%q): returned driver named %q", d.Name(), drv.Name())
		}
		if gpu == nil {
			t.Errorf("driver.OpenNamed(%q): nil GPU", d.Name())
		}
	}
}
