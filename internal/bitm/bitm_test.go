// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package bitm

import "testing"

func TestZero(t *testing.T) {
	var bitm16 Bitm[uint16]
	if n := bitm16.Len(); n != 0 {
		t.Fatalf("bitm16.Len:\nhave %d\nwant 0", n)
	}
	if n := bitm16.Rem(); n != 0 {
		t.Fatalf("bitm16.Rem:\nhave %d\nwant 0", n)
	}
}

func TestGrow(t *testing.T) {
	var bitm32 Bitm[uint32]
	for _, x := range [...]struct {
		nplus, wantLen int
	}{
		{1, 32},
		{2, 96},
		{3, 192},
		{0, 192},
		{16, 704},
		{17, 1248},
		{32, 2272},
		{99, 5440},
	} {
		bitm32.Grow(x.nplus)
		if n := bitm32.Len(); n != x.wantLen {
			t.Fatalf("bitm32.Grow: Len:\nhave %d\nwant %d", n, x.wantLen)
		}
		if n := bitm32.Rem(); n != x.wantLen {
			t.Fatalf("bitm32.Grow: Rem:\nhave %d\nwant %d", n, x.wantLen)
		}
		for i := 0; i < bitm32.Len(); i++ {
			if bitm32.IsSet(i) {
				t.Fatalf("bitm32.IsSet(%d) after Grow:\nhave true\nwant false", i)
			}
		}
	}
}

// checkBits checks that exactly the indices in set report IsSet.
func checkBits[T Uint](m *Bitm[T], set []int, t *testing.T) {
	isSet := make(map[int]bool, len(set))
	for _, i := range set {
		isSet[i] = true
	}
	for i := 0; i < m.Len(); i++ {
		want := isSet[i]
		if got := m.IsSet(i); got != want {
			t.Fatalf("m.IsSet(%d):\nhave %t\nwant %t", i, got, want)
		}
	}
}

// checkRem checks that m.Rem() matches the number of unset bits.
func checkRem[T Uint](m *Bitm[T], t *testing.T) {
	want := m.Len()
	for i := 0; i < m.Len(); i++ {
		if m.IsSet(i) {
			want--
		}
	}
	if r := m.Rem(); r != want {
		t.Fatalf("m.Rem:\nhave %d\nwant %d", r, want)
	}
}

func TestSetUnset(t *testing.T) {
	var bitm8 Bitm[uint8]
	bitm8.Grow(1)
	bitm8.Set(6)
	checkBits(&bitm8, []int{6}, t)
	bitm8.Set(1)
	checkBits(&bitm8, []int{1, 6}, t)
	checkRem(&bitm8, t)
	bitm8.Unset(6)
	checkBits(&bitm8, []int{1}, t)
	checkRem(&bitm8, t)
	bitm8.Set(6)
	checkBits(&bitm8, []int{1, 6}, t)
	bitm8.Grow(2)
	checkBits(&bitm8, []int{1, 6}, t)
	bitm8.Set(10)
	checkBits(&bitm8, []int{1, 6, 10}, t)
	bitm8.Unset(1)
	checkBits(&bitm8, []int{6, 10}, t)
	bitm8.Set(21)
	checkBits(&bitm8, []int{6, 10, 21}, t)
	bitm8.Set(21)
	bitm8.Unset(23)
	bitm8.Unset(0)
	checkBits(&bitm8, []int{6, 10, 21}, t)
	checkRem(&bitm8, t)
	bitm8.Set(4)
	bitm8.Set(14)
	bitm8.Set(16)
	checkBits(&bitm8, []int{4, 6, 10, 14, 16, 21}, t)
	for i := 0; i < bitm8.Len(); i++ {
		if i&3 == 0 {
			bitm8.Set(i)
		} else {
			bitm8.Unset(i)
		}
	}
	var wantSet []int
	for i := 0; i < bitm8.Len(); i += 4 {
		wantSet = append(wantSet, i)
	}
	checkBits(&bitm8, wantSet, t)
	checkRem(&bitm8, t)
}

func TestIsSet(t *testing.T) {
	var bitm64 Bitm[uint64]
	bitm64.Grow(2)
	checkUnset := func(start, end int) {
		for i := start; i < end; i++ {
			if bitm64.IsSet(i) {
				t.Fatalf("bitm64.isSet: %d:\nhave true\nwant false", i)
			}
		}
	}
	checkSet := func(start, end int) {
		for i := start; i < end; i++ {
			if !bitm64.IsSet(i) {
				t.Fatalf("bitm64.isSet: %d:\nhave false\nwant true", i)
			}
		}
	}
	checkUnset(0, bitm64.Len())
	bitm64.Set(0)
	checkSet(0, 1)
	checkUnset(1, bitm64.Len())
	bitm64.Set(1)
	checkSet(0, 2)
	bitm64.Unset(0)
	checkUnset(0, 1)
	checkSet(1, 2)
	bitm64.Set(bitm64.Len() - 1)
	checkSet(bitm64.Len()-1, bitm64.Len())
	for i := 0; i < bitm64.Len(); i++ {
		bitm64.Unset(i)
	}
	checkUnset(0, bitm64.Len())
	for i := 0; i < bitm64.Len(); i++ {
		bitm64.Set(i)
	}
	checkSet(0, bitm64.Len())
}

// checkSearch calls m.Search and checks the expected result.
// If want < 0, then Search must fail.
func checkSearch[T Uint](m *Bitm[T], want int, t *testing.T) {
	index, ok := m.Search()
	if want < 0 {
		if ok {
			t.Fatalf("m.Search: \nhave %d, true\nwant _, false", index)
		}
	} else {
		if !ok {
			t.Fatalf("m.Search: \nhave _, false\nwant %d, true", want)
		}
		if index != want {
			t.Fatalf("m.Search: index:\nhave %d\nwant %d", index, want)
		}
	}
}

func TestSearch(t *testing.T) {
	var bitm32 Bitm[uint32]
	checkSearch(&bitm32, -1, t)
	bitm32.Grow(12)
	checkSearch(&bitm32, 0, t)
	bitm32.Set(0)
	checkSearch(&bitm32, 1, t)
	bitm32.Set(1)
	checkSearch(&bitm32, 2, t)
	bitm32.Set(3)
	checkSearch(&bitm32, 2, t)
	bitm32.Unset(1)
	checkSearch(&bitm32, 1, t)
	bitm32.Unset(0)
	checkSearch(&bitm32, 0, t)
	for i := 0; i < 64; i++ {
		bitm32.Set(i)
	}
	checkSearch(&bitm32, 64, t)
	for i := 64; i < bitm32.Len(); i++ {
		bitm32.Set(i)
	}
	checkSearch(&bitm32, -1, t)
	bitm32.Unset(120)
	checkSearch(&bitm32, 120, t)
}

// checkSearchRange calls m.SearchRange and checks the expected result.
// If want < 0, then SearchRange must fail.
func checkSearchRange[T Uint](m *Bitm[T], n, want int, t *testing.T) {
	index, ok := m.SearchRange(n)
	if want < 0 {
		if ok {
			t.Fatalf("m.SearchRange: \nhave %d, true\nwant _, false", index)
		}
	} else {
		if !ok {
			t.Fatalf("m.SearchRange: \nhave _, false\nwant %d, true", want)
		}
		if index != want {
			t.Fatalf("m.SearchRange: index:\nhave %d\nwant %d", index, want)
		}
	}
}

func TestSearchRange(t *testing.T) {
	var bitm16 Bitm[uint16]
	setRange := func(start, end int) {
		for i := start; i < end; i++ {
			bitm16.Set(i)
		}
	}
	checkSearchRange(&bitm16, 3, -1, t)
	bitm16.Grow(4)
	checkSearchRange(&bitm16, 3, 0, t)
	setRange(0, 3)
	checkSearchRange(&bitm16, 3, 3, t)
	setRange(3, 6)
	checkSearchRange(&bitm16, 3, 6, t)
	setRange(6, 9)
	checkSearchRange(&bitm16, 1, 9, t)
	bitm16.Set(9)
	checkSearchRange(&bitm16, 2, 10, t)
	setRange(10, 12)
	bitm16.Unset(1)
	checkSearchRange(&bitm16, 2, 12, t)
	checkSearchRange(&bitm16, 1, 1, t)
	bitm16.Unset(2)
	checkSearchRange(&bitm16, 2, 1, t)
	checkSearchRange(&bitm16, 1, 1, t)
	checkSearchRange(&bitm16, 6, 12, t)
	setRange(12, 18)
	checkSearchRange(&bitm16, 13, 18, t)
	setRange(19, 32)
	bitm16.Set(35)
	bitm16.Set(46)
	checkSearchRange(&bitm16, 4, 36, t)
	checkSearchRange(&bitm16, 3, 32, t)
	checkSearchRange(&bitm16, 10, 36, t)
	checkSearchRange(&bitm16, 11, 47, t)
	checkSearchRange(&bitm16, 20, -1, t)
	bitm16.Grow(1)
	checkSearchRange(&bitm16, 20, 47, t)
	checkSearchRange(&bitm16, 31, 47, t)
	checkSearchRange(&bitm16, 33, 47, t)
	checkSearchRange(&bitm16, 34, -1, t)
	bitm16.Set(76)
	checkSearchRange(&bitm16, 20, 47, t)
	checkSearchRange(&bitm16, 31, -1, t)
	checkSearchRange(&bitm16, 33, -1, t)
	checkSearchRange(&bitm16, 34, -1, t)
	bitm16.Grow(5)
	checkSearchRange(&bitm16, 80, 77, t)
	bitm16.Set(79)
	checkSearchRange(&bitm16, 80, 80, t)
	bitm16.Set(80)
	checkSearchRange(&bitm16, 80, -1, t)
	checkSearchRange(&bitm16, 79, 81, t)
}

func TestClear(t *testing.T) {
	var bitmu Bitm[uint]
	checkClear := func() {
		if bitmu.Len() != bitmu.Rem() {
			t.Fatal("bitmu.Clear: Len == Rem\nhave false\nwant true")
		}
		for i := 0; i < bitmu.Len(); i++ {
			if bitmu.IsSet(i) {
				t.Fatalf("bitmu.Clear: bit %d\nhave set\nwant unset", i)
			}
		}
	}
	checkClear()
	bitmu.Grow(1)
	checkClear()
	for i := 0; i < bitmu.Len(); i++ {
		bitmu.Set(i)
	}
	bitmu.Clear()
	checkClear()
	bitmu.Grow(9)
	checkClear()
	for i := 0; i < bitmu.Len(); i++ {
		bitmu.Set(i)
	}
	bitmu.Clear()
	checkClear()
	for i := 32; i < bitmu.Len(); i += 3 {
		bitmu.Set(i)
	}
	bitmu.Clear()
	checkClear()
	for i := 32; i < bitmu.Len()-32; i++ {
		bitmu.Set(i)
	}
	bitmu.Clear()
	checkClear()
}
