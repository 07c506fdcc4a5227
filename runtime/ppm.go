// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package runtime

import (
	"bufio"
	"fmt"
	"os"
)

// WritePPM writes rgba (tightly packed RGBA8, w*h*4 bytes) to path
// as a binary (P6) PPM, dropping the alpha channel: PPM is the
// headless frame dump format, and P6 is the variant that needs no
// per-pixel text encoding.
func WritePPM(path string, rgba []byte, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("runtime: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", w, h)
	for i := 0; i+3 < len(rgba); i += 4 {
		bw.Write(rgba[i : i+3])
	}
	return bw.Flush()
}
