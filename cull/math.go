// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package cull

import "github.com/chewxy/math32"

func tan(x float32) float32 { return math32.Tan(x) }
