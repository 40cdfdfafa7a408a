// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// M4f converts m to single precision.
func M4f(m mgl64.Mat4) (n mgl32.Mat4) {
	for i := range m {
		n[i] = float32(m[i])
	}
	return
}

// V3f converts v to single precision.
func V3f(v mgl64.Vec3) mgl32.Vec3 { return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])} }
