// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
//
// Transforms are column-major mgl64 matrices following
// OpenGL conventions: the camera looks down -Z and clip
// space depth lies in [-1, 1].
package linear

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Compose returns the matrix T ⋅ R ⋅ S.
func Compose(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	m := r.Mat4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i*4+j] *= s[i]
		}
	}
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// Decompose splits m into translation, rotation and scale
// such that Compose(Decompose(m)) reproduces m.
// m must be affine (bottom row [0 0 0 1]) with a non-singular
// upper 3x3 block. A reflection is folded into the sign of
// the X scale so that r is always a proper rotation.
func Decompose(m mgl64.Mat4) (t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) {
	t = Translation(m)
	var cols [3]mgl64.Vec3
	for i := range cols {
		cols[i] = m.Col(i).Vec3()
		s[i] = cols[i].Len()
	}
	if cols[0].Dot(cols[1].Cross(cols[2])) < 0 {
		s[0] = -s[0]
	}
	var rm mgl64.Mat4
	for i := range cols {
		rm.SetCol(i, cols[i].Mul(1/s[i]).Vec4(0))
	}
	rm[15] = 1
	r = mgl64.Mat4ToQuat(rm).Normalize()
	return
}

// Translation returns the translation part of m.
func Translation(m mgl64.Mat4) mgl64.Vec3 { return mgl64.Vec3{m[12], m[13], m[14]} }

// Forward returns the -Z axis of m, which is the direction
// a camera or light posed by m looks at.
func Forward(m mgl64.Mat4) mgl64.Vec3 { return mgl64.Vec3{-m[8], -m[9], -m[10]} }

// IsAffine reports whether the bottom row of m is [0 0 0 1].
func IsAffine(m mgl64.Mat4) bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// LinearizeDepth converts a window-space depth value d in
// [0, 1] into a positive view-space distance, given the
// near and far planes of a perspective projection.
// An infinite zfar selects the infinite-projection formula.
// The far clip (d == 1) maps to 0.
func LinearizeDepth(d float32, znear, zfar float64) float32 {
	if d == 1 {
		return 0
	}
	ndc := 2*float64(d) - 1
	if math.IsInf(zfar, 1) {
		return float32(2 * znear / (1 - ndc))
	}
	return float32(2 * znear * zfar / (zfar + znear - ndc*(zfar-znear)))
}
