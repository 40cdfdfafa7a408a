// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding box.
// The zero Box is the degenerate box at the origin.
type Box struct {
	Min, Max mgl64.Vec3
}

// BoxOf returns the smallest Box containing points.
// It returns the zero Box if points is empty.
func BoxOf(points []mgl32.Vec3) (b Box) {
	if len(points) == 0 {
		return
	}
	for i := range b.Min {
		b.Min[i] = math.Inf(1)
		b.Max[i] = math.Inf(-1)
	}
	for _, p := range points {
		for i := range p {
			b.Min[i] = math.Min(b.Min[i], float64(p[i]))
			b.Max[i] = math.Max(b.Max[i], float64(p[i]))
		}
	}
	return
}

// Union returns the smallest Box containing every box.
// It returns the zero Box if boxes is empty.
func Union(boxes ...Box) (b Box) {
	if len(boxes) == 0 {
		return
	}
	b = boxes[0]
	for _, c := range boxes[1:] {
		for i := range b.Min {
			b.Min[i] = math.Min(b.Min[i], c.Min[i])
			b.Max[i] = math.Max(b.Max[i], c.Max[i])
		}
	}
	return
}

// Corners returns the eight corners of b.
func (b Box) Corners() (c [8]mgl64.Vec3) {
	for i := range c {
		for j := 0; j < 3; j++ {
			if i&(1<<j) == 0 {
				c[i][j] = b.Min[j]
			} else {
				c[i][j] = b.Max[j]
			}
		}
	}
	return
}

// Transform returns the axis-aligned Box enclosing b's
// corners after transformation by m.
func (b Box) Transform(m mgl64.Mat4) (t Box) {
	c := b.Corners()
	for i := range c {
		p := m.Mul4x1(c[i].Vec4(1)).Vec3()
		if i == 0 {
			t.Min, t.Max = p, p
			continue
		}
		for j := range p {
			t.Min[j] = math.Min(t.Min[j], p[j])
			t.Max[j] = math.Max(t.Max[j], p[j])
		}
	}
	return
}

// Centroid returns the center of b.
func (b Box) Centroid() mgl64.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Extents returns the size of b along each axis.
func (b Box) Extents() mgl64.Vec3 { return b.Max.Sub(b.Min) }

// Scale returns the length of b's diagonal.
func (b Box) Scale() float64 { return b.Extents().Len() }
