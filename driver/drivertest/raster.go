// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package drivertest

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// uniformMat4 returns the named matrix uniform of d, or
// the identity if it is not set.
func uniformMat4(d *Draw, name string) mgl32.Mat4 {
	if m, ok := d.Uniforms[name].(mgl32.Mat4); ok {
		return m
	}
	return mgl32.Ident4()
}

// fragColor picks the flat color written by a draw.
// Segmentation draws use "color", material draws use the
// base color or diffuse factor, anything else is white.
func fragColor(d *Draw) [4]byte {
	var c mgl32.Vec4
	switch {
	case d.Uniforms["color"] != nil:
		v, _ := d.Uniforms["color"].(mgl32.Vec3)
		c = v.Vec4(1)
	case d.Uniforms["material.base_color_factor"] != nil:
		c, _ = d.Uniforms["material.base_color_factor"].(mgl32.Vec4)
	case d.Uniforms["material.diffuse_factor"] != nil:
		c, _ = d.Uniforms["material.diffuse_factor"].(mgl32.Vec4)
	default:
		c = mgl32.Vec4{1, 1, 1, 1}
	}
	return [4]byte{unorm(c[0]), unorm(c[1]), unorm(c[2]), unorm(c[3])}
}

// rasterize draws the triangles of v into d.Target.
// Vertices are transformed by P ⋅ V ⋅ M ⋅ instance. Triangles
// with any vertex behind the eye are dropped rather than
// clipped. Fragments are flat-shaded.
func (g *GPU) rasterize(v *VertexArray, instances int, d *Draw) {
	fb := d.Target
	if len(v.Positions) == 0 || fb.W == 0 || fb.H == 0 {
		return
	}
	pvm := uniformMat4(d, "P").Mul4(uniformMat4(d, "V")).Mul4(uniformMat4(d, "M"))
	color := fragColor(d)
	vertex := func(i int) mgl32.Vec3 {
		return mgl32.Vec3{v.Positions[3*i], v.Positions[3*i+1], v.Positions[3*i+2]}
	}
	n := v.Count
	if len(v.Indices) > 0 {
		n = len(v.Indices)
	}
	index := func(i int) int {
		if len(v.Indices) > 0 {
			return int(v.Indices[i])
		}
		return i
	}
	if instances > len(v.Instances) {
		instances = len(v.Instances)
	}
	for k := 0; k < instances; k++ {
		m := pvm.Mul4(v.Instances[k])
		for i := 0; i+2 < n; i += 3 {
			var win [3]mgl32.Vec3
			ok := true
			for j := range win {
				c := m.Mul4x1(vertex(index(i + j)).Vec4(1))
				if c[3] <= 1e-6 {
					ok = false
					break
				}
				ndc := c.Vec3().Mul(1 / c[3])
				win[j] = mgl32.Vec3{
					(ndc[0] + 1) / 2 * float32(fb.W),
					(ndc[1] + 1) / 2 * float32(fb.H),
					ndc[2]*0.5 + 0.5,
				}
			}
			if ok {
				g.fillTriangle(fb, win, color, d)
			}
		}
	}
}

func edge(a, b mgl32.Vec3, x, y float32) float32 {
	return (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
}

func (g *GPU) fillTriangle(fb *Framebuf, w [3]mgl32.Vec3, color [4]byte, d *Draw) {
	area := edge(w[0], w[1], w[2][0], w[2][1])
	if area == 0 || (d.State.Cull && area < 0) {
		return
	}
	minX := int(math.Floor(float64(min(w[0][0], w[1][0], w[2][0]))))
	maxX := int(math.Ceil(float64(max(w[0][0], w[1][0], w[2][0]))))
	minY := int(math.Floor(float64(min(w[0][1], w[1][1], w[2][1]))))
	maxY := int(math.Ceil(float64(max(w[0][1], w[1][1], w[2][1]))))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, fb.W-1), min(maxY, fb.H-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			b0 := edge(w[1], w[2], px, py) / area
			b1 := edge(w[2], w[0], px, py) / area
			b2 := edge(w[0], w[1], px, py) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			z := b0*w[0][2] + b1*w[1][2] + b2*w[2][2]
			if z < 0 || z > 1 {
				continue
			}
			i := y*fb.W + x
			if d.State.DepthTest && z >= fb.Depth[i] {
				continue
			}
			if d.State.DepthTest && d.State.DepthWrite {
				fb.Depth[i] = z
			}
			if fb.Color != nil {
				copy(fb.Color[i*4:i*4+4], color[:])
			}
		}
	}
}
