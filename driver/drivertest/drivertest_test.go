// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package drivertest

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
)

var _ driver.GPU = (*GPU)(nil)

func TestResources(t *testing.T) {
	g := New(4, 4)
	p, err := g.NewProgram(&driver.ProgramSrc{Vertex: "v", Fragment: "f", Defines: map[string]string{"A": "1"}})
	require.NoError(t, err)
	tex, err := g.NewTexture(&driver.TexParam{Width: 2, Height: 2, Format: driver.RGBA, Pixels: make([]byte, 16)})
	require.NoError(t, err)
	_, err = g.NewTexture(&driver.TexParam{Width: 2, Height: 2, Format: driver.RGB, Pixels: make([]byte, 5)})
	require.Error(t, err)

	assert.Equal(t, 1, g.Live(KProgram))
	assert.Equal(t, 1, g.Live(KTexture))
	assert.Equal(t, 1, p.(*Program).ID())

	p.Destroy()
	p.Destroy()
	tex.Destroy()
	assert.Equal(t, 0, g.Live(KProgram))
	assert.Equal(t, 0, g.Live(KTexture))
	assert.Equal(t, 1, g.DoubleFree)

	// Handles are reused once released.
	p2, err := g.NewProgram(&driver.ProgramSrc{Vertex: "v", Fragment: "f"})
	require.NoError(t, err)
	assert.Equal(t, 1, p2.(*Program).ID())

	_, err = g.NewProgram(&driver.ProgramSrc{Vertex: "v"})
	assert.ErrorIs(t, err, driver.ErrCompile)
}

func TestUniform(t *testing.T) {
	g := New(1, 1)
	p, _ := g.NewProgram(&driver.ProgramSrc{Vertex: "v", Fragment: "f"})
	assert.Error(t, p.SetUniform("M", mgl32.Ident4()), "unbound program")
	p.Bind()
	assert.NoError(t, p.SetUniform("M", mgl32.Ident4()))
	assert.ErrorIs(t, p.SetUniform("x", 1.5), driver.ErrUniform)
	assert.Equal(t, mgl32.Ident4(), p.(*Program).Uniforms["M"])
}

func TestRasterize(t *testing.T) {
	g := New(8, 8)
	p, _ := g.NewProgram(&driver.ProgramSrc{Vertex: "v", Fragment: "f"})
	va, err := g.NewVertexArray(&driver.VertexArrayParam{
		Mode:        gltf.TRIANGLES,
		VertexCount: 3,
		Attribs: []driver.VertexAttrib{{
			Location: 0,
			Size:     3,
			Data:     []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0},
		}},
		Instances: []mgl32.Mat4{mgl32.Ident4()},
	})
	require.NoError(t, err)

	g.SetFramebuf(nil)
	g.Clear(&driver.ClearParam{Color: [4]float32{0, 0, 0, 1}, Depth: 1, ClearColor: true, ClearDepth: true})
	g.SetState(&driver.State{DepthTest: true, DepthWrite: true, Cull: true})
	p.Bind()
	require.NoError(t, p.SetUniform("material.base_color_factor", mgl32.Vec4{1, 0, 0, 1}))
	g.Draw(va, 1)

	require.Len(t, g.Draws, 1)
	fb := g.Default()
	// Lower-left pixel is covered, upper-right is not.
	assert.Equal(t, []byte{255, 0, 0, 255}, fb.Color[0:4])
	assert.InDelta(t, 0.5, fb.Depth[0], 1e-6)
	last := (8*8 - 1) * 4
	assert.Equal(t, []byte{0, 0, 0, 255}, fb.Color[last:last+4])
	assert.Equal(t, float32(1), fb.Depth[8*8-1])

	// Clockwise winding is culled.
	g.Clear(&driver.ClearParam{Depth: 1, ClearDepth: true})
	p.SetUniform("M", mgl32.Scale3D(-1, 1, 1))
	g.Draw(va, 1)
	assert.Equal(t, float32(1), fb.Depth[0])

	rgb := make([]byte, 8*8*3)
	require.NoError(t, g.ReadColor(nil, 8, 8, false, rgb))
	assert.Equal(t, []byte{255, 0, 0}, rgb[0:3])
	depth := make([]float32, 64)
	require.NoError(t, g.ReadDepth(nil, 8, 8, depth))
	assert.Equal(t, float32(1), depth[0])
}

func TestShadowTarget(t *testing.T) {
	g := New(1, 1)
	tex, _ := g.NewTexture(&driver.TexParam{Width: 4, Height: 4, Format: driver.Depth, Float: true})
	fb, err := g.NewFramebuf(&driver.FramebufParam{Depth: tex})
	require.NoError(t, err)
	w, h := fb.Size()
	assert.Equal(t, [2]int{4, 4}, [2]int{w, h})
	g.SetFramebuf(fb)
	g.Clear(&driver.ClearParam{Depth: 0.25, ClearDepth: true})
	assert.Equal(t, float32(0.25), tex.(*Texture).Depth[5])

	color, _ := g.NewTexture(&driver.TexParam{Width: 4, Height: 4, Format: driver.RGBA})
	_, err = g.NewFramebuf(&driver.FramebufParam{Depth: color})
	assert.ErrorIs(t, err, driver.ErrFramebuf)
}
