// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/gviegas/pbr/driver"
)

// SetFramebuf implements driver.GPU.
func (g *GPU) SetFramebuf(fb driver.Framebuf) { gl.BindFramebuffer(gl.FRAMEBUFFER, fbID(fb)) }

// SetViewport implements driver.GPU.
func (g *GPU) SetViewport(width, height int) { gl.Viewport(0, 0, int32(width), int32(height)) }

// Clear implements driver.GPU.
func (g *GPU) Clear(param *driver.ClearParam) {
	var mask uint32
	if param.ClearColor {
		c := param.Color
		gl.ClearColor(c[0], c[1], c[2], c[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if param.ClearDepth {
		gl.DepthMask(true)
		gl.ClearDepth(float64(param.Depth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func enable(cap uint32, on bool) {
	if on {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}

func blendFactor(f driver.BlendFactor) uint32 {
	switch f {
	case driver.BZero:
		return gl.ZERO
	case driver.BSrcAlpha:
		return gl.SRC_ALPHA
	case driver.BOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ONE
}

// SetState implements driver.GPU.
func (g *GPU) SetState(state *driver.State) {
	enable(gl.DEPTH_TEST, state.DepthTest)
	gl.DepthMask(state.DepthWrite)
	gl.DepthFunc(gl.LESS)
	gl.DepthRange(0, 1)
	enable(gl.CULL_FACE, state.Cull)
	gl.CullFace(gl.BACK)
	enable(gl.BLEND, state.Blend)
	gl.BlendFunc(blendFactor(state.SrcBlend), blendFactor(state.DstBlend))
	if state.Fill == driver.FillLine {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	enable(gl.PROGRAM_POINT_SIZE, state.ProgramPointSize)
	if state.PointSize > 0 {
		gl.PointSize(state.PointSize)
	}
}

// SetTexture implements driver.GPU.
func (g *GPU) SetTexture(unit int, t driver.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if t == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.(*texture).id)
}

// Draw implements driver.GPU.
func (g *GPU) Draw(va driver.VertexArray, instances int) {
	v := va.(*vertexArray)
	gl.BindVertexArray(v.vao)
	if v.indexed {
		gl.DrawElementsInstanced(v.mode, v.count, gl.UNSIGNED_INT, nil, int32(instances))
	} else {
		gl.DrawArraysInstanced(v.mode, 0, v.count, int32(instances))
	}
	gl.BindVertexArray(0)
}

// Blit implements driver.GPU.
func (g *GPU) Blit(src, dst driver.Framebuf, width, height int, mask driver.BlitMask) {
	w, h := int32(width), int32(height)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbID(src))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbID(dst))
	if mask&driver.BlitColor != 0 {
		gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	}
	if mask&driver.BlitDepth != 0 {
		gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.DEPTH_BUFFER_BIT, gl.NEAREST)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadColor implements driver.GPU.
func (g *GPU) ReadColor(fb driver.Framebuf, width, height int, rgba bool, dst []byte) error {
	format, n := uint32(gl.RGB), 3
	if rgba {
		format, n = gl.RGBA, 4
	}
	if len(dst) < width*height*n {
		return errors.New("gl: color readback buffer too small")
	}
	if width*height == 0 {
		return nil
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbID(fb))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), format, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}

// ReadDepth implements driver.GPU.
func (g *GPU) ReadDepth(fb driver.Framebuf, width, height int, dst []float32) error {
	if len(dst) < width*height {
		return errors.New("gl: depth readback buffer too small")
	}
	if width*height == 0 {
		return nil
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbID(fb))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(dst))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}
