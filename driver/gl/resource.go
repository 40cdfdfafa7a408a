// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
)

// vertexArray implements driver.VertexArray.
type vertexArray struct {
	vao     uint32
	bufs    []uint32
	mode    uint32
	count   int32
	indexed bool
}

// NewVertexArray implements driver.GPU.
func (g *GPU) NewVertexArray(param *driver.VertexArrayParam) (driver.VertexArray, error) {
	if err := param.Mode.Check(); err != nil {
		return nil, err
	}
	if len(param.Instances) == 0 {
		return nil, errors.New("gl: vertex array without instances")
	}
	va := &vertexArray{
		// glTF modes share their values with GL.
		mode:  uint32(param.Mode),
		count: int32(param.VertexCount),
	}
	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)
	for _, a := range param.Attribs {
		if len(a.Data) == 0 {
			continue
		}
		va.newBuffer(gl.ARRAY_BUFFER, len(a.Data)*4, gl.Ptr(a.Data))
		loc := uint32(a.Location)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(a.Size), gl.FLOAT, false, 0, nil)
	}

	inst := make([]float32, 0, 16*len(param.Instances))
	for i := range param.Instances {
		inst = append(inst, param.Instances[i][:]...)
	}
	va.newBuffer(gl.ARRAY_BUFFER, len(inst)*4, gl.Ptr(inst))
	for i := 0; i < 4; i++ {
		loc := uint32(param.InstanceLoc + i)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, 64, gl.PtrOffset(16*i))
		gl.VertexAttribDivisor(loc, 1)
	}

	if len(param.Indices) > 0 {
		va.newBuffer(gl.ELEMENT_ARRAY_BUFFER, len(param.Indices)*4, gl.Ptr(param.Indices))
		va.count = int32(len(param.Indices))
		va.indexed = true
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return va, nil
}

func (va *vertexArray) newBuffer(target uint32, size int, data unsafe.Pointer) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(target, buf)
	gl.BufferData(target, size, data, gl.STATIC_DRAW)
	va.bufs = append(va.bufs, buf)
}

// Destroy implements driver.Destroyer.
func (va *vertexArray) Destroy() {
	if va.vao == 0 {
		return
	}
	if len(va.bufs) > 0 {
		gl.DeleteBuffers(int32(len(va.bufs)), &va.bufs[0])
	}
	gl.DeleteVertexArrays(1, &va.vao)
	*va = vertexArray{}
}

// texture implements driver.Texture.
type texture struct {
	id   uint32
	w, h int
}

func texFormat(f driver.PixelFmt, float bool) (internal int32, format uint32) {
	switch f {
	case driver.Depth:
		if float {
			return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT
		}
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT
	case driver.R:
		if float {
			return gl.R32F, gl.RED
		}
		return gl.R8, gl.RED
	case driver.RG:
		if float {
			return gl.RG32F, gl.RG
		}
		return gl.RG8, gl.RG
	case driver.RGB:
		if float {
			return gl.RGB32F, gl.RGB
		}
		return gl.RGB8, gl.RGB
	default:
		if float {
			return gl.RGBA32F, gl.RGBA
		}
		return gl.RGBA8, gl.RGBA
	}
}

func filterOf(f gltf.Filter) int32 {
	if f == 0 {
		return gl.NEAREST
	}
	return int32(f)
}

func wrapOf(w gltf.Wrap) int32 {
	if w == 0 {
		return gl.REPEAT
	}
	return int32(w)
}

// NewTexture implements driver.GPU.
func (g *GPU) NewTexture(param *driver.TexParam) (driver.Texture, error) {
	if param.Width < 1 || param.Height < 1 {
		return nil, errors.New("gl: invalid texture size")
	}
	internal, format := texFormat(param.Format, param.Float)
	var (
		xtype uint32 = gl.UNSIGNED_BYTE
		data  unsafe.Pointer
	)
	if param.Float {
		xtype = gl.FLOAT
		if len(param.Floats) > 0 {
			data = gl.Ptr(param.Floats)
		}
	} else if len(param.Pixels) > 0 {
		data = gl.Ptr(param.Pixels)
	}
	t := &texture{w: param.Width, h: param.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(t.w), int32(t.h), 0, format, xtype, data)
	if param.Mipmap && data != nil {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterOf(param.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterOf(param.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapOf(param.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapOf(param.WrapT))
	border := param.Border
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// Size implements driver.Texture.
func (t *texture) Size() (int, int) { return t.w, t.h }

// Destroy implements driver.Destroyer.
func (t *texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// framebuf implements driver.Framebuf.
type framebuf struct {
	id  uint32
	rbs [2]uint32
	w   int
	h   int
}

// NewFramebuf implements driver.GPU.
func (g *GPU) NewFramebuf(param *driver.FramebufParam) (driver.Framebuf, error) {
	fb := &framebuf{}
	gl.GenFramebuffers(1, &fb.id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.id)
	if param.Depth != nil {
		t := param.Depth.(*texture)
		fb.w, fb.h = t.w, t.h
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.id, 0)
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	} else {
		fb.w, fb.h = param.Width, param.Height
		w, h := int32(fb.w), int32(fb.h)
		gl.GenRenderbuffers(2, &fb.rbs[0])
		for i, f := range [2]uint32{gl.RGBA8, gl.DEPTH_COMPONENT24} {
			gl.BindRenderbuffer(gl.RENDERBUFFER, fb.rbs[i])
			if param.Samples > 1 {
				gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, int32(param.Samples), f, w, h)
			} else {
				gl.RenderbufferStorage(gl.RENDERBUFFER, f, w, h)
			}
		}
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, fb.rbs[0])
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.rbs[1])
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return nil, errors.Wrapf(driver.ErrFramebuf, "status 0x%x", status)
	}
	return fb, nil
}

// Size implements driver.Framebuf.
func (fb *framebuf) Size() (int, int) { return fb.w, fb.h }

// Destroy implements driver.Destroyer.
func (fb *framebuf) Destroy() {
	if fb.id == 0 {
		return
	}
	gl.DeleteFramebuffers(1, &fb.id)
	if fb.rbs[0] != 0 {
		gl.DeleteRenderbuffers(2, &fb.rbs[0])
	}
	*fb = framebuf{}
}

func fbID(fb driver.Framebuf) uint32 {
	if fb == nil {
		return 0
	}
	return fb.(*framebuf).id
}
