// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package drivertest provides a driver.GPU that records
// every command it receives and rasterizes triangles into
// software framebuffers, for testing code that renders
// through the driver package.
package drivertest

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
	"github.com/gviegas/pbr/internal/bitvec"
)

// Kind identifies a type of driver resource.
type Kind int

// Resource kinds.
const (
	KProgram Kind = iota
	KVertexArray
	KTexture
	KFramebuf
	kindCount
)

// Driver implements driver.Driver.
// It is not registered automatically.
type Driver struct {
	gpu *GPU
}

// Open returns a GPU with a 640x480 default framebuffer.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu == nil {
		d.gpu = New(640, 480)
		d.gpu.drv = d
	}
	return d.gpu, nil
}

// Name returns "drivertest".
func (d *Driver) Name() string { return "drivertest" }

// Close discards the GPU.
func (d *Driver) Close() { d.gpu = nil }

// Draw records a single draw command.
type Draw struct {
	Program   *Program
	Mode      gltf.Mode
	Instances int
	State     driver.State
	Target    *Framebuf
	// Snapshot of the program's uniforms at draw time.
	Uniforms map[string]any
	// Snapshot of the bound texture units at draw time.
	Textures map[int]*Texture
}

// GPU implements driver.GPU.
type GPU struct {
	drv    *Driver
	limits driver.Limits
	ids    bitvec.V[uint32]

	created   [kindCount]int
	destroyed [kindCount]int
	// DoubleFree counts Destroy calls on resources that
	// were already destroyed.
	DoubleFree int

	// CompileErr, if set, is called for every NewProgram
	// and its error is returned.
	CompileErr func(src *driver.ProgramSrc) error

	Draws  []Draw
	Clears []driver.ClearParam
	Blits  int

	state    driver.State
	target   *Framebuf
	def      *Framebuf
	program  *Program
	units    map[int]*Texture
	viewport [2]int
}

// New creates a GPU whose default framebuffer has the
// given dimensions.
func New(width, height int) *GPU {
	g := &GPU{
		limits: driver.Limits{MaxTexUnits: 16},
		units:  make(map[int]*Texture),
	}
	g.def = newFramebuf(width, height, 1)
	return g
}

// SetMaxTexUnits changes the reported texture unit limit.
func (g *GPU) SetMaxTexUnits(n int) { g.limits.MaxTexUnits = n }

// Created returns how many resources of kind k were created.
func (g *GPU) Created(k Kind) int { return g.created[k] }

// Destroyed returns how many resources of kind k were
// destroyed.
func (g *GPU) Destroyed(k Kind) int { return g.destroyed[k] }

// Live returns how many resources of kind k exist.
func (g *GPU) Live(k Kind) int { return g.created[k] - g.destroyed[k] }

// Default returns the default framebuffer.
func (g *GPU) Default() *Framebuf { return g.def }

// Viewport returns the last viewport set.
func (g *GPU) Viewport() (width, height int) { return g.viewport[0], g.viewport[1] }

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// Limits implements driver.GPU.
func (g *GPU) Limits() driver.Limits { return g.limits }

func (g *GPU) alloc(k Kind) int {
	g.created[k]++
	return g.ids.Alloc() + 1
}

func (g *GPU) free(k Kind, id *int) {
	if *id == 0 {
		g.DoubleFree++
		return
	}
	g.destroyed[k]++
	g.ids.Unset(*id - 1)
	*id = 0
}

// Program implements driver.Program.
type Program struct {
	g        *GPU
	id       int
	Src      driver.ProgramSrc
	Uniforms map[string]any
}

// NewProgram implements driver.GPU.
func (g *GPU) NewProgram(src *driver.ProgramSrc) (driver.Program, error) {
	if g.CompileErr != nil {
		if err := g.CompileErr(src); err != nil {
			return nil, err
		}
	}
	if src.Vertex == "" || src.Fragment == "" {
		return nil, errors.Wrap(driver.ErrCompile, "drivertest: missing stage")
	}
	defines := make(map[string]string, len(src.Defines))
	for k, v := range src.Defines {
		defines[k] = v
	}
	p := &Program{g: g, id: g.alloc(KProgram), Src: *src, Uniforms: make(map[string]any)}
	p.Src.Defines = defines
	return p, nil
}

// ID returns the handle of p, which is zero once p is
// destroyed.
func (p *Program) ID() int { return p.id }

// Bind implements driver.Program.
func (p *Program) Bind() { p.g.program = p }

// SetUniform implements driver.Program.
func (p *Program) SetUniform(name string, value any) error {
	switch value.(type) {
	case int, bool, float32, mgl32.Vec2, mgl32.Vec3, mgl32.Vec4, mgl32.Mat4:
	default:
		return errors.Wrapf(driver.ErrUniform, "%s: %T", name, value)
	}
	if p.g.program != p {
		return errors.Errorf("drivertest: SetUniform(%s) on unbound program", name)
	}
	p.Uniforms[name] = value
	return nil
}

// Destroy implements driver.Destroyer.
func (p *Program) Destroy() {
	if p.g.program == p {
		p.g.program = nil
	}
	p.g.free(KProgram, &p.id)
}

// VertexArray implements driver.VertexArray.
type VertexArray struct {
	g         *GPU
	id        int
	Mode      gltf.Mode
	Count     int
	Positions []float32
	Indices   []uint32
	Instances []mgl32.Mat4
	Locations []int
}

// NewVertexArray implements driver.GPU.
func (g *GPU) NewVertexArray(param *driver.VertexArrayParam) (driver.VertexArray, error) {
	if err := param.Mode.Check(); err != nil {
		return nil, err
	}
	if len(param.Instances) == 0 {
		return nil, errors.New("drivertest: vertex array without instances")
	}
	va := &VertexArray{
		g:         g,
		Mode:      param.Mode,
		Count:     param.VertexCount,
		Indices:   append([]uint32(nil), param.Indices...),
		Instances: append([]mgl32.Mat4(nil), param.Instances...),
	}
	for _, a := range param.Attribs {
		if len(a.Data) != a.Size*param.VertexCount {
			return nil, errors.Errorf("drivertest: attribute %d has %d floats, want %d", a.Location, len(a.Data), a.Size*param.VertexCount)
		}
		if a.Location == 0 {
			va.Positions = append([]float32(nil), a.Data...)
		}
		va.Locations = append(va.Locations, a.Location)
	}
	va.id = g.alloc(KVertexArray)
	return va, nil
}

// Destroy implements driver.Destroyer.
func (va *VertexArray) Destroy() { va.g.free(KVertexArray, &va.id) }

// Texture implements driver.Texture.
type Texture struct {
	g     *GPU
	id    int
	Param driver.TexParam
	// Depth texels, for depth textures used as framebuffer
	// attachments.
	Depth []float32
}

// NewTexture implements driver.GPU.
func (g *GPU) NewTexture(param *driver.TexParam) (driver.Texture, error) {
	if param.Width < 1 || param.Height < 1 {
		return nil, errors.New("drivertest: invalid texture size")
	}
	n := param.Width * param.Height * param.Format.Channels()
	if param.Float && len(param.Floats) != 0 && len(param.Floats) != n {
		return nil, errors.Errorf("drivertest: %d texels, want %d", len(param.Floats), n)
	}
	if !param.Float && len(param.Pixels) != 0 && len(param.Pixels) != n {
		return nil, errors.Errorf("drivertest: %d texels, want %d", len(param.Pixels), n)
	}
	t := &Texture{g: g, Param: *param}
	t.Param.Pixels = nil
	t.Param.Floats = nil
	if param.Format == driver.Depth {
		t.Depth = make([]float32, param.Width*param.Height)
		for i := range t.Depth {
			t.Depth[i] = 1
		}
	}
	t.id = g.alloc(KTexture)
	return t, nil
}

// Size implements driver.Texture.
func (t *Texture) Size() (int, int) { return t.Param.Width, t.Param.Height }

// Destroy implements driver.Destroyer.
func (t *Texture) Destroy() { t.g.free(KTexture, &t.id) }

// Framebuf implements driver.Framebuf.
type Framebuf struct {
	g       *GPU
	id      int
	W, H    int
	Samples int
	// RGBA texels, bottom row first. Nil for depth-only
	// framebuffers.
	Color []byte
	Depth []float32
	// Depth attachment of depth-only framebuffers.
	DepthTex *Texture
}

func newFramebuf(width, height, samples int) *Framebuf {
	fb := &Framebuf{
		W:       width,
		H:       height,
		Samples: samples,
		Color:   make([]byte, width*height*4),
		Depth:   make([]float32, width*height),
	}
	for i := range fb.Depth {
		fb.Depth[i] = 1
	}
	return fb
}

// NewFramebuf implements driver.GPU.
func (g *GPU) NewFramebuf(param *driver.FramebufParam) (driver.Framebuf, error) {
	var fb *Framebuf
	if param.Depth != nil {
		t := param.Depth.(*Texture)
		if t.Param.Format != driver.Depth {
			return nil, errors.Wrap(driver.ErrFramebuf, "drivertest: non-depth attachment")
		}
		fb = &Framebuf{W: t.Param.Width, H: t.Param.Height, Samples: 1, Depth: t.Depth, DepthTex: t}
	} else {
		if param.Width < 1 || param.Height < 1 {
			return nil, errors.Wrap(driver.ErrFramebuf, "drivertest: invalid size")
		}
		fb = newFramebuf(param.Width, param.Height, param.Samples)
	}
	fb.g = g
	fb.id = g.alloc(KFramebuf)
	return fb, nil
}

// Size implements driver.Framebuf.
func (fb *Framebuf) Size() (int, int) { return fb.W, fb.H }

// Destroy implements driver.Destroyer.
func (fb *Framebuf) Destroy() {
	if fb.g.target == fb {
		fb.g.target = nil
	}
	fb.g.free(KFramebuf, &fb.id)
}

func (g *GPU) framebuf(fb driver.Framebuf) *Framebuf {
	if fb == nil {
		return g.def
	}
	return fb.(*Framebuf)
}

// SetFramebuf implements driver.GPU.
func (g *GPU) SetFramebuf(fb driver.Framebuf) { g.target = g.framebuf(fb) }

// SetViewport implements driver.GPU.
func (g *GPU) SetViewport(width, height int) { g.viewport = [2]int{width, height} }

// Clear implements driver.GPU.
func (g *GPU) Clear(param *driver.ClearParam) {
	g.Clears = append(g.Clears, *param)
	fb := g.target
	if fb == nil {
		fb = g.def
	}
	if param.ClearColor && fb.Color != nil {
		var c [4]byte
		for i := range c {
			c[i] = unorm(param.Color[i])
		}
		for i := 0; i < len(fb.Color); i += 4 {
			copy(fb.Color[i:i+4], c[:])
		}
	}
	if param.ClearDepth {
		for i := range fb.Depth {
			fb.Depth[i] = param.Depth
		}
	}
}

// SetState implements driver.GPU.
func (g *GPU) SetState(state *driver.State) { g.state = *state }

// SetTexture implements driver.GPU.
func (g *GPU) SetTexture(unit int, t driver.Texture) {
	if t == nil {
		delete(g.units, unit)
		return
	}
	g.units[unit] = t.(*Texture)
}

// Draw implements driver.GPU.
func (g *GPU) Draw(va driver.VertexArray, instances int) {
	v := va.(*VertexArray)
	fb := g.target
	if fb == nil {
		fb = g.def
	}
	d := Draw{
		Program:   g.program,
		Mode:      v.Mode,
		Instances: instances,
		State:     g.state,
		Target:    fb,
		Uniforms:  make(map[string]any),
		Textures:  make(map[int]*Texture, len(g.units)),
	}
	if g.program != nil {
		for k, x := range g.program.Uniforms {
			d.Uniforms[k] = x
		}
	}
	for k, x := range g.units {
		d.Textures[k] = x
	}
	g.Draws = append(g.Draws, d)
	if v.Mode == gltf.TRIANGLES && v.id != 0 {
		g.rasterize(v, instances, &d)
	}
}

// Blit implements driver.GPU.
func (g *GPU) Blit(src, dst driver.Framebuf, width, height int, mask driver.BlitMask) {
	g.Blits++
	s, d := g.framebuf(src), g.framebuf(dst)
	n := width * height
	if mask&driver.BlitColor != 0 && s.Color != nil && d.Color != nil {
		copy(d.Color[:n*4], s.Color[:n*4])
	}
	if mask&driver.BlitDepth != 0 {
		copy(d.Depth[:n], s.Depth[:n])
	}
}

// ReadColor implements driver.GPU.
func (g *GPU) ReadColor(fb driver.Framebuf, width, height int, rgba bool, dst []byte) error {
	f := g.framebuf(fb)
	if f.Color == nil || width > f.W || height > f.H {
		return errors.New("drivertest: invalid color readback")
	}
	n := 3
	if rgba {
		n = 4
	}
	if len(dst) < width*height*n {
		return errors.New("drivertest: color readback buffer too small")
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			copy(dst[(y*width+x)*n:(y*width+x+1)*n], f.Color[(y*f.W+x)*4:])
		}
	}
	return nil
}

// ReadDepth implements driver.GPU.
func (g *GPU) ReadDepth(fb driver.Framebuf, width, height int, dst []float32) error {
	f := g.framebuf(fb)
	if width > f.W || height > f.H {
		return errors.New("drivertest: invalid depth readback")
	}
	if len(dst) < width*height {
		return errors.New("drivertest: depth readback buffer too small")
	}
	for y := 0; y < height; y++ {
		copy(dst[y*width:(y+1)*width], f.Depth[y*f.W:])
	}
	return nil
}

func unorm(x float32) byte {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 255
	}
	return byte(x*255 + 0.5)
}
