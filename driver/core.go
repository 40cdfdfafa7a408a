// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/pbr/gltf"
)

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create resources and to execute commands.
// All methods must be called from the goroutine that owns
// the graphics context. A GPU is obtained from a call to
// Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// NewProgram compiles and links a new program.
	// Compilation failures are reported as errors that
	// wrap ErrCompile.
	NewProgram(src *ProgramSrc) (Program, error)

	// NewVertexArray uploads geometry.
	NewVertexArray(param *VertexArrayParam) (VertexArray, error)

	// NewTexture creates a new 2D texture.
	NewTexture(param *TexParam) (Texture, error)

	// NewFramebuf creates a new framebuffer.
	NewFramebuf(param *FramebufParam) (Framebuf, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits

	// SetFramebuf sets the target of subsequent clear and
	// draw commands. A nil fb selects the default
	// framebuffer.
	SetFramebuf(fb Framebuf)

	// SetViewport sets the viewport rectangle, anchored
	// at the origin.
	SetViewport(width, height int)

	// Clear clears the current framebuffer.
	Clear(param *ClearParam)

	// SetState sets the fixed-function state.
	SetState(state *State)

	// SetTexture binds t to a texture unit.
	// A nil t unbinds the unit.
	SetTexture(unit int, t Texture)

	// Draw draws the geometry of va using the bound
	// program, repeating it instances times.
	Draw(va VertexArray, instances int)

	// Blit resolves/copies the given planes of src into dst.
	// Both framebuffers must have the given dimensions.
	Blit(src, dst Framebuf, width, height int, mask BlitMask)

	// ReadColor reads the color plane of fb (or of the
	// default framebuffer if fb is nil) into dst, bottom row
	// first. dst must hold width*height*3 bytes, or
	// width*height*4 bytes if rgba is set.
	ReadColor(fb Framebuf, width, height int, rgba bool, dst []byte) error

	// ReadDepth reads the depth plane of fb (or of the
	// default framebuffer if fb is nil) into dst, bottom row
	// first. Values are window-space depths in [0, 1].
	ReadDepth(fb Framebuf, width, height int, dst []float32) error
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface hold graphics API
// objects that are not managed by GC, so Destroy must be
// called explicitly to release them.
type Destroyer interface {
	Destroy()
}

// Program is the interface that defines a linked program.
type Program interface {
	Destroyer

	// Bind makes the program current.
	Bind()

	// SetUniform sets the named uniform of the program,
	// which must be bound.
	// Supported value types are int, bool, float32,
	// mgl32.Vec2, mgl32.Vec3, mgl32.Vec4 and mgl32.Mat4.
	// Names that the program does not use are ignored.
	SetUniform(name string, value any) error
}

// ProgramSrc describes a program to compile.
type ProgramSrc struct {
	// Name identifies the program in logs.
	Name string

	// Shader sources. Geometry is optional.
	Vertex   string
	Fragment string
	Geometry string

	// Defines are injected as #define directives after
	// the #version line of every stage.
	Defines map[string]string
}

// VertexArray is the interface that defines uploaded
// geometry.
type VertexArray interface {
	Destroyer
}

// VertexAttrib is a single non-interleaved vertex stream.
type VertexAttrib struct {
	Location int
	// Number of float32 components per vertex.
	Size int
	Data []float32
}

// VertexArrayParam describes geometry to upload.
type VertexArrayParam struct {
	Mode        gltf.Mode
	VertexCount int
	Attribs     []VertexAttrib
	// Optional. Draws are indexed when present.
	Indices []uint32
	// Per-instance model matrices bound to four consecutive
	// locations starting at InstanceLoc. At least one
	// matrix must be given.
	Instances   []mgl32.Mat4
	InstanceLoc int
}

// PixelFmt is the format of a texture.
type PixelFmt int

// Pixel formats.
const (
	Depth PixelFmt = iota
	R
	RG
	RGB
	RGBA
)

// Channels returns the number of channels in f.
func (f PixelFmt) Channels() int {
	switch f {
	case Depth, R:
		return 1
	case RG:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// Texture is the interface that defines a 2D texture.
type Texture interface {
	Destroyer

	// Size returns the dimensions of the texture.
	Size() (width, height int)
}

// TexParam describes a texture to create.
type TexParam struct {
	Width, Height int
	Format        PixelFmt
	// Float selects float32 texels rather than uint8.
	Float bool
	// Initial texels, bottom row first. Only the slice
	// matching Float is used; nil leaves the texture
	// uninitialized.
	Pixels []byte
	Floats []float32
	Mipmap bool
	// Zero filters mean NEAREST.
	MinFilter, MagFilter gltf.Filter
	WrapS, WrapT         gltf.Wrap
	Border               [4]float32
}

// Framebuf is the interface that defines a framebuffer.
type Framebuf interface {
	Destroyer

	// Size returns the dimensions of the framebuffer.
	Size() (width, height int)
}

// FramebufParam describes a framebuffer to create.
// If Depth is nil, the framebuffer has an RGBA8 color plane
// and a 24-bit depth plane, multisampled when Samples is
// greater than one. Otherwise Depth becomes the sole
// (depth) attachment and Width/Height/Samples are ignored.
type FramebufParam struct {
	Width, Height int
	Samples       int
	Depth         Texture
}

// ClearParam describes a clear command.
type ClearParam struct {
	Color      [4]float32
	Depth      float32
	ClearColor bool
	ClearDepth bool
}

// BlendFactor is a blend factor.
type BlendFactor int

// Blend factors.
const (
	BOne BlendFactor = iota
	BZero
	BSrcAlpha
	BOneMinusSrcAlpha
)

// Fill is a polygon fill mode.
type Fill int

// Fill modes.
const (
	FillSolid Fill = iota
	FillLine
)

// State is the fixed-function state used by draw commands.
type State struct {
	DepthTest  bool
	DepthWrite bool
	// Back-face culling.
	Cull     bool
	Blend    bool
	SrcBlend BlendFactor
	DstBlend BlendFactor
	Fill     Fill
	// ProgramPointSize enables PointSize for point
	// primitives.
	ProgramPointSize bool
	PointSize        float32
}

// BlitMask selects framebuffer planes for Blit.
type BlitMask int

// Blit planes.
const (
	BlitColor BlitMask = 1 << iota
	BlitDepth
)

// Limits describes implementation limits.
type Limits struct {
	// Number of texture units accessible from the
	// fragment stage.
	MaxTexUnits int
}
