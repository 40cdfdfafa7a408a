// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/internal/bitvec"
	"github.com/gviegas/pbr/linear"
)

const rendPrefix = "renderer: "

// Renderer is a multi-pass forward renderer.
//
// Every call to Render first synchronizes the set of
// resident GPU resources with the scene, then draws the
// shadow maps of shadow-casting lights, the scene itself
// and, optionally, normal vectors.
// A Renderer is not safe for concurrent use, and the
// scene must not be mutated while it is being rendered.
type Renderer struct {
	ctx       *RenderContext
	gpu       driver.GPU
	cfg       Config
	width     int
	height    int
	pointSize float32

	vas       map[*Primitive]resident[driver.VertexArray]
	texs      map[*Texture]resident[driver.Texture]
	shadowFBs map[*Texture]driver.Framebuf
	units     bitvec.V[uint32]

	// Multisample render target and its resolve
	// destination, for offscreen rendering.
	mainFB    driver.Framebuf
	resolveFB driver.Framebuf
	fbDims    [2]int

	// Clip planes of the last camera used, for depth
	// linearization.
	znear, zfar float64
}

// resident is a GPU object and the version of the data
// it was created from.
type resident[T driver.Destroyer] struct {
	obj     T
	version uint64
}

// NewRenderer creates a new Renderer with the given
// viewport dimensions and point size.
func NewRenderer(ctx *RenderContext, width, height int, pointSize float32) (*Renderer, error) {
	if ctx == nil {
		return nil, newErr(rendPrefix, "nil RenderContext")
	}
	if width < 1 || height < 1 {
		return nil, newErr(rendPrefix, "invalid viewport dimensions")
	}
	if pointSize <= 0 {
		return nil, newErr(rendPrefix, "non-positive point size")
	}
	return &Renderer{
		ctx:       ctx,
		gpu:       ctx.gpu,
		cfg:       ctx.cfg,
		width:     width,
		height:    height,
		pointSize: pointSize,
		vas:       make(map[*Primitive]resident[driver.VertexArray]),
		texs:      make(map[*Texture]resident[driver.Texture]),
		shadowFBs: make(map[*Texture]driver.Framebuf),
		znear:     DefaultZNear,
		zfar:      DefaultZFar,
	}, nil
}

// Viewport returns the viewport dimensions.
func (r *Renderer) Viewport() (width, height int) { return r.width, r.height }

// SetViewport sets the viewport dimensions.
// Offscreen framebuffers are recreated on the next
// offscreen render.
func (r *Renderer) SetViewport(width, height int) error {
	if width < 1 || height < 1 {
		return newErr(rendPrefix, "invalid viewport dimensions")
	}
	r.width, r.height = width, height
	return nil
}

// PointSize returns the size of rasterized points.
func (r *Renderer) PointSize() float32 { return r.pointSize }

// SetPointSize sets the size of rasterized points.
func (r *Renderer) SetPointSize(size float32) error {
	if size <= 0 {
		return newErr(rendPrefix, "non-positive point size")
	}
	r.pointSize = size
	return nil
}

// Render renders s from its main camera.
//
// seg maps mesh nodes to segmentation colors. It is only
// used when flags has Seg, in which case nodes missing
// from it are not drawn.
//
// If flags has OffscreenFlag, the rendered image is read back
// and returned. The color buffer is nil if flags has
// DepthOnly. Otherwise, both buffers are nil and the
// image is left in the default framebuffer.
func (r *Renderer) Render(s *Scene, flags RenderFlag, seg map[*Node][3]uint8) (*ColorBuffer, *DepthBuffer, error) {
	if s == nil {
		return nil, nil, newErr(rendPrefix, "nil Scene")
	}
	cam := s.MainCamera()
	if cam == nil {
		return nil, nil, errors.Wrap(ErrNoCamera, rendPrefix+"render")
	}
	if err := r.sync(s, flags); err != nil {
		return nil, nil, err
	}
	if !flags.Any(DepthOnly | Seg) {
		for _, ln := range s.LightNodes() {
			if !castsShadow(ln.light.Kind(), flags) {
				continue
			}
			if err := r.shadowPass(s, ln); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := r.forwardPass(s, flags, seg); err != nil {
		return nil, nil, err
	}
	if flags.Any(VertexNormals | FaceNormals) {
		if err := r.normalsPass(s, flags); err != nil {
			return nil, nil, err
		}
	}
	r.znear, r.zfar = cam.camera.ZNear(), cam.camera.ZFar()
	if !flags.Has(OffscreenFlag) {
		return nil, nil, nil
	}
	return r.readMain(flags)
}

// castsShadow reports whether lights of kind k render
// shadow maps under flags.
func castsShadow(k LightKind, flags RenderFlag) bool {
	switch k {
	case KindDirectional:
		return flags.Has(ShadowsDirectional)
	case KindSpot:
		return flags.Has(ShadowsSpot)
	case KindPoint:
		return flags.Has(ShadowsPoint)
	}
	return false
}

// ColorBuffer is a color image read back from the GPU.
type ColorBuffer struct {
	Width, Height int
	// 3 (RGB) or 4 (RGBA).
	Channels int
	// Top row first.
	Pix []byte
}

// Image returns b as an *image.NRGBA.
// The alpha of RGB buffers is opaque.
func (b *ColorBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; i < len(b.Pix); i, j = i+b.Channels, j+4 {
		copy(img.Pix[j:j+3], b.Pix[i:i+3])
		if b.Channels == 4 {
			img.Pix[j+3] = b.Pix[i+3]
		} else {
			img.Pix[j+3] = 255
		}
	}
	return img
}

// At returns the texel at column x and row y, row 0
// being the top.
func (b *ColorBuffer) At(x, y int) []byte {
	i := (y*b.Width + x) * b.Channels
	return b.Pix[i : i+b.Channels]
}

// DepthBuffer is a depth image read back from the GPU.
type DepthBuffer struct {
	Width, Height int
	// Top row first. Linear depths are view-space
	// distances, with 0 where nothing was drawn.
	Depth []float32
}

// At returns the depth at column x and row y, row 0 being
// the top.
func (b *DepthBuffer) At(x, y int) float32 { return b.Depth[y*b.Width+x] }

// ReadColorBuf reads the RGB color plane of the default
// framebuffer.
func (r *Renderer) ReadColorBuf() (*ColorBuffer, error) {
	return r.readColor(nil, false)
}

// ReadDepthBuf reads the depth plane of the default
// framebuffer, linearized with the clip planes of the
// camera used in the last call to Render.
func (r *Renderer) ReadDepthBuf() (*DepthBuffer, error) {
	return r.readDepth(nil, false)
}

// readMain resolves the offscreen framebuffer and reads
// it back.
func (r *Renderer) readMain(flags RenderFlag) (*ColorBuffer, *DepthBuffer, error) {
	r.gpu.Blit(r.mainFB, r.resolveFB, r.width, r.height, driver.BlitColor|driver.BlitDepth)
	depth, err := r.readDepth(r.resolveFB, flags.Has(RawDepth))
	if err != nil {
		return nil, nil, err
	}
	if flags.Has(DepthOnly) {
		return nil, depth, nil
	}
	color, err := r.readColor(r.resolveFB, flags.Has(RGBAFlag))
	if err != nil {
		return nil, nil, err
	}
	return color, depth, nil
}

func (r *Renderer) readColor(fb driver.Framebuf, rgba bool) (*ColorBuffer, error) {
	n := 3
	if rgba {
		n = 4
	}
	b := &ColorBuffer{Width: r.width, Height: r.height, Channels: n, Pix: make([]byte, r.width*r.height*n)}
	if err := r.gpu.ReadColor(fb, r.width, r.height, rgba, b.Pix); err != nil {
		return nil, errors.Wrap(err, rendPrefix+"color readback")
	}
	b.Pix = flipRows(b.Pix, r.width*n, r.height)
	return b, nil
}

func (r *Renderer) readDepth(fb driver.Framebuf, raw bool) (*DepthBuffer, error) {
	b := &DepthBuffer{Width: r.width, Height: r.height, Depth: make([]float32, r.width*r.height)}
	if err := r.gpu.ReadDepth(fb, r.width, r.height, b.Depth); err != nil {
		return nil, errors.Wrap(err, rendPrefix+"depth readback")
	}
	b.Depth = flipRows(b.Depth, r.width, r.height)
	if !raw {
		for i, d := range b.Depth {
			b.Depth[i] = linear.LinearizeDepth(d, r.znear, r.zfar)
		}
	}
	return b, nil
}

// Delete releases every GPU resource held by r, and the
// programs of its RenderContext.
// r can still be used afterwards; resources are created
// again as needed.
func (r *Renderer) Delete() {
	nva, ntex := len(r.vas), len(r.texs)
	for p, x := range r.vas {
		x.obj.Destroy()
		delete(r.vas, p)
	}
	for t, x := range r.texs {
		r.releaseTexture(t, x)
	}
	r.deleteMainFBs()
	r.ctx.releasePrograms()
	r.units.Clear()
	if nva+ntex > 0 {
		log().Debug("renderer deleted", zap.Int("vertex arrays", nva), zap.Int("textures", ntex))
	}
}
