// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
)

const (
	texPrefix  = "texture: "
	splrPrefix = "sampler: "
)

// Channels identifies which channels of a source image a
// Texture holds.
type Channels int

// Channel layouts.
const (
	// Depth.
	D Channels = iota
	R
	RG
	// The green and blue channels of the source, stored as
	// two channels.
	GB
	RGB
	RGBA
)

// N returns the number of stored channels.
func (c Channels) N() int {
	switch c {
	case D, R:
		return 1
	case RG, GB:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

func (c Channels) pixelFmt() driver.PixelFmt {
	switch c {
	case R:
		return driver.R
	case RG, GB:
		return driver.RG
	case RGB:
		return driver.RGB
	case RGBA:
		return driver.RGBA
	}
	return driver.Depth
}

// String implements fmt.Stringer.
func (c Channels) String() string {
	switch c {
	case D:
		return "D"
	case R:
		return "R"
	case RG:
		return "RG"
	case GB:
		return "GB"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	}
	return "invalid"
}

// Sampler describes how a Texture is sampled.
// Zero filters select defaults that depend on whether the
// texture has source data. Zero wrap modes mean REPEAT.
type Sampler struct {
	Name      string
	MagFilter gltf.Filter
	MinFilter gltf.Filter
	WrapS     gltf.Wrap
	WrapT     gltf.Wrap
}

// NewSampler creates a new Sampler.
func NewSampler(name string, mag, min gltf.Filter, wrapS, wrapT gltf.Wrap) (*Sampler, error) {
	s := &Sampler{
		Name:      name,
		MagFilter: mag,
		MinFilter: min,
		WrapS:     wrapS,
		WrapT:     wrapT,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that s has valid filters and wrap modes.
func (s *Sampler) Validate() error {
	if s.MagFilter != 0 {
		if err := s.MagFilter.CheckMag(); err != nil {
			return newErr(splrPrefix, err.Error())
		}
	}
	if s.MinFilter != 0 {
		if err := s.MinFilter.CheckMin(); err != nil {
			return newErr(splrPrefix, err.Error())
		}
	}
	for _, w := range [2]gltf.Wrap{s.WrapS, s.WrapT} {
		if w != 0 {
			if err := w.Check(); err != nil {
				return newErr(splrPrefix, err.Error())
			}
		}
	}
	return nil
}

// TexParam describes a Texture to create.
// At most one of Source, Pixels and Floats may be set.
// Without any of them the texture is created empty, with
// the given dimensions.
type TexParam struct {
	Name string
	// Decoded image. Its channels are extracted according
	// to Channels.
	Source image.Image
	// Raw 8-bit texels, top row first, Channels.N() per
	// texel.
	Pixels []byte
	// Raw float texels, top row first. Implies Float.
	Floats   []float32
	Width    int
	Height   int
	Channels Channels
	// Float selects float texels for empty textures.
	Float bool
	// Optional. Defaults to the zero Sampler.
	Sampler *Sampler
}

// Texture is a 2D image and its Sampler.
type Texture struct {
	name     string
	sampler  *Sampler
	pix      []byte
	floats   []float32
	width    int
	height   int
	channels Channels
	float    bool
	hasSrc   bool

	version  uint64
	transpOK bool
	transpAt float32
	transp   bool
}

// NewTexture creates a new Texture.
func NewTexture(param *TexParam) (*Texture, error) {
	t := &Texture{
		name:     param.Name,
		sampler:  param.Sampler,
		channels: param.Channels,
		float:    param.Float,
	}
	if t.channels < D || t.channels > RGBA {
		return nil, newErr(texPrefix, "invalid channel layout")
	}
	if t.sampler == nil {
		t.sampler = &Sampler{}
	} else if err := t.sampler.Validate(); err != nil {
		return nil, err
	}
	n := 0
	for _, x := range [3]bool{param.Source != nil, param.Pixels != nil, param.Floats != nil} {
		if x {
			n++
		}
	}
	switch {
	case n > 1:
		return nil, newErr(texPrefix, "more than one pixel source")
	case param.Source != nil:
		if t.channels == D {
			return nil, newErr(texPrefix, "image source for depth texture")
		}
		t.pix, t.width, t.height = extract(param.Source, t.channels)
		t.float = false
		t.hasSrc = true
	case param.Pixels != nil:
		if param.Width <= 0 || param.Height <= 0 {
			return nil, newErr(texPrefix, "non-positive dimensions")
		}
		if len(param.Pixels) != param.Width*param.Height*t.channels.N() {
			return nil, newErr(texPrefix, "pixel data does not match dimensions")
		}
		t.pix = param.Pixels
		t.width, t.height = param.Width, param.Height
		t.float = false
		t.hasSrc = true
	case param.Floats != nil:
		if param.Width <= 0 || param.Height <= 0 {
			return nil, newErr(texPrefix, "non-positive dimensions")
		}
		if len(param.Floats) != param.Width*param.Height*t.channels.N() {
			return nil, newErr(texPrefix, "float data does not match dimensions")
		}
		t.floats = param.Floats
		t.width, t.height = param.Width, param.Height
		t.float = true
		t.hasSrc = true
	default:
		if param.Width <= 0 || param.Height <= 0 {
			return nil, newErr(texPrefix, "non-positive dimensions")
		}
		t.width, t.height = param.Width, param.Height
	}
	if t.channels == D {
		t.float = true
	}
	return t, nil
}

// newShadowTexture creates an empty depth texture for
// shadow mapping.
func newShadowTexture(size int) (*Texture, error) {
	return NewTexture(&TexParam{
		Width:    size,
		Height:   size,
		Channels: D,
		Float:    true,
	})
}

// extract converts img into tightly packed 8-bit texels
// with the channels selected by c, top row first.
func extract(img image.Image, c Channels) (pix []byte, width, height int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = image.NewNRGBA(image.Rect(0, 0, width, height))
		xdraw.Copy(src, image.Point{}, img, b, xdraw.Src, nil)
	}
	n := c.N()
	pix = make([]byte, 0, width*height*n)
	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		for x := 0; x < width*4; x += 4 {
			switch c {
			case R:
				pix = append(pix, row[x])
			case RG:
				pix = append(pix, row[x], row[x+1])
			case GB:
				pix = append(pix, row[x+1], row[x+2])
			case RGB:
				pix = append(pix, row[x:x+3]...)
			case RGBA:
				pix = append(pix, row[x:x+4]...)
			}
		}
	}
	return
}

// Name returns the texture's name.
func (t *Texture) Name() string { return t.name }

// Sampler returns the texture's sampler.
func (t *Texture) Sampler() *Sampler { return t.sampler }

// SetSampler replaces the texture's sampler.
// A nil s selects the zero Sampler.
// It takes effect when the texture is next uploaded.
func (t *Texture) SetSampler(s *Sampler) {
	if s == nil {
		s = &Sampler{}
	}
	t.sampler = s
	t.version++
}

// Size returns the texture's dimensions.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Channels returns the texture's channel layout.
func (t *Texture) Channels() Channels { return t.channels }

// IsFloat reports whether texels are float32.
func (t *Texture) IsFloat() bool { return t.float }

// HasSource reports whether t was created with texel data.
func (t *Texture) HasSource() bool { return t.hasSrc }

// Pixels returns the 8-bit texels of t, top row first.
// The slice must not be modified other than through
// SetPixels.
func (t *Texture) Pixels() []byte { return t.pix }

// SetPixels replaces the 8-bit texels of t. pix must have
// the same layout as the data t was created with.
func (t *Texture) SetPixels(pix []byte) error {
	if t.float || len(pix) != t.width*t.height*t.channels.N() {
		return newErr(texPrefix, "pixel data does not match texture")
	}
	t.pix = pix
	t.hasSrc = true
	t.version++
	t.transpOK = false
	return nil
}

// IsTransparent reports whether any texel has an alpha
// below cutoff. Only RGBA textures with source data can be
// transparent. The result is memoized until the texels
// change or a different cutoff is given.
func (t *Texture) IsTransparent(cutoff float32) bool {
	if t.transpOK && t.transpAt == cutoff {
		return t.transp
	}
	t.transp = false
	if t.channels == RGBA && t.hasSrc {
		if t.float {
			for i := 3; i < len(t.floats); i += 4 {
				if t.floats[i] < cutoff {
					t.transp = true
					break
				}
			}
		} else {
			for i := 3; i < len(t.pix); i += 4 {
				if float32(t.pix[i])/255 < cutoff {
					t.transp = true
					break
				}
			}
		}
	}
	t.transpOK = true
	t.transpAt = cutoff
	return t.transp
}

// texParam returns the driver parameters used to upload t.
// Rows are flipped to bottom-first order.
func (t *Texture) texParam() *driver.TexParam {
	p := &driver.TexParam{
		Width:  t.width,
		Height: t.height,
		Format: t.channels.pixelFmt(),
		Float:  t.float,
		Mipmap: t.hasSrc,
		WrapS:  t.sampler.WrapS,
		WrapT:  t.sampler.WrapT,
		Border: [4]float32{1, 1, 1, 1},
	}
	p.MagFilter, p.MinFilter = t.sampler.MagFilter, t.sampler.MinFilter
	if p.MagFilter == 0 {
		p.MagFilter = gltf.NEAREST
		if t.hasSrc {
			p.MagFilter = gltf.LINEAR
		}
	}
	if p.MinFilter == 0 {
		p.MinFilter = gltf.NEAREST
		if t.hasSrc {
			p.MinFilter = gltf.LINEAR_MIPMAP_LINEAR
		}
	}
	if p.WrapS == 0 {
		p.WrapS = gltf.REPEAT
	}
	if p.WrapT == 0 {
		p.WrapT = gltf.REPEAT
	}
	n := t.channels.N()
	switch {
	case t.pix != nil:
		p.Pixels = flipRows(t.pix, t.width*n, t.height)
	case t.floats != nil:
		p.Floats = flipRows(t.floats, t.width*n, t.height)
	}
	return p
}

func flipRows[T byte | float32](s []T, stride, rows int) []T {
	f := make([]T, len(s))
	for y := 0; y < rows; y++ {
		copy(f[(rows-1-y)*stride:(rows-y)*stride], s[y*stride:(y+1)*stride])
	}
	return f
}
