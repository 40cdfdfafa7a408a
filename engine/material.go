// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/pbr/gltf"
)

const matPrefix = "material: "

// MaterialKind identifies the PBR model of a Material.
type MaterialKind int

// Material kinds.
const (
	KindMetallicRoughness MaterialKind = iota
	KindSpecularGlossiness
)

// String implements fmt.Stringer.
func (k MaterialKind) String() string {
	switch k {
	case KindMetallicRoughness:
		return "MetallicRoughness"
	case KindSpecularGlossiness:
		return "SpecularGlossiness"
	}
	return "invalid"
}

// TexFlag identifies the textures a Material uses.
type TexFlag int

// Texture flags.
const (
	TexNormal TexFlag = 1 << iota
	TexOcclusion
	TexEmissive
	TexBaseColor
	TexMetallicRoughness
	TexDiffuse
	TexSpecularGlossiness

	TexNone TexFlag = 0
)

// MetallicRoughness is the payload of a metallic-roughness
// Material.
type MetallicRoughness struct {
	BaseColorFactor mgl32.Vec4
	// RGBA.
	BaseColorTexture *Texture
	MetallicFactor   float32
	RoughnessFactor  float32
	// Roughness in G, metallic in B.
	MetallicRoughnessTexture *Texture
}

// DefaultMetallicRoughness returns the default parameters
// of the metallic-roughness model.
func DefaultMetallicRoughness() MetallicRoughness {
	return MetallicRoughness{
		BaseColorFactor: mgl32.Vec4{1, 1, 1, 1},
		MetallicFactor:  1,
		RoughnessFactor: 1,
	}
}

func (p *MetallicRoughness) validate() error {
	switch {
	case p.MetallicFactor < 0 || p.MetallicFactor > 1:
		return newErr(matPrefix, "metallic factor out of [0, 1]")
	case p.RoughnessFactor < 0 || p.RoughnessFactor > 1:
		return newErr(matPrefix, "roughness factor out of [0, 1]")
	}
	return nil
}

// SpecularGlossiness is the payload of a
// specular-glossiness Material.
type SpecularGlossiness struct {
	DiffuseFactor mgl32.Vec4
	// RGBA.
	DiffuseTexture   *Texture
	SpecularFactor   mgl32.Vec3
	GlossinessFactor float32
	// Specular in RGB, glossiness in A.
	SpecularGlossinessTexture *Texture
}

// DefaultSpecularGlossiness returns the default parameters
// of the specular-glossiness model.
func DefaultSpecularGlossiness() SpecularGlossiness {
	return SpecularGlossiness{
		DiffuseFactor:    mgl32.Vec4{1, 1, 1, 1},
		SpecularFactor:   mgl32.Vec3{1, 1, 1},
		GlossinessFactor: 1,
	}
}

func (p *SpecularGlossiness) validate() error {
	if p.GlossinessFactor < 0 || p.GlossinessFactor > 1 {
		return newErr(matPrefix, "glossiness factor out of [0, 1]")
	}
	return nil
}

// Material defines the surface of a Primitive.
// It holds either a MetallicRoughness or a
// SpecularGlossiness payload, as reported by Kind.
// Derived state (transparency, texture flags and the
// texture list) is memoized and recomputed after any
// setter is called.
type Material struct {
	name string
	kind MaterialKind
	mr   MetallicRoughness
	sg   SpecularGlossiness

	normalTex    *Texture
	occlusionTex *Texture
	emissiveTex  *Texture
	emissive     mgl32.Vec3
	alphaMode    gltf.AlphaMode
	alphaCutoff  float32
	doubleSided  bool
	smooth       bool
	wireframe    bool

	version  uint64
	memoVer  uint64
	memoOK   bool
	transp   bool
	texFlags TexFlag
	textures []*Texture
}

func newMaterial(name string) *Material {
	return &Material{
		name:        name,
		alphaMode:   gltf.OPAQUE,
		alphaCutoff: 0.5,
		smooth:      true,
	}
}

// NewMetallicRoughness creates a new metallic-roughness
// Material.
func NewMetallicRoughness(name string, param *MetallicRoughness) (*Material, error) {
	m := newMaterial(name)
	if err := m.SetMetallicRoughness(param); err != nil {
		return nil, err
	}
	return m, nil
}

// NewSpecularGlossiness creates a new specular-glossiness
// Material.
func NewSpecularGlossiness(name string, param *SpecularGlossiness) (*Material, error) {
	m := newMaterial(name)
	if err := m.SetSpecularGlossiness(param); err != nil {
		return nil, err
	}
	return m, nil
}

// DefaultMaterial returns a new metallic-roughness Material
// with default parameters.
func DefaultMaterial() *Material {
	m := newMaterial("")
	m.mr = DefaultMetallicRoughness()
	return m
}

func (m *Material) invalidate() { m.version++ }

// Name returns the material's name.
func (m *Material) Name() string { return m.name }

// SetName sets the material's name.
func (m *Material) SetName(name string) { m.name = name }

// Kind returns the material's PBR model.
func (m *Material) Kind() MaterialKind { return m.kind }

// MetallicRoughness returns the metallic-roughness payload.
// ok is false if m is not a metallic-roughness material.
func (m *Material) MetallicRoughness() (p MetallicRoughness, ok bool) {
	return m.mr, m.kind == KindMetallicRoughness
}

// SetMetallicRoughness sets the metallic-roughness payload
// and makes m a metallic-roughness material.
// A nil p sets the default parameters.
func (m *Material) SetMetallicRoughness(p *MetallicRoughness) error {
	if p == nil {
		d := DefaultMetallicRoughness()
		p = &d
	}
	if err := p.validate(); err != nil {
		return err
	}
	m.kind = KindMetallicRoughness
	m.mr = *p
	m.sg = SpecularGlossiness{}
	m.invalidate()
	return nil
}

// SpecularGlossiness returns the specular-glossiness
// payload. ok is false if m is not a specular-glossiness
// material.
func (m *Material) SpecularGlossiness() (p SpecularGlossiness, ok bool) {
	return m.sg, m.kind == KindSpecularGlossiness
}

// SetSpecularGlossiness sets the specular-glossiness
// payload and makes m a specular-glossiness material.
// A nil p sets the default parameters.
func (m *Material) SetSpecularGlossiness(p *SpecularGlossiness) error {
	if p == nil {
		d := DefaultSpecularGlossiness()
		p = &d
	}
	if err := p.validate(); err != nil {
		return err
	}
	m.kind = KindSpecularGlossiness
	m.sg = *p
	m.mr = MetallicRoughness{}
	m.invalidate()
	return nil
}

// NormalTexture returns the normal map.
func (m *Material) NormalTexture() *Texture { return m.normalTex }

// SetNormalTexture sets the normal map.
func (m *Material) SetNormalTexture(t *Texture) { m.normalTex = t; m.invalidate() }

// OcclusionTexture returns the occlusion map.
func (m *Material) OcclusionTexture() *Texture { return m.occlusionTex }

// SetOcclusionTexture sets the occlusion map.
func (m *Material) SetOcclusionTexture(t *Texture) { m.occlusionTex = t; m.invalidate() }

// EmissiveTexture returns the emissive map.
func (m *Material) EmissiveTexture() *Texture { return m.emissiveTex }

// SetEmissiveTexture sets the emissive map.
func (m *Material) SetEmissiveTexture(t *Texture) { m.emissiveTex = t; m.invalidate() }

// EmissiveFactor returns the emissive factor.
func (m *Material) EmissiveFactor() mgl32.Vec3 { return m.emissive }

// SetEmissiveFactor sets the emissive factor.
func (m *Material) SetEmissiveFactor(f mgl32.Vec3) { m.emissive = f; m.invalidate() }

// AlphaMode returns the alpha mode.
func (m *Material) AlphaMode() gltf.AlphaMode { return m.alphaMode }

// SetAlphaMode sets the alpha mode.
func (m *Material) SetAlphaMode(mode gltf.AlphaMode) error {
	if err := mode.Check(); err != nil {
		return newErr(matPrefix, err.Error())
	}
	m.alphaMode = mode
	m.invalidate()
	return nil
}

// AlphaCutoff returns the alpha cutoff of MASK mode.
func (m *Material) AlphaCutoff() float32 { return m.alphaCutoff }

// SetAlphaCutoff sets the alpha cutoff of MASK mode.
func (m *Material) SetAlphaCutoff(c float32) error {
	if c < 0 || c > 1 {
		return newErr(matPrefix, "alpha cutoff out of [0, 1]")
	}
	m.alphaCutoff = c
	m.invalidate()
	return nil
}

// DoubleSided reports whether back faces are drawn.
func (m *Material) DoubleSided() bool { return m.doubleSided }

// SetDoubleSided sets whether back faces are drawn.
func (m *Material) SetDoubleSided(b bool) { m.doubleSided = b }

// Smooth reports whether vertex normals are used for
// shading. Flat normals are used otherwise.
func (m *Material) Smooth() bool { return m.smooth }

// SetSmooth sets whether vertex normals are used.
func (m *Material) SetSmooth(b bool) { m.smooth = b }

// Wireframe reports whether m is drawn as wireframe.
func (m *Material) Wireframe() bool { return m.wireframe }

// SetWireframe sets whether m is drawn as wireframe.
func (m *Material) SetWireframe(b bool) { m.wireframe = b }

func (m *Material) memo() {
	if m.memoOK && m.memoVer == m.version {
		return
	}
	m.transp = m.computeTransparency()
	m.texFlags, m.textures = m.computeTextures()
	m.memoVer = m.version
	m.memoOK = true
}

func (m *Material) computeTransparency() bool {
	if m.alphaMode == gltf.OPAQUE {
		return false
	}
	cutoff := m.alphaCutoff
	if m.alphaMode == gltf.BLEND {
		cutoff = 1
	}
	var (
		factor mgl32.Vec4
		tex    *Texture
	)
	switch m.kind {
	case KindMetallicRoughness:
		factor, tex = m.mr.BaseColorFactor, m.mr.BaseColorTexture
	case KindSpecularGlossiness:
		factor, tex = m.sg.DiffuseFactor, m.sg.DiffuseTexture
	}
	if factor[3] < cutoff {
		return true
	}
	return tex != nil && tex.IsTransparent(cutoff)
}

func (m *Material) computeTextures() (flags TexFlag, texs []*Texture) {
	add := func(t *Texture, f TexFlag) {
		if t != nil {
			flags |= f
			texs = append(texs, t)
		}
	}
	add(m.normalTex, TexNormal)
	add(m.occlusionTex, TexOcclusion)
	add(m.emissiveTex, TexEmissive)
	switch m.kind {
	case KindMetallicRoughness:
		add(m.mr.BaseColorTexture, TexBaseColor)
		add(m.mr.MetallicRoughnessTexture, TexMetallicRoughness)
	case KindSpecularGlossiness:
		add(m.sg.DiffuseTexture, TexDiffuse)
		add(m.sg.SpecularGlossinessTexture, TexSpecularGlossiness)
	}
	return
}

// IsTransparent reports whether m may produce fragments
// with alpha below one. OPAQUE materials never do.
func (m *Material) IsTransparent() bool {
	m.memo()
	return m.transp
}

// TexFlags returns the textures that m uses.
func (m *Material) TexFlags() TexFlag {
	m.memo()
	return m.texFlags
}

// Textures returns the textures that m uses.
// The same Texture may be present more than once.
func (m *Material) Textures() []*Texture {
	m.memo()
	return m.textures
}
