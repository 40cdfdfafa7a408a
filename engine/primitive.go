// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
	"github.com/gviegas/pbr/linear"
)

const primPrefix = "primitive: "

// BufFlag identifies the vertex attributes of a Primitive.
type BufFlag int

// Buffer flags.
// Positions are always present.
const (
	BufPosition BufFlag = 0
	BufNormal   BufFlag = 1 << (iota - 1)
	BufTangent
	BufTexCoord0
	BufTexCoord1
	BufColor0
	BufJoints0
	BufWeights0
)

// attribOrder is the order in which optional attributes
// are assigned vertex locations, starting at one.
var attribOrder = [...]BufFlag{
	BufNormal,
	BufTangent,
	BufTexCoord0,
	BufTexCoord1,
	BufColor0,
	BufJoints0,
	BufWeights0,
}

// PrimitiveParam describes a Primitive to create.
// Every optional attribute must have the same length as
// Positions.
type PrimitiveParam struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Tangents  []mgl32.Vec4
	TexCoord0 []mgl32.Vec2
	TexCoord1 []mgl32.Vec2
	Colors    []mgl32.Vec4
	Joints    []mgl32.Vec4
	Weights   []mgl32.Vec4
	// Optional. Three indices per triangle for TRIANGLES.
	Indices []uint32
	Mode    gltf.Mode
	// Optional. A nil Material selects DefaultMaterial.
	Material *Material
	// Optional. One model matrix per instance.
	Poses []mgl64.Mat4
}

// Primitive is a drawable set of vertices sharing a
// Material.
type Primitive struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	tangents  []mgl32.Vec4
	texCoord0 []mgl32.Vec2
	texCoord1 []mgl32.Vec2
	colors    []mgl32.Vec4
	joints    []mgl32.Vec4
	weights   []mgl32.Vec4
	indices   []uint32
	mode      gltf.Mode
	material  *Material
	poses     []mgl64.Mat4

	version   uint64
	boundsVer uint64
	boundsOK  bool
	bounds    linear.Box
}

// NewPrimitive creates a new Primitive.
func NewPrimitive(param *PrimitiveParam) (*Primitive, error) {
	if err := param.Mode.Check(); err != nil {
		return nil, newErr(primPrefix, err.Error())
	}
	n := len(param.Positions)
	if n == 0 {
		return nil, newErr(primPrefix, "no positions")
	}
	for _, x := range [...]int{
		len(param.Normals),
		len(param.Tangents),
		len(param.TexCoord0),
		len(param.TexCoord1),
		len(param.Colors),
		len(param.Joints),
		len(param.Weights),
	} {
		if x != 0 && x != n {
			return nil, newErr(primPrefix, "attribute length differs from position count")
		}
	}
	if err := checkIndices(param.Indices, n, param.Mode); err != nil {
		return nil, err
	}
	for i := range param.Poses {
		if !linear.IsAffine(param.Poses[i]) {
			return nil, newErr(primPrefix, "invalid instance pose")
		}
	}
	mat := param.Material
	if mat == nil {
		mat = DefaultMaterial()
	}
	return &Primitive{
		positions: param.Positions,
		normals:   param.Normals,
		tangents:  param.Tangents,
		texCoord0: param.TexCoord0,
		texCoord1: param.TexCoord1,
		colors:    param.Colors,
		joints:    param.Joints,
		weights:   param.Weights,
		indices:   param.Indices,
		mode:      param.Mode,
		material:  mat,
		poses:     param.Poses,
	}, nil
}

func checkIndices(indices []uint32, n int, mode gltf.Mode) error {
	if mode == gltf.TRIANGLES && len(indices)%3 != 0 {
		return newErr(primPrefix, "triangle index count not a multiple of three")
	}
	for _, x := range indices {
		if int(x) >= n {
			return newErr(primPrefix, "index out of range")
		}
	}
	return nil
}

// Positions returns the vertex positions.
func (p *Primitive) Positions() []mgl32.Vec3 { return p.positions }

// SetPositions replaces the vertex positions.
// The number of vertices must not change.
func (p *Primitive) SetPositions(pos []mgl32.Vec3) error {
	if len(pos) != len(p.positions) {
		return newErr(primPrefix, "position count mismatch")
	}
	p.positions = pos
	p.version++
	return nil
}

// Normals returns the vertex normals, if any.
func (p *Primitive) Normals() []mgl32.Vec3 { return p.normals }

// Tangents returns the vertex tangents, if any.
func (p *Primitive) Tangents() []mgl32.Vec4 { return p.tangents }

// TexCoord0 returns the first set of texture coordinates.
func (p *Primitive) TexCoord0() []mgl32.Vec2 { return p.texCoord0 }

// TexCoord1 returns the second set of texture coordinates.
func (p *Primitive) TexCoord1() []mgl32.Vec2 { return p.texCoord1 }

// Colors returns the vertex colors, if any.
func (p *Primitive) Colors() []mgl32.Vec4 { return p.colors }

// Joints returns the joint indices, if any.
func (p *Primitive) Joints() []mgl32.Vec4 { return p.joints }

// Weights returns the joint weights, if any.
func (p *Primitive) Weights() []mgl32.Vec4 { return p.weights }

// Indices returns the index buffer, if any.
func (p *Primitive) Indices() []uint32 { return p.indices }

// Mode returns the primitive topology.
func (p *Primitive) Mode() gltf.Mode { return p.mode }

// Material returns the primitive's material.
func (p *Primitive) Material() *Material { return p.material }

// SetMaterial replaces the primitive's material.
// A nil m selects DefaultMaterial.
func (p *Primitive) SetMaterial(m *Material) {
	if m == nil {
		m = DefaultMaterial()
	}
	p.material = m
	p.version++
}

// Poses returns the instance poses, if any.
func (p *Primitive) Poses() []mgl64.Mat4 { return p.poses }

// SetPoses replaces the instance poses.
func (p *Primitive) SetPoses(poses []mgl64.Mat4) error {
	for i := range poses {
		if !linear.IsAffine(poses[i]) {
			return newErr(primPrefix, "invalid instance pose")
		}
	}
	p.poses = poses
	p.version++
	return nil
}

// Instances returns the number of instances drawn.
func (p *Primitive) Instances() int { return max(1, len(p.poses)) }

// BufFlags returns the attributes present in p.
func (p *Primitive) BufFlags() BufFlag {
	f := BufPosition
	for _, x := range [...]struct {
		n int
		f BufFlag
	}{
		{len(p.normals), BufNormal},
		{len(p.tangents), BufTangent},
		{len(p.texCoord0), BufTexCoord0},
		{len(p.texCoord1), BufTexCoord1},
		{len(p.colors), BufColor0},
		{len(p.joints), BufJoints0},
		{len(p.weights), BufWeights0},
	} {
		if x.n > 0 {
			f |= x.f
		}
	}
	return f
}

// IsTransparent reports whether p's material is
// transparent or any vertex color has alpha below one.
func (p *Primitive) IsTransparent() bool {
	if p.material.IsTransparent() {
		return true
	}
	for i := range p.colors {
		if p.colors[i][3] < 1 {
			return true
		}
	}
	return false
}

// Bounds returns the axis-aligned bounds of p in model
// space. Instance translations extend the bounds.
func (p *Primitive) Bounds() linear.Box {
	if p.boundsOK && p.boundsVer == p.version {
		return p.bounds
	}
	b := linear.BoxOf(p.positions)
	if len(p.poses) > 0 {
		t := make([]mgl32.Vec3, len(p.poses))
		for i := range p.poses {
			t[i] = linear.V3f(linear.Translation(p.poses[i]))
		}
		tb := linear.BoxOf(t)
		b.Min = b.Min.Add(tb.Min)
		b.Max = b.Max.Add(tb.Max)
	}
	p.bounds, p.boundsVer, p.boundsOK = b, p.version, true
	return b
}

// Centroid returns the center of p's bounds.
func (p *Primitive) Centroid() mgl64.Vec3 { return p.Bounds().Centroid() }

// Extents returns the size of p's bounds.
func (p *Primitive) Extents() mgl64.Vec3 { return p.Bounds().Extents() }

// Scale returns the length of the diagonal of p's bounds.
func (p *Primitive) Scale() float64 { return p.Bounds().Scale() }

// locations returns the vertex location of every attribute
// present in p and the first location of the instance
// matrix.
func (p *Primitive) locations() (locs map[BufFlag]int, instLoc int) {
	bf := p.BufFlags()
	locs = map[BufFlag]int{BufPosition: 0}
	loc := 1
	for _, f := range attribOrder {
		if bf&f != 0 {
			locs[f] = loc
			loc++
		}
	}
	return locs, loc
}

// vertexArrayParam returns the driver parameters used to
// upload p.
func (p *Primitive) vertexArrayParam() *driver.VertexArrayParam {
	locs, instLoc := p.locations()
	n := len(p.positions)
	attr := func(f BufFlag, size int, data []float32) driver.VertexAttrib {
		return driver.VertexAttrib{Location: locs[f], Size: size, Data: data}
	}
	param := &driver.VertexArrayParam{
		Mode:        p.mode,
		VertexCount: n,
		Attribs:     []driver.VertexAttrib{attr(BufPosition, 3, flatten3(p.positions))},
		Indices:     p.indices,
		InstanceLoc: instLoc,
	}
	if len(p.normals) > 0 {
		param.Attribs = append(param.Attribs, attr(BufNormal, 3, flatten3(p.normals)))
	}
	if len(p.tangents) > 0 {
		param.Attribs = append(param.Attribs, attr(BufTangent, 4, flatten4(p.tangents)))
	}
	if len(p.texCoord0) > 0 {
		param.Attribs = append(param.Attribs, attr(BufTexCoord0, 2, flatten2(p.texCoord0)))
	}
	if len(p.texCoord1) > 0 {
		param.Attribs = append(param.Attribs, attr(BufTexCoord1, 2, flatten2(p.texCoord1)))
	}
	if len(p.colors) > 0 {
		param.Attribs = append(param.Attribs, attr(BufColor0, 4, flatten4(p.colors)))
	}
	if len(p.joints) > 0 {
		param.Attribs = append(param.Attribs, attr(BufJoints0, 4, flatten4(p.joints)))
	}
	if len(p.weights) > 0 {
		param.Attribs = append(param.Attribs, attr(BufWeights0, 4, flatten4(p.weights)))
	}
	if len(p.poses) == 0 {
		param.Instances = []mgl32.Mat4{mgl32.Ident4()}
	} else {
		param.Instances = make([]mgl32.Mat4, len(p.poses))
		for i := range p.poses {
			param.Instances[i] = linear.M4f(p.poses[i])
		}
	}
	return param
}

func flatten2(v []mgl32.Vec2) []float32 {
	s := make([]float32, 0, len(v)*2)
	for i := range v {
		s = append(s, v[i][:]...)
	}
	return s
}

func flatten3(v []mgl32.Vec3) []float32 {
	s := make([]float32, 0, len(v)*3)
	for i := range v {
		s = append(s, v[i][:]...)
	}
	return s
}

func flatten4(v []mgl32.Vec4) []float32 {
	s := make([]float32, 0, len(v)*4)
	for i := range v {
		s = append(s, v[i][:]...)
	}
	return s
}
