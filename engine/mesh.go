// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/pbr/gltf"
	"github.com/gviegas/pbr/linear"
)

const meshPrefix = "mesh: "

// Mesh is a collection of primitives.
// Each primitive defines the data for a draw call.
// A Mesh may be shared by any number of Nodes.
type Mesh struct {
	name    string
	prims   []*Primitive
	weights []float32
	visible bool
	version uint64
}

// NewMesh creates a new, visible Mesh.
func NewMesh(name string, prims ...*Primitive) (*Mesh, error) {
	if len(prims) == 0 {
		return nil, newErr(meshPrefix, "no primitives")
	}
	for _, p := range prims {
		if p == nil {
			return nil, newErr(meshPrefix, "nil primitive")
		}
	}
	return &Mesh{name: name, prims: prims, visible: true}, nil
}

// FromPoints creates a new Mesh with a single POINTS
// primitive. colors, normals and poses are optional.
func FromPoints(name string, points []mgl32.Vec3, colors []mgl32.Vec4, normals []mgl32.Vec3, poses []mgl64.Mat4) (*Mesh, error) {
	p, err := NewPrimitive(&PrimitiveParam{
		Positions: points,
		Normals:   normals,
		Colors:    colors,
		Mode:      gltf.POINTS,
		Poses:     poses,
	})
	if err != nil {
		return nil, err
	}
	return NewMesh(name, p)
}

// Name returns the mesh's name.
func (m *Mesh) Name() string { return m.name }

// Len returns the number of primitives in m.
func (m *Mesh) Len() int { return len(m.prims) }

// Primitives returns the primitives of m.
// The slice must not be modified.
func (m *Mesh) Primitives() []*Primitive { return m.prims }

// Weights returns the morph target weights.
func (m *Mesh) Weights() []float32 { return m.weights }

// SetWeights sets the morph target weights.
func (m *Mesh) SetWeights(w []float32) { m.weights = w }

// Visible reports whether m is drawn.
func (m *Mesh) Visible() bool { return m.visible }

// SetVisible sets whether m is drawn.
// Invisible meshes do not contribute to scene bounds.
func (m *Mesh) SetVisible(b bool) {
	m.visible = b
	m.version++
}

// stamp changes whenever the bounds or visibility of m
// may have changed.
func (m *Mesh) stamp() uint64 {
	s := m.version
	for _, p := range m.prims {
		s += p.version
	}
	return s
}

// Bounds returns the union of the bounds of m's
// primitives.
func (m *Mesh) Bounds() linear.Box {
	boxes := make([]linear.Box, len(m.prims))
	for i, p := range m.prims {
		boxes[i] = p.Bounds()
	}
	return linear.Union(boxes...)
}

// Centroid returns the center of m's bounds.
func (m *Mesh) Centroid() mgl64.Vec3 { return m.Bounds().Centroid() }

// Extents returns the size of m's bounds.
func (m *Mesh) Extents() mgl64.Vec3 { return m.Bounds().Extents() }

// Scale returns the length of the diagonal of m's bounds.
func (m *Mesh) Scale() float64 { return m.Bounds().Scale() }

// IsTransparent reports whether any primitive of m is
// transparent.
func (m *Mesh) IsTransparent() bool {
	for _, p := range m.prims {
		if p.IsTransparent() {
			return true
		}
	}
	return false
}

// Textures returns the textures used by the materials of
// m, without duplicates.
func (m *Mesh) Textures() []*Texture {
	var ts []*Texture
	seen := make(map[*Texture]bool)
	for _, p := range m.prims {
		for _, t := range p.material.Textures() {
			if !seen[t] {
				seen[t] = true
				ts = append(ts, t)
			}
		}
	}
	return ts
}
