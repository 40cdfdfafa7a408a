// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/gviegas/pbr/linear"
)

const nodePrefix = "node: "

// Node is an element of a Scene's graph.
// It has a local transform, given either as translation,
// rotation and scale or as a matrix, and at most one
// attached Mesh, Camera or Light.
// A Node owns its children but has no reference to its
// parent; the Scene tracks parentage.
type Node struct {
	id       uuid.UUID
	name     string
	children []*Node

	mesh   *Mesh
	camera Camera
	light  Light

	t mgl64.Vec3
	r mgl64.Quat
	s mgl64.Vec3
	m mgl64.Mat4
	// Set when m must be recomposed from t, r and s.
	stale   bool
	version uint64
}

// NewNode creates a new Node with the identity transform.
func NewNode(name string) *Node {
	return &Node{
		id:   uuid.New(),
		name: name,
		r:    mgl64.QuatIdent(),
		s:    mgl64.Vec3{1, 1, 1},
		m:    mgl64.Ident4(),
	}
}

// ID returns the node's unique identifier.
func (n *Node) ID() uuid.UUID { return n.id }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// SetName sets the node's name.
func (n *Node) SetName(name string) { n.name = name }

// Children returns the node's children.
// The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// AddChild appends c to the node's children.
// It must not be called on nodes that are already part of
// a Scene; use Scene.AddNode instead.
func (n *Node) AddChild(c *Node) error {
	if c == nil || c == n {
		return newErr(nodePrefix, "invalid child")
	}
	for _, x := range n.children {
		if x == c {
			return newErr(nodePrefix, "duplicate child")
		}
	}
	n.children = append(n.children, c)
	return nil
}

func (n *Node) removeChild(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) attached() int {
	k := 0
	if n.mesh != nil {
		k++
	}
	if n.camera != nil {
		k++
	}
	if n.light != nil {
		k++
	}
	return k
}

// Mesh returns the attached Mesh, if any.
func (n *Node) Mesh() *Mesh { return n.mesh }

// SetMesh attaches m to the node.
// It fails if a Camera or Light is attached.
// It must not be called while the node is in a Scene.
func (n *Node) SetMesh(m *Mesh) error {
	if m != nil && (n.camera != nil || n.light != nil) {
		return newErr(nodePrefix, "node already has an attachment")
	}
	n.mesh = m
	n.version++
	return nil
}

// Camera returns the attached Camera, if any.
func (n *Node) Camera() Camera { return n.camera }

// SetCamera attaches c to the node.
// It fails if a Mesh or Light is attached.
// It must not be called while the node is in a Scene.
func (n *Node) SetCamera(c Camera) error {
	if c != nil && (n.mesh != nil || n.light != nil) {
		return newErr(nodePrefix, "node already has an attachment")
	}
	n.camera = c
	return nil
}

// Light returns the attached Light, if any.
func (n *Node) Light() Light { return n.light }

// SetLight attaches l to the node.
// It fails if a Mesh or Camera is attached.
// It must not be called while the node is in a Scene.
func (n *Node) SetLight(l Light) error {
	if l != nil && (n.mesh != nil || n.camera != nil) {
		return newErr(nodePrefix, "node already has an attachment")
	}
	n.light = l
	return nil
}

// Translation returns the local translation.
func (n *Node) Translation() mgl64.Vec3 { return n.t }

// SetTranslation sets the local translation.
func (n *Node) SetTranslation(t mgl64.Vec3) {
	n.t = t
	n.stale = true
	n.version++
}

// Rotation returns the local rotation.
func (n *Node) Rotation() mgl64.Quat { return n.r }

// SetRotation sets the local rotation.
// r must be a unit quaternion.
func (n *Node) SetRotation(r mgl64.Quat) error {
	if math.Abs(r.Len()-1) > 1e-6 {
		return newErr(nodePrefix, "rotation is not a unit quaternion")
	}
	n.r = r
	n.stale = true
	n.version++
	return nil
}

// Scale returns the local scale.
func (n *Node) Scale() mgl64.Vec3 { return n.s }

// SetScale sets the local scale.
func (n *Node) SetScale(s mgl64.Vec3) {
	n.s = s
	n.stale = true
	n.version++
}

// Matrix returns the local transform.
// It is recomposed from translation, rotation and scale
// if any of them changed since the last call.
func (n *Node) Matrix() mgl64.Mat4 {
	if n.stale {
		n.m = linear.Compose(n.t, n.r, n.s)
		n.stale = false
	}
	return n.m
}

// Local implements node.Interface.
func (n *Node) Local() mgl64.Mat4 { return n.Matrix() }

// SetMatrix sets the local transform and decomposes it
// into translation, rotation and scale.
// The bottom row of m must be [0 0 0 1].
func (n *Node) SetMatrix(m mgl64.Mat4) error {
	if !linear.IsAffine(m) {
		return newErr(nodePrefix, "matrix is not affine")
	}
	n.m = m
	n.t, n.r, n.s = linear.Decompose(m)
	n.stale = false
	n.version++
	return nil
}
