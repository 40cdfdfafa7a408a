// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gviegas/pbr/linear"
	"github.com/gviegas/pbr/node"
)

const scenePrefix = "scene: "

// Scene is a hierarchy of Nodes under an implicit world
// node, together with the global parameters needed to
// render it.
// A Scene is not safe for concurrent use; callers that
// render from another goroutine must synchronize.
type Scene struct {
	name    string
	graph   node.Graph[*Node]
	bg      mgl32.Vec4
	ambient mgl32.Vec3

	meshNodes   []*Node
	cameraNodes []*Node
	lightNodes  []*Node
	mainCamera  *Node
	byID        map[uuid.UUID]*Node

	// Incremented on every topology change.
	topo      uint64
	boundsOK  bool
	boundsTop uint64
	boundsSum uint64
	bounds    linear.Box
}

// New creates a new Scene containing nodes and their
// descendants. Nodes that are children of other nodes in
// the list are inserted under their parents. It fails if
// any node is a child of more than one node.
// The background is opaque white and the ambient light
// is black.
func New(name string, nodes ...*Node) (*Scene, error) {
	s := &Scene{
		name: name,
		bg:   mgl32.Vec4{1, 1, 1, 1},
		byID: make(map[uuid.UUID]*Node),
	}
	parent := make(map[*Node]*Node, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return nil, newErr(scenePrefix, "nil node")
		}
		if _, ok := parent[n]; !ok {
			parent[n] = nil
		}
	}
	for _, n := range nodes {
		for _, c := range n.children {
			if p, ok := parent[c]; ok && p != nil && p != n {
				return nil, newErr(scenePrefix, "node has more than one parent")
			}
			parent[c] = n
		}
	}
	for _, n := range nodes {
		if parent[n] == nil {
			if err := s.AddNode(n, nil); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Name returns the scene's name.
func (s *Scene) Name() string { return s.name }

// BgColor returns the background color.
func (s *Scene) BgColor() mgl32.Vec4 { return s.bg }

// SetBgColor sets the background color.
func (s *Scene) SetBgColor(c mgl32.Vec4) { s.bg = c }

// AmbientLight returns the ambient light color.
func (s *Scene) AmbientLight() mgl32.Vec3 { return s.ambient }

// SetAmbientLight sets the ambient light color.
func (s *Scene) SetAmbientLight(c mgl32.Vec3) { s.ambient = c }

// Nodes returns every node in s, in insertion order.
// The slice must not be modified.
func (s *Scene) Nodes() []*Node { return s.graph.Nodes() }

// MeshNodes returns the nodes that have a Mesh.
// The slice must not be modified.
func (s *Scene) MeshNodes() []*Node { return s.meshNodes }

// CameraNodes returns the nodes that have a Camera.
// The slice must not be modified.
func (s *Scene) CameraNodes() []*Node { return s.cameraNodes }

// LightNodes returns the nodes that have a Light.
// The slice must not be modified.
func (s *Scene) LightNodes() []*Node { return s.lightNodes }

// LightNodesOf returns the nodes that have a Light of the
// given kind.
func (s *Scene) LightNodesOf(k LightKind) []*Node {
	var ns []*Node
	for _, n := range s.lightNodes {
		if n.light.Kind() == k {
			ns = append(ns, n)
		}
	}
	return ns
}

// countLights returns the number of light nodes of each
// kind, indexed by LightKind.
func (s *Scene) countLights() (n [3]int) {
	for _, x := range s.lightNodes {
		n[x.light.Kind()]++
	}
	return
}

// Meshes returns the meshes referenced by s, without
// duplicates.
func (s *Scene) Meshes() []*Mesh {
	return unique(s.meshNodes, func(n *Node) *Mesh { return n.mesh })
}

// Cameras returns the cameras referenced by s, without
// duplicates.
func (s *Scene) Cameras() []Camera {
	return unique(s.cameraNodes, func(n *Node) Camera { return n.camera })
}

// Lights returns the lights referenced by s, without
// duplicates.
func (s *Scene) Lights() []Light {
	return unique(s.lightNodes, func(n *Node) Light { return n.light })
}

func unique[T comparable](nodes []*Node, f func(*Node) T) []T {
	var xs []T
	seen := make(map[T]bool, len(nodes))
	for _, n := range nodes {
		x := f(n)
		if !seen[x] {
			seen[x] = true
			xs = append(xs, x)
		}
	}
	return xs
}

// MainCamera returns the node used as viewpoint, or nil
// if s has no camera.
func (s *Scene) MainCamera() *Node { return s.mainCamera }

// SetMainCamera sets the node used as viewpoint.
// n must be a camera node in s.
func (s *Scene) SetMainCamera(n *Node) error {
	if !s.graph.Has(n) {
		return errors.Wrap(ErrNotInScene, scenePrefix+"main camera")
	}
	if n.camera == nil {
		return newErr(scenePrefix, "main camera node has no camera")
	}
	s.mainCamera = n
	return nil
}

// Add creates a node named name for obj, which must be a
// *Mesh, a Camera or a Light, and inserts it under parent.
// A nil parent inserts the node under the world node. A
// nil pose means the identity.
func (s *Scene) Add(obj any, name string, pose *mgl64.Mat4, parent *Node) (*Node, error) {
	n := NewNode(name)
	var err error
	switch x := obj.(type) {
	case *Mesh:
		err = n.SetMesh(x)
	case Camera:
		err = n.SetCamera(x)
	case Light:
		err = n.SetLight(x)
	default:
		err = newErr(scenePrefix, "unknown object type")
	}
	if err != nil {
		return nil, err
	}
	if n.attached() == 0 {
		return nil, newErr(scenePrefix, "nil object")
	}
	if pose != nil {
		if err := n.SetMatrix(*pose); err != nil {
			return nil, err
		}
	}
	if err := s.AddNode(n, parent); err != nil {
		return nil, err
	}
	return n, nil
}

// AddNode inserts n and its descendants under parent.
// A nil parent inserts n under the world node. If parent
// is not nil, n is appended to its children.
// It fails if n or any descendant is already in s.
func (s *Scene) AddNode(n, parent *Node) error {
	if n == nil {
		return newErr(scenePrefix, "nil node")
	}
	if parent != nil && !s.graph.Has(parent) {
		return errors.Wrap(ErrNotInScene, scenePrefix+"parent")
	}
	// Check the whole subtree first so that a failed
	// insertion leaves s unchanged.
	seen := make(map[*Node]bool)
	stk := []*Node{n}
	for len(stk) > 0 {
		x := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if s.graph.Has(x) || seen[x] {
			return newErr(scenePrefix, "node already in scene")
		}
		if x.attached() > 1 {
			return newErr(scenePrefix, "node has more than one attachment")
		}
		seen[x] = true
		stk = append(stk, x.children...)
	}
	if parent != nil {
		found := false
		for _, c := range parent.children {
			if c == n {
				found = true
				break
			}
		}
		if !found {
			parent.children = append(parent.children, n)
		}
	}
	s.insert(n, parent)
	s.topo++
	return nil
}

func (s *Scene) insert(n, parent *Node) {
	if err := s.graph.Insert(n, parent); err != nil {
		// Unreachable after the checks in AddNode.
		panic(err)
	}
	if s.byID == nil {
		s.byID = make(map[uuid.UUID]*Node)
	}
	s.byID[n.id] = n
	switch {
	case n.mesh != nil:
		s.meshNodes = append(s.meshNodes, n)
	case n.camera != nil:
		s.cameraNodes = append(s.cameraNodes, n)
		if s.mainCamera == nil {
			s.mainCamera = n
		}
	case n.light != nil:
		s.lightNodes = append(s.lightNodes, n)
	}
	for _, c := range n.children {
		s.insert(c, n)
	}
}

// HasNode reports whether n is in s.
func (s *Scene) HasNode(n *Node) bool { return s.graph.Has(n) }

// NodeByID returns the node with the given ID.
func (s *Scene) NodeByID(id uuid.UUID) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// RemoveNode removes n and its descendants from s and
// detaches n from its parent.
// If the main camera is removed, the first remaining
// camera node in insertion order replaces it.
func (s *Scene) RemoveNode(n *Node) error {
	parent, err := s.graph.Parent(n)
	if err != nil {
		return errors.Wrap(ErrNotInScene, scenePrefix+"remove")
	}
	removed, err := s.graph.Remove(n)
	if err != nil {
		return errors.Wrap(err, scenePrefix+"remove")
	}
	if parent != nil {
		parent.removeChild(n)
	}
	gone := make(map[*Node]bool, len(removed))
	for _, x := range removed {
		gone[x] = true
		delete(s.byID, x.id)
	}
	keep := func(ns []*Node) []*Node {
		out := ns[:0]
		for _, x := range ns {
			if !gone[x] {
				out = append(out, x)
			}
		}
		clear(ns[len(out):])
		return out
	}
	s.meshNodes = keep(s.meshNodes)
	s.cameraNodes = keep(s.cameraNodes)
	s.lightNodes = keep(s.lightNodes)
	if gone[s.mainCamera] {
		s.mainCamera = nil
		if len(s.cameraNodes) > 0 {
			s.mainCamera = s.cameraNodes[0]
		}
	}
	s.topo++
	return nil
}

// Clear removes every node from s.
func (s *Scene) Clear() {
	s.graph.Clear()
	s.meshNodes = nil
	s.cameraNodes = nil
	s.lightNodes = nil
	s.mainCamera = nil
	s.byID = make(map[uuid.UUID]*Node)
	s.topo++
}

// NodeQuery selects nodes in Scene.GetNodes.
// Zero fields are not used for matching.
type NodeQuery struct {
	Node    *Node
	Name    string
	Obj     any
	ObjName string
}

// GetNodes returns the nodes of s that match every field
// set in q, in insertion order.
func (s *Scene) GetNodes(q NodeQuery) []*Node {
	if q.Node != nil {
		if s.graph.Has(q.Node) && matches(q.Node, &q) {
			return []*Node{q.Node}
		}
		return nil
	}
	var ns []*Node
	for _, n := range s.graph.Nodes() {
		if matches(n, &q) {
			ns = append(ns, n)
		}
	}
	return ns
}

func matches(n *Node, q *NodeQuery) bool {
	if q.Name != "" && n.name != q.Name {
		return false
	}
	var (
		obj     any
		objName string
	)
	switch {
	case n.mesh != nil:
		obj, objName = n.mesh, n.mesh.Name()
	case n.camera != nil:
		obj, objName = n.camera, n.camera.Name()
	case n.light != nil:
		obj, objName = n.light, n.light.Name()
	}
	if q.Obj != nil && obj != q.Obj {
		return false
	}
	if q.ObjName != "" && (obj == nil || objName != q.ObjName) {
		return false
	}
	return true
}

// Pose returns the world transform of n.
// It is the product of the local transforms of n and
// its ancestors, the world node's child on the left.
func (s *Scene) Pose(n *Node) (mgl64.Mat4, error) {
	m, err := s.graph.World(n)
	if err != nil {
		return mgl64.Mat4{}, errors.Wrap(ErrNotInScene, scenePrefix+"pose")
	}
	return m, nil
}

// pose is like Pose but assumes n is in s.
func (s *Scene) pose(n *Node) mgl64.Mat4 {
	m, _ := s.graph.World(n)
	return m
}

// SetPose sets the local transform of n.
// The bottom row of m must be [0 0 0 1].
func (s *Scene) SetPose(n *Node, m mgl64.Mat4) error {
	if !s.graph.Has(n) {
		return errors.Wrap(ErrNotInScene, scenePrefix+"set pose")
	}
	return n.SetMatrix(m)
}

// stamp returns a value that changes whenever the world
// bounds of s may have changed, given an unchanged
// topology.
func (s *Scene) stamp() uint64 {
	var sum uint64
	for _, n := range s.graph.Nodes() {
		sum += n.version
		if n.mesh != nil {
			sum += n.mesh.stamp()
		}
	}
	return sum
}

// Bounds returns the axis-aligned bounds of every visible
// mesh in world space. It returns the zero box if there
// is none.
func (s *Scene) Bounds() linear.Box {
	sum := s.stamp()
	if s.boundsOK && s.boundsTop == s.topo && s.boundsSum == sum {
		return s.bounds
	}
	var boxes []linear.Box
	for _, n := range s.meshNodes {
		if !n.mesh.visible {
			continue
		}
		boxes = append(boxes, n.mesh.Bounds().Transform(s.pose(n)))
	}
	s.bounds = linear.Union(boxes...)
	s.boundsOK, s.boundsTop, s.boundsSum = true, s.topo, sum
	return s.bounds
}

// Centroid returns the center of the scene's bounds.
func (s *Scene) Centroid() mgl64.Vec3 { return s.Bounds().Centroid() }

// Extents returns the size of the scene's bounds.
func (s *Scene) Extents() mgl64.Vec3 { return s.Bounds().Extents() }

// Scale returns the length of the diagonal of the scene's
// bounds.
func (s *Scene) Scale() float64 { return s.Bounds().Scale() }

// Dump writes a description of every node of s to w.
func (s *Scene) Dump(w io.Writer) {
	cfg := spew.ConfigState{Indent: "\t", DisablePointerAddresses: true, MaxDepth: 2}
	for _, n := range s.graph.Nodes() {
		p, _ := s.graph.Parent(n)
		pname := "world"
		if p != nil {
			pname = p.name
		}
		cfg.Fprintf(w, "%s (parent %s) translation=%v rotation=%v scale=%v\n",
			n.name, pname, n.t, n.r, n.s)
		switch {
		case n.mesh != nil:
			cfg.Fprintf(w, "\tmesh %s: %d primitive(s), bounds %+v\n",
				n.mesh.name, len(n.mesh.prims), n.mesh.Bounds())
		case n.camera != nil:
			cfg.Fprintf(w, "\tcamera %s: %+v\n", n.camera.Name(), n.camera)
		case n.light != nil:
			cfg.Fprintf(w, "\tlight %s (%v): %+v\n", n.light.Name(), n.light.Kind(), n.light)
		}
	}
}
