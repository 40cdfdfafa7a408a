// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pbr/gltf"
)

var triangle = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func TestNewPrimitive(t *testing.T) {
	p, err := NewPrimitive(&PrimitiveParam{Positions: triangle, Mode: gltf.TRIANGLES})
	require.NoError(t, err)
	require.NotNil(t, p.Material())
	assert.Equal(t, KindMetallicRoughness, p.Material().Kind())
	assert.Equal(t, BufPosition, p.BufFlags())
	assert.Equal(t, 1, p.Instances())
	assert.False(t, p.IsTransparent())

	bad := mgl64.Ident4()
	bad.Set(3, 1, 2)
	for _, x := range [...]*PrimitiveParam{
		{Mode: gltf.TRIANGLES},
		{Positions: triangle, Mode: gltf.Mode(42)},
		{Positions: triangle, Normals: triangle[:2], Mode: gltf.TRIANGLES},
		{Positions: triangle, Indices: []uint32{0, 1}, Mode: gltf.TRIANGLES},
		{Positions: triangle, Indices: []uint32{0, 1, 3}, Mode: gltf.TRIANGLES},
		{Positions: triangle, Poses: []mgl64.Mat4{bad}, Mode: gltf.POINTS},
	} {
		if _, err := NewPrimitive(x); err == nil {
			t.Fatalf("NewPrimitive(%+v):\nhave nil error\nwant non-nil", x)
		}
	}
}

func TestPrimitiveLayout(t *testing.T) {
	p, err := NewPrimitive(&PrimitiveParam{
		Positions: triangle,
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoord0: []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Colors:    []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 0.5}},
		Mode:      gltf.TRIANGLES,
		Poses:     []mgl64.Mat4{mgl64.Ident4(), mgl64.Translate3D(2, 0, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, BufPosition|BufNormal|BufTexCoord0|BufColor0, p.BufFlags())
	assert.Equal(t, 2, p.Instances())
	// A vertex color with alpha below one.
	assert.True(t, p.IsTransparent())

	locs, inst := p.locations()
	assert.Equal(t, map[BufFlag]int{BufPosition: 0, BufNormal: 1, BufTexCoord0: 2, BufColor0: 3}, locs)
	assert.Equal(t, 4, inst)

	va := p.vertexArrayParam()
	assert.Equal(t, 3, va.VertexCount)
	assert.Equal(t, 4, va.InstanceLoc)
	require.Len(t, va.Attribs, 4)
	for i, x := range [...]struct{ loc, size int }{{0, 3}, {1, 3}, {2, 2}, {3, 4}} {
		if va.Attribs[i].Location != x.loc || va.Attribs[i].Size != x.size {
			t.Fatalf("VertexAttrib #%d:\nhave %d/%d\nwant %d/%d", i, va.Attribs[i].Location, va.Attribs[i].Size, x.loc, x.size)
		}
		if len(va.Attribs[i].Data) != x.size*3 {
			t.Fatalf("len(VertexAttrib #%d Data):\nhave %d\nwant %d", i, len(va.Attribs[i].Data), x.size*3)
		}
	}
	require.Len(t, va.Instances, 2)
	assert.Equal(t, mgl32.Translate3D(2, 0, 0), va.Instances[1])
}

func TestPrimitiveBounds(t *testing.T) {
	p, err := NewPrimitive(&PrimitiveParam{Positions: triangle, Mode: gltf.TRIANGLES})
	require.NoError(t, err)
	b := p.Bounds()
	assert.True(t, b.Min.ApproxEqual(mgl64.Vec3{0, 0, 0}))
	assert.True(t, b.Max.ApproxEqual(mgl64.Vec3{1, 1, 0}))
	assert.True(t, p.Centroid().ApproxEqual(mgl64.Vec3{0.5, 0.5, 0}))
	assert.True(t, p.Extents().ApproxEqual(mgl64.Vec3{1, 1, 0}))

	// Instance translations extend the bounds.
	v := p.version
	require.NoError(t, p.SetPoses([]mgl64.Mat4{mgl64.Translate3D(-1, 0, 0), mgl64.Translate3D(0, 0, 3)}))
	if p.version == v {
		t.Fatal("Primitive.SetPoses: version unchanged")
	}
	b = p.Bounds()
	assert.True(t, b.Min.ApproxEqual(mgl64.Vec3{-1, 0, 0}), "%v", b.Min)
	assert.True(t, b.Max.ApproxEqual(mgl64.Vec3{1, 1, 3}), "%v", b.Max)

	require.Error(t, p.SetPositions(triangle[:1]))
	moved := []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}
	require.NoError(t, p.SetPositions(moved))
	assert.InDelta(t, 2, p.Bounds().Max[0], 1e-9)

	v = p.version
	p.SetMaterial(nil)
	require.NotNil(t, p.Material())
	if p.version == v {
		t.Fatal("Primitive.SetMaterial: version unchanged")
	}
}

func TestMesh(t *testing.T) {
	if _, err := NewMesh("empty"); err == nil {
		t.Fatal("NewMesh():\nhave nil error\nwant non-nil")
	}
	if _, err := NewMesh("nil", nil); err == nil {
		t.Fatal("NewMesh(nil):\nhave nil error\nwant non-nil")
	}

	tex := rgbaTexture(t, 255)
	mr := DefaultMetallicRoughness()
	mr.BaseColorTexture = tex
	mat, err := NewMetallicRoughness("m", &mr)
	require.NoError(t, err)
	mat.SetNormalTexture(tex)
	a := boxPrimitive(t, 1, mat)
	b := boxPrimitive(t, 2, mat)
	m, err := NewMesh("m", a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Visible())
	assert.Equal(t, []*Texture{tex}, m.Textures())
	assert.True(t, m.Bounds().Min.ApproxEqual(mgl64.Vec3{-1, -1, -1}))
	assert.InDelta(t, 2, m.Extents()[1], 1e-9)
	assert.False(t, m.IsTransparent())

	require.NoError(t, mat.SetAlphaMode(gltf.BLEND))
	mr.BaseColorFactor[3] = 0.5
	require.NoError(t, mat.SetMetallicRoughness(&mr))
	assert.True(t, m.IsTransparent())

	m.SetWeights([]float32{0.25})
	assert.Equal(t, []float32{0.25}, m.Weights())
}

func TestFromPoints(t *testing.T) {
	pts := []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}
	m, err := FromPoints("pc", pts, []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
	p := m.Primitives()[0]
	assert.Equal(t, gltf.POINTS, p.Mode())
	assert.Equal(t, BufPosition|BufColor0, p.BufFlags())

	if _, err := FromPoints("bad", pts, []mgl32.Vec4{{1, 0, 0, 1}}, nil, nil); err == nil {
		t.Fatal("FromPoints(mismatched colors):\nhave nil error\nwant non-nil")
	}
}
