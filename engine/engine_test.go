// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gviegas/pbr/driver/drivertest"
	"github.com/gviegas/pbr/gltf"
)

// newTestContext creates a RenderContext on top of a
// drivertest.GPU whose default framebuffer is width by
// height.
func newTestContext(t *testing.T, width, height int, cfg *Config) (*RenderContext, *drivertest.GPU) {
	t.Helper()
	gpu := drivertest.New(width, height)
	ctx, err := NewRenderContext(gpu, cfg)
	require.NoError(t, err)
	return ctx, gpu
}

// boxPrimitive returns an axis-aligned box centered at the
// origin, with outward facing, counter-clockwise triangles.
func boxPrimitive(t *testing.T, size float32, mat *Material) *Primitive {
	t.Helper()
	h := size / 2
	faces := [...]struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	var (
		pos  []mgl32.Vec3
		norm []mgl32.Vec3
		idx  []uint32
	)
	for _, f := range faces {
		c := f.n.Mul(h)
		u, v := f.u.Mul(h), f.v.Mul(h)
		base := uint32(len(pos))
		pos = append(pos,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v))
		norm = append(norm, f.n, f.n, f.n, f.n)
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	p, err := NewPrimitive(&PrimitiveParam{
		Positions: pos,
		Normals:   norm,
		Indices:   idx,
		Mode:      gltf.TRIANGLES,
		Material:  mat,
	})
	require.NoError(t, err)
	return p
}

// boxMesh returns a single-primitive box mesh with the
// given base color.
func boxMesh(t *testing.T, name string, color mgl32.Vec4) *Mesh {
	t.Helper()
	mr := DefaultMetallicRoughness()
	mr.BaseColorFactor = color
	mat, err := NewMetallicRoughness(name, &mr)
	require.NoError(t, err)
	m, err := NewMesh(name, boxPrimitive(t, 1, mat))
	require.NoError(t, err)
	return m
}

// translate returns a pointer to a translation matrix.
func translate(x, y, z float64) *mgl64.Mat4 {
	m := mgl64.Translate3D(x, y, z)
	return &m
}

// boxScene returns a scene with a unit red box at the
// origin, a directional light and a perspective camera at
// (0, 0, 5) looking down -Z.
func boxScene(t *testing.T) (s *Scene, box, light, camera *Node) {
	t.Helper()
	s, err := New("box")
	require.NoError(t, err)
	box, err = s.Add(boxMesh(t, "box", mgl32.Vec4{1, 0, 0, 1}), "box", nil, nil)
	require.NoError(t, err)
	light, err = s.Add(NewDirectionalLight("sun"), "sun", nil, nil)
	require.NoError(t, err)
	cam, err := NewPerspectiveCamera("cam", math.Pi/3, DefaultZNear, DefaultZFar, 0)
	require.NoError(t, err)
	camera, err = s.Add(cam, "cam", translate(0, 0, 5), nil)
	require.NoError(t, err)
	return
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	ctx, _ := newTestContext(t, 64, 48, nil)
	r, err := NewRenderer(ctx, 64, 48, 1)
	require.NoError(t, err)
	s, _, _, _ := boxScene(t)
	_, _, err = r.Render(s, OffscreenFlag, nil)
	require.NoError(t, err)
	if n := logs.FilterMessage("resources synchronized").Len(); n != 1 {
		t.Fatalf("logged resource synchronization:\nhave %d\nwant 1", n)
	}
	if logs.FilterMessage("program compiled").Len() == 0 {
		t.Fatal("logged program compilation:\nhave 0\nwant > 0")
	}

	SetLogger(nil)
	n := logs.Len()
	r.Delete()
	if logs.Len() != n {
		t.Fatalf("log entries after SetLogger(nil):\nhave %d\nwant %d", logs.Len(), n)
	}
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, MaxLights, c.MaxLights)
	assert.Equal(t, ShadowTexSize, c.ShadowTexSize)
	assert.Equal(t, ReservedTexUnits, c.ReservedTexUnits)
	assert.Equal(t, Samples, c.Samples)
	assert.Equal(t, float32(NormalMagnitude), c.NormalMagnitude)

	for _, f := range [...]func(*Config){
		func(c *Config) { c.MaxLights = -1 },
		func(c *Config) { c.ShadowTexSize = 0 },
		func(c *Config) { c.ReservedTexUnits = -2 },
		func(c *Config) { c.Samples = 0 },
		func(c *Config) { c.NormalMagnitude = 0 },
	} {
		c := DefaultConfig()
		f(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("Config.Validate(%+v):\nhave nil\nwant non-nil", c)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	c, err = LoadConfig(strings.NewReader("max_lights: 2\nsamples: 8\nnormal_color: [1, 0, 0, 1]\n"))
	require.NoError(t, err)
	want := DefaultConfig()
	want.MaxLights = 2
	want.Samples = 8
	want.NormalColor = [4]float32{1, 0, 0, 1}
	assert.Equal(t, want, c)

	_, err = LoadConfig(strings.NewReader("samples: [1, 2"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), cfgPrefix), err.Error())

	_, err = LoadConfig(strings.NewReader("shadow_tex_size: -1\n"))
	require.Error(t, err)
}

func TestRenderFlag(t *testing.T) {
	for _, x := range [...]struct {
		f RenderFlag
		s string
	}{
		{None, "None"},
		{OffscreenFlag, "Offscreen"},
		{DepthOnly | RGBAFlag, "DepthOnly|RGBA"},
		{ShadowsAll, "ShadowsDirectional|ShadowsPoint|ShadowsSpot"},
		{Seg | RawDepth, "Seg|RawDepth"},
	} {
		if s := x.f.String(); s != x.s {
			t.Fatalf("RenderFlag(%d).String:\nhave %s\nwant %s", int(x.f), s, x.s)
		}
		f, err := ParseRenderFlag(x.s)
		if err != nil || f != x.f {
			t.Fatalf("ParseRenderFlag(%q):\nhave %v, %v\nwant %v, nil", x.s, f, err, x.f)
		}
	}

	// Bit values are part of the public contract.
	for _, x := range [...]struct {
		f    RenderFlag
		want int
	}{
		{DepthOnly, 1},
		{OffscreenFlag, 2},
		{ShadowsAll, 224},
		{RGBAFlag, 2048},
		{RawDepth, 16384},
	} {
		if int(x.f) != x.want {
			t.Fatalf("RenderFlag %v:\nhave %d\nwant %d", x.f, int(x.f), x.want)
		}
	}

	f, err := ParseRenderFlag("offscreen | shadowsall|flat")
	require.NoError(t, err)
	assert.Equal(t, OffscreenFlag|ShadowsAll|Flat, f)
	assert.True(t, f.Has(ShadowsDirectional|ShadowsSpot))
	assert.False(t, f.Has(Flat|Seg))
	assert.True(t, f.Any(Flat|Seg))
	assert.False(t, f.Any(Seg|DepthOnly))

	if _, err := ParseRenderFlag("Offscreen|Bogus"); err == nil {
		t.Fatal("ParseRenderFlag(\"Offscreen|Bogus\"):\nhave nil error\nwant non-nil")
	}
	if s := RenderFlag(1 << 20).String(); !strings.HasPrefix(s, "0x") {
		t.Fatalf("RenderFlag(1<<20).String:\nhave %s\nwant 0x...", s)
	}
}

func TestErrors(t *testing.T) {
	err := errors.Wrap(ErrNotImplemented, rendPrefix+"point light shadows")
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatal("errors.Is(wrapped ErrNotImplemented):\nhave false\nwant true")
	}
	if errors.Is(err, ErrNoCamera) {
		t.Fatal("errors.Is(wrapped ErrNotImplemented, ErrNoCamera):\nhave true\nwant false")
	}
	if s := newErr(scenePrefix, "x").Error(); s != "scene: x" {
		t.Fatalf("newErr:\nhave %q\nwant %q", s, "scene: x")
	}
}
