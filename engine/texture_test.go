// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
)

// testImage returns a 2x2 image whose texels encode their
// coordinates.
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})
	img.Set(1, 0, color.RGBA{40, 50, 60, 255})
	img.Set(0, 1, color.RGBA{70, 80, 90, 255})
	img.Set(1, 1, color.RGBA{100, 110, 120, 255})
	return img
}

func TestNewTexture(t *testing.T) {
	for _, x := range [...]struct {
		ch   Channels
		want []byte
	}{
		{R, []byte{10, 40, 70, 100}},
		{RG, []byte{10, 20, 40, 50, 70, 80, 100, 110}},
		{GB, []byte{20, 30, 50, 60, 80, 90, 110, 120}},
		{RGB, []byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}},
	} {
		tex, err := NewTexture(&TexParam{Name: "t", Source: testImage(), Channels: x.ch})
		require.NoError(t, err)
		assert.Equal(t, x.want, tex.Pixels(), "%v", x.ch)
		assert.Equal(t, x.ch.N()*4, len(tex.Pixels()))
		w, h := tex.Size()
		assert.Equal(t, [2]int{2, 2}, [2]int{w, h})
		assert.True(t, tex.HasSource())
		assert.False(t, tex.IsFloat())
	}

	// Sub-images are extracted from their own origin.
	sub := testImage().SubImage(image.Rect(1, 1, 2, 2))
	tex, err := NewTexture(&TexParam{Source: sub, Channels: RGBA})
	require.NoError(t, err)
	assert.Equal(t, []byte{100, 110, 120, 255}, tex.Pixels())

	for _, p := range [...]*TexParam{
		{Channels: RGB},
		{Channels: Channels(9), Width: 1, Height: 1},
		{Source: testImage(), Channels: D},
		{Source: testImage(), Pixels: []byte{1}, Channels: R},
		{Pixels: []byte{1, 2, 3}, Width: 2, Height: 2, Channels: R},
		{Floats: []float32{1}, Width: 1, Height: 1, Channels: RG},
		{Width: 1, Height: 1, Channels: R, Sampler: &Sampler{WrapS: 1}},
	} {
		if _, err := NewTexture(p); err == nil {
			t.Fatalf("NewTexture(%+v):\nhave nil error\nwant non-nil", p)
		}
	}

	tex, err = NewTexture(&TexParam{Floats: []float32{0.5, 1}, Width: 2, Height: 1, Channels: R})
	require.NoError(t, err)
	assert.True(t, tex.IsFloat())
	assert.Error(t, tex.SetPixels([]byte{1, 2}))
}

func TestTextureTransparency(t *testing.T) {
	pix := []byte{
		255, 255, 255, 255,
		255, 255, 255, 100,
	}
	tex, err := NewTexture(&TexParam{Pixels: pix, Width: 2, Height: 1, Channels: RGBA})
	require.NoError(t, err)
	assert.True(t, tex.IsTransparent(1))
	assert.True(t, tex.IsTransparent(0.5))
	assert.False(t, tex.IsTransparent(0.3))

	v := tex.version
	require.NoError(t, tex.SetPixels([]byte{0, 0, 0, 255, 0, 0, 0, 255}))
	if tex.version == v {
		t.Fatal("Texture.SetPixels: version unchanged")
	}
	assert.False(t, tex.IsTransparent(1))
	assert.Error(t, tex.SetPixels([]byte{0}))

	rgb, err := NewTexture(&TexParam{Source: testImage(), Channels: RGB})
	require.NoError(t, err)
	assert.False(t, rgb.IsTransparent(1))
	empty, err := NewTexture(&TexParam{Width: 4, Height: 4, Channels: RGBA})
	require.NoError(t, err)
	assert.False(t, empty.IsTransparent(1))
}

func TestSampler(t *testing.T) {
	s, err := NewSampler("s", gltf.NEAREST, gltf.LINEAR_MIPMAP_NEAREST, gltf.CLAMP_TO_EDGE, gltf.MIRRORED_REPEAT)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Name)
	if _, err := NewSampler("", gltf.LINEAR_MIPMAP_LINEAR, 0, 0, 0); err == nil {
		t.Fatal("NewSampler(mipmap mag filter):\nhave nil error\nwant non-nil")
	}
	if _, err := NewSampler("", 0, 0, 0, gltf.Wrap(1)); err == nil {
		t.Fatal("NewSampler(invalid wrap):\nhave nil error\nwant non-nil")
	}

	tex, err := NewTexture(&TexParam{Source: testImage(), Channels: RGBA})
	require.NoError(t, err)
	v := tex.version
	tex.SetSampler(s)
	assert.Same(t, s, tex.Sampler())
	if tex.version == v {
		t.Fatal("Texture.SetSampler: version unchanged")
	}
	tex.SetSampler(nil)
	assert.Equal(t, Sampler{}, *tex.Sampler())
}

func TestTexParam(t *testing.T) {
	tex, err := NewTexture(&TexParam{Source: testImage(), Channels: RGB})
	require.NoError(t, err)
	p := tex.texParam()
	assert.Equal(t, driver.RGB, p.Format)
	assert.Equal(t, gltf.LINEAR, p.MagFilter)
	assert.Equal(t, gltf.LINEAR_MIPMAP_LINEAR, p.MinFilter)
	assert.Equal(t, gltf.REPEAT, p.WrapS)
	assert.Equal(t, gltf.REPEAT, p.WrapT)
	assert.True(t, p.Mipmap)
	// Bottom row first.
	assert.Equal(t, []byte{70, 80, 90, 100, 110, 120, 10, 20, 30, 40, 50, 60}, p.Pixels)
	// The texture's own texels are not reordered.
	assert.Equal(t, byte(10), tex.Pixels()[0])

	shadow, err := newShadowTexture(8)
	require.NoError(t, err)
	p = shadow.texParam()
	assert.Equal(t, driver.Depth, p.Format)
	assert.True(t, p.Float)
	assert.False(t, p.Mipmap)
	assert.Equal(t, gltf.NEAREST, p.MagFilter)
	assert.Equal(t, gltf.NEAREST, p.MinFilter)
	assert.Nil(t, p.Pixels)
	assert.Nil(t, p.Floats)
}

func TestChannels(t *testing.T) {
	for _, x := range [...]struct {
		c Channels
		n int
		s string
	}{
		{D, 1, "D"},
		{R, 1, "R"},
		{RG, 2, "RG"},
		{GB, 2, "GB"},
		{RGB, 3, "RGB"},
		{RGBA, 4, "RGBA"},
		{Channels(-1), 0, "invalid"},
	} {
		if n := x.c.N(); n != x.n {
			t.Fatalf("Channels(%d).N:\nhave %d\nwant %d", int(x.c), n, x.n)
		}
		if s := x.c.String(); s != x.s {
			t.Fatalf("Channels(%d).String:\nhave %s\nwant %s", int(x.c), s, x.s)
		}
	}
}
