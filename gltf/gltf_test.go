// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"testing"
)

func TestMode(t *testing.T) {
	for m := POINTS; m <= TRIANGLE_FAN; m++ {
		if err := m.Check(); err != nil {
			t.Fatalf("Mode(%d).Check\nhave %v\nwant nil", m, err)
		}
	}
	for _, m := range [...]Mode{-1, 7, 100} {
		if err := m.Check(); err == nil {
			t.Fatalf("Mode(%d).Check\nhave nil\nwant error", m)
		}
	}
	if s := TRIANGLES.String(); s != "TRIANGLES" {
		t.Fatalf("Mode.String\nhave %s\nwant TRIANGLES", s)
	}
}

func TestFilter(t *testing.T) {
	if err := LINEAR_MIPMAP_LINEAR.CheckMag(); err == nil {
		t.Fatal("Filter.CheckMag: mipmap filter accepted")
	}
	if err := LINEAR_MIPMAP_LINEAR.CheckMin(); err != nil {
		t.Fatalf("Filter.CheckMin\nhave %v\nwant nil", err)
	}
	if err := Filter(0).CheckMag(); err != nil {
		t.Fatalf("Filter(0).CheckMag\nhave %v\nwant nil", err)
	}
	if err := Filter(1234).CheckMin(); err == nil {
		t.Fatal("Filter.CheckMin: invalid filter accepted")
	}
	if LINEAR.Mipmapped() || !NEAREST_MIPMAP_LINEAR.Mipmapped() {
		t.Fatal("Filter.Mipmapped: wrong classification")
	}
}

func TestWrap(t *testing.T) {
	for _, w := range [...]Wrap{CLAMP_TO_EDGE, MIRRORED_REPEAT, REPEAT} {
		if err := w.Check(); err != nil {
			t.Fatalf("Wrap(%d).Check\nhave %v\nwant nil", w, err)
		}
	}
	if err := Wrap(0).Check(); err == nil {
		t.Fatal("Wrap(0).Check: invalid wrap accepted")
	}
}

func TestAlphaMode(t *testing.T) {
	for _, s := range [...]string{"OPAQUE", "MASK", "BLEND"} {
		a, err := ParseAlphaMode(s)
		if err != nil {
			t.Fatalf("ParseAlphaMode(%s): unexpected error: %v", s, err)
		}
		if a.String() != s {
			t.Fatalf("AlphaMode.String\nhave %s\nwant %s", a, s)
		}
	}
	if _, err := ParseAlphaMode("opaque"); err == nil {
		t.Fatal("ParseAlphaMode: lowercase mode accepted")
	}
	if err := AlphaMode(3).Check(); err == nil {
		t.Fatal("AlphaMode(3).Check: invalid mode accepted")
	}
}
