// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// near reports whether every element of have is within
// eps of the element of want. Relative comparisons reject
// rounding residue next to zero.
func near(have, want []float64, eps float64) bool {
	for i := range have {
		if math.Abs(have[i]-want[i]) > eps {
			return false
		}
	}
	return len(have) == len(want)
}

func TestCompose(t *testing.T) {
	tr := mgl64.Vec3{1, -2, 3}
	r := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	s := mgl64.Vec3{2, 3, 4}
	m := Compose(tr, r, s)
	want := mgl64.Translate3D(1, -2, 3).Mul4(r.Mat4()).Mul4(mgl64.Scale3D(2, 3, 4))
	if !near(m[:], want[:], 1e-12) {
		t.Fatalf("Compose\nhave %v\nwant %v", m, want)
	}
	p := m.Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	if wantP := (mgl64.Vec3{1, 0, 3}); !near(p[:], wantP[:], 1e-12) {
		t.Fatalf("Compose: transformed point\nhave %v\nwant [1 0 3]", p)
	}
}

func TestDecompose(t *testing.T) {
	for _, x := range [...]struct {
		t mgl64.Vec3
		r mgl64.Quat
		s mgl64.Vec3
	}{
		{mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}},
		{mgl64.Vec3{5, 0, -1}, mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{1, 2, 3}},
		{mgl64.Vec3{-4, 2, 9}, mgl64.QuatRotate(2.9, mgl64.Vec3{1, 1, 1}.Normalize()), mgl64.Vec3{0.5, 0.5, 7}},
		{mgl64.Vec3{0, 1, 0}, mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{3, 1, 0.25}},
		{mgl64.Vec3{1, 1, 1}, mgl64.QuatRotate(-1.2, mgl64.Vec3{0.2, -0.9, 0.4}.Normalize()), mgl64.Vec3{-1, 2, 2}},
	} {
		m := Compose(x.t, x.r, x.s)
		tr, r, s := Decompose(m)
		if n := Compose(tr, r, s); !near(n[:], m[:], 1e-5) {
			t.Fatalf("Compose(Decompose(m))\nhave %v\nwant %v", n, m)
		}
		if !near(tr[:], x.t[:], 1e-9) {
			t.Fatalf("Decompose: translation\nhave %v\nwant %v", tr, x.t)
		}
		if l := r.Len(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("Decompose: rotation length\nhave %v\nwant 1", l)
		}
	}
}

func TestForward(t *testing.T) {
	m := mgl64.HomogRotate3D(math.Pi/2, mgl64.Vec3{0, 1, 0})
	f, want := Forward(m), mgl64.Vec3{-1, 0, 0}
	if !near(f[:], want[:], 1e-12) {
		t.Fatalf("Forward\nhave %v\nwant [-1 0 0]", f)
	}
	if f := Forward(mgl64.Ident4()); f != (mgl64.Vec3{0, 0, -1}) {
		t.Fatalf("Forward\nhave %v\nwant [0 0 -1]", f)
	}
}

func TestIsAffine(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3)
	if !IsAffine(m) {
		t.Fatal("IsAffine: translation reported as non-affine")
	}
	m[3] = 0.5
	if IsAffine(m) {
		t.Fatal("IsAffine: projective matrix reported as affine")
	}
}

func TestBox(t *testing.T) {
	b := BoxOf([]mgl32.Vec3{{-1, 0, 2}, {1, -3, 0}, {0, 1, 1}})
	want := Box{mgl64.Vec3{-1, -3, 0}, mgl64.Vec3{1, 1, 2}}
	if b != want {
		t.Fatalf("BoxOf\nhave %v\nwant %v", b, want)
	}
	if c := b.Centroid(); c != (mgl64.Vec3{0, -1, 1}) {
		t.Fatalf("Box.Centroid\nhave %v\nwant [0 -1 1]", c)
	}
	if e := b.Extents(); e != (mgl64.Vec3{2, 4, 2}) {
		t.Fatalf("Box.Extents\nhave %v\nwant [2 4 2]", e)
	}
	if s := b.Scale(); math.Abs(s-math.Sqrt(24)) > 1e-12 {
		t.Fatalf("Box.Scale\nhave %v\nwant %v", s, math.Sqrt(24))
	}
	if z := BoxOf(nil); z != (Box{}) {
		t.Fatalf("BoxOf(nil)\nhave %v\nwant zero Box", z)
	}

	u := Union(b, Box{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{5, 5, 5}})
	if u != (Box{mgl64.Vec3{-1, -3, 0}, mgl64.Vec3{5, 5, 5}}) {
		t.Fatalf("Union\nhave %v", u)
	}
	if z := Union(); z != (Box{}) {
		t.Fatalf("Union()\nhave %v\nwant zero Box", z)
	}

	unit := Box{mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5}}
	tb := unit.Transform(mgl64.Translate3D(10, 0, 0).Mul4(mgl64.HomogRotate3D(math.Pi/4, mgl64.Vec3{0, 0, 1})))
	h := math.Sqrt2 / 2
	wantT := Box{mgl64.Vec3{10 - h, -h, -0.5}, mgl64.Vec3{10 + h, h, 0.5}}
	if !near(tb.Min[:], wantT.Min[:], 1e-12) || !near(tb.Max[:], wantT.Max[:], 1e-12) {
		t.Fatalf("Box.Transform\nhave %v\nwant %v", tb, wantT)
	}
}

func TestLinearizeDepth(t *testing.T) {
	const n, f = 0.05, 100.0
	var p mgl64.Mat4
	p.Set(2, 2, (f+n)/(n-f))
	p.Set(2, 3, 2*f*n/(n-f))
	p.Set(3, 2, -1)
	for _, d := range [...]float64{0.05, 0.5, 1, 5, 42, 99.9} {
		clip := p.Mul4x1(mgl64.Vec4{0, 0, -d, 1})
		win := float32(clip[2]/clip[3]*0.5 + 0.5)
		if z := LinearizeDepth(win, n, f); math.Abs(float64(z)-d) > 1e-3*d+1e-4 {
			t.Fatalf("LinearizeDepth(%v)\nhave %v\nwant %v", win, z, d)
		}
	}
	if z := LinearizeDepth(1, n, f); z != 0 {
		t.Fatalf("LinearizeDepth(1)\nhave %v\nwant 0", z)
	}
	if z := LinearizeDepth(1, n, math.Inf(1)); z != 0 {
		t.Fatalf("LinearizeDepth(1, inf)\nhave %v\nwant 0", z)
	}
	// Infinite far plane: ndc = 1 - 2n/d.
	win := float32((1-2*n/4.0)*0.5 + 0.5)
	if z := LinearizeDepth(win, n, math.Inf(1)); math.Abs(float64(z)-4) > 1e-2 {
		t.Fatalf("LinearizeDepth(inf)\nhave %v\nwant 4", z)
	}
}

func TestM4f(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3)
	n := M4f(m)
	if n != mgl32.Translate3D(1, 2, 3) {
		t.Fatalf("M4f\nhave %v\nwant %v", n, mgl32.Translate3D(1, 2, 3))
	}
	if v := V3f(mgl64.Vec3{1, 2, 3}); v != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("V3f\nhave %v\nwant [1 2 3]", v)
	}
}
