// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package bitvec

import (
	"testing"
	"unsafe"
)

func TestNbit(t *testing.T) {
	for _, x := range [...][2]int{
		{int(unsafe.Sizeof(uint(0))) * 8, (&V[uint]{}).nbit()},
		{int(unsafe.Sizeof(uint8(0))) * 8, (&V[uint8]{}).nbit()},
		{int(unsafe.Sizeof(uint32(0))) * 8, (&V[uint32]{}).nbit()},
		{int(unsafe.Sizeof(uint64(0))) * 8, (&V[uint64]{}).nbit()},
	} {
		if x[0] != x[1] {
			t.Fatalf("V[T].nbit:\nhave %d\nwant %d", x[0], x[1])
		}
	}
}

func TestZero(t *testing.T) {
	var v16 V[uint16]
	if n := v16.Len(); n != 0 {
		t.Fatalf("v16.Len:\nhave %d\nwant 0", n)
	}
	if n := v16.Rem(); n != 0 {
		t.Fatalf("v16.Rem:\nhave %d\nwant 0", n)
	}
	if _, ok := v16.Search(); ok {
		t.Fatal("v16.Search: unexpected success on empty vector")
	}
	if v16.IsSet(3) {
		t.Fatal("v16.IsSet: out of range bit reported as set")
	}
}

func TestGrow(t *testing.T) {
	var v32 V[uint32]
	for _, x := range [...]struct {
		nplus, wantLen int
	}{
		{1, 32},
		{2, 96},
		{0, 96},
		{-1, 96},
		{16, 608},
	} {
		if n, i := v32.Len(), v32.Grow(x.nplus); n != i {
			t.Fatalf("v32.Grow:\nhave %d\nwant %d", i, n)
		}
		if n := v32.Len(); n != x.wantLen {
			t.Fatalf("v32.Grow: Len:\nhave %d\nwant %d", n, x.wantLen)
		}
		if n := v32.Rem(); n != x.wantLen {
			t.Fatalf("v32.Grow: Rem:\nhave %d\nwant %d", n, x.wantLen)
		}
	}
}

func TestSetUnset(t *testing.T) {
	var v8 V[uint8]
	v8.Grow(2)
	v8.Set(0)
	v8.Set(9)
	v8.Set(9)
	if n := v8.Rem(); n != 14 {
		t.Fatalf("v8.Set: Rem:\nhave %d\nwant 14", n)
	}
	if !v8.IsSet(9) || v8.IsSet(8) {
		t.Fatalf("v8.IsSet:\nhave %v %v\nwant true false", v8.IsSet(9), v8.IsSet(8))
	}
	if i, ok := v8.Search(); !ok || i != 1 {
		t.Fatalf("v8.Search:\nhave %d, %t\nwant 1, true", i, ok)
	}
	v8.Unset(0)
	v8.Unset(0)
	if n := v8.Rem(); n != 15 {
		t.Fatalf("v8.Unset: Rem:\nhave %d\nwant 15", n)
	}
	if i, ok := v8.Search(); !ok || i != 0 {
		t.Fatalf("v8.Search:\nhave %d, %t\nwant 0, true", i, ok)
	}
}

func TestAlloc(t *testing.T) {
	var v8 V[uint8]
	for i := 0; i < 20; i++ {
		if x := v8.Alloc(); x != i {
			t.Fatalf("v8.Alloc:\nhave %d\nwant %d", x, i)
		}
	}
	if n := v8.Len(); n != 24 {
		t.Fatalf("v8.Alloc: Len:\nhave %d\nwant 24", n)
	}
	v8.Unset(5)
	if x := v8.Alloc(); x != 5 {
		t.Fatalf("v8.Alloc: reuse:\nhave %d\nwant 5", x)
	}
	v8.Clear()
	if n := v8.Rem(); n != v8.Len() {
		t.Fatalf("v8.Clear: Rem:\nhave %d\nwant %d", n, v8.Len())
	}
	if x := v8.Alloc(); x != 0 {
		t.Fatalf("v8.Alloc after Clear:\nhave %d\nwant 0", x)
	}
}
