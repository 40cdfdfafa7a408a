// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf defines the glTF 2.0 enumerations that the
// engine's data model mirrors: primitive modes, sampler
// filters and wrap modes, and material alpha modes.
// The numeric values are the ones glTF shares with OpenGL.
package gltf

import (
	"github.com/pkg/errors"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

// Mode is a mesh.primitive.mode value.
type Mode int

// mesh.primitive.mode values.
const (
	POINTS Mode = iota
	LINES
	LINE_LOOP
	LINE_STRIP
	TRIANGLES
	TRIANGLE_STRIP
	TRIANGLE_FAN
)

// Check checks that m is a valid primitive mode.
func (m Mode) Check() error {
	if m < POINTS || m > TRIANGLE_FAN {
		return newErr("invalid primitive mode")
	}
	return nil
}

func (m Mode) String() string {
	switch m {
	case POINTS:
		return "POINTS"
	case LINES:
		return "LINES"
	case LINE_LOOP:
		return "LINE_LOOP"
	case LINE_STRIP:
		return "LINE_STRIP"
	case TRIANGLES:
		return "TRIANGLES"
	case TRIANGLE_STRIP:
		return "TRIANGLE_STRIP"
	case TRIANGLE_FAN:
		return "TRIANGLE_FAN"
	}
	return "!gltf.Mode"
}

// Filter is a sampler.*Filter value.
// The zero Filter means that no filter was specified.
type Filter int

// sampler.*Filter values.
const (
	NEAREST                Filter = 9728
	LINEAR                 Filter = 9729
	NEAREST_MIPMAP_NEAREST Filter = 9984
	LINEAR_MIPMAP_NEAREST  Filter = 9985
	NEAREST_MIPMAP_LINEAR  Filter = 9986
	LINEAR_MIPMAP_LINEAR   Filter = 9987
)

// CheckMag checks that f is valid as a magnification filter.
func (f Filter) CheckMag() error {
	switch f {
	case 0, NEAREST, LINEAR:
		return nil
	}
	return newErr("invalid magnification filter")
}

// CheckMin checks that f is valid as a minification filter.
func (f Filter) CheckMin() error {
	switch f {
	case 0, NEAREST, LINEAR, NEAREST_MIPMAP_NEAREST, LINEAR_MIPMAP_NEAREST,
		NEAREST_MIPMAP_LINEAR, LINEAR_MIPMAP_LINEAR:
		return nil
	}
	return newErr("invalid minification filter")
}

// Mipmapped reports whether f samples from mipmap levels.
func (f Filter) Mipmapped() bool { return f >= NEAREST_MIPMAP_NEAREST && f <= LINEAR_MIPMAP_LINEAR }

// Wrap is a sampler.wrap* value.
type Wrap int

// sampler.wrap* values.
const (
	CLAMP_TO_EDGE   Wrap = 33071
	MIRRORED_REPEAT Wrap = 33648
	REPEAT          Wrap = 10497
)

// Check checks that w is a valid wrap mode.
func (w Wrap) Check() error {
	switch w {
	case CLAMP_TO_EDGE, MIRRORED_REPEAT, REPEAT:
		return nil
	}
	return newErr("invalid wrap mode")
}

// AlphaMode is a material.alphaMode value.
type AlphaMode int

// material.alphaMode values.
const (
	OPAQUE AlphaMode = iota
	MASK
	BLEND
)

// Check checks that a is a valid alpha mode.
func (a AlphaMode) Check() error {
	if a < OPAQUE || a > BLEND {
		return newErr("invalid alpha mode")
	}
	return nil
}

func (a AlphaMode) String() string {
	switch a {
	case OPAQUE:
		return "OPAQUE"
	case MASK:
		return "MASK"
	case BLEND:
		return "BLEND"
	}
	return "!gltf.AlphaMode"
}

// ParseAlphaMode converts the glTF string representation
// of an alpha mode.
func ParseAlphaMode(s string) (AlphaMode, error) {
	switch s {
	case "OPAQUE":
		return OPAQUE, nil
	case "MASK":
		return MASK, nil
	case "BLEND":
		return BLEND, nil
	}
	return 0, newErr("invalid alpha mode " + s)
}
