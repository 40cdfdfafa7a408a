// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"strconv"
	"strings"
)

// RenderFlag is a set of options for Renderer.Render.
// Flags are combined with bitwise OR.
type RenderFlag int

// Render flags.
const (
	// Render depth only.
	DepthOnly RenderFlag = 1 << iota
	// Render into the offscreen framebuffer and read it
	// back.
	OffscreenFlag
	// Invert the wireframe setting of every material.
	FlipWireframe
	// Draw every material as wireframe.
	AllWireframe
	// Draw every material as solid.
	AllSolid
	// Cast shadows from directional lights.
	ShadowsDirectional
	// Cast shadows from point lights (not implemented).
	ShadowsPoint
	// Cast shadows from spot lights.
	ShadowsSpot
	// Draw vertex normals.
	VertexNormals
	// Draw face normals.
	FaceNormals
	// Disable back-face culling.
	SkipCullFaces
	// Read back RGBA rather than RGB.
	RGBAFlag
	// Draw without lighting.
	Flat
	// Draw a segmentation image.
	Seg
	// Read back window-space depth rather than linear
	// depth.
	RawDepth

	// No flags.
	None RenderFlag = 0
	// Cast shadows from every light type.
	ShadowsAll = ShadowsDirectional | ShadowsPoint | ShadowsSpot
)

var flagNames = [...]string{
	"DepthOnly",
	"Offscreen",
	"FlipWireframe",
	"AllWireframe",
	"AllSolid",
	"ShadowsDirectional",
	"ShadowsPoint",
	"ShadowsSpot",
	"VertexNormals",
	"FaceNormals",
	"SkipCullFaces",
	"RGBA",
	"Flat",
	"Seg",
	"RawDepth",
}

// Has reports whether every flag of x is set in f.
func (f RenderFlag) Has(x RenderFlag) bool { return f&x == x }

// Any reports whether any flag of x is set in f.
func (f RenderFlag) Any(x RenderFlag) bool { return f&x != 0 }

// String implements fmt.Stringer.
func (f RenderFlag) String() string {
	if f == None {
		return "None"
	}
	var s []string
	for i, n := range flagNames {
		if f&(1<<i) != 0 {
			s = append(s, n)
		}
	}
	if rest := f &^ (1<<len(flagNames) - 1); rest != 0 {
		s = append(s, "0x"+strconv.FormatInt(int64(rest), 16))
	}
	return strings.Join(s, "|")
}

// ParseRenderFlag parses a "|"-separated list of flag
// names, as produced by RenderFlag.String.
func ParseRenderFlag(s string) (RenderFlag, error) {
	var f RenderFlag
	for _, x := range strings.Split(s, "|") {
		x = strings.TrimSpace(x)
		switch {
		case x == "" || strings.EqualFold(x, "None"):
			continue
		case strings.EqualFold(x, "ShadowsAll"):
			f |= ShadowsAll
			continue
		}
		found := false
		for i, n := range flagNames {
			if strings.EqualFold(n, x) {
				f |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return 0, newErr("flags: ", "unknown flag "+x)
		}
	}
	return f, nil
}
