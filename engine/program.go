// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"strconv"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/engine/internal/shader"
	"github.com/gviegas/pbr/gltf"
)

// progMode selects the shader stages of a program.
type progMode int

const (
	progMaterial progMode = iota
	progDepth
	progFlat
	progSeg
	progNormals
)

// forwardMode returns the mode of forward pass programs.
func forwardMode(flags RenderFlag) progMode {
	switch {
	case flags.Has(Flat):
		return progFlat
	case flags.Has(Seg):
		return progSeg
	case flags.Has(DepthOnly):
		return progDepth
	}
	return progMaterial
}

// Names of the vertex location defines, in attribOrder
// order.
var locDefines = [...]string{
	"NORMAL_LOC",
	"TANGENT_LOC",
	"TEXCOORD_0_LOC",
	"TEXCOORD_1_LOC",
	"COLOR_0_LOC",
	"JOINTS_0_LOC",
	"WEIGHTS_0_LOC",
}

// Names of the material texture defines, in TexFlag
// order.
var texDefines = [...]struct {
	flag TexFlag
	name string
}{
	{TexNormal, "HAS_NORMAL_TEX"},
	{TexOcclusion, "HAS_OCCLUSION_TEX"},
	{TexEmissive, "HAS_EMISSIVE_TEX"},
	{TexBaseColor, "HAS_BASE_COLOR_TEX"},
	{TexMetallicRoughness, "HAS_METALLIC_ROUGHNESS_TEX"},
	{TexDiffuse, "HAS_DIFFUSE_TEX"},
	{TexSpecularGlossiness, "HAS_SPECULAR_GLOSSINESS_TEX"},
}

// variant returns the program variant used to draw p in
// the given mode.
// The result depends only on mode, the vertex layout of
// p, its material's texture flags and kind and, for
// material programs, the shadow flags and light budget.
func (r *Renderer) variant(p *Primitive, mode progMode, flags RenderFlag) *shader.Variant {
	v := &shader.Variant{Defines: make(map[string]string)}
	switch mode {
	case progMaterial:
		v.Vertex, v.Fragment = shader.MeshVert, shader.MeshFrag
	case progDepth:
		v.Vertex, v.Fragment = shader.DepthVert, shader.DepthFrag
	case progFlat:
		v.Vertex, v.Fragment = shader.FlatVert, shader.FlatFrag
	case progSeg:
		v.Vertex, v.Fragment = shader.SegVert, shader.SegFrag
	case progNormals:
		v.Vertex, v.Fragment = shader.NormalsVert, shader.NormalsFrag
		if p.mode == gltf.POINTS {
			v.Geometry = shader.NormalsPointsGeom
		} else {
			v.Geometry = shader.NormalsGeom
		}
		if flags.Has(VertexNormals) {
			v.Defines["VERTEX_NORMALS"] = "1"
		}
		if flags.Has(FaceNormals) {
			v.Defines["FACE_NORMALS"] = "1"
		}
	}

	locs, instLoc := p.locations()
	for i, f := range attribOrder {
		if loc, ok := locs[f]; ok {
			v.Defines[locDefines[i]] = strconv.Itoa(loc)
		}
	}
	v.Defines["INST_M_LOC"] = strconv.Itoa(instLoc)

	if mode != progMaterial && mode != progFlat {
		return v
	}
	tf := p.material.TexFlags()
	for _, x := range texDefines {
		if tf&x.flag != 0 {
			v.Defines[x.name] = "1"
		}
	}
	switch p.material.Kind() {
	case KindMetallicRoughness:
		v.Defines["USE_METALLIC_MATERIAL"] = "1"
	case KindSpecularGlossiness:
		v.Defines["USE_GLOSSY_MATERIAL"] = "1"
	}
	if mode == progFlat {
		return v
	}
	if flags.Has(ShadowsDirectional) {
		v.Defines["DIRECTIONAL_LIGHT_SHADOWS"] = "1"
	}
	if flags.Has(ShadowsSpot) {
		v.Defines["SPOT_LIGHT_SHADOWS"] = "1"
	}
	if flags.Has(ShadowsPoint) {
		v.Defines["POINT_LIGHT_SHADOWS"] = "1"
	}
	n := r.maxLights(flags)
	v.Defines["MAX_DIRECTIONAL_LIGHTS"] = strconv.Itoa(n[KindDirectional])
	v.Defines["MAX_SPOT_LIGHTS"] = strconv.Itoa(n[KindSpot])
	v.Defines["MAX_POINT_LIGHTS"] = strconv.Itoa(n[KindPoint])
	return v
}

// program returns the bound program used to draw p in the
// given mode.
func (r *Renderer) program(p *Primitive, mode progMode, flags RenderFlag) (driver.Program, error) {
	prog, err := r.ctx.program(r.variant(p, mode, flags))
	if err != nil {
		return nil, err
	}
	prog.Bind()
	return prog, nil
}

// maxLights returns how many lights of each kind can
// affect a single mesh, indexed by LightKind.
// Texture units not reserved for materials are split
// evenly among the kinds that cast shadows, directional
// lights taking the remainder.
func (r *Renderer) maxLights(flags RenderFlag) (n [3]int) {
	for i := range n {
		n[i] = r.cfg.MaxLights
	}
	avail := max(0, r.gpu.Limits().MaxTexUnits-r.cfg.ReservedTexUnits)
	var kinds []LightKind
	for _, k := range [...]LightKind{KindDirectional, KindSpot, KindPoint} {
		if castsShadow(k, flags) {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return
	}
	per := avail / len(kinds)
	for _, k := range kinds {
		x := per
		if k == KindDirectional {
			x += avail - per*len(kinds)
		}
		n[k] = min(n[k], x)
	}
	return
}
