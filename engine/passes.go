// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"sort"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/gltf"
	"github.com/gviegas/pbr/linear"
)

// binder sets uniforms of a bound program, retaining the
// first error.
type binder struct {
	p   driver.Program
	err error
}

func (b *binder) set(name string, v any) {
	if b.err == nil {
		if err := b.p.SetUniform(name, v); err != nil {
			b.err = errors.Wrap(err, rendPrefix+"uniform "+name)
		}
	}
}

// view holds the matrices of a viewpoint.
type view struct {
	v, p mgl32.Mat4
	pos  mgl32.Vec3
}

func (b *binder) setView(w *view) {
	b.set("V", w.v)
	b.set("P", w.p)
	b.set("cam_pos", w.pos)
}

// cameraView returns the view of the main camera of s.
func (r *Renderer) cameraView(s *Scene) *view {
	n := s.MainCamera()
	pose := s.pose(n)
	return &view{
		v:   linear.M4f(pose.Inv()),
		p:   linear.M4f(n.camera.Projection(r.width, r.height)),
		pos: linear.V3f(linear.Translation(pose)),
	}
}

// lightView returns the view from which the shadow map of
// the light attached to ln is rendered.
// Directional lights are moved to the scene's centroid,
// backed off along their direction by the scene's scale.
func (r *Renderer) lightView(s *Scene, ln *Node) (*view, error) {
	scale := s.Scale()
	cam, err := ln.light.ShadowCamera(scale)
	if err != nil {
		return nil, err
	}
	pose := s.pose(ln)
	if ln.light.Kind() == KindDirectional {
		loc := s.Centroid().Sub(linear.Forward(pose).Mul(shadowScale(scale)))
		pose.SetCol(3, loc.Vec4(1))
	}
	size := r.cfg.ShadowTexSize
	return &view{
		v:   linear.M4f(pose.Inv()),
		p:   linear.M4f(cam.Projection(size, size)),
		pos: linear.V3f(linear.Translation(s.pose(s.MainCamera()))),
	}, nil
}

// sortedMeshNodes returns the mesh nodes of s, opaque ones
// first, each group sorted by descending distance from
// the main camera.
func sortedMeshNodes(s *Scene) []*Node {
	cam := linear.Translation(s.pose(s.MainCamera()))
	nodes := make([]*Node, 0, len(s.meshNodes))
	var trans []*Node
	for _, n := range s.meshNodes {
		if n.mesh.IsTransparent() {
			trans = append(trans, n)
		} else {
			nodes = append(nodes, n)
		}
	}
	dist := make(map[*Node]float64, len(s.meshNodes))
	for _, n := range s.meshNodes {
		dist[n] = linear.Translation(s.pose(n)).Sub(cam).Len()
	}
	byDist := func(ns []*Node) {
		sort.SliceStable(ns, func(i, j int) bool { return dist[ns[i]] > dist[ns[j]] })
	}
	byDist(nodes)
	byDist(trans)
	return append(nodes, trans...)
}

// sortedByDistance returns nodes sorted by ascending
// distance from the origin of the node to.
func sortedByDistance(s *Scene, nodes []*Node, to *Node) []*Node {
	origin := linear.Translation(s.pose(to))
	dist := make(map[*Node]float64, len(nodes))
	for _, n := range nodes {
		dist[n] = linear.Translation(s.pose(n)).Sub(origin).Len()
	}
	sorted := append([]*Node(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool { return dist[sorted[i]] < dist[sorted[j]] })
	return sorted
}

// shadowPass renders the shadow map of the light attached
// to ln.
func (r *Renderer) shadowPass(s *Scene, ln *Node) error {
	fb, err := r.shadowFB(ln.light.ShadowTexture())
	if err != nil {
		return err
	}
	w, err := r.lightView(s, ln)
	if err != nil {
		return err
	}
	r.gpu.SetFramebuf(fb)
	r.gpu.SetViewport(r.cfg.ShadowTexSize, r.cfg.ShadowTexSize)
	r.gpu.Clear(&driver.ClearParam{Depth: 1, ClearDepth: true})
	for _, n := range sortedMeshNodes(s) {
		if !n.mesh.visible {
			continue
		}
		pose := s.pose(n)
		for _, p := range n.mesh.prims {
			prog, err := r.program(p, progDepth, None)
			if err != nil {
				return err
			}
			b := binder{p: prog}
			b.setView(w)
			if b.err != nil {
				return b.err
			}
			if err := r.draw(p, pose, prog, DepthOnly); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindTarget binds the framebuffer and viewport of the
// forward pass.
func (r *Renderer) bindTarget(flags RenderFlag) error {
	if flags.Has(OffscreenFlag) {
		if err := r.configureMainFBs(); err != nil {
			return err
		}
		r.gpu.SetFramebuf(r.mainFB)
	} else {
		r.gpu.SetFramebuf(nil)
	}
	r.gpu.SetViewport(r.width, r.height)
	return nil
}

// forwardPass renders s from its main camera.
func (r *Renderer) forwardPass(s *Scene, flags RenderFlag, seg map[*Node][3]uint8) error {
	if err := r.bindTarget(flags); err != nil {
		return err
	}
	bg := s.bg
	if flags.Has(Seg) {
		bg = mgl32.Vec4{0, 0, 0, 1}
	}
	r.gpu.Clear(&driver.ClearParam{Color: bg, Depth: 1, ClearColor: true, ClearDepth: true})

	w := r.cameraView(s)
	mode := forwardMode(flags)
	for _, n := range sortedMeshNodes(s) {
		if !n.mesh.visible {
			continue
		}
		var color mgl32.Vec3
		if flags.Has(Seg) {
			c, ok := seg[n]
			if !ok {
				continue
			}
			color = mgl32.Vec3{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
		}
		pose := s.pose(n)
		for _, p := range n.mesh.prims {
			prog, err := r.program(p, mode, flags)
			if err != nil {
				return err
			}
			b := binder{p: prog}
			b.setView(w)
			if flags.Has(Seg) {
				b.set("color", color)
			}
			if b.err != nil {
				return b.err
			}
			if mode == progMaterial {
				if err := r.bindLighting(s, n, prog, flags); err != nil {
					r.resetUnits()
					return err
				}
			}
			if err := r.draw(p, pose, prog, flags); err != nil {
				return err
			}
		}
	}
	return nil
}

// normalsPass draws the normal vectors of every visible
// primitive that has them.
func (r *Renderer) normalsPass(s *Scene, flags RenderFlag) error {
	if err := r.bindTarget(flags); err != nil {
		return err
	}
	w := r.cameraView(s)
	color := mgl32.Vec4(r.cfg.NormalColor)
	for _, n := range sortedMeshNodes(s) {
		if !n.mesh.visible {
			continue
		}
		pose := s.pose(n)
		for _, p := range n.mesh.prims {
			if p.BufFlags()&BufNormal == 0 {
				continue
			}
			prog, err := r.program(p, progNormals, flags&(VertexNormals|FaceNormals))
			if err != nil {
				return err
			}
			b := binder{p: prog}
			b.setView(w)
			b.set("normal_magnitude", r.cfg.NormalMagnitude*float32(p.Scale()))
			b.set("normal_color", color)
			if b.err != nil {
				return b.err
			}
			if err := r.draw(p, pose, prog, DepthOnly); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindTexture binds t to the next free texture unit and
// sets the named sampler uniform to it.
func (r *Renderer) bindTexture(t *Texture, name string, b *binder) error {
	tex, err := r.texture(t)
	if err != nil {
		return err
	}
	unit := r.units.Alloc()
	if unit >= r.gpu.Limits().MaxTexUnits {
		return newErr(rendPrefix, "out of texture units")
	}
	r.gpu.SetTexture(unit, tex)
	b.set(name, unit)
	return b.err
}

// resetUnits unbinds every texture unit allocated since
// the last reset.
func (r *Renderer) resetUnits() {
	for i := 0; i < r.units.Len(); i++ {
		if r.units.IsSet(i) {
			r.gpu.SetTexture(i, nil)
		}
	}
	r.units.Clear()
}

// bindLighting sets the lighting uniforms used to shade
// the mesh attached to n.
// When there are more lights of a kind than the budget
// allows, the lights nearest to n are used.
func (r *Renderer) bindLighting(s *Scene, n *Node, prog driver.Program, flags RenderFlag) error {
	maxn := r.maxLights(flags)
	cnt := s.countLights()
	b := binder{p: prog}
	b.set("ambient_light", s.ambient)
	b.set("n_directional_lights", min(cnt[KindDirectional], maxn[KindDirectional]))
	b.set("n_spot_lights", min(cnt[KindSpot], maxn[KindSpot]))
	b.set("n_point_lights", min(cnt[KindPoint], maxn[KindPoint]))
	if b.err != nil {
		return b.err
	}

	nodes := s.lightNodes
	for k := range cnt {
		if cnt[k] > maxn[k] {
			nodes = sortedByDistance(s, nodes, n)
			break
		}
	}
	var used [3]int
	for _, ln := range nodes {
		l := ln.light
		k := l.Kind()
		if used[k] == maxn[k] {
			continue
		}
		var prefix string
		switch k {
		case KindDirectional:
			prefix = "directional_lights["
		case KindSpot:
			prefix = "spot_lights["
		case KindPoint:
			prefix = "point_lights["
		}
		prefix += strconv.Itoa(used[k]) + "]."
		used[k]++

		pose := s.pose(ln)
		dir := linear.V3f(linear.Forward(pose))
		if k != KindDirectional {
			b.set(prefix+"position", linear.V3f(linear.Translation(pose)))
			b.set(prefix+"range", lightRange(l))
		}
		if k != KindPoint {
			b.set(prefix+"direction", dir)
		}
		if spot, ok := l.(*SpotLight); ok {
			scale, offset := spot.angleScaleOffset()
			b.set(prefix+"light_angle_scale", scale)
			b.set(prefix+"light_angle_offset", offset)
		}
		b.set(prefix+"color", l.Color())
		b.set(prefix+"intensity", l.Intensity())
		if b.err != nil {
			return b.err
		}

		if !castsShadow(k, flags) {
			continue
		}
		if k == KindPoint {
			return errors.Wrap(ErrNotImplemented, rendPrefix+"point light shadows")
		}
		if err := r.bindTexture(l.ShadowTexture(), prefix+"shadow_map", &b); err != nil {
			return err
		}
		w, err := r.lightView(s, ln)
		if err != nil {
			return err
		}
		b.set(prefix+"light_matrix", w.p.Mul4(w.v))
		if b.err != nil {
			return b.err
		}
	}
	return nil
}

// draw sets the model matrix, binds the material of p
// unless flags has DepthOnly or Seg, sets the pipeline
// state and draws p. Texture units are reset afterwards.
func (r *Renderer) draw(p *Primitive, pose mgl64.Mat4, prog driver.Program, flags RenderFlag) error {
	defer r.resetUnits()
	va, err := r.vertexArray(p)
	if err != nil {
		return err
	}
	b := binder{p: prog}
	b.set("M", linear.M4f(pose))
	if b.err != nil {
		return b.err
	}
	state := driver.State{
		DepthTest:  true,
		DepthWrite: true,
		Cull:       true,
		Blend:      true,
		SrcBlend:   driver.BOne,
		DstBlend:   driver.BZero,
		Fill:       driver.FillSolid,
	}
	if !flags.Any(DepthOnly | Seg) {
		if err := r.bindMaterial(p.material, &b); err != nil {
			return err
		}
		if p.material.alphaMode == gltf.BLEND {
			state.SrcBlend, state.DstBlend = driver.BSrcAlpha, driver.BOneMinusSrcAlpha
		}
		if wireframe(p.material, flags) {
			state.Fill = driver.FillLine
		}
		state.Cull = !p.material.doubleSided && !flags.Has(SkipCullFaces)
	}
	if p.mode == gltf.POINTS {
		state.ProgramPointSize = true
		state.PointSize = r.pointSize
	}
	r.gpu.SetState(&state)
	r.gpu.Draw(va, p.Instances())
	return nil
}

// wireframe reports whether m is drawn as lines under
// flags. AllWireframe takes precedence over AllSolid,
// which takes precedence over FlipWireframe.
func wireframe(m *Material, flags RenderFlag) bool {
	switch {
	case flags.Has(AllWireframe):
		return true
	case flags.Has(AllSolid):
		return false
	}
	return m.wireframe != flags.Has(FlipWireframe)
}

// bindMaterial binds the textures and factors of m.
func (r *Renderer) bindMaterial(m *Material, b *binder) error {
	tf := m.TexFlags()
	texs := [...]struct {
		flag TexFlag
		tex  *Texture
		name string
	}{
		{TexNormal, m.normalTex, "material.normal_texture"},
		{TexOcclusion, m.occlusionTex, "material.occlusion_texture"},
		{TexEmissive, m.emissiveTex, "material.emissive_texture"},
		{TexBaseColor, m.mr.BaseColorTexture, "material.base_color_texture"},
		{TexMetallicRoughness, m.mr.MetallicRoughnessTexture, "material.metallic_roughness_texture"},
		{TexDiffuse, m.sg.DiffuseTexture, "material.diffuse_texture"},
		{TexSpecularGlossiness, m.sg.SpecularGlossinessTexture, "material.specular_glossiness_texture"},
	}
	for _, x := range texs {
		if tf&x.flag == 0 {
			continue
		}
		if err := r.bindTexture(x.tex, x.name, b); err != nil {
			return err
		}
	}
	b.set("material.emissive_factor", m.emissive)
	switch m.kind {
	case KindMetallicRoughness:
		b.set("material.base_color_factor", m.mr.BaseColorFactor)
		b.set("material.metallic_factor", m.mr.MetallicFactor)
		b.set("material.roughness_factor", m.mr.RoughnessFactor)
	case KindSpecularGlossiness:
		b.set("material.diffuse_factor", m.sg.DiffuseFactor)
		b.set("material.specular_factor", m.sg.SpecularFactor)
		b.set("material.glossiness_factor", m.sg.GlossinessFactor)
	}
	return b.err
}
