// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
)

// liveSet is the set of resources a scene needs resident
// for a given set of render flags.
type liveSet struct {
	prims map[*Primitive]bool
	texs  map[*Texture]bool
}

// collect computes the live set of s.
// Shadow textures are generated for lights that cast
// shadows under flags and do not have one yet.
func (r *Renderer) collect(s *Scene, flags RenderFlag) (*liveSet, error) {
	// Point light shadows fail here, before any resource
	// is created or released.
	if flags.Has(ShadowsPoint) && len(s.LightNodesOf(KindPoint)) > 0 {
		return nil, errors.Wrap(ErrNotImplemented, rendPrefix+"point light shadows")
	}
	live := &liveSet{
		prims: make(map[*Primitive]bool),
		texs:  make(map[*Texture]bool),
	}
	for _, m := range s.Meshes() {
		for _, p := range m.prims {
			live.prims[p] = true
			for _, t := range p.material.Textures() {
				live.texs[t] = true
			}
		}
	}
	for _, l := range s.Lights() {
		if castsShadow(l.Kind(), flags) && l.ShadowTexture() == nil {
			if err := l.GenerateShadowTexture(r.cfg.ShadowTexSize); err != nil {
				return nil, err
			}
		}
		if t := l.ShadowTexture(); t != nil {
			live.texs[t] = true
		}
	}
	return live, nil
}

// sync makes the resident resources of r match the live
// set of s. Resources that are no longer live are
// released, and resources that are new or whose data
// changed are uploaded. Calling it again with an
// unchanged scene does nothing.
func (r *Renderer) sync(s *Scene, flags RenderFlag) error {
	live, err := r.collect(s, flags)
	if err != nil {
		return err
	}
	var nnew, ndel int
	for p, x := range r.vas {
		if !live.prims[p] {
			x.obj.Destroy()
			delete(r.vas, p)
			ndel++
		}
	}
	for t, x := range r.texs {
		if !live.texs[t] {
			r.releaseTexture(t, x)
			ndel++
		}
	}
	for p := range live.prims {
		x, ok := r.vas[p]
		if ok && x.version == p.version {
			continue
		}
		va, err := r.gpu.NewVertexArray(p.vertexArrayParam())
		if err != nil {
			return errors.Wrap(err, rendPrefix+"vertex array upload")
		}
		if ok {
			x.obj.Destroy()
		}
		r.vas[p] = resident[driver.VertexArray]{va, p.version}
		nnew++
	}
	for t := range live.texs {
		x, ok := r.texs[t]
		if ok && x.version == t.version {
			continue
		}
		tex, err := r.gpu.NewTexture(t.texParam())
		if err != nil {
			return errors.Wrap(err, rendPrefix+"texture upload")
		}
		if ok {
			r.releaseTexture(t, x)
		}
		r.texs[t] = resident[driver.Texture]{tex, t.version}
		nnew++
	}
	if nnew+ndel > 0 {
		log().Debug("resources synchronized",
			zap.Int("uploaded", nnew),
			zap.Int("released", ndel),
			zap.Int("vertex arrays", len(r.vas)),
			zap.Int("textures", len(r.texs)))
	}
	return nil
}

// releaseTexture destroys the resident texture of t and
// the shadow framebuffer attached to it, if any.
func (r *Renderer) releaseTexture(t *Texture, x resident[driver.Texture]) {
	if fb, ok := r.shadowFBs[t]; ok {
		fb.Destroy()
		delete(r.shadowFBs, t)
	}
	x.obj.Destroy()
	delete(r.texs, t)
}

// texture returns the resident texture of t.
func (r *Renderer) texture(t *Texture) (driver.Texture, error) {
	x, ok := r.texs[t]
	if !ok {
		return nil, newErr(rendPrefix, "texture not resident")
	}
	return x.obj, nil
}

// vertexArray returns the resident vertex array of p.
func (r *Renderer) vertexArray(p *Primitive) (driver.VertexArray, error) {
	x, ok := r.vas[p]
	if !ok {
		return nil, newErr(rendPrefix, "primitive not resident")
	}
	return x.obj, nil
}

// shadowFB returns the framebuffer that renders into the
// shadow texture t, creating it if needed.
func (r *Renderer) shadowFB(t *Texture) (driver.Framebuf, error) {
	if fb, ok := r.shadowFBs[t]; ok {
		return fb, nil
	}
	tex, err := r.texture(t)
	if err != nil {
		return nil, err
	}
	fb, err := r.gpu.NewFramebuf(&driver.FramebufParam{Depth: tex})
	if err != nil {
		return nil, errors.Wrap(err, rendPrefix+"shadow framebuffer")
	}
	r.shadowFBs[t] = fb
	return fb, nil
}

// configureMainFBs creates the offscreen framebuffers,
// replacing them if the viewport dimensions changed.
func (r *Renderer) configureMainFBs() error {
	if r.mainFB != nil && r.fbDims == [2]int{r.width, r.height} {
		return nil
	}
	r.deleteMainFBs()
	ms, err := r.gpu.NewFramebuf(&driver.FramebufParam{Width: r.width, Height: r.height, Samples: r.cfg.Samples})
	if err != nil {
		return errors.Wrap(err, rendPrefix+"multisample framebuffer")
	}
	rs, err := r.gpu.NewFramebuf(&driver.FramebufParam{Width: r.width, Height: r.height, Samples: 1})
	if err != nil {
		ms.Destroy()
		return errors.Wrap(err, rendPrefix+"resolve framebuffer")
	}
	r.mainFB, r.resolveFB = ms, rs
	r.fbDims = [2]int{r.width, r.height}
	log().Debug("offscreen framebuffers created", zap.Int("width", r.width), zap.Int("height", r.height), zap.Int("samples", r.cfg.Samples))
	return nil
}

func (r *Renderer) deleteMainFBs() {
	if r.mainFB != nil {
		r.mainFB.Destroy()
		r.resolveFB.Destroy()
		r.mainFB, r.resolveFB = nil, nil
		r.fbDims = [2]int{}
	}
}
