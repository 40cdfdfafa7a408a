// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

// Offscreen renders scenes into memory.
// The RenderContext's graphics context must be current
// on the calling thread, but no window is needed.
type Offscreen struct {
	r *Renderer
}

// NewOffscreen creates a new Offscreen with the given
// viewport dimensions and point size.
func NewOffscreen(ctx *RenderContext, width, height int, pointSize float32) (*Offscreen, error) {
	r, err := NewRenderer(ctx, width, height, pointSize)
	if err != nil {
		return nil, err
	}
	return &Offscreen{r}, nil
}

// Renderer returns the underlying Renderer.
func (o *Offscreen) Renderer() *Renderer { return o.r }

// Viewport returns the viewport dimensions.
func (o *Offscreen) Viewport() (width, height int) { return o.r.Viewport() }

// SetViewport sets the viewport dimensions.
func (o *Offscreen) SetViewport(width, height int) error { return o.r.SetViewport(width, height) }

// Render renders s and reads back the result.
// OffscreenFlag is implied. The color buffer is nil
// if flags has DepthOnly.
func (o *Offscreen) Render(s *Scene, flags RenderFlag, seg map[*Node][3]uint8) (*ColorBuffer, *DepthBuffer, error) {
	return o.r.Render(s, flags|OffscreenFlag, seg)
}

// Delete releases every GPU resource held by o.
func (o *Offscreen) Delete() { o.r.Delete() }
