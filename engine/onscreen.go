// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gviegas/pbr/wsi"
)

const onPrefix = "onscreen: "

// Onscreen renders scenes into a wsi.Window.
//
// Code that mutates a scene while Run is rendering it
// from another goroutine must hold RenderLock.
type Onscreen struct {
	r    *Renderer
	win  wsi.Window
	lock sync.Mutex
}

// NewOnscreen creates a new Onscreen that targets win.
// The window's graphics context must be the one ctx's
// GPU was opened on.
func NewOnscreen(ctx *RenderContext, win wsi.Window, pointSize float32) (*Onscreen, error) {
	if win == nil {
		return nil, newErr(onPrefix, "nil wsi.Window")
	}
	r, err := NewRenderer(ctx, win.Width(), win.Height(), pointSize)
	if err != nil {
		return nil, err
	}
	return &Onscreen{r: r, win: win}, nil
}

// Window returns the target window.
func (o *Onscreen) Window() wsi.Window { return o.win }

// Renderer returns the underlying Renderer.
func (o *Onscreen) Renderer() *Renderer { return o.r }

// RenderLock returns the lock held while a frame is
// rendered. It is not re-entrant.
func (o *Onscreen) RenderLock() sync.Locker { return &o.lock }

// Frame renders a single frame of s and presents it.
// The viewport follows the window's dimensions.
// Frame takes RenderLock, so it must not be called while
// holding it.
func (o *Onscreen) Frame(s *Scene, flags RenderFlag) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.frame(s, flags)
}

func (o *Onscreen) frame(s *Scene, flags RenderFlag) error {
	w, h := o.win.Width(), o.win.Height()
	if w < 1 || h < 1 {
		// Minimized.
		return nil
	}
	if rw, rh := o.r.Viewport(); rw != w || rh != h {
		if err := o.r.SetViewport(w, h); err != nil {
			return err
		}
		log().Debug("viewport resized", zap.Int("width", w), zap.Int("height", h))
	}
	o.win.MakeCurrent()
	if _, _, err := o.r.Render(s, flags&^OffscreenFlag, nil); err != nil {
		return err
	}
	o.win.SwapBuffers()
	return nil
}

// Run renders s repeatedly, at most fps frames per second
// (unbounded if fps is not positive), dispatching window
// events between frames.
// It returns when the window is closed, when ctx is done
// or when a frame fails. It must be called from the
// goroutine that owns the window, and not while holding
// RenderLock, which every frame takes.
func (o *Onscreen) Run(ctx context.Context, s *Scene, flags RenderFlag, fps int) error {
	var tick <-chan time.Time
	if fps > 0 {
		t := time.NewTicker(time.Second / time.Duration(fps))
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		wsi.Dispatch()
		if !wsi.IsOpen(o.win) {
			return nil
		}
		if err := o.Frame(s, flags); err != nil {
			log().Error("frame failed", zap.Error(err))
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
}

// Delete releases every GPU resource held by o.
// The window is not closed.
func (o *Onscreen) Delete() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.r.Delete()
}
