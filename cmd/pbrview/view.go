// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/gviegas/pbr/engine"
	"github.com/gviegas/pbr/wsi"
)

// handler stops the render loop when the window is asked
// to close or Esc is pressed. The window itself is closed
// after the Onscreen releases its resources.
type handler struct{ stop context.CancelFunc }

func (h handler) WindowClose(wsi.Window)          { h.stop() }
func (handler) WindowResize(wsi.Window, int, int) {}
func (handler) KeyboardIn(wsi.Window)             {}
func (handler) KeyboardOut(wsi.Window)            {}

func (h handler) KeyboardKey(key wsi.Key, pressed bool, _ wsi.Modifier) {
	if key == wsi.KeyEsc && pressed {
		h.stop()
	}
}

// View renders the scene into a window until it is closed.
func View(ctx *cli.Context) error {
	win, rc, flags, err := setup(ctx, "pbrview")
	if err != nil {
		return err
	}
	defer func() {
		if wsi.IsOpen(win) {
			win.Close()
		}
	}()
	o, err := engine.NewOnscreen(rc, win, float32(ctx.Float64("point-size")))
	if err != nil {
		return err
	}
	defer o.Delete()
	s, err := demoScene(float64(win.Width()) / float64(win.Height()))
	if err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	h := handler{stop}
	wsi.SetWindowHandler(h)
	wsi.SetKeyboardHandler(h)
	if err := win.Map(); err != nil {
		return err
	}
	err = o.Run(runCtx, s, flags, ctx.Int("fps"))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
