// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package glfwwsi implements wsi on top of GLFW 3.3.
// Importing it registers the implementation.
//
// GLFW requires most of its functions to be called from
// the main thread. The package locks the main goroutine
// to it on init, so windows must be created and events
// dispatched from the main goroutine.
package glfwwsi

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/gviegas/pbr/wsi"
)

func init() {
	runtime.LockOSThread()
	wsi.Register(&impl{})
}

type impl struct {
	initialized bool
	wins        map[*glfw.Window]*window
}

// Platform implements wsi.Impl.
func (*impl) Platform() wsi.Platform { return wsi.GLFW }

func (m *impl) init() error {
	if m.initialized {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfwwsi: init")
	}
	m.initialized = true
	m.wins = make(map[*glfw.Window]*window)
	return nil
}

// NewWindow implements wsi.Impl.
// The window has an OpenGL 4.1 core context.
func (m *impl) NewWindow(width, height int, title string) (wsi.Window, error) {
	if err := m.init(); err != nil {
		return nil, err
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Samples, 4)
	gw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "glfwwsi: create window")
	}
	w := &window{gw: gw, m: m, title: title}
	m.wins[gw] = w
	w.setCallbacks()
	return w, nil
}

// Dispatch implements wsi.Impl.
// Windows asked to close are reported to the current
// wsi.WindowHandler, or closed if there is none.
func (m *impl) Dispatch() {
	if !m.initialized {
		return
	}
	glfw.PollEvents()
	for gw, w := range m.wins {
		if !gw.ShouldClose() {
			continue
		}
		gw.SetShouldClose(false)
		if h := wsi.CurrentWindowHandler(); h != nil {
			h.WindowClose(w)
		} else {
			w.Close()
		}
	}
}

// SetAppName implements wsi.Impl.
// GLFW has no notion of application name, so it is not
// used.
func (*impl) SetAppName(string) {}

type window struct {
	gw    *glfw.Window
	m     *impl
	title string
}

func (w *window) setCallbacks() {
	w.gw.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		if h := wsi.CurrentWindowHandler(); h != nil {
			h.WindowResize(w, width, height)
		}
	})
	w.gw.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if h := wsi.CurrentKeyboardHandler(); h != nil {
			if focused {
				h.KeyboardIn(w)
			} else {
				h.KeyboardOut(w)
			}
		}
	})
	w.gw.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if h := wsi.CurrentKeyboardHandler(); h != nil && action != glfw.Repeat {
			h.KeyboardKey(keyFrom(key), action == glfw.Press, modFrom(mods))
		}
	})
	w.gw.SetCursorEnterCallback(func(gw *glfw.Window, entered bool) {
		if h := wsi.CurrentPointerHandler(); h != nil {
			if entered {
				x, y := gw.GetCursorPos()
				h.PointerIn(w, int(x), int(y))
			} else {
				h.PointerOut(w)
			}
		}
	})
	w.gw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if h := wsi.CurrentPointerHandler(); h != nil {
			h.PointerMotion(int(x), int(y))
		}
	})
	w.gw.SetMouseButtonCallback(func(gw *glfw.Window, btn glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if h := wsi.CurrentPointerHandler(); h != nil {
			x, y := gw.GetCursorPos()
			h.PointerButton(buttonFrom(btn), action == glfw.Press, int(x), int(y))
		}
	})
}

func modFrom(mods glfw.ModifierKey) (m wsi.Modifier) {
	if mods&glfw.ModCapsLock != 0 {
		m |= wsi.ModCapsLock
	}
	if mods&glfw.ModShift != 0 {
		m |= wsi.ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= wsi.ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		m |= wsi.ModAlt
	}
	return
}

func buttonFrom(btn glfw.MouseButton) wsi.Button {
	switch btn {
	case glfw.MouseButtonLeft:
		return wsi.BtnLeft
	case glfw.MouseButtonRight:
		return wsi.BtnRight
	case glfw.MouseButtonMiddle:
		return wsi.BtnMiddle
	case glfw.MouseButton4:
		return wsi.BtnBackward
	case glfw.MouseButton5:
		return wsi.BtnForward
	}
	return wsi.BtnUnknown
}

// Map implements wsi.Window.
func (w *window) Map() error {
	w.gw.Show()
	return nil
}

// Unmap implements wsi.Window.
func (w *window) Unmap() error {
	w.gw.Hide()
	return nil
}

// Resize implements wsi.Window.
func (w *window) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return errors.New("glfwwsi: invalid window dimensions")
	}
	w.gw.SetSize(width, height)
	return nil
}

// SetTitle implements wsi.Window.
func (w *window) SetTitle(title string) error {
	w.gw.SetTitle(title)
	w.title = title
	return nil
}

// Close implements wsi.Window.
func (w *window) Close() {
	if w.gw == nil {
		return
	}
	delete(w.m.wins, w.gw)
	w.gw.Destroy()
	w.gw = nil
	wsi.Closed(w)
}

// Width implements wsi.Window.
// It is the width of the framebuffer, in pixels.
func (w *window) Width() int {
	width, _ := w.gw.GetFramebufferSize()
	return width
}

// Height implements wsi.Window.
// It is the height of the framebuffer, in pixels.
func (w *window) Height() int {
	_, height := w.gw.GetFramebufferSize()
	return height
}

// Title implements wsi.Window.
func (w *window) Title() string { return w.title }

// MakeCurrent implements wsi.Window.
func (w *window) MakeCurrent() { w.gw.MakeContextCurrent() }

// SwapBuffers implements wsi.Window.
func (w *window) SwapBuffers() { w.gw.SwapBuffers() }
