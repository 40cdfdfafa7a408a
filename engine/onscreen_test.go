// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gviegas/pbr/driver/drivertest"
	"github.com/gviegas/pbr/wsi"
)

type testWindow struct {
	w, h    int
	title   string
	current int
	swaps   int
	onSwap  func()
}

func (w *testWindow) Map() error                     { return nil }
func (w *testWindow) Unmap() error                   { return nil }
func (w *testWindow) Resize(width, height int) error { w.w, w.h = width, height; return nil }
func (w *testWindow) SetTitle(title string) error    { w.title = title; return nil }
func (w *testWindow) Close()                         { wsi.Closed(w) }
func (w *testWindow) Width() int                     { return w.w }
func (w *testWindow) Height() int                    { return w.h }
func (w *testWindow) Title() string                  { return w.title }
func (w *testWindow) MakeCurrent()                   { w.current++ }

func (w *testWindow) SwapBuffers() {
	w.swaps++
	if w.onSwap != nil {
		w.onSwap()
	}
}

// testWSI creates testWindows and closes the last one
// created after closeAfter dispatches, if positive.
type testWSI struct {
	last       *testWindow
	dispatched int
	closeAfter int
}

func (*testWSI) Platform() wsi.Platform { return wsi.GLFW }

func (x *testWSI) NewWindow(width, height int, title string) (wsi.Window, error) {
	x.last = &testWindow{w: width, h: height, title: title}
	return x.last, nil
}

func (x *testWSI) Dispatch() {
	x.dispatched++
	if x.closeAfter > 0 && x.dispatched == x.closeAfter && x.last != nil {
		x.last.Close()
	}
}

func (*testWSI) SetAppName(string) {}

// newTestOnscreen registers a testWSI and creates an
// Onscreen targeting one of its windows.
func newTestOnscreen(t *testing.T, width, height int) (*Onscreen, *testWSI) {
	t.Helper()
	impl := &testWSI{}
	wsi.Register(impl)
	t.Cleanup(func() { wsi.Register(nil) })
	win, err := wsi.NewWindow(width, height, "test")
	require.NoError(t, err)
	t.Cleanup(win.Close)
	ctx, _ := newTestContext(t, width, height, nil)
	o, err := NewOnscreen(ctx, win, 1)
	require.NoError(t, err)
	t.Cleanup(o.Delete)
	return o, impl
}

func testGPU(t *testing.T, r *Renderer) *drivertest.GPU {
	t.Helper()
	gpu, ok := r.gpu.(*drivertest.GPU)
	require.True(t, ok, "%T", r.gpu)
	return gpu
}

func TestNewOnscreen(t *testing.T) {
	ctx, _ := newTestContext(t, 32, 32, nil)
	if _, err := NewOnscreen(ctx, nil, 1); err == nil {
		t.Fatal("NewOnscreen(nil window):\nhave nil error\nwant non-nil")
	}
	if _, err := NewOnscreen(ctx, &testWindow{w: 0, h: 32}, 1); err == nil {
		t.Fatal("NewOnscreen(zero width):\nhave nil error\nwant non-nil")
	}
	o, impl := newTestOnscreen(t, 48, 32)
	assert.Same(t, impl.last, o.Window())
	w, h := o.Renderer().Viewport()
	assert.Equal(t, [2]int{48, 32}, [2]int{w, h})
}

func TestOnscreenFrame(t *testing.T) {
	o, impl := newTestOnscreen(t, 48, 32)
	gpu := testGPU(t, o.Renderer())
	win := impl.last
	s, _, _, _ := boxScene(t)

	require.NoError(t, o.Frame(s, None))
	assert.Equal(t, 1, win.swaps)
	assert.Equal(t, 1, win.current)

	// The viewport follows the window.
	require.NoError(t, win.Resize(20, 10))
	require.NoError(t, o.Frame(s, None))
	w, h := o.Renderer().Viewport()
	assert.Equal(t, [2]int{20, 10}, [2]int{w, h})
	w, h = gpu.Viewport()
	assert.Equal(t, [2]int{20, 10}, [2]int{w, h})
	assert.Equal(t, 2, win.swaps)

	// Minimized windows are skipped.
	require.NoError(t, win.Resize(0, 0))
	require.NoError(t, o.Frame(s, None))
	assert.Equal(t, 2, win.swaps)
	w, h = o.Renderer().Viewport()
	assert.Equal(t, [2]int{20, 10}, [2]int{w, h})
}

func TestOnscreenTarget(t *testing.T) {
	o, _ := newTestOnscreen(t, 32, 32)
	gpu := testGPU(t, o.Renderer())
	s, _, _, _ := boxScene(t)
	// Offscreen is ignored.
	require.NoError(t, o.Frame(s, OffscreenFlag))
	fwd := forwardDraws(gpu, 0)
	require.Len(t, fwd, 1)
	assert.Same(t, gpu.Default(), fwd[0].Target)
	assert.Equal(t, 0, gpu.Blits)
}

func TestOnscreenRun(t *testing.T) {
	o, impl := newTestOnscreen(t, 32, 32)
	s, _, _, _ := boxScene(t)
	win := impl.last

	// Closing the window stops the loop.
	impl.closeAfter = 3
	require.NoError(t, o.Run(context.Background(), s, None, 0))
	assert.Equal(t, 2, win.swaps)
	assert.False(t, wsi.IsOpen(win))
}

func TestOnscreenRunCancel(t *testing.T) {
	o, impl := newTestOnscreen(t, 32, 32)
	s, _, _, _ := boxScene(t)
	win := impl.last

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := o.Run(ctx, s, None, 60)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Onscreen.Run(canceled):\nhave %v\nwant %v", err, context.Canceled)
	}
	assert.Equal(t, 0, win.swaps)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	win.onSwap = cancel
	err = o.Run(ctx, s, None, 1000)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Onscreen.Run(canceled on swap):\nhave %v\nwant %v", err, context.Canceled)
	}
	assert.Equal(t, 1, win.swaps)
	assert.True(t, wsi.IsOpen(win))
}

func TestOnscreenRunError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	o, impl := newTestOnscreen(t, 32, 32)
	s, err := New("no camera")
	require.NoError(t, err)
	err = o.Run(context.Background(), s, None, 0)
	if !errors.Is(err, ErrNoCamera) {
		t.Fatalf("Onscreen.Run(no camera):\nhave %v\nwant %v", err, ErrNoCamera)
	}
	assert.Equal(t, 0, impl.last.swaps)
	assert.Equal(t, 1, logs.FilterMessage("frame failed").Len())
}

func TestOnscreenRenderLock(t *testing.T) {
	o, _ := newTestOnscreen(t, 32, 32)
	s, _, _, _ := boxScene(t)
	l := o.RenderLock()
	l.Lock()
	done := make(chan error)
	go func() { done <- o.Frame(s, None) }()
	select {
	case <-done:
		t.Fatal("Onscreen.Frame: returned while RenderLock was held")
	default:
	}
	l.Unlock()
	require.NoError(t, <-done)
}
