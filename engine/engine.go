// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine implements physically based forward
// rendering of glTF-style scene graphs.
//
// A Scene owns a graph of Nodes, each of which may carry a
// Mesh, a Camera or a Light. A Renderer, created from a
// RenderContext that wraps a driver.GPU, draws a Scene in
// multiple passes (shadow maps, forward shading and an
// optional normal overlay) and, when rendering offscreen,
// reads back color and linear depth.
package engine

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// The default maximum number of lights of each type
	// that affect a single mesh.
	MaxLights = 4

	// The default size of shadow maps.
	ShadowTexSize = 1024

	// The default number of texture units reserved for
	// material textures.
	ReservedTexUnits = 6

	// The default number of samples of the main framebuffer.
	Samples = 4

	// The default length of normal vectors drawn by the
	// normal overlay, relative to primitive scale.
	NormalMagnitude = 0.05
)

// ErrNotImplemented means that the requested feature is not
// supported. Shadow maps for point lights are the only such
// feature.
var ErrNotImplemented = errors.New("engine: not implemented")

// ErrNoCamera means that a Scene has no main camera.
var ErrNoCamera = errors.New("engine: no main camera")

// ErrNotInScene means that a Node is not part of a Scene.
var ErrNotInScene = errors.New("engine: node not in scene")

func newErr(prefix, reason string) error { return errors.New(prefix + reason) }

var (
	logMu  sync.Mutex
	logger = zap.NewNop()
)

// SetLogger replaces the logger used by the package.
// A nil l disables logging.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func log() *zap.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}
