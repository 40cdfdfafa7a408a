// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/engine/internal/shader"
)

const ctxPrefix = "context: "

var errNoDriver = errors.New(ctxPrefix + "driver not found")

// RenderContext binds a driver.GPU to the state that
// depends on it, such as compiled programs.
// Renderers that share a RenderContext share programs.
// A RenderContext must only be used from the goroutine
// that owns the GPU's graphics context.
type RenderContext struct {
	gpu   driver.GPU
	cfg   Config
	progs *shader.Cache
}

// NewRenderContext creates a RenderContext for gpu.
// A nil cfg selects DefaultConfig.
func NewRenderContext(gpu driver.GPU, cfg *Config) (*RenderContext, error) {
	if gpu == nil {
		return nil, newErr(ctxPrefix, "nil driver.GPU")
	}
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return &RenderContext{
		gpu:   gpu,
		cfg:   c,
		progs: shader.NewCache(gpu, log()),
	}, nil
}

// OpenRenderContext opens the first registered driver
// whose name contains name, ignoring case, and creates a
// RenderContext for its GPU.
// If name is the empty string, then all registered
// drivers are considered.
func OpenRenderContext(name string, cfg *Config) (*RenderContext, error) {
	drivers := driver.Drivers()
	err := errNoDriver
	name = strings.ToLower(name)
	for _, d := range drivers {
		if !strings.Contains(strings.ToLower(d.Name()), name) {
			continue
		}
		var gpu driver.GPU
		if gpu, err = d.Open(); err != nil {
			log().Warn("driver failed to open", zap.String("name", d.Name()), zap.Error(err))
			continue
		}
		log().Info("driver opened", zap.String("name", d.Name()))
		return NewRenderContext(gpu, cfg)
	}
	return nil, err
}

// GPU returns the context's driver.GPU.
func (c *RenderContext) GPU() driver.GPU { return c.gpu }

// Config returns the context's configuration.
func (c *RenderContext) Config() Config { return c.cfg }

// program returns the compiled program for v.
func (c *RenderContext) program(v *shader.Variant) (driver.Program, error) {
	p, err := c.progs.Get(v)
	if err != nil {
		return nil, errors.Wrap(err, ctxPrefix+"program")
	}
	return p, nil
}

// releasePrograms destroys every program compiled in c.
// They are compiled again on demand.
func (c *RenderContext) releasePrograms() { c.progs.Clear() }
