// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gl implements driver interfaces on top of
// OpenGL 4.1 core.
//
// The driver does not create contexts: a context must be
// current on the calling thread before Driver.Open is
// called, and every GPU method must be called from that
// thread.
package gl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
)

const driverName = "gl"

func init() { driver.Register(&Driver{}) }

// Driver implements driver.Driver.
type Driver struct {
	gpu *GPU
}

// Open initializes the OpenGL function pointers of the
// current context.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu != nil {
		return d.gpu, nil
	}
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(driver.ErrNoDevice, err.Error())
	}
	var units int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &units)
	d.gpu = &GPU{
		drv:    d,
		limits: driver.Limits{MaxTexUnits: int(units)},
	}
	driver.Logger().Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int("texUnits", int(units)))
	return d.gpu, nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Close discards the GPU. Objects created from it must
// have been destroyed already.
func (d *Driver) Close() { d.gpu = nil }

// GPU implements driver.GPU.
type GPU struct {
	drv    *Driver
	limits driver.Limits
}

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// Limits implements driver.GPU.
func (g *GPU) Limits() driver.Limits { return g.limits }
