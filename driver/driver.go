// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines the set of interfaces through
// which the engine talks to a graphics API.
// It covers program compilation with preprocessor defines,
// named uniforms, geometry upload, textures, framebuffers,
// fixed-function state and readback, so that a platform
// API can be implemented in a mostly straightforward manner
// and swapped for a recording implementation in tests.
package driver

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// Implementations that depend on a current graphics
	// context require it to be current on the calling
	// goroutine's thread.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same GPU instance.
	Open() (GPU, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	Close()
}

// ErrNoDevice means that the underlying API could not be
// initialized (e.g., no current context).
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrCompile means that a program failed to compile or link.
var ErrCompile = errors.New("driver: program compilation failed")

// ErrFramebuf means that a framebuffer is incomplete.
var ErrFramebuf = errors.New("driver: incomplete framebuffer")

// ErrUniform means that a uniform value has an unsupported
// type.
var ErrUniform = errors.New("driver: unsupported uniform type")

var logger = zap.NewNop()

// SetLogger replaces the logger used by the package and by
// driver implementations. A nil l disables logging.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the logger set by SetLogger.
func Logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, which
// register themselves on init.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			logger.Warn("driver replaced", zap.String("name", drv.Name()))
			return
		}
	}
	drivers = append(drivers, drv)
	logger.Info("driver registered", zap.String("name", drv.Name()))
}

// Lookup returns the registered Driver with the given name.
func Lookup(name string) (Driver, bool) {
	mu.Lock()
	defer mu.Unlock()
	for _, d := range drivers {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers []Driver = make([]Driver, 0, 1)
)
