// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const camPrefix = "camera: "

// Default clip planes of cameras created with
// NewIntrinsicsCamera and NewOrthographicCamera.
const (
	DefaultZNear = 0.05
	DefaultZFar  = 100.0
)

// Camera is the interface that projection types implement.
// Projections follow the OpenGL conventions: right-handed
// view space looking down -Z, clip-space depth in [-w, w].
type Camera interface {
	// Name returns the camera's name.
	Name() string

	// ZNear returns the distance to the near plane.
	ZNear() float64

	// ZFar returns the distance to the far plane.
	// It is +Inf for infinite projections.
	ZFar() float64

	// Projection returns the projection matrix for a
	// viewport of the given dimensions.
	Projection(width, height int) mgl64.Mat4
}

func checkZ(znear, zfar float64, perspective bool) error {
	switch {
	case perspective && znear <= 0:
		return newErr(camPrefix, "znear must be positive")
	case znear < 0 || math.IsNaN(znear):
		return newErr(camPrefix, "znear must not be negative")
	case math.IsInf(zfar, 1):
		if !perspective {
			return newErr(camPrefix, "zfar must be finite")
		}
	case zfar <= znear || math.IsNaN(zfar):
		return newErr(camPrefix, "zfar must be greater than znear")
	}
	return nil
}

// normZFar maps the zero zfar to +Inf.
func normZFar(zfar float64) float64 {
	if zfar == 0 {
		return math.Inf(1)
	}
	return zfar
}

// depthRows sets the third row of a perspective-style
// projection.
func depthRows(p *mgl64.Mat4, znear, zfar float64) {
	p.Set(3, 2, -1)
	if math.IsInf(zfar, 1) {
		p.Set(2, 2, -1)
		p.Set(2, 3, -2*znear)
	} else {
		p.Set(2, 2, (zfar+znear)/(znear-zfar))
		p.Set(2, 3, 2*zfar*znear/(znear-zfar))
	}
}

// PerspectiveCamera is a Camera with a perspective
// projection.
type PerspectiveCamera struct {
	name   string
	yfov   float64
	aspect float64
	znear  float64
	zfar   float64
}

// NewPerspectiveCamera creates a new PerspectiveCamera.
// yfov is the vertical field of view in radians. A zero
// aspect ratio is computed from the viewport dimensions.
// A zero or infinite zfar creates an infinite projection.
func NewPerspectiveCamera(name string, yfov, znear, zfar, aspect float64) (*PerspectiveCamera, error) {
	c := &PerspectiveCamera{name: name}
	if err := c.SetYFov(yfov); err != nil {
		return nil, err
	}
	if err := c.SetClip(znear, zfar); err != nil {
		return nil, err
	}
	if err := c.SetAspectRatio(aspect); err != nil {
		return nil, err
	}
	return c, nil
}

// Name implements Camera.
func (c *PerspectiveCamera) Name() string { return c.name }

// YFov returns the vertical field of view.
func (c *PerspectiveCamera) YFov() float64 { return c.yfov }

// SetYFov sets the vertical field of view.
func (c *PerspectiveCamera) SetYFov(yfov float64) error {
	if !(yfov > 0) {
		return newErr(camPrefix, "yfov must be positive")
	}
	c.yfov = yfov
	return nil
}

// AspectRatio returns the aspect ratio, or zero if it is
// computed from the viewport.
func (c *PerspectiveCamera) AspectRatio() float64 { return c.aspect }

// SetAspectRatio sets the aspect ratio.
func (c *PerspectiveCamera) SetAspectRatio(aspect float64) error {
	if aspect < 0 || math.IsNaN(aspect) {
		return newErr(camPrefix, "aspect ratio must not be negative")
	}
	c.aspect = aspect
	return nil
}

// ZNear implements Camera.
func (c *PerspectiveCamera) ZNear() float64 { return c.znear }

// ZFar implements Camera.
func (c *PerspectiveCamera) ZFar() float64 { return c.zfar }

// SetClip sets the near and far planes.
func (c *PerspectiveCamera) SetClip(znear, zfar float64) error {
	zfar = normZFar(zfar)
	if err := checkZ(znear, zfar, true); err != nil {
		return err
	}
	c.znear, c.zfar = znear, zfar
	return nil
}

// Projection implements Camera.
func (c *PerspectiveCamera) Projection(width, height int) mgl64.Mat4 {
	a := c.aspect
	if a == 0 {
		if width <= 0 || height <= 0 {
			a = 1
		} else {
			a = float64(width) / float64(height)
		}
	}
	t := math.Tan(c.yfov / 2)
	var p mgl64.Mat4
	p.Set(0, 0, 1/(a*t))
	p.Set(1, 1, 1/t)
	depthRows(&p, c.znear, c.zfar)
	return p
}

// OrthographicCamera is a Camera with an orthographic
// projection.
type OrthographicCamera struct {
	name  string
	xmag  float64
	ymag  float64
	znear float64
	zfar  float64
}

// NewOrthographicCamera creates a new OrthographicCamera.
// xmag and ymag are half the width and height of the view
// volume.
func NewOrthographicCamera(name string, xmag, ymag, znear, zfar float64) (*OrthographicCamera, error) {
	c := &OrthographicCamera{name: name}
	if err := c.SetMag(xmag, ymag); err != nil {
		return nil, err
	}
	if err := c.SetClip(znear, zfar); err != nil {
		return nil, err
	}
	return c, nil
}

// Name implements Camera.
func (c *OrthographicCamera) Name() string { return c.name }

// Mag returns the horizontal and vertical magnification.
func (c *OrthographicCamera) Mag() (xmag, ymag float64) { return c.xmag, c.ymag }

// SetMag sets the horizontal and vertical magnification.
func (c *OrthographicCamera) SetMag(xmag, ymag float64) error {
	if !(xmag > 0) || !(ymag > 0) {
		return newErr(camPrefix, "xmag and ymag must be positive")
	}
	c.xmag, c.ymag = xmag, ymag
	return nil
}

// ZNear implements Camera.
func (c *OrthographicCamera) ZNear() float64 { return c.znear }

// ZFar implements Camera.
func (c *OrthographicCamera) ZFar() float64 { return c.zfar }

// SetClip sets the near and far planes.
func (c *OrthographicCamera) SetClip(znear, zfar float64) error {
	if err := checkZ(znear, zfar, false); err != nil {
		return err
	}
	c.znear, c.zfar = znear, zfar
	return nil
}

// Projection implements Camera.
// The viewport dimensions are ignored.
func (c *OrthographicCamera) Projection(int, int) mgl64.Mat4 {
	var p mgl64.Mat4
	p.Set(0, 0, 1/c.xmag)
	p.Set(1, 1, 1/c.ymag)
	p.Set(2, 2, 2/(c.znear-c.zfar))
	p.Set(2, 3, (c.zfar+c.znear)/(c.znear-c.zfar))
	p.Set(3, 3, 1)
	return p
}

// IntrinsicsCamera is a Camera whose projection is
// defined by pinhole intrinsics, in pixels.
type IntrinsicsCamera struct {
	name   string
	fx, fy float64
	cx, cy float64
	znear  float64
	zfar   float64
}

// NewIntrinsicsCamera creates a new IntrinsicsCamera with
// DefaultZNear and DefaultZFar clip planes.
// fx and fy are focal lengths and cx and cy the principal
// point.
func NewIntrinsicsCamera(name string, fx, fy, cx, cy float64) (*IntrinsicsCamera, error) {
	if !(fx > 0) || !(fy > 0) {
		return nil, newErr(camPrefix, "focal lengths must be positive")
	}
	return &IntrinsicsCamera{
		name:  name,
		fx:    fx,
		fy:    fy,
		cx:    cx,
		cy:    cy,
		znear: DefaultZNear,
		zfar:  DefaultZFar,
	}, nil
}

// Name implements Camera.
func (c *IntrinsicsCamera) Name() string { return c.name }

// Intrinsics returns the focal lengths and principal point.
func (c *IntrinsicsCamera) Intrinsics() (fx, fy, cx, cy float64) { return c.fx, c.fy, c.cx, c.cy }

// ZNear implements Camera.
func (c *IntrinsicsCamera) ZNear() float64 { return c.znear }

// ZFar implements Camera.
func (c *IntrinsicsCamera) ZFar() float64 { return c.zfar }

// SetClip sets the near and far planes.
// A zero or infinite zfar creates an infinite projection.
func (c *IntrinsicsCamera) SetClip(znear, zfar float64) error {
	zfar = normZFar(zfar)
	if err := checkZ(znear, zfar, true); err != nil {
		return err
	}
	c.znear, c.zfar = znear, zfar
	return nil
}

// Projection implements Camera.
func (c *IntrinsicsCamera) Projection(width, height int) mgl64.Mat4 {
	w, h := float64(max(width, 1)), float64(max(height, 1))
	var p mgl64.Mat4
	p.Set(0, 0, 2*c.fx/w)
	p.Set(1, 1, 2*c.fy/h)
	p.Set(0, 2, 1-2*c.cx/w)
	p.Set(1, 2, 2*c.cy/h-1)
	depthRows(&p, c.znear, c.zfar)
	return p
}
