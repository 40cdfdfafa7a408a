// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const lightPrefix = "light: "

// LightKind identifies the type of a Light.
type LightKind int

// Light kinds.
const (
	KindDirectional LightKind = iota
	KindSpot
	KindPoint
)

// String implements fmt.Stringer.
func (k LightKind) String() string {
	switch k {
	case KindDirectional:
		return "Directional"
	case KindSpot:
		return "Spot"
	case KindPoint:
		return "Point"
	}
	return "invalid"
}

// Light is the interface that light sources implement.
// The position and direction of a light come from the
// world pose of the Node it is attached to; lights emit
// towards the node's -Z axis.
// Implementations are DirectionalLight, SpotLight and
// PointLight.
type Light interface {
	// Name returns the light's name.
	Name() string

	// Kind returns the light's type.
	Kind() LightKind

	// Color returns the linear RGB color.
	Color() mgl32.Vec3

	// Intensity returns the intensity.
	Intensity() float32

	// ShadowTexture returns the light's shadow map, or nil
	// if none has been generated.
	ShadowTexture() *Texture

	// GenerateShadowTexture creates a size by size shadow
	// map for the light, replacing any previous one.
	GenerateShadowTexture(size int) error

	// ShadowCamera returns the camera used to render the
	// light's shadow map for a scene of the given scale.
	ShadowCamera(sceneScale float64) (Camera, error)

	base() *lightBase
}

type lightBase struct {
	name      string
	color     mgl32.Vec3
	intensity float32
	shadowTex *Texture
}

func newLightBase(name string) lightBase {
	return lightBase{name: name, color: mgl32.Vec3{1, 1, 1}, intensity: 1}
}

func (l *lightBase) base() *lightBase { return l }

// Name returns the light's name.
func (l *lightBase) Name() string { return l.name }

// Color returns the linear RGB color.
func (l *lightBase) Color() mgl32.Vec3 { return l.color }

// SetColor sets the linear RGB color.
func (l *lightBase) SetColor(c mgl32.Vec3) { l.color = c }

// Intensity returns the intensity.
func (l *lightBase) Intensity() float32 { return l.intensity }

// SetIntensity sets the intensity.
// Negative values are clamped to zero.
func (l *lightBase) SetIntensity(i float32) { l.intensity = max(0, i) }

// ShadowTexture returns the shadow map.
func (l *lightBase) ShadowTexture() *Texture { return l.shadowTex }

func (l *lightBase) generateShadowTexture(size int) error {
	if size <= 0 {
		size = ShadowTexSize
	}
	t, err := newShadowTexture(size)
	if err != nil {
		return err
	}
	l.shadowTex = t
	return nil
}

// shadowScale guards against empty scenes.
func shadowScale(s float64) float64 {
	if !(s > 0) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// DirectionalLight is a light infinitely far away.
// Intensity is in lux.
type DirectionalLight struct {
	lightBase
}

// NewDirectionalLight creates a new white DirectionalLight
// with intensity one.
func NewDirectionalLight(name string) *DirectionalLight {
	return &DirectionalLight{newLightBase(name)}
}

// Kind implements Light.
func (l *DirectionalLight) Kind() LightKind { return KindDirectional }

// GenerateShadowTexture implements Light.
func (l *DirectionalLight) GenerateShadowTexture(size int) error {
	return l.generateShadowTexture(size)
}

// ShadowCamera implements Light.
// It returns an orthographic camera whose half extents
// match the scene scale.
func (l *DirectionalLight) ShadowCamera(sceneScale float64) (Camera, error) {
	s := shadowScale(sceneScale)
	return NewOrthographicCamera("", s, s, 0.01*s, 10*s)
}

// SpotLight is a light that emits within a cone.
// Intensity is in candela.
type SpotLight struct {
	lightBase
	rng   float32
	inner float64
	outer float64
}

// NewSpotLight creates a new white SpotLight with intensity
// one, infinite range and cone angles 0 and π/4.
func NewSpotLight(name string) *SpotLight {
	return &SpotLight{lightBase: newLightBase(name), outer: math.Pi / 4}
}

// Kind implements Light.
func (l *SpotLight) Kind() LightKind { return KindSpot }

// Range returns the falloff range.
// Zero means infinite.
func (l *SpotLight) Range() float32 { return l.rng }

// SetRange sets the falloff range.
// Zero means infinite.
func (l *SpotLight) SetRange(r float32) error {
	if r < 0 {
		return newErr(lightPrefix, "negative range")
	}
	l.rng = r
	return nil
}

// ConeAngles returns the inner and outer cone angles.
func (l *SpotLight) ConeAngles() (inner, outer float64) { return l.inner, l.outer }

// SetConeAngles sets the inner and outer cone angles, in
// radians. outer must be in [0, π/2] and inner in
// [0, outer].
func (l *SpotLight) SetConeAngles(inner, outer float64) error {
	if outer < 0 || outer > math.Pi/2+1e-9 || math.IsNaN(outer) {
		return newErr(lightPrefix, "invalid outer cone angle")
	}
	if inner < 0 || inner > outer || math.IsNaN(inner) {
		return newErr(lightPrefix, "invalid inner cone angle")
	}
	l.inner, l.outer = inner, outer
	return nil
}

// angleScaleOffset returns the factors that map the cosine
// of the angle to the cone axis into a [0, 1] falloff.
func (l *SpotLight) angleScaleOffset() (scale, offset float32) {
	ci, co := math.Cos(l.inner), math.Cos(l.outer)
	s := 1 / math.Max(0.001, ci-co)
	return float32(s), float32(-co * s)
}

// GenerateShadowTexture implements Light.
func (l *SpotLight) GenerateShadowTexture(size int) error {
	return l.generateShadowTexture(size)
}

// ShadowCamera implements Light.
// It returns a square perspective camera slightly wider
// than the outer cone.
func (l *SpotLight) ShadowCamera(sceneScale float64) (Camera, error) {
	s := shadowScale(sceneScale)
	yfov := math.Max(1e-6, math.Min(2*l.outer+math.Pi/16, math.Pi))
	return NewPerspectiveCamera("", yfov, 0.01*s, 10*s, 1)
}

// PointLight is a light that emits in every direction.
// Intensity is in candela.
// Point lights cannot cast shadows.
type PointLight struct {
	lightBase
	rng float32
}

// NewPointLight creates a new white PointLight with
// intensity one and infinite range.
func NewPointLight(name string) *PointLight {
	return &PointLight{lightBase: newLightBase(name)}
}

// Kind implements Light.
func (l *PointLight) Kind() LightKind { return KindPoint }

// Range returns the falloff range.
// Zero means infinite.
func (l *PointLight) Range() float32 { return l.rng }

// SetRange sets the falloff range.
// Zero means infinite.
func (l *PointLight) SetRange(r float32) error {
	if r < 0 {
		return newErr(lightPrefix, "negative range")
	}
	l.rng = r
	return nil
}

// GenerateShadowTexture implements Light.
// It always fails with ErrNotImplemented.
func (l *PointLight) GenerateShadowTexture(int) error {
	return errors.Wrap(ErrNotImplemented, lightPrefix+"point light shadows")
}

// ShadowCamera implements Light.
// It always fails with ErrNotImplemented.
func (l *PointLight) ShadowCamera(float64) (Camera, error) {
	return nil, errors.Wrap(ErrNotImplemented, lightPrefix+"point light shadows")
}

// lightRange returns the range of l, or zero.
func lightRange(l Light) float32 {
	switch l := l.(type) {
	case *SpotLight:
		return l.rng
	case *PointLight:
		return l.rng
	}
	return 0
}
