// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const cfgPrefix = "config: "

// Config is used to configure a RenderContext.
type Config struct {
	// The maximum number of lights of each type that
	// affect a single mesh. Shadow-casting lights may
	// lower it further, since every shadow map takes a
	// texture unit.
	//
	// Default is MaxLights.
	MaxLights int `yaml:"max_lights"`

	// The width and height of shadow maps.
	//
	// Default is ShadowTexSize.
	ShadowTexSize int `yaml:"shadow_tex_size"`

	// The number of texture units that are not available
	// to shadow maps.
	//
	// Default is ReservedTexUnits.
	ReservedTexUnits int `yaml:"reserved_tex_units"`

	// The number of samples of the offscreen framebuffer.
	//
	// Default is Samples.
	Samples int `yaml:"samples"`

	// The length of normal vectors drawn by the normal
	// overlay, relative to primitive scale.
	//
	// Default is NormalMagnitude.
	NormalMagnitude float32 `yaml:"normal_magnitude"`

	// The RGBA color of normal vectors.
	//
	// Default is {0.1, 0.1, 1, 1}.
	NormalColor [4]float32 `yaml:"normal_color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxLights:        MaxLights,
		ShadowTexSize:    ShadowTexSize,
		ReservedTexUnits: ReservedTexUnits,
		Samples:          Samples,
		NormalMagnitude:  NormalMagnitude,
		NormalColor:      [4]float32{0.1, 0.1, 1, 1},
	}
}

// Validate checks that c is a valid configuration.
func (c *Config) Validate() error {
	switch {
	case c.MaxLights < 0:
		return newErr(cfgPrefix, "negative max_lights")
	case c.ShadowTexSize <= 0:
		return newErr(cfgPrefix, "non-positive shadow_tex_size")
	case c.ReservedTexUnits < 0:
		return newErr(cfgPrefix, "negative reserved_tex_units")
	case c.Samples < 1:
		return newErr(cfgPrefix, "samples less than one")
	case c.NormalMagnitude <= 0:
		return newErr(cfgPrefix, "non-positive normal_magnitude")
	}
	return nil
}

// LoadConfig decodes a YAML document from r over the
// default configuration. Fields missing from the document
// keep their default values. An empty document yields the
// default configuration.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, cfgPrefix+"decode")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
