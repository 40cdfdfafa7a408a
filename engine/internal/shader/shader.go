// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package shader provides the engine's GLSL programs.
//
// Programs are selected by a Variant: the names of the
// shader stages and the preprocessor defines that adapt
// them to a given vertex layout, material and lighting
// setup. A Cache compiles each distinct Variant once per
// GPU.
package shader

import (
	"embed"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
)

//go:embed glsl
var glsl embed.FS

// Source returns the source of the named shader stage
// (e.g., "mesh.vert").
func Source(name string) (string, error) {
	b, err := glsl.ReadFile("glsl/" + name)
	if err != nil {
		return "", errors.Wrap(err, "shader: "+name)
	}
	return string(b), nil
}

// Shader stage names.
const (
	MeshVert          = "mesh.vert"
	MeshFrag          = "mesh.frag"
	DepthVert         = "mesh_depth.vert"
	DepthFrag         = "mesh_depth.frag"
	FlatVert          = "flat.vert"
	FlatFrag          = "flat.frag"
	SegVert           = "segmentation.vert"
	SegFrag           = "segmentation.frag"
	NormalsVert       = "vertex_normals.vert"
	NormalsFrag       = "vertex_normals.frag"
	NormalsGeom       = "vertex_normals.geom"
	NormalsPointsGeom = "vertex_normals_pc.geom"
)

// Variant identifies a program.
type Variant struct {
	Vertex   string
	Fragment string
	// Optional.
	Geometry string
	// A define with an empty value is emitted without one.
	Defines map[string]string
}

// Key returns a string that uniquely identifies v.
// Variants with equal stages, in vertex, fragment and
// geometry order, and equal defines have equal keys,
// regardless of map order.
func (v *Variant) Key() string {
	stages := v.Vertex + "," + v.Fragment + "," + v.Geometry
	defs := make([]string, 0, len(v.Defines))
	for k, x := range v.Defines {
		defs = append(defs, k+"="+x)
	}
	sort.Strings(defs)
	return stages + ";" + strings.Join(defs, ",")
}

// Cache compiles and stores programs for a single GPU.
type Cache struct {
	gpu   driver.GPU
	log   *zap.Logger
	progs map[string]driver.Program
}

// NewCache creates an empty Cache.
// A nil log disables logging.
func NewCache(gpu driver.GPU, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{gpu: gpu, log: log, progs: make(map[string]driver.Program)}
}

// Get returns the program for v, compiling it if it is
// not in c yet.
func (c *Cache) Get(v *Variant) (driver.Program, error) {
	key := v.Key()
	if p, ok := c.progs[key]; ok {
		return p, nil
	}
	src := &driver.ProgramSrc{Name: key, Defines: v.Defines}
	var err error
	if src.Vertex, err = Source(v.Vertex); err != nil {
		return nil, err
	}
	if src.Fragment, err = Source(v.Fragment); err != nil {
		return nil, err
	}
	if v.Geometry != "" {
		if src.Geometry, err = Source(v.Geometry); err != nil {
			return nil, err
		}
	}
	p, err := c.gpu.NewProgram(src)
	if err != nil {
		c.log.Error("program compilation failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	c.log.Debug("program compiled", zap.String("key", key), zap.Int("programs", len(c.progs)+1))
	c.progs[key] = p
	return p, nil
}

// Len returns the number of programs in c.
func (c *Cache) Len() int { return len(c.progs) }

// Clear destroys every program in c.
func (c *Cache) Clear() {
	for k, p := range c.progs {
		p.Destroy()
		delete(c.progs, k)
	}
}
