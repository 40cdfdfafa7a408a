// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gl

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
)

// program implements driver.Program.
type program struct {
	id   uint32
	locs map[string]int32
}

// NewProgram implements driver.GPU.
func (g *GPU) NewProgram(src *driver.ProgramSrc) (driver.Program, error) {
	type stage struct {
		src  string
		typ  uint32
		name string
	}
	stages := []stage{
		{src.Vertex, gl.VERTEX_SHADER, "vertex shader"},
		{src.Fragment, gl.FRAGMENT_SHADER, "fragment shader"},
	}
	if src.Geometry != "" {
		stages = append(stages, stage{src.Geometry, gl.GEOMETRY_SHADER, "geometry shader"})
	}
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()
	for _, s := range stages {
		id, err := compileShader(driver.InjectDefines(s.src, src.Defines), s.typ)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", src.Name, s.name)
		}
		shaders = append(shaders, id)
	}

	id := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(id, s)
	}
	gl.LinkProgram(id)
	for _, s := range shaders {
		gl.DetachShader(id, s)
	}
	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(id, n, nil, gl.Str(log))
		gl.DeleteProgram(id)
		log = strings.TrimRight(log, "\x00")
		driver.Logger().Error("failed to link program", zap.String("program", src.Name), zap.String("log", log))
		return nil, errors.Wrapf(driver.ErrCompile, "%s: failed to link program: %q", src.Name, log)
	}
	return &program{id: id, locs: make(map[string]int32)}, nil
}

func compileShader(src string, typ uint32) (uint32, error) {
	id := gl.CreateShader(typ)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)
	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(id, n, nil, gl.Str(log))
		gl.DeleteShader(id)
		log = strings.TrimRight(log, "\x00")
		driver.Logger().Error("failed to compile shader", zap.Uint32("type", typ), zap.String("log", log))
		return 0, errors.Wrapf(driver.ErrCompile, "%q", log)
	}
	return id, nil
}

// Bind implements driver.Program.
func (p *program) Bind() { gl.UseProgram(p.id) }

// SetUniform implements driver.Program.
func (p *program) SetUniform(name string, value any) error {
	loc, ok := p.locs[name]
	if !ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		p.locs[name] = loc
	}
	switch v := value.(type) {
	case int:
		gl.Uniform1i(loc, int32(v))
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case float32:
		gl.Uniform1f(loc, v)
	case mgl32.Vec2:
		gl.Uniform2fv(loc, 1, &v[0])
	case mgl32.Vec3:
		gl.Uniform3fv(loc, 1, &v[0])
	case mgl32.Vec4:
		gl.Uniform4fv(loc, 1, &v[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	default:
		return errors.Wrapf(driver.ErrUniform, "%s: %T", name, value)
	}
	return nil
}

// Destroy implements driver.Destroyer.
func (p *program) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
