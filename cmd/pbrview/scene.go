// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/pbr/engine"
	"github.com/gviegas/pbr/gltf"
)

// box returns a box primitive of the given size, centered
// at the origin.
func box(size float32, mat *engine.Material, poses []mgl64.Mat4) (*engine.Primitive, error) {
	h := size / 2
	faces := [...][3]mgl32.Vec3{
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
		{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	}
	var p engine.PrimitiveParam
	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(p.Positions))
		for _, c := range [...][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			pos := n.Mul(h).Add(u.Mul(c[0] * h)).Add(v.Mul(c[1] * h))
			p.Positions = append(p.Positions, pos)
			p.Normals = append(p.Normals, n)
			p.TexCoord0 = append(p.TexCoord0, mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2})
		}
		p.Indices = append(p.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	p.Mode = gltf.TRIANGLES
	p.Material = mat
	p.Poses = poses
	return engine.NewPrimitive(&p)
}

// checker returns an n-by-n checkerboard image.
func checker(n, tile int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := color.RGBA{200, 200, 200, 255}
			if (x/tile+y/tile)%2 == 1 {
				c = color.RGBA{60, 60, 70, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func metallic(name string, base mgl32.Vec4, metal, rough float32) (*engine.Material, error) {
	mr := engine.DefaultMetallicRoughness()
	mr.BaseColorFactor = base
	mr.MetallicFactor = metal
	mr.RoughnessFactor = rough
	return engine.NewMetallicRoughness(name, &mr)
}

// demoScene builds a textured floor with a few boxes on
// it, a point cloud, two lights and a camera.
func demoScene(aspect float64) (*engine.Scene, error) {
	s, err := engine.New("demo")
	if err != nil {
		return nil, err
	}
	s.SetBgColor(mgl32.Vec4{0.1, 0.1, 0.12, 1})
	s.SetAmbientLight(mgl32.Vec3{0.05, 0.05, 0.05})

	sampler, err := engine.NewSampler("floor", gltf.NEAREST, gltf.LINEAR_MIPMAP_LINEAR, gltf.REPEAT, gltf.REPEAT)
	if err != nil {
		return nil, err
	}
	tex, err := engine.NewTexture(&engine.TexParam{
		Name:     "checker",
		Source:   checker(256, 32),
		Channels: engine.RGB,
		Sampler:  sampler,
	})
	if err != nil {
		return nil, err
	}
	mr := engine.DefaultMetallicRoughness()
	mr.BaseColorTexture = tex
	mr.MetallicFactor = 0
	floorMat, err := engine.NewMetallicRoughness("floor", &mr)
	if err != nil {
		return nil, err
	}
	floor, err := box(1, floorMat, nil)
	if err != nil {
		return nil, err
	}
	mesh, err := engine.NewMesh("floor", floor)
	if err != nil {
		return nil, err
	}
	pose := mgl64.Translate3D(0, -0.55, 0).Mul4(mgl64.Scale3D(8, 0.1, 8))
	if _, err := s.Add(mesh, "floor", &pose, nil); err != nil {
		return nil, err
	}

	red, err := metallic("red", mgl32.Vec4{0.8, 0.1, 0.1, 1}, 0.1, 0.4)
	if err != nil {
		return nil, err
	}
	var poses []mgl64.Mat4
	for i := -2; i <= 2; i++ {
		poses = append(poses, mgl64.Translate3D(float64(i)*1.25, 0, -1.5))
	}
	row, err := box(0.8, red, poses)
	if err != nil {
		return nil, err
	}
	if mesh, err = engine.NewMesh("row", row); err != nil {
		return nil, err
	}
	if _, err := s.Add(mesh, "row", nil, nil); err != nil {
		return nil, err
	}

	glass, err := metallic("glass", mgl32.Vec4{0.3, 0.6, 1, 0.4}, 0, 0.05)
	if err != nil {
		return nil, err
	}
	if err := glass.SetAlphaMode(gltf.BLEND); err != nil {
		return nil, err
	}
	glass.SetDoubleSided(true)
	cube, err := box(1, glass, nil)
	if err != nil {
		return nil, err
	}
	if mesh, err = engine.NewMesh("glass", cube); err != nil {
		return nil, err
	}
	pose = mgl64.Translate3D(0, 0, 1).Mul4(mgl64.HomogRotate3DY(math.Pi / 5))
	if _, err := s.Add(mesh, "glass", &pose, nil); err != nil {
		return nil, err
	}

	var pts []mgl32.Vec3
	var cols []mgl32.Vec4
	for i := 0; i < 64; i++ {
		a := float64(i) / 64 * 2 * math.Pi
		pts = append(pts, mgl32.Vec3{float32(2.5 * math.Cos(a)), 1.5, float32(2.5 * math.Sin(a))})
		cols = append(cols, mgl32.Vec4{float32(i) / 64, 1 - float32(i)/64, 0.5, 1})
	}
	if mesh, err = engine.FromPoints("ring", pts, cols, nil, nil); err != nil {
		return nil, err
	}
	if _, err := s.Add(mesh, "ring", nil, nil); err != nil {
		return nil, err
	}

	sun := engine.NewDirectionalLight("sun")
	sun.SetIntensity(3)
	pose = mgl64.LookAtV(mgl64.Vec3{3, 5, 4}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}).Inv()
	if _, err := s.Add(sun, "sun", &pose, nil); err != nil {
		return nil, err
	}
	spot := engine.NewSpotLight("spot")
	spot.SetColor(mgl32.Vec3{1, 0.9, 0.6})
	spot.SetIntensity(20)
	if err := spot.SetConeAngles(math.Pi/12, math.Pi/6); err != nil {
		return nil, err
	}
	pose = mgl64.LookAtV(mgl64.Vec3{-2, 4, 2}, mgl64.Vec3{0, 0, -1.5}, mgl64.Vec3{0, 1, 0}).Inv()
	if _, err := s.Add(spot, "spot", &pose, nil); err != nil {
		return nil, err
	}

	cam, err := engine.NewPerspectiveCamera("main", math.Pi/3, 0.05, 100, aspect)
	if err != nil {
		return nil, err
	}
	pose = mgl64.LookAtV(mgl64.Vec3{0, 2.5, 6}, mgl64.Vec3{0, 0, -0.5}, mgl64.Vec3{0, 1, 0}).Inv()
	if _, err := s.Add(cam, "camera", &pose, nil); err != nil {
		return nil, err
	}
	return s, nil
}
