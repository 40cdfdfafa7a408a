// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"image"
	"image/png"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/engine"
)

// Render renders a single frame offscreen and writes the
// color and, optionally, the depth buffer as PNG images.
func Render(ctx *cli.Context) error {
	win, rc, flags, err := setup(ctx, "pbrview")
	if err != nil {
		return err
	}
	defer win.Close()
	w, h := ctx.Int("width"), ctx.Int("height")
	o, err := engine.NewOffscreen(rc, w, h, float32(ctx.Float64("point-size")))
	if err != nil {
		return err
	}
	defer o.Delete()
	s, err := demoScene(float64(w) / float64(h))
	if err != nil {
		return err
	}

	var seg map[*engine.Node][3]uint8
	if ctx.Bool("seg") {
		flags |= engine.Seg
		seg = make(map[*engine.Node][3]uint8)
		for i, n := range s.MeshNodes() {
			v := uint8(255 * (i + 1) / len(s.MeshNodes()))
			seg[n] = [3]uint8{v, v, v}
		}
	}
	color, depth, err := o.Render(s, flags, seg)
	if err != nil {
		return err
	}
	if color != nil {
		if err := writePNG(ctx.String("out"), color.Image()); err != nil {
			return err
		}
		logger.Info("color buffer written", zap.String("file", ctx.String("out")))
	}
	if name := ctx.String("depth"); name != "" {
		if err := writePNG(name, depthImage(depth)); err != nil {
			return err
		}
		logger.Info("depth buffer written", zap.String("file", name))
	}
	return nil
}

// depthImage maps the depth buffer to a grayscale image,
// nearest being brightest. Empty texels are black.
func depthImage(b *engine.DepthBuffer) *image.Gray16 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range b.Depth {
		if d > 0 {
			lo = min(lo, float64(d))
			hi = max(hi, float64(d))
		}
	}
	img := image.NewGray16(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			d := float64(b.At(x, y))
			if d <= 0 {
				continue
			}
			v := 1.0
			if hi > lo {
				v = 1 - (d-lo)/(hi-lo)*0.9
			}
			i := img.PixOffset(x, y)
			g := uint16(v * 65535)
			img.Pix[i], img.Pix[i+1] = uint8(g>>8), uint8(g)
		}
	}
	return img
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	return errors.Wrapf(f.Close(), "close %s", name)
}
