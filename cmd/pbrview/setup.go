// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/gviegas/pbr/driver"
	"github.com/gviegas/pbr/engine"
	"github.com/gviegas/pbr/wsi"
)

var logger = zap.NewNop()

func setupLogging(ctx *cli.Context) error {
	var cfg zap.Config
	switch {
	case ctx.GlobalBool("vv"):
		cfg = zap.NewDevelopmentConfig()
	case ctx.GlobalBool("v"):
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
	default:
		return nil
	}
	l, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	logger = l
	engine.SetLogger(l.Named("engine"))
	driver.SetLogger(l.Named("driver"))
	return nil
}

func loadConfig(ctx *cli.Context) (*engine.Config, error) {
	name := ctx.GlobalString("config")
	if name == "" {
		return nil, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	defer f.Close()
	cfg, err := engine.LoadConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", name)
	}
	return &cfg, nil
}

// setup creates a window whose graphics context the
// returned RenderContext is opened on.
// The window is not mapped.
func setup(ctx *cli.Context, title string) (wsi.Window, *engine.RenderContext, engine.RenderFlag, error) {
	if err := setupLogging(ctx); err != nil {
		return nil, nil, 0, err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	flags, err := engine.ParseRenderFlag(ctx.String("flags"))
	if err != nil {
		return nil, nil, 0, err
	}
	win, err := wsi.NewWindow(ctx.Int("width"), ctx.Int("height"), title)
	if err != nil {
		return nil, nil, 0, err
	}
	win.MakeCurrent()
	rc, err := engine.OpenRenderContext("gl", cfg)
	if err != nil {
		win.Close()
		return nil, nil, 0, err
	}
	logger.Info("setup done",
		zap.Stringer("flags", flags),
		zap.Int("width", win.Width()),
		zap.Int("height", win.Height()))
	return win, rc, flags, nil
}

// ListFlags prints the render flags that the flags
// option accepts.
func ListFlags(*cli.Context) error {
	for f := engine.DepthOnly; f <= engine.RawDepth; f <<= 1 {
		fmt.Println(f)
	}
	fmt.Println(engine.None)
	fmt.Println("ShadowsAll")
	return nil
}
