// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Command pbrview renders a demo scene, either into a
// window or into image files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	_ "github.com/gviegas/pbr/driver/gl"
	_ "github.com/gviegas/pbr/wsi/glfwwsi"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	common := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 640,
			Usage: "viewport width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 480,
			Usage: "viewport height",
		},
		cli.StringFlag{
			Name:  "flags, f",
			Value: "ShadowsDirectional|ShadowsSpot",
			Usage: "'|'-separated render flags",
		},
		cli.Float64Flag{
			Name:  "point-size",
			Value: 4,
			Usage: "size of rendered points, in pixels",
		},
	}

	app := cli.NewApp()
	app.Name = "pbrview"
	app.Usage = "render a demo scene with the pbr engine"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML file with renderer configuration",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "view",
			Usage: "render the scene into a window",
			Description: `
Open a window and render the scene until the window is closed,
Esc is pressed or the process is interrupted.`,
			Flags: append(common, cli.IntFlag{
				Name:  "fps",
				Value: 60,
				Usage: "frame rate limit (0 for none)",
			}),
			Action: View,
		},
		{
			Name:  "render",
			Usage: "render a single frame into image files",
			Flags: append(common,
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the color buffer",
				},
				cli.StringFlag{
					Name:  "depth, d",
					Usage: "image filename for the depth buffer (optional)",
				},
				cli.BoolFlag{
					Name:  "seg",
					Usage: "render a segmentation mask instead",
				},
			),
			Action: Render,
		},
		{
			Name:   "flags",
			Usage:  "list render flags",
			Action: ListFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pbrview:", err)
		os.Exit(1)
	}
}
