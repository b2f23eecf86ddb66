// Package main is the canopy command line tool.
package main

import (
	"io"
	"log"
	"os"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go.viam.com/canopy/utils"
)

const (
	// Flags.
	flagConfig       = "config"
	flagDebug        = "debug"
	flagQuiet        = "quiet"
	flagLogFile      = "log-file"
	flagSeed         = "seed"
	flagSet          = "set"
	flagTimeout      = "timeout"
	flagOutput       = "output"
	flagFormat       = "format"
	flagPipes        = "pipes"
	flagSize         = "size"
	flagWidth        = "width"
	flagHideOpenings = "hide-openings"
	flagHideTrees    = "hide-trees"
	flagBins         = "bins"
	flagTerminal     = "terminal"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the CLI writing its output to out.
func newApp(out io.Writer) *cli.App {
	r := &runner{}
	return &cli.App{
		Name:   "canopy",
		Usage:  "generate curvature driven canopies and their supporting trees",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE` (json or yaml)",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    flagQuiet,
				Aliases: []string{"q"},
				Usage:   "disable logging",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "override the random seed",
			},
			&cli.StringSliceFlag{
				Name:  flagSet,
				Usage: "override a config field, e.g. --set growth.levels=4",
			},
			&cli.DurationFlag{
				Name:  flagTimeout,
				Usage: "abort generation after this long",
			},
		},
		Before: func(c *cli.Context) error {
			switch {
			case c.String(flagLogFile) != "":
				r.logger = utils.NewFileLogger(c.String(flagLogFile), "canopy", c.Bool(flagDebug))
			case c.Bool(flagDebug):
				r.logger = golog.NewDebugLogger("canopy")
			case c.Bool(flagQuiet):
				r.logger = zap.NewNop().Sugar()
			default:
				r.logger = golog.NewDevelopmentLogger("canopy")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate a canopy and write it as a JSON document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "write the document to `FILE` instead of stdout",
					},
					&cli.BoolFlag{
						Name:  flagPipes,
						Usage: "include a pipe mesh for every tree segment",
					},
				},
				Action: r.generateAction,
			},
			{
				Name:  "render",
				Usage: "draw a top down preview of a canopy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagOutput,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "image `FILE` (png, jpg, ppm or qoi)",
					},
					&cli.IntFlag{
						Name:  flagSize,
						Value: 800,
						Usage: "length in pixels of the longer side",
					},
					&cli.IntFlag{
						Name:  flagWidth,
						Usage: "resample the drawing to this width",
					},
					&cli.BoolFlag{
						Name:  flagHideOpenings,
						Usage: "do not draw panel openings",
					},
					&cli.BoolFlag{
						Name:  flagHideTrees,
						Usage: "do not draw trees",
					},
				},
				Action: r.renderAction,
			},
			{
				Name:  "histogram",
				Usage: "plot the distribution of panel curvature",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "plot `FILE` (png, svg or pdf)",
					},
					&cli.IntFlag{
						Name:  flagBins,
						Value: 16,
						Usage: "number of bins",
					},
					&cli.BoolFlag{
						Name:  flagTerminal,
						Usage: "print the histogram as text",
					},
				},
				Action: r.histogramAction,
			},
			{
				Name:   "summary",
				Usage:  "print statistics about a canopy",
				Action: r.summaryAction,
			},
			{
				Name:  "defaults",
				Usage: "print the default configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagFormat,
						Value: "json",
						Usage: "json or yaml",
					},
				},
				Action: r.defaultsAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the configuration",
				Action: r.schemaAction,
			},
		},
	}
}
