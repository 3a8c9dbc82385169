package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bodgit/niceview"
	"github.com/bodgit/niceview/config"
	"github.com/bodgit/niceview/order"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// loadConfig reads the configuration file. Only a missing default file
// falls back to the built-in defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !c.IsSet("config"):
		cfg = config.DefaultConfig()
	default:
		return nil, err
	}

	if c.IsSet("art-dir") {
		cfg.ArtDir = c.String("art-dir")
	}

	return cfg, nil
}

func open(c *cli.Context) (*niceview.NiceView, *zap.Logger, error) {
	logger, err := newLogger(c.Bool("verbose"))
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	n, err := niceview.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return n, logger, nil
}

func printReport(r *order.Report) {
	for _, f := range r.Files {
		fmt.Printf("%3d  %-10s %s\n", f.Rank, f.Identifier(), f.Filename)
	}
	for _, d := range r.Drift {
		fmt.Printf("warning: %s has prefix %02d but rank %d\n", d.File.Filename, d.Prefix, d.Rank)
	}
}

func printOutcomes(outcomes []order.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case order.StatusRenamed:
			fmt.Printf("%s -> %s\n", o.File.Filename, filepath.Base(o.NewPath))
		case order.StatusSkipped:
		default:
			fmt.Printf("%s: %s: %v\n", o.File.Filename, o.Status, o.Err)
		}
	}
	s := order.Summarize(outcomes)
	fmt.Printf("%d renamed, %d skipped, %d failed\n", s.Renamed, s.Skipped, s.Failed)
}

func printResult(r *niceview.Result) {
	for _, img := range r.Failed() {
		fmt.Printf("%s: %v\n", img.File.Filename, img.Err)
	}
	fmt.Printf("%d of %d images generated\n", len(r.Generated()), len(r.Images))
}

func main() {
	app := cli.NewApp()

	app.Name = "niceview"
	app.Usage = "nice!view slideshow artwork generator"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"NICEVIEW_CONFIG"},
			Value:   config.DefaultFilename,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "art-dir",
			EnvVars: []string{"NICEVIEW_ART_DIR"},
			Usage:   "override the art directory",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "init",
			Usage: "Write a default configuration file",
			Action: func(c *cli.Context) error {
				path := c.String("config")
				if _, err := os.Stat(path); err == nil {
					return cli.Exit(fmt.Sprintf("%s already exists", path), 1)
				}

				cfg := config.DefaultConfig()
				if c.IsSet("art-dir") {
					cfg.ArtDir = c.String("art-dir")
				}
				if err := cfg.Save(path); err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Printf("wrote %s\n", path)

				return nil
			},
		},
		{
			Name:  "check",
			Usage: "Show the order images will be generated in",
			Action: func(c *cli.Context) error {
				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				r, err := n.Check()
				if err != nil {
					return cli.Exit(err, 1)
				}
				printReport(r)

				return nil
			},
		},
		{
			Name:  "rename",
			Usage: "Prefix every image with its rank",
			Action: func(c *cli.Context) error {
				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				outcomes, err := n.Rename()
				if err != nil {
					return cli.Exit(err, 1)
				}
				printOutcomes(outcomes)

				if order.Summarize(outcomes).Failed > 0 {
					return cli.Exit("some images could not be renamed", 1)
				}

				return nil
			},
		},
		{
			Name:  "generate",
			Usage: "Convert images and write the C sources",
			Action: func(c *cli.Context) error {
				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
				defer stop()

				r, err := n.Generate(ctx)
				if err != nil {
					return cli.Exit(err, 1)
				}
				printResult(r)

				return nil
			},
		},
		{
			Name:      "compare",
			Usage:     "Render the first image with every conversion method",
			ArgsUsage: "[DIRECTORY]",
			Action: func(c *cli.Context) error {
				dir := "comparison"
				if c.NArg() > 0 {
					dir = c.Args().First()
				}

				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				written, err := n.Compare(c.Context, dir)
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, p := range written {
					fmt.Println(p)
				}

				return nil
			},
		},
		{
			Name:  "backup",
			Usage: "Copy images to the backup directory",
			Action: func(c *cli.Context) error {
				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				copied, err := n.Backup()
				if err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Printf("%d images backed up\n", copied)

				return nil
			},
		},
		{
			Name:  "restore",
			Usage: "Copy images back from the backup directory",
			Action: func(c *cli.Context) error {
				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				copied, err := n.Restore()
				if err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Printf("%d images restored\n", copied)

				return nil
			},
		},
		{
			Name:  "watch",
			Usage: "Regenerate whenever the art directory changes",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "debounce",
					Value: 500 * time.Millisecond,
					Usage: "wait this long after the last change",
				},
			},
			Action: func(c *cli.Context) error {
				n, logger, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()
				defer n.Close()

				ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := n.Watch(ctx, c.Duration("debounce"), func(r *niceview.Result, err error) {
					if err != nil {
						fmt.Println(err)
						return
					}
					printResult(r)
				}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
