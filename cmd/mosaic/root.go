package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hupe1980/octree/mosaic"
)

var flags struct {
	image        string
	tiles        string
	out          string
	tileWidth    int
	tileHeight   int
	transparency int
	workers      int
	noCache      bool
	cacheDir     string
	verbose      bool
}

var rootCmd = &cobra.Command{
	Use:   "mosaic --image photo.jpg --tiles ./tiles",
	Short: "Create a photomosaic from a directory of tile images",
	Long: `mosaic rebuilds an image out of small tiles: every cell of the source
image is replaced by the tile whose average color is nearest, found via
an octree index over the tile pool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.image, "image", "i", "", "source image (required)")
	f.StringVarP(&flags.tiles, "tiles", "t", "", "directory of tile images (required)")
	f.StringVarP(&flags.out, "out", "o", "mosaic.jpg", "output file")
	f.IntVar(&flags.tileWidth, "tile-width", 32, "tile width in pixels")
	f.IntVar(&flags.tileHeight, "tile-height", 32, "tile height in pixels")
	f.IntVar(&flags.transparency, "transparency", 80, "tile opacity percentage, 0 (original only) to 100 (tiles only)")
	f.IntVar(&flags.workers, "workers", 0, "concurrent tile workers (0 = number of CPUs)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the on-disk tile cache")
	f.StringVar(&flags.cacheDir, "cache-dir", ".mosaic-cache", "tile cache directory")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	_ = rootCmd.MarkFlagRequired("image")
	_ = rootCmd.MarkFlagRequired("tiles")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var ui progressUI
	if !flags.verbose && isatty.IsTerminal(os.Stderr.Fd()) {
		ui = newBarUI()
	} else {
		ui = newLogUI(logger)
	}

	configure := func(o *mosaic.Options) {
		o.TileWidth = flags.tileWidth
		o.TileHeight = flags.tileHeight
		o.Transparency = flags.transparency
		o.Workers = flags.workers
		o.Logger = logger
		o.OnProgress = ui.OnProgress
		if !flags.noCache {
			o.CacheDir = flags.cacheDir
		}
	}

	err := ui.Run(func() error {
		return mosaic.Generate(ctx, flags.image, flags.tiles, flags.out, configure)
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "wrote", flags.out)
	return nil
}
