package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dreamlight/config"
	"github.com/spektr-org/dreamlight/dashboard"
)

// ============================================================================
// DREAMLIGHT CLI — dream emotions under the night light
// ============================================================================

const version = "0.3.0"

func main() {
	if os.Getenv("DREAMLIGHT_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	var configPath string

	root := cobra.Command{
		Use:     "dreamlight",
		Short:   "Dreamlight renders dream-emotion and night-light charts as draw commands.",
		Version: version,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "dreamlight.yaml", "settings file (YAML)")

	loadConfig := func() (config.Config, error) { return config.LoadFrom(configPath) }
	loadPage := func(ctx context.Context) (*dashboard.Page, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		return dashboard.NewPage(ctx, cfg, dashboard.FileLoader(cfg))
	}

	root.AddCommand(
		newRenderCommand(loadPage),
		newBrowseCommand(loadPage),
		newDiscoverCommand(),
		newTrendCommand(loadConfig),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// pageLoader loads the configured datasets into a page.
type pageLoader func(ctx context.Context) (*dashboard.Page, error)
