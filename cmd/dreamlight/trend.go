package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dreamlight/config"
	"github.com/spektr-org/dreamlight/dashboard"
	"github.com/spektr-org/dreamlight/engine"
)

// ── trend ────────────────────────────────────────────────────────────────────

func newTrendCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Compare each emotion family's first and last month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := dashboard.LoadAll(cmd.Context(), dashboard.FileLoader(cfg), engine.WideMonthly)
			if err != nil {
				return err
			}
			if err := data.Err(engine.WideMonthly); err != nil {
				return err
			}
			wide, _ := data.Store(engine.WideMonthly)
			trends := engine.Trends(wide, cfg.EmotionKeys)

			switch format {
			case "text":
				return writeTrends(cmd.OutOrStdout(), trends)
			case "json", "pretty":
				return writeJSON(cmd.OutOrStdout(), trends, format)
			}
			return fmt.Errorf("unknown format %q (want text, json or pretty)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, pretty")
	return cmd
}

func writeTrends(w io.Writer, trends []engine.TrendData) error {
	for _, t := range trends {
		line := fmt.Sprintf("%-12s %-14s %s", t.Category, t.Value, mutedStyle.Render(t.Period))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
