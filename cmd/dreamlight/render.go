package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/dreamlight/dashboard"
	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/helpers"
	"github.com/spektr-org/dreamlight/schema"
	"github.com/spektr-org/dreamlight/selection"
	"github.com/spektr-org/dreamlight/views"
)

// ── render ───────────────────────────────────────────────────────────────────

type renderOutput struct {
	Widget   string                         `json:"widget"`
	Snapshot selection.Snapshot             `json:"snapshot"`
	Views    map[string][]views.DrawCommand `json:"views,omitempty"`
	Error    string                         `json:"error,omitempty"`
}

func newRenderCommand(loadPage pageLoader) *cobra.Command {
	var (
		widget  string
		events  []string
		format  string
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Replay input events on a widget and print its draw commands",
		Example: `  dreamlight render --widget monthly --event click:300
  dreamlight render --widget city --event select-city:Ottawa --event highlight:joy --format csv
  dreamlight render --widget light --event highlight:fear@Low --format pretty --out light.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := loadPage(cmd.Context())
			if err != nil {
				return err
			}
			defer page.Close()

			w, err := page.Widget(widget)
			if err != nil {
				return err
			}
			for _, raw := range events {
				ev, err := parseEvent(raw)
				if err != nil {
					return err
				}
				if err := w.Dispatch(ev); err != nil {
					return err
				}
			}

			out := renderOutput{Widget: w.Name, Snapshot: w.Snapshot()}
			if w.Err != nil {
				out.Error = w.Err.Error()
			} else {
				out.Views = make(map[string][]views.DrawCommand)
				for _, name := range w.ViewNames() {
					out.Views[name], _ = w.Frame(name)
				}
			}

			writer := io.Writer(os.Stdout)
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				writer = f
			}

			switch format {
			case "csv":
				return writeCSV(writer, w.ViewNames(), out.Views)
			case "json", "pretty":
				return writeJSON(writer, out, format)
			}
			return fmt.Errorf("unknown format %q (want json, pretty or csv)", format)
		},
	}
	cmd.Flags().StringVarP(&widget, "widget", "w", dashboard.WidgetMonthly, "widget: monthly, map, city or light")
	cmd.Flags().StringArrayVarP(&events, "event", "e", nil, "event to replay, in order (click:PX, hover:PX, leave, select-city:NAME, select-month:N, highlight:CATEGORY[@GROUP], clear-highlight)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, pretty, csv")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write output to file instead of stdout")
	return cmd
}

// parseEvent reads "kind[:argument]".
func parseEvent(raw string) (dashboard.Event, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(raw), ":")
	number := func() (float64, error) {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, fmt.Errorf("event %q: %q is not a number", raw, arg)
		}
		return v, nil
	}

	switch strings.ToLower(kind) {
	case "hover":
		px, err := number()
		return dashboard.Hover(px), err
	case "click":
		px, err := number()
		return dashboard.Click(px), err
	case "leave":
		return dashboard.Leave(), nil
	case "select-city":
		if arg == "" {
			return dashboard.Event{}, fmt.Errorf("event %q: missing city", raw)
		}
		return dashboard.SelectCity(arg), nil
	case "select-month":
		m, _, err := helpers.ParseMonth(arg)
		if err != nil {
			return dashboard.Event{}, fmt.Errorf("event %q: %w", raw, err)
		}
		return dashboard.SelectMonth(m), nil
	case "highlight":
		category, group, _ := strings.Cut(arg, "@")
		return dashboard.HighlightCategory(category, group), nil
	case "clear-highlight":
		return dashboard.ClearHighlight(), nil
	}
	return dashboard.Event{}, fmt.Errorf("unknown event %q", raw)
}

func writeCSV(w io.Writer, order []string, frames map[string][]views.DrawCommand) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"view", "id", "shape", "x", "y", "width", "height", "fill", "stroke", "opacity", "text"})
	for _, name := range order {
		for _, c := range frames[name] {
			_ = cw.Write([]string{
				name, c.ID, string(c.Shape),
				fmtNum(c.X), fmtNum(c.Y), fmtNum(c.Width), fmtNum(c.Height),
				c.Style.Fill, c.Style.Stroke, fmtNum(c.Style.Opacity), c.Text,
			})
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any, format string) error {
	enc := json.NewEncoder(w)
	if format == "pretty" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ── discover ─────────────────────────────────────────────────────────────────

type discoverOutput struct {
	Dataset  string             `json:"dataset"`
	Kind     string             `json:"kind"`
	Required []string           `json:"required"`
	Records  int                `json:"records"`
	Rejected []engine.Rejection `json:"rejected,omitempty"`
}

func newDiscoverCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "discover FILE.csv",
		Short: "Detect which dataset a CSV file is and report rows that would be rejected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			sch, err := schema.DiscoverFromCSV(data)
			if err != nil {
				return err
			}
			store, err := helpers.ParseCSV(data, sch)
			if err != nil {
				return err
			}
			out := discoverOutput{
				Dataset:  sch.Name,
				Kind:     string(sch.Kind),
				Required: sch.RequiredColumns(),
				Records:  store.Len(),
				Rejected: store.Rejections(),
			}
			return writeJSON(cmd.OutOrStdout(), out, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "output format: json, pretty")
	return cmd
}
