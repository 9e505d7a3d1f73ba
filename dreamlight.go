// Package dreamlight turns cleaned dream-emotion and night-light datasets
// into linked, interactive charts.
//
// Usage:
//
//	import "github.com/spektr-org/dreamlight/dashboard"
//
//	page, err := dashboard.NewPage(ctx, cfg, dashboard.FileLoader(cfg))
//	page.Dispatch(dashboard.WidgetMonthly, dashboard.Click(300))
//	w, _ := page.Widget(dashboard.WidgetMonthly)
//	cmds, _ := w.Frame("bar")
//
// Views never draw: they return draw commands (rects, arcs, paths, text)
// that any renderer can paint. Parsing lives in helpers, aggregation in
// engine, encodings in scales and the shared month/city/highlight selection
// in selection. All computation is local.
package dreamlight
