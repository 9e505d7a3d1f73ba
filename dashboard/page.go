package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	geojson "github.com/paulmach/go.geojson"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/dreamlight/config"
	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/helpers"
	"github.com/spektr-org/dreamlight/selection"
	"github.com/spektr-org/dreamlight/views"
)

// ============================================================================
// LOADING — every dataset in its own goroutine
// ============================================================================

// Loader reads the raw bytes of one dataset.
type Loader interface {
	Load(ctx context.Context, kind engine.DatasetKind) ([]byte, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, kind engine.DatasetKind) ([]byte, error)

func (f LoaderFunc) Load(ctx context.Context, kind engine.DatasetKind) ([]byte, error) {
	return f(ctx, kind)
}

// FileLoader reads datasets from the files named in cfg.
func FileLoader(cfg config.Config) Loader {
	return LoaderFunc(func(ctx context.Context, kind engine.DatasetKind) ([]byte, error) {
		path, err := cfg.DatasetPath(kind)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	})
}

// AllKinds lists every dataset the page uses.
var AllKinds = []engine.DatasetKind{
	engine.WideMonthly,
	engine.LongMonthly,
	engine.DreamsWithLight,
	engine.LightRadial,
	engine.MonthlyRadiance,
	engine.Boundary,
}

// Datasets holds the outcome of loading: a store or an error per kind.
type Datasets struct {
	mu       sync.Mutex
	stores   map[engine.DatasetKind]*engine.RecordStore
	boundary *geojson.FeatureCollection
	errs     map[engine.DatasetKind]error
}

// LoadAll loads kinds concurrently. A dataset that fails to read or parse is
// recorded in Err; LoadAll itself only fails when ctx is done.
func LoadAll(ctx context.Context, loader Loader, kinds ...engine.DatasetKind) (*Datasets, error) {
	d := &Datasets{
		stores: make(map[engine.DatasetKind]*engine.RecordStore),
		errs:   make(map[engine.DatasetKind]error),
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range lo.Uniq(kinds) {
		g.Go(func() error {
			data, err := loader.Load(gctx, kind)
			if err == nil {
				err = d.parse(kind, data)
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("⚠️ Dreamlight: %s failed to load: %v", kind, err)
				d.fail(kind, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading datasets: %w", err)
	}
	return d, nil
}

func (d *Datasets) parse(kind engine.DatasetKind, data []byte) error {
	if kind == engine.Boundary {
		fc, err := helpers.ParseBoundary(data)
		if err != nil {
			return err
		}
		d.mu.Lock()
		d.boundary = fc
		d.mu.Unlock()
		return nil
	}
	store, err := helpers.ParseKind(data, kind)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.stores[kind] = store
	d.mu.Unlock()
	return nil
}

func (d *Datasets) fail(kind engine.DatasetKind, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[kind] = fmt.Errorf("%s: %w", kind, err)
}

// Store returns the records of kind.
func (d *Datasets) Store(kind engine.DatasetKind) (*engine.RecordStore, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.stores[kind]
	return s, ok
}

// Boundary returns the loaded boundary, or nil.
func (d *Datasets) Boundary() *geojson.FeatureCollection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.boundary
}

// Err returns the load failure of kind, or nil.
func (d *Datasets) Err(kind engine.DatasetKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errs[kind]
}

// require joins the failures of kinds, or reports kinds never loaded.
func (d *Datasets) require(kinds ...engine.DatasetKind) error {
	var errs []error
	for _, k := range kinds {
		if err := d.Err(k); err != nil {
			errs = append(errs, err)
			continue
		}
		_, ok := d.Store(k)
		if !ok && !(k == engine.Boundary && d.Boundary() != nil) {
			errs = append(errs, fmt.Errorf("%s: %w", k, ErrNotLoaded))
		}
	}
	return errors.Join(errs...)
}

// ============================================================================
// PAGE — the four widget pairs
// ============================================================================

// Widget names.
const (
	WidgetMonthly = "monthly" // stacked area + bar
	WidgetMap     = "map"     // choropleth + month slider
	WidgetCity    = "city"    // city radial
	WidgetLight   = "light"   // light-group donuts
)

// Slider is the view name of the month slider.
const Slider = "slider"

// Page is the set of widgets shown together.
type Page struct {
	widgets []*Widget
}

// NewPage loads every dataset and builds the widgets whose data arrived.
func NewPage(ctx context.Context, cfg config.Config, loader Loader) (*Page, error) {
	data, err := LoadAll(ctx, loader, AllKinds...)
	if err != nil {
		return nil, err
	}
	return Build(cfg, data), nil
}

// Build creates the widgets from already loaded datasets.
func Build(cfg config.Config, data *Datasets) *Page {
	p := &Page{}

	p.add(WidgetMonthly, data.require(engine.WideMonthly, engine.LongMonthly), func() *Widget {
		wide, _ := data.Store(engine.WideMonthly)
		long, _ := data.Store(engine.LongMonthly)
		area := views.NewStackedArea(wide, cfg.ViewOptions(config.StackedArea)...)
		bar := views.NewBar(long, cfg.ViewOptions(config.Bar)...)
		state := selection.New(selection.WithAxis(area.Axis()))
		return NewWidget(WidgetMonthly, state,
			View{Name: config.StackedArea, Controller: area},
			View{Name: config.Bar, Controller: bar},
		)
	})

	p.add(WidgetMap, data.require(engine.MonthlyRadiance, engine.Boundary), func() *Widget {
		radiance, _ := data.Store(engine.MonthlyRadiance)
		choropleth := views.NewChoropleth(data.Boundary(), radiance, cfg.ViewOptions(config.Choropleth)...)
		slider := views.NewMonthSlider()
		state := selection.New(selection.WithAxis(slider.Axis()), selection.WithMonth(1))
		return NewWidget(WidgetMap, state,
			View{Name: config.Choropleth, Controller: choropleth},
			View{Name: Slider, Controller: slider},
		)
	})

	p.add(WidgetCity, data.require(engine.DreamsWithLight), func() *Widget {
		dreams, _ := data.Store(engine.DreamsWithLight)
		radial := views.NewCityRadial(dreams, cfg.ViewOptions(config.CityRadial)...)
		state := selection.New(selection.WithCatalog(radial.Table()))
		if city := radial.InitialCity(); city != "" {
			// InitialCity always has months, so this cannot fail.
			_ = state.SelectCity(city)
		}
		return NewWidget(WidgetCity, state, View{Name: config.CityRadial, Controller: radial})
	})

	p.add(WidgetLight, data.require(engine.LightRadial), func() *Widget {
		light, _ := data.Store(engine.LightRadial)
		groups := views.NewLightGroups(light, cfg.ViewOptions(config.LightGroups)...)
		return NewWidget(WidgetLight, selection.New(), View{Name: config.LightGroups, Controller: groups})
	})

	log.Printf("🖼️ Dreamlight: page ready — %d/%d widgets loaded",
		len(lo.Filter(p.widgets, func(w *Widget, _ int) bool { return w.Loaded() })), len(p.widgets))
	return p
}

func (p *Page) add(name string, loadErr error, build func() *Widget) {
	if loadErr != nil {
		p.widgets = append(p.widgets, failedWidget(name, loadErr))
		return
	}
	p.widgets = append(p.widgets, build())
}

// Widgets returns the widgets in page order.
func (p *Page) Widgets() []*Widget {
	return append([]*Widget(nil), p.widgets...)
}

// Widget returns the widget called name.
func (p *Page) Widget(name string) (*Widget, error) {
	w, ok := lo.Find(p.widgets, func(w *Widget) bool { return w.Name == name })
	if !ok {
		return nil, fmt.Errorf("widget %q: %w", name, ErrUnknownWidget)
	}
	return w, nil
}

// Dispatch sends ev to the named widget.
func (p *Page) Dispatch(name string, ev Event) error {
	w, err := p.Widget(name)
	if err != nil {
		return err
	}
	return w.Dispatch(ev)
}

// Close detaches every widget from its selection.
func (p *Page) Close() {
	for _, w := range p.widgets {
		w.Close()
	}
}
