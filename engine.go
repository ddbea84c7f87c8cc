package marey

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/marey/config"
	"github.com/theoremus-urban-solutions/marey/diagram"
	"github.com/theoremus-urban-solutions/marey/formatter"
	"github.com/theoremus-urban-solutions/marey/wire"
)

// Output selects how a rendered diagram is encoded
type Output struct {
	Format string // "cbor" (default) or "json"
	Group  string // JSON field group, see formatter.GroupSummary
	Train  string // keep only trains whose id contains this text
}

func (o Output) validate() error {
	switch o.Format {
	case "", "cbor", "json":
	default:
		return fmt.Errorf("%w: unknown format %q", wire.ErrMalformed, o.Format)
	}
	switch o.Group {
	case "", formatter.GroupSummary, formatter.GroupGeometry:
	default:
		return fmt.Errorf("%w: unknown group %q", wire.ErrMalformed, o.Group)
	}
	return nil
}

type diagramEncoder interface {
	Build(d *diagram.Diagram, format, group string) ([]byte, string, error)
}

// Engine turns encoded networks and requests into encoded diagrams
type Engine struct {
	defaults wire.RequestRecord
	workers  int
	cache    *DiagramCache
	encoder  diagramEncoder
}

// NewEngine creates an engine that fills empty request fields from drawing and
// keeps up to cacheEntries encoded responses. Zero entries disables the cache.
func NewEngine(drawing config.DrawingConfig, cacheEntries int) *Engine {
	return &Engine{
		defaults: RequestDefaults(drawing),
		workers:  drawing.Workers,
		cache:    NewDiagramCache(cacheEntries),
		encoder:  formatter.NewResponseBuilder(),
	}
}

// NewEngineFromConfig uses the global application configuration
func NewEngineFromConfig() *Engine {
	return NewEngine(config.Config.Drawing, config.Config.Cache.Entries())
}

// Render draws a diagram and encodes it as canonical CBOR. The request must be
// complete: no configured defaults are applied.
func Render(networkData, requestData []byte) ([]byte, error) {
	b, _, err := NewEngine(config.DrawingConfig{}, 0).Render(networkData, requestData, Output{})
	return b, err
}

// RequestDefaults converts drawing configuration into a request whose set
// fields act as defaults
func RequestDefaults(cfg config.DrawingConfig) wire.RequestRecord {
	return wire.RequestRecord{
		UnitLength:        positive(cfg.UnitLength),
		PositionAxisMode:  cfg.PositionAxisMode,
		PositionAxisScale: positive(cfg.PositionAxisScale),
		TimeAxisMode:      cfg.TimeAxisMode,
		TimeAxisScale:     positive(cfg.TimeAxisScale),
		TrackSpacing:      positive(cfg.TrackSpacing),
		LabelPadding:      positive(cfg.LabelPadding),
		BandHeight:        positive(cfg.BandHeight),
	}
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// mergeDefaults overlays the non-empty fields of req on a copy of defaults.
// Draw flags can only be switched on by a request.
func mergeDefaults(req *wire.RequestRecord, defaults wire.RequestRecord) (*wire.RequestRecord, error) {
	var merged wire.RequestRecord
	if err := copier.CopyWithOption(&merged, &defaults, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy defaults: %w", err)
	}
	if err := copier.CopyWithOption(&merged, req, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("merge request: %w", err)
	}
	return &merged, nil
}

// Diagram decodes both documents and generates the diagram geometry
func (e *Engine) Diagram(networkData, requestData []byte) (*diagram.Diagram, error) {
	netRec, err := wire.DecodeNetwork(networkData)
	if err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	net, err := netRec.Build()
	if err != nil {
		return nil, err
	}

	reqRec, err := wire.DecodeRequest(requestData)
	if err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	merged, err := mergeDefaults(reqRec, e.defaults)
	if err != nil {
		return nil, err
	}
	opts, err := merged.Options()
	if err != nil {
		return nil, err
	}
	opts.Workers = e.workers

	return diagram.Generate(net, opts)
}

// Render draws and encodes a diagram, serving repeated inputs from the cache.
// It returns the encoded body and its content type.
func (e *Engine) Render(networkData, requestData []byte, out Output) ([]byte, string, error) {
	if err := out.validate(); err != nil {
		return nil, "", err
	}
	key, err := e.cache.memoKey(networkData, requestData, []byte(out.Format), []byte(out.Group), []byte(out.Train))
	if err != nil {
		return nil, "", err
	}
	if hit, ok := e.cache.Get(key); ok {
		log.Debug().Str("key", key[:12]).Msg("diagram served from cache")
		return hit.body, hit.contentType, nil
	}

	d, err := e.Diagram(networkData, requestData)
	if err != nil {
		return nil, "", err
	}
	d = formatter.FilterTrains(d, out.Train)

	body, contentType, err := e.encoder.Build(d, out.Format, out.Group)
	if err != nil {
		return nil, "", err
	}
	e.cache.Put(key, cachedResponse{body: body, contentType: contentType})

	log.Debug().
		Int("trains", len(d.Trains)).
		Int("stations", len(d.Ladder)).
		Int("bytes", len(body)).
		Msg("diagram rendered")
	return body, contentType, nil
}
