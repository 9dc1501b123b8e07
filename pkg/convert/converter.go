// Package convert moves trees between the typed node model and the generic
// graph of package graph, keeping a one-to-one identity map between the
// nodes on both sides.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

const tracerName = "astkit/convert"

// Converter exports trees to graphs and imports them back. One mutex guards
// the languages, the codecs and the identity map, so a Converter can be
// shared by goroutines working on disjoint trees.
type Converter struct {
	mu         sync.Mutex
	languages  *LanguageConverter
	nodes      *BiMap[ast.Node, graph.Node]
	primitives *graph.PrimitiveSerialization

	ids    ast.IDProvider
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Converter.
type Option func(*Converter)

// WithDefaultIDProvider sets the ID provider used when Export gets none.
func WithDefaultIDProvider(p ast.IDProvider) Option {
	return func(c *Converter) {
		if p != nil {
			c.ids = p
		}
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for conversion spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Converter) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// New returns a converter with a StructuralIDProvider for unknown sources
// and codecs for points and ranges.
func New(opts ...Option) *Converter {
	c := &Converter{
		languages:  NewLanguageConverter(),
		nodes:      NewBiMap[ast.Node, graph.Node](),
		primitives: graph.NewPrimitiveSerialization(),
		ids:        StructuralIDProvider{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}

	registerPositionCodecs(c.primitives)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RegisterLanguage makes the node types of l convertible and returns the
// corresponding graph language.
func (c *Converter) RegisterLanguage(l *ast.Language) (*graph.Language, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.languages.Export(l)
}

// AssociateLanguage makes graphs written in gl importable as nodes of l.
func (c *Converter) AssociateLanguage(gl *graph.Language, l *ast.Language) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.languages.Associate(gl, l)
}

// Languages returns the known graph languages.
func (c *Converter) Languages() []*graph.Language {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.languages.Languages()
}

// PrimitiveSerialization returns the codecs for property values.
func (c *Converter) PrimitiveSerialization() *graph.PrimitiveSerialization {
	return c.primitives
}

// Clear forgets every node association. Languages and codecs are kept.
func (c *Converter) Clear() {
	c.mu.Lock()
	c.nodes.Clear()
	c.mu.Unlock()
}

// Counterpart returns the graph node associated with n.
func (c *Converter) Counterpart(n ast.Node) (graph.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nodes.ByA(n)
}

// Native returns the node associated with g.
func (c *Converter) Native(g graph.Node) (ast.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nodes.ByB(g)
}

// RegisterCodec declares how values of the custom primitive T are written
// as text.
func RegisterCodec[T any](c *Converter, serialize func(T) string, deserialize func(string) (T, error)) {
	c.primitives.Register(typeLabel(reflect.TypeFor[T]()), graph.Codec{
		Serialize: func(v any) (string, error) {
			t, ok := v.(T)
			if !ok {
				return "", fmt.Errorf("%w: %T is not a %s", graph.ErrMalformedValue, v, reflect.TypeFor[T]())
			}

			return serialize(t), nil
		},
		Deserialize: func(s string) (any, error) { return deserialize(s) },
	})
}

func (c *Converter) startSpan(ctx context.Context, name string, root string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("convert.root", root)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
