// Package transform rewrites trees with per-type rules.
//
// A Transformer holds rules keyed by source node type. Transform walks a tree
// from its root: each node is handed to its rule, which may produce zero,
// one or several target nodes. Produced nodes get the source as their origin
// and adopt their children; finalizers run once the subtree under a produced
// node is complete. Semantic problems are recorded as issues and the walk
// goes on; assembly errors abort the call.
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

const tracerName = "astkit/transform"

// Transformer applies registered rules to trees. Rules are registered at
// setup time; Transform may then be called from several goroutines on
// disjoint trees.
type Transformer struct {
	exact      map[reflect.Type]*rule
	interfaces []*rule

	allowGeneric bool
	failOnError  bool
	logger       *slog.Logger
	tracer       trace.Tracer

	mu     sync.Mutex
	issues []ast.Issue
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithGenericFallback turns nodes without a rule into ast.GenericNode
// placeholders instead of failing.
func WithGenericFallback(allow bool) Option {
	return func(tr *Transformer) { tr.allowGeneric = allow }
}

// WithFailOnError aborts the transformation at the first error issue.
func WithFailOnError(fail bool) Option {
	return func(tr *Transformer) { tr.failOnError = fail }
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(tr *Transformer) {
		if logger != nil {
			tr.logger = logger
		}
	}
}

// WithTracer sets the tracer used for transformation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(tr *Transformer) {
		if tracer != nil {
			tr.tracer = tracer
		}
	}
}

// New creates a Transformer with no rules.
func New(opts ...Option) *Transformer {
	tr := &Transformer{
		exact:  make(map[reflect.Type]*rule),
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(tr)
	}

	return tr
}

// Issues returns a copy of the issues recorded so far, across calls.
func (tr *Transformer) Issues() []ast.Issue {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	return slices.Clone(tr.issues)
}

// ClearIssues forgets the recorded issues.
func (tr *Transformer) ClearIssues() {
	tr.mu.Lock()
	tr.issues = nil
	tr.mu.Unlock()
}

// HasRule reports whether a rule would be found for nodes of type t.
func (tr *Transformer) HasRule(t reflect.Type) bool {
	return tr.lookup(t) != nil
}

// Transform rewrites the tree under n and returns the single produced root.
// A dropped root yields nil.
func (tr *Transformer) Transform(ctx context.Context, n ast.Node) (ast.Node, error) {
	out, err := tr.TransformAll(ctx, n)
	if err != nil {
		return nil, err
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0], nil
	default:
		return nil, fmt.Errorf("%w: %d nodes from %s", ErrMultipleResults, len(out), ast.TypeName(n))
	}
}

// TransformAll rewrites the tree under n and returns every produced root.
func (tr *Transformer) TransformAll(ctx context.Context, n ast.Node) (out []ast.Node, err error) {
	if ast.IsNil(n) {
		return nil, nil
	}

	ctx, span := tr.tracer.Start(ctx, "astkit.transform",
		trace.WithAttributes(attribute.String("transform.root", ast.TypeName(n))))
	defer span.End()

	p := newPass(ctx, tr)

	defer func() {
		if rec := recover(); rec != nil {
			a, ok := rec.(abort)
			if !ok {
				panic(rec)
			}

			out, err = nil, a.err
		}

		span.SetAttributes(
			attribute.Int("transform.produced", len(p.produced)),
			attribute.Int("transform.issues", p.issueCount),
		)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			tr.logger.DebugContext(ctx, "transform aborted", "root", ast.TypeName(n), "error", err)

			return
		}

		tr.logger.DebugContext(ctx, "transform finished",
			"root", ast.TypeName(n), "produced", len(p.produced), "issues", p.issueCount)
	}()

	return p.TransformAll(n), nil
}

func (tr *Transformer) addIssue(issue ast.Issue) {
	tr.mu.Lock()
	tr.issues = append(tr.issues, issue)
	tr.mu.Unlock()
}

func (tr *Transformer) install(r *rule) {
	if r.source.Kind() == reflect.Interface {
		for _, existing := range tr.interfaces {
			if existing.source == r.source {
				panic(fmt.Errorf("%w: %s", ErrDuplicateRule, r.source))
			}
		}

		tr.interfaces = append(tr.interfaces, r)

		return
	}

	if _, ok := tr.exact[r.source]; ok {
		panic(fmt.Errorf("%w: %s", ErrDuplicateRule, r.source))
	}

	tr.exact[r.source] = r
}

// lookup finds the rule for t: an exact match first, then the first
// interface rule, in registration order, that t implements.
func (tr *Transformer) lookup(t reflect.Type) *rule {
	if r, ok := tr.exact[t]; ok {
		return r
	}

	for _, r := range tr.interfaces {
		if t.Implements(r.source) {
			return r
		}
	}

	return nil
}
