package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sumatoshi-tech/astkit/internal/observability"
	"github.com/Sumatoshi-tech/astkit/internal/suggest"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/config"
	"github.com/Sumatoshi-tech/astkit/pkg/convert"
	"github.com/Sumatoshi-tech/astkit/pkg/frontend"
	"github.com/Sumatoshi-tech/astkit/pkg/rules"
	"github.com/Sumatoshi-tech/astkit/pkg/transform"
	"github.com/Sumatoshi-tech/astkit/pkg/version"
)

// Sentinel errors shared by the commands.
var (
	ErrLanguageRequired = errors.New("--language is required when reading from stdin")
	ErrTransformFailed  = errors.New("transformation reported errors")
	ErrRootDropped      = errors.New("rule set dropped the root node")
)

// app carries the state shared by every command of one invocation.
type app struct {
	cfgFile    string
	metricsOut string
	verbose    bool
	quiet      bool

	cfg    *config.Config
	obs    observability.Providers
	logger *slog.Logger
	parser *frontend.Parser
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.cfg = cfg

	if a.metricsOut == "" {
		a.metricsOut = cfg.Telemetry.MetricsOut
	}

	level := cfg.Log.SlogLevel()

	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Get().Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.Insecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.PrometheusMetrics = a.metricsOut != ""
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Log.JSON
	obsCfg.LogWriter = cmd.ErrOrStderr()

	a.obs, err = observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	a.logger = a.obs.Logger
	a.parser = frontend.NewParser(
		frontend.WithMaxSourceSize(cfg.Frontend.MaxSourceSize.Int()),
		frontend.WithAnonymous(cfg.Frontend.Anonymous),
		frontend.WithLogger(a.logger),
	)

	return nil
}

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

// run wraps a command body with a span, RED metrics, and the metrics dump.
func (a *app) run(op string, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := a.obs.Tracer.Start(observability.WithCommand(cmd.Context(), op), "astkit.cli."+op)
		span.SetAttributes(attribute.String("cli.command", op))

		done := a.obs.Metrics.Track(ctx, op)

		err := fn(ctx, cmd, args)

		done(err)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()

		return errors.Join(err, a.finish(ctx, cmd))
	}
}

func (a *app) finish(ctx context.Context, cmd *cobra.Command) error {
	var metricsErr error

	if a.metricsOut != "" {
		metricsErr = writeTo(cmd, a.metricsOut, a.obs.WriteMetrics)
	}

	return errors.Join(metricsErr, a.obs.Shutdown(ctx))
}

// parse reads and parses path, honouring the language flag and the
// configured override.
func (a *app) parse(ctx context.Context, cmd *cobra.Command, path, lang string) (*frontend.ParseNode, error) {
	content, label, err := readSource(cmd, path)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithSource(ctx, label)

	if lang == "" {
		lang = a.cfg.Frontend.Language
	}

	if lang == "" {
		if path == stdinPath {
			return nil, ErrLanguageRequired
		}

		root, parseErr := a.parser.Parse(ctx, label, content)
		if parseErr != nil {
			return nil, fmt.Errorf("parse %s: %w", label, parseErr)
		}

		return root, nil
	}

	if !slices.Contains(frontend.Languages(), lang) {
		return nil, fmt.Errorf("%w: %q%s", frontend.ErrUnsupportedLanguage, lang, suggest.Hint(lang, frontend.Languages()))
	}

	root, err := a.parser.ParseAs(ctx, lang, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", label, err)
	}

	return root, nil
}

func (a *app) newTransformer() *transform.Transformer {
	return transform.New(
		transform.WithGenericFallback(a.cfg.Transform.GenericFallback),
		transform.WithFailOnError(a.cfg.Transform.FailOnError),
		transform.WithLogger(a.logger),
		transform.WithTracer(a.obs.Tracer),
	)
}

// rewrite applies the rule set at rulesPath to root. An empty path leaves
// the tree untouched.
func (a *app) rewrite(ctx context.Context, root *frontend.ParseNode, rulesPath string) (*frontend.ParseNode, []ast.Issue, error) {
	if rulesPath == "" {
		return root, nil, nil
	}

	data, _, err := safeReadFile(rulesPath)
	if err != nil {
		return nil, nil, err
	}

	rs, err := rules.Load(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load rules %s: %w", rulesPath, err)
	}

	tr := a.newTransformer()
	rs.Install(tr)

	out, err := tr.Transform(ctx, root)
	issues := tr.Issues()

	if err != nil {
		return nil, issues, fmt.Errorf("apply %s: %w", rs.Name, err)
	}

	if a.cfg.Transform.FailOnError && ast.HasErrors(issues) {
		return nil, issues, ErrTransformFailed
	}

	if ast.IsNil(out) {
		return nil, issues, ErrRootDropped
	}

	rewritten, ok := out.(*frontend.ParseNode)
	if !ok {
		return nil, issues, fmt.Errorf("%w: produced %s", ErrTransformFailed, ast.TypeName(out))
	}

	return rewritten, issues, nil
}

func (a *app) newConverter() (*convert.Converter, error) {
	c := convert.New(
		convert.WithLogger(a.logger),
		convert.WithTracer(a.obs.Tracer),
	)

	if _, err := c.RegisterLanguage(frontend.Language()); err != nil {
		return nil, fmt.Errorf("register parse tree language: %w", err)
	}

	return c, nil
}

func (a *app) exportOptions(path, strategy string) []convert.ExportOption {
	conv := a.cfg.Convert
	if strategy != "" {
		conv.IDStrategy = strategy
	}

	return []convert.ExportOption{
		convert.WithIDProvider(conv.IDProvider(path)),
		convert.WithConsiderParent(conv.ConsiderParent),
	}
}

func printIssues(w io.Writer, issues []ast.Issue) {
	for _, issue := range issues {
		c := color.New(color.FgCyan)

		switch issue.Severity {
		case ast.SeverityError:
			c = color.New(color.FgRed)
		case ast.SeverityWarning:
			c = color.New(color.FgYellow)
		case ast.SeverityInfo:
		}

		c.Fprintf(w, "%s\n", issue)
	}
}
