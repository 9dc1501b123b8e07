package frontend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

// DefaultMaxSourceSize bounds the sources accepted by a Parser.
const DefaultMaxSourceSize = 4 << 20

// fieldNames are the grammar fields recorded on ParseNode.Field. Tree-sitter
// exposes fields by name only, so the parser checks this list per node.
var fieldNames = []string{
	"name", "type", "value", "key", "left", "right", "operator", "operand",
	"condition", "consequence", "alternative", "body", "parameters", "arguments",
	"function", "object", "field", "property", "result", "receiver", "element",
	"index", "initializer", "update", "superclass", "interfaces",
}

// Parser turns source text into ParseNode trees. It is safe for concurrent
// use; tree-sitter parsers are pooled per language.
type Parser struct {
	logger        *slog.Logger
	pools         sync.Map
	maxSourceSize int
	anonymous     bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxSourceSize bounds the accepted source size in bytes. Zero or less
// disables the check.
func WithMaxSourceSize(n int) Option {
	return func(p *Parser) { p.maxSourceSize = n }
}

// WithAnonymous keeps anonymous tokens such as punctuation and keywords.
func WithAnonymous(keep bool) Option {
	return func(p *Parser) { p.anonymous = keep }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser returns a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger:        slog.Default(),
		maxSourceSize: DefaultMaxSourceSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse detects the language of filename and parses content.
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*ParseNode, error) {
	lang, err := DetectLanguage(filename, content)
	if err != nil {
		return nil, err
	}

	return p.ParseAs(ctx, lang, content)
}

// ParseAs parses content as the named language.
func (p *Parser) ParseAs(ctx context.Context, lang string, content []byte) (*ParseNode, error) {
	if p.maxSourceSize > 0 && len(content) > p.maxSourceSize {
		return nil, fmt.Errorf("%w: %s > %s", ErrSourceTooLarge,
			humanize.IBytes(uint64(len(content))), humanize.IBytes(uint64(p.maxSourceSize)))
	}

	pool, err := p.pool(lang)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", lang, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, ErrNoRootNode
	}

	b := builder{source: content, anonymous: p.anonymous}
	out := b.build(root, "")
	ast.AssignParents(out)

	p.logger.DebugContext(ctx, "parsed source", "language", lang, "bytes", len(content), "nodes", b.count)

	return out, nil
}

func (p *Parser) pool(lang string) (*sync.Pool, error) {
	if cached, ok := p.pools.Load(lang); ok {
		if pool, castOK := cached.(*sync.Pool); castOK {
			return pool, nil
		}
	}

	tsLang := grammar(lang)
	if tsLang == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(tsLang)

			return tsParser
		},
	}

	actual, _ := p.pools.LoadOrStore(lang, pool)

	return actual.(*sync.Pool), nil
}

type builder struct {
	source    []byte
	anonymous bool
	count     int
}

func (b *builder) build(tsNode sitter.Node, field string) *ParseNode {
	b.count++

	text := b.text(tsNode)
	span := &ast.Range{Start: point(tsNode.StartPoint()), End: point(tsNode.EndPoint())}

	n := ast.WithOrigin(&ParseNode{
		Kind:  tsNode.Type(),
		Field: field,
		Named: tsNode.IsNamed(),
	}, &ast.SimpleOrigin{Span: span, Text: text})

	fields := fieldsOf(tsNode)

	if b.anonymous {
		for idx := range tsNode.ChildCount() {
			child := tsNode.Child(idx)
			n.Children = append(n.Children, b.build(child, fields[key(child)]))
		}
	} else {
		for idx := range tsNode.NamedChildCount() {
			child := tsNode.NamedChild(idx)
			n.Children = append(n.Children, b.build(child, fields[key(child)]))
		}
	}

	if len(n.Children) == 0 {
		n.Text = text
	}

	return n
}

func (b *builder) text(tsNode sitter.Node) string {
	start, end := tsNode.StartByte(), tsNode.EndByte()
	if end > uint(len(b.source)) || start > end {
		return ""
	}

	return string(b.source[start:end])
}

type nodeKey struct {
	kind       string
	start, end uint
}

func key(n sitter.Node) nodeKey {
	return nodeKey{kind: n.Type(), start: n.StartByte(), end: n.EndByte()}
}

func fieldsOf(tsNode sitter.Node) map[nodeKey]string {
	if tsNode.NamedChildCount() == 0 {
		return nil
	}

	out := make(map[nodeKey]string)

	for _, name := range fieldNames {
		child := tsNode.ChildByFieldName(name)
		if child.IsNull() {
			continue
		}

		if _, taken := out[key(child)]; !taken {
			out[key(child)] = name
		}
	}

	return out
}

// point converts a zero-based tree-sitter row to a one-based line.
func point(p sitter.Point) ast.Point {
	return ast.Point{Line: toInt(p.Row) + 1, Column: toInt(p.Column)}
}

func toInt(v uint) int {
	if v > math.MaxInt {
		return math.MaxInt
	}

	return int(v)
}
