// Package session drives a red-black tree of integers from text input: the
// values typed by a user, in the order they were typed, plus line commands to
// query and print the tree.
package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
)

// ErrInvalidValue is returned for input that is not a base-10 integer.
var ErrInvalidValue = errors.New("please enter a valid integer value")

// Span attribute keys.
const (
	attrCommand = "session.command"
	attrValue   = "rbtree.value"
	attrSize    = "rbtree.size"
	attrHeight  = "rbtree.height"
)

// Session owns one tree and the history of values inserted into it.
// It is not safe for concurrent use.
type Session struct {
	tree       *rbtree.Tree[int]
	insertions []int

	// height tracks Tree.Height: an insertion never lowers the tree and the
	// new node ends up on a longest path whenever it grows.
	height int

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.TreeMetrics

	format  render.Format
	options render.Options
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithTracer sets the tracer used for insert and command spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) { s.tracer = tracer }
}

// WithMetrics publishes fixup counters after every insert.
func WithMetrics(metrics *observability.TreeMetrics) Option {
	return func(s *Session) { s.metrics = metrics }
}

// WithRender sets the default output of the show command.
func WithRender(format render.Format, options render.Options) Option {
	return func(s *Session) {
		s.format = format
		s.options = options
	}
}

// WithAllocator takes the tree nodes from allocator instead of a private one.
func WithAllocator(allocator *rbtree.Allocator[int]) Option {
	return func(s *Session) {
		s.tree = rbtree.NewWithAllocator(allocator, cmp.Compare[int])
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		tree:   rbtree.New[int](),
		logger: observability.Discard(),
		tracer: noop.NewTracerProvider().Tracer("session"),
		format: render.FormatTree,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Height returns the tree height without walking the tree.
func (s *Session) Height() int {
	return s.height
}

// Tree returns the session tree. Callers must not insert into it directly or
// the insertion history goes stale.
func (s *Session) Tree() *rbtree.Tree[int] {
	return s.tree
}

// InsertionOrder returns the inserted values in the order they were given.
func (s *Session) InsertionOrder() []int {
	return slices.Clone(s.insertions)
}

// Insert adds value to the tree and records it in the history.
func (s *Session) Insert(ctx context.Context, value int) rbtree.Node[int] {
	ctx, span := s.tracer.Start(ctx, "session.insert",
		trace.WithAttributes(attribute.Int(attrValue, value)))
	defer span.End()

	before := s.tree.Stats()
	start := time.Now()

	nd := s.tree.Insert(value)

	elapsed := time.Since(start)
	delta := s.tree.Stats().Sub(before)
	s.height = max(s.height, nd.Depth()+1)
	height := s.height

	s.insertions = append(s.insertions, value)

	if s.metrics != nil {
		s.metrics.Record(ctx, delta, height, elapsed)
	}

	span.SetAttributes(attribute.Int(attrSize, s.tree.Len()), attribute.Int(attrHeight, height))

	s.logger.DebugContext(ctx, "inserted",
		"value", value,
		"color", nd.Color(),
		"size", s.tree.Len(),
		"height", height,
		"rotations", delta.Rotations,
		"recolors", delta.Recolors+delta.RootRecolors,
	)

	return nd
}

// InsertText parses text as an integer and inserts it. Blank text is ignored
// and reported as not inserted.
func (s *Session) InsertText(ctx context.Context, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected input", "error", err)

		return false, fmt.Errorf("%w: %q", ErrInvalidValue, text)
	}

	s.Insert(ctx, value)

	return true, nil
}

// Clear empties the tree and forgets the insertion history.
func (s *Session) Clear(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "session.clear",
		trace.WithAttributes(attribute.Int(attrSize, s.tree.Len())))
	defer span.End()

	s.tree.Clear()
	s.insertions = s.insertions[:0]
	s.height = 0

	s.logger.DebugContext(ctx, "cleared")
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
