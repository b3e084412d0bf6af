package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
	"github.com/Sumatoshi-tech/redblack/pkg/safeconv"
)

// Sentinel errors for line commands.
var (
	ErrQuit            = errors.New("quit")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrTooManyArgs     = errors.New("too many arguments")
)

// DefaultPrompt is printed before every line read by Run.
const DefaultPrompt = "rbtree> "

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, s *Session, args []string, out io.Writer) error
}

// commands is filled in init because help refers back to the table.
var commands map[string]command

func init() {
	commands = map[string]command{
		"insert":  {"insert <value>...", "insert integers in the given order", runInsert},
		"find":    {"find <value>", "look a value up, with its floor and ceiling when absent", runFind},
		"min":     {"min", "print the smallest value", runMin},
		"max":     {"max", "print the largest value", runMax},
		"count":   {"count", "print the number of nodes", runCount},
		"height":  {"height", "print the nodes on the longest root-to-leaf path", runHeight},
		"show":    {"show [tree|table|yaml|json|html]", "print the tree", runShow},
		"order":   {"order [in|pre|post]", "print the values in traversal order", runOrder},
		"verify":  {"verify", "check the red-black invariants", runVerify},
		"stats":   {"stats", "print the rebalancing counters", runStats},
		"arena":   {"arena", "print the allocator footprint and its hibernated size", runArena},
		"history": {"history", "print the insertion order", runHistory},
		"clear":   {"clear", "remove every value", runClear},
		"help":    {"help", "list the commands", runHelp},
		"quit":    {"quit", "leave the session (also: exit)", runQuit},
	}
}

// Execute runs one command line, writing its output to out. A blank line is a
// no-op; quit and exit return ErrQuit.
func (s *Session) Execute(ctx context.Context, line string, out io.Writer) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(parts[0])
	if name == "exit" {
		name = "quit"
	}

	ctx, span := s.tracer.Start(ctx, "session.execute",
		trace.WithAttributes(attribute.String(attrCommand, name)))
	defer span.End()

	cmd, ok := commands[name]
	if !ok {
		err := fmt.Errorf("%w: %s (type 'help' for available commands)", ErrUnknownCommand, parts[0])
		recordError(span, err)

		return err
	}

	err := cmd.run(ctx, s, parts[1:], out)
	if err != nil && !errors.Is(err, ErrQuit) {
		recordError(span, err)
		s.logger.DebugContext(ctx, "command failed", "command", name, "error", err)
	}

	return err
}

// Run reads command lines from in until EOF, quit or ctx is done. Command
// errors are printed and the loop goes on.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer, prompt string) error {
	fmt.Fprintln(out, "Type 'help' for commands, 'quit' to exit")

	scanner := bufio.NewScanner(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)

			break
		}

		err := s.Execute(ctx, scanner.Text(), out)
		if errors.Is(err, ErrQuit) {
			return nil
		}

		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return nil
}

func wantArgs(name string, args []string, maxArgs int) error {
	if len(args) > maxArgs {
		return fmt.Errorf("%w: usage: %s", ErrTooManyArgs, commands[name].usage)
	}

	return nil
}

func runInsert(ctx context.Context, s *Session, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: %s", ErrMissingArgument, commands["insert"].usage)
	}

	// Validate everything first so that a bad token leaves the tree untouched.
	for _, arg := range args {
		if _, err := strconv.Atoi(arg); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidValue, arg)
		}
	}

	for _, arg := range args {
		if _, err := s.InsertText(ctx, arg); err != nil {
			return err
		}
	}

	return runHistory(ctx, s, nil, out)
}

func runFind(_ context.Context, s *Session, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: %s", ErrMissingArgument, commands["find"].usage)
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidValue, args[0])
	}

	if nd := s.tree.Lookup(value); nd.Valid() {
		fmt.Fprintf(out, "found %d (%s, depth %d)\n", value, nd.Color(), nd.Depth())

		return nil
	}

	fmt.Fprintf(out, "%d not found (floor %s, ceiling %s)\n",
		value, describe(s.tree.FindLE(value)), describe(s.tree.FindGE(value)))

	return nil
}

func describe(nd rbtree.Node[int]) string {
	if !nd.Valid() {
		return "none"
	}

	return strconv.Itoa(nd.Value())
}

func runMin(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("min", args, 0); err != nil {
		return err
	}

	fmt.Fprintf(out, "min: %s\n", orEmpty(s.tree.Min()))

	return nil
}

func runMax(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("max", args, 0); err != nil {
		return err
	}

	fmt.Fprintf(out, "max: %s\n", orEmpty(s.tree.Max()))

	return nil
}

func orEmpty(nd rbtree.Node[int]) string {
	if !nd.Valid() {
		return "(empty)"
	}

	return strconv.Itoa(nd.Value())
}

func runCount(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("count", args, 0); err != nil {
		return err
	}

	fmt.Fprintf(out, "count: %d\n", s.tree.CountNodes())

	return nil
}

func runHeight(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("height", args, 0); err != nil {
		return err
	}

	fmt.Fprintf(out, "height: %d\n", s.Height())

	return nil
}

func runShow(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("show", args, 1); err != nil {
		return err
	}

	format := s.format

	if len(args) == 1 {
		parsed, err := render.ParseFormat(args[0])
		if err != nil {
			return err
		}

		format = parsed
	}

	return render.Write(out, s.tree, format, s.options)
}

func runOrder(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("order", args, 1); err != nil {
		return err
	}

	order := rbtree.InOrder

	if len(args) == 1 {
		parsed, err := rbtree.ParseOrder(args[0])
		if err != nil {
			return err
		}

		order = parsed
	}

	values := make([]string, 0, s.tree.Len())
	for nd := range s.tree.Traverse(order) {
		values = append(values, strconv.Itoa(nd.Value()))
	}

	if len(values) == 0 {
		fmt.Fprintf(out, "%s-order: (empty)\n", order)

		return nil
	}

	fmt.Fprintf(out, "%s-order: %s\n", order, strings.Join(values, " "))

	return nil
}

func runVerify(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("verify", args, 0); err != nil {
		return err
	}

	if err := s.tree.Validate(); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	fmt.Fprintf(out, "ok: %d nodes, height %d\n", s.tree.Len(), s.tree.Height())

	return nil
}

func runStats(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("stats", args, 0); err != nil {
		return err
	}

	st := s.tree.Stats()

	fmt.Fprintf(out, "inserts:       %d\n", st.Inserts)
	fmt.Fprintf(out, "recolors:      %d (root %d)\n", st.Recolors, st.RootRecolors)
	fmt.Fprintf(out, "restructures:  %d (LL %d, LR %d, RL %d, RR %d)\n",
		st.Restructures(), st.LeftLeft, st.LeftRight, st.RightLeft, st.RightRight)
	fmt.Fprintf(out, "rotations:     %d\n", st.Rotations)

	return nil
}

func runArena(_ context.Context, s *Session, args []string, out io.Writer) (err error) {
	if err := wantArgs("arena", args, 0); err != nil {
		return err
	}

	allocator := s.tree.Allocator()

	fmt.Fprintf(out, "slots: %s (used %s), %s\n",
		humanize.Comma(int64(allocator.Size())), humanize.Comma(int64(allocator.Used())),
		humanize.IBytes(safeconv.MustIntToUint64(allocator.Bytes())))

	if err = allocator.Hibernate(); err != nil {
		return err
	}

	if !allocator.Hibernated() {
		fmt.Fprintf(out, "hibernation: skipped, below %s slots\n", humanize.Comma(int64(allocator.HibernationThreshold)))

		return nil
	}

	// Later commands need the allocator awake.
	defer func() {
		if bootErr := allocator.Boot(); bootErr != nil {
			err = errors.Join(err, bootErr)
		}
	}()

	hibernated := allocator.HibernatedBytes()

	fmt.Fprintf(out, "hibernation: links compress to %s\n", humanize.IBytes(safeconv.MustIntToUint64(hibernated)))

	return nil
}

func runHistory(_ context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("history", args, 0); err != nil {
		return err
	}

	if len(s.insertions) == 0 {
		fmt.Fprintln(out, "Insertion order: (none)")

		return nil
	}

	values := make([]string, len(s.insertions))
	for i, v := range s.insertions {
		values[i] = strconv.Itoa(v)
	}

	fmt.Fprintf(out, "Insertion order: %s\n", strings.Join(values, ", "))

	return nil
}

func runClear(ctx context.Context, s *Session, args []string, out io.Writer) error {
	if err := wantArgs("clear", args, 0); err != nil {
		return err
	}

	s.Clear(ctx)
	fmt.Fprintln(out, "cleared")

	return nil
}

func runHelp(_ context.Context, _ *Session, _ []string, out io.Writer) error {
	fmt.Fprintln(out, "Available commands:")

	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		fmt.Fprintf(out, "  %-36s %s\n", cmd.usage, cmd.summary)
	}

	return nil
}

func runQuit(_ context.Context, _ *Session, _ []string, _ io.Writer) error {
	return ErrQuit
}
