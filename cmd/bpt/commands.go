package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/internal/telemetry"
	"github.com/dacapoday/bplus/printer"
)

const usage = `Enter any of the following commands after the prompt > :
	i <k>  -- Insert <k> (an integer) as both key and value.
	f <k>  -- Find the value under key <k>.
	p <k>  -- Print the path from the root to key <k> and its associated value.
	r <k1> <k2> -- Print the keys and values found in the range [<k1>, <k2>].
	d <k>  -- Delete key <k> and its associated value.
	x  -- Destroy the whole tree. Start again with an empty tree of the same order.
	t  -- Print the B+ tree.
	l  -- Print the keys of the leaves (bottom row of the tree).
	v  -- Toggle output of node addresses ("verbose") in tree and leaves.
	c  -- Check the tree invariants.
	q  -- Quit. (Or use Ctrl-D.)
	?  -- Print this help message.

`

func intro(order int) string {
	return fmt.Sprintf(`B+ Tree of Order %d
To build a B+ tree of a different order, start again and enter the order
as an integer argument:  bpt <order>
(%d <= order <= %d).
To start with input from a file of whitespace-delimited integers,
start again and enter the order followed by the filename:
bpt <order> <inputfile>

`, order, bptree.MinOrder, bptree.MaxOrder)
}

// session executes commands against one tree. Not thread-safe.
type session struct {
	tree    *bptree.Tree
	printer *printer.Printer
	log     *zap.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

func newSession(tree *bptree.Tree, w io.Writer, log *zap.Logger, tel *telemetry.Telemetry) *session {
	s := &session{
		tree:    tree,
		printer: printer.New(w),
		log:     log,
		tracer:  nooptrace.NewTracerProvider().Tracer(""),
	}
	if tel != nil {
		s.tracer = tel.Tracer
		s.metrics = tel.Metrics
		tree.Observe(tel.Metrics)
	}
	return s
}

// exec runs one command line. quit is set by "q". User mistakes are
// returned as ErrUnknownCommand or ErrMissingArgument after the usage
// text has been printed.
func (s *session) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	ctx, span := s.tracer.Start(ctx, "command",
		trace.WithAttributes(attribute.String("command", cmd)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p := s.printer
	switch cmd {
	case "i":
		key, err := s.key(args, 0)
		if err != nil {
			return false, err
		}
		s.count(ctx, "insert")
		if !s.tree.Insert(key, key) {
			s.log.Debug("duplicate key", zap.Int64("key", key))
		}
		return false, p.Tree(s.tree)
	case "d":
		key, err := s.key(args, 0)
		if err != nil {
			return false, err
		}
		s.count(ctx, "remove")
		if !s.tree.Remove(key) {
			s.log.Debug("key not found", zap.Int64("key", key))
		}
		return false, p.Tree(s.tree)
	case "f", "p":
		key, err := s.key(args, 0)
		if err != nil {
			return false, err
		}
		s.count(ctx, "search")
		return false, p.Value(s.tree, key, cmd == "p")
	case "r":
		start, err := s.key(args, 0)
		if err != nil {
			return false, err
		}
		end, err := s.key(args, 1)
		if err != nil {
			return false, err
		}
		s.count(ctx, "range")
		return false, p.Range(s.tree, start, end)
	case "x":
		s.count(ctx, "reset")
		s.tree.Reset()
		return false, p.Tree(s.tree)
	case "t":
		return false, p.Tree(s.tree)
	case "l":
		return false, p.Leaves(s.tree)
	case "v":
		p.Verbose = !p.Verbose
		return false, p.Tree(s.tree)
	case "c":
		if err := s.tree.Verify(); err != nil {
			s.log.Error("verify", zap.Error(err))
			_, werr := fmt.Fprintf(p.W, "%v\n", err)
			return false, werr
		}
		_, err := fmt.Fprintf(p.W, "OK: %d keys, height %d.\n", s.tree.Len(), s.tree.Height())
		return false, err
	case "q":
		return true, nil
	case "?":
		_, err := io.WriteString(p.W, usage)
		return false, err
	}
	io.WriteString(p.W, usage)
	return false, fmt.Errorf("%w: %q", bplus.ErrUnknownCommand, cmd)
}

func (s *session) key(args []string, i int) (int64, error) {
	if i >= len(args) {
		io.WriteString(s.printer.W, usage)
		return 0, fmt.Errorf("%w: key %d", bplus.ErrMissingArgument, i+1)
	}
	key, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		io.WriteString(s.printer.W, usage)
		return 0, fmt.Errorf("%w: %q: %w", bplus.ErrBadInput, args[i], err)
	}
	return key, nil
}

func (s *session) count(ctx context.Context, op string) {
	if s.metrics != nil {
		s.metrics.Operation(ctx, op)
	}
}
