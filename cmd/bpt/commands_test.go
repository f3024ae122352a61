package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/internal/telemetry"
)

func newTestSession(t *testing.T, order int) (*session, *bytes.Buffer) {
	t.Helper()
	tel, err := telemetry.New(telemetry.Config{})
	require.NoError(t, err)
	var buf bytes.Buffer
	return newSession(bptree.New(order), &buf, zaptest.NewLogger(t), tel), &buf
}

func do(t *testing.T, s *session, line string) {
	t.Helper()
	quit, err := s.exec(context.Background(), line)
	require.NoError(t, err, line)
	require.False(t, quit, line)
}

func TestInsertPrintsTree(t *testing.T) {
	s, buf := newTestSession(t, 3)
	for _, line := range []string{"i 0", "i 1", "i 2", "i 3"} {
		do(t, s, line)
	}
	buf.Reset()
	do(t, s, "i 4")
	require.Equal(t, "| 2 |\n| 1 | 3 |\n| 0 | 1 | 2 | 3 4 |\n", buf.String())

	buf.Reset()
	do(t, s, "l")
	require.Equal(t, "| 0 | 1 | 2 | 3 4 |\n", buf.String())

	buf.Reset()
	do(t, s, "t")
	require.Equal(t, "| 2 |\n| 1 | 3 |\n| 0 | 1 | 2 | 3 4 |\n", buf.String())
}

func TestFindAndPath(t *testing.T) {
	s, buf := newTestSession(t, 3)
	for i := range 5 {
		do(t, s, fmt.Sprintf("i %d", i))
	}

	buf.Reset()
	do(t, s, "f 4")
	require.Contains(t, buf.String(), "\tKey: 4   Value: 4\n")

	buf.Reset()
	do(t, s, "f 9")
	require.Equal(t, "Leaf: 3 4\nRecord not found with key 9.\n", buf.String())

	buf.Reset()
	do(t, s, "p 3")
	require.True(t, strings.HasPrefix(buf.String(), "Root: \t2\n\tNode: 3\n\tLeaf: 3 4\n"), buf.String())
}

func TestRangeDeleteDestroy(t *testing.T) {
	s, buf := newTestSession(t, 4)
	for _, line := range []string{"i 5", "i -3", "i 10", "i 7"} {
		do(t, s, line)
	}

	buf.Reset()
	do(t, s, "r 0 7")
	require.Equal(t, "Key: 5    Value: 5\nKey: 7    Value: 7\n", buf.String())

	do(t, s, "d 5")
	do(t, s, "d 5")
	_, found := s.tree.Get(5)
	require.False(t, found)
	require.Equal(t, 3, s.tree.Len())

	buf.Reset()
	do(t, s, "x")
	require.Equal(t, "Empty tree.\n", buf.String())
	require.True(t, s.tree.Empty())
	require.Equal(t, 4, s.tree.Order())
}

func TestVerboseAndCheck(t *testing.T) {
	s, buf := newTestSession(t, 3)
	do(t, s, "i 1")
	buf.Reset()
	do(t, s, "v")
	require.True(t, s.printer.Verbose)
	require.Contains(t, buf.String(), "<1> 1 [0x0>")

	buf.Reset()
	do(t, s, "c")
	require.Equal(t, "OK: 1 keys, height 1.\n", buf.String())

	do(t, s, "v")
	require.False(t, s.printer.Verbose)
}

func TestHelpQuitBlank(t *testing.T) {
	s, buf := newTestSession(t, 3)
	do(t, s, "?")
	require.Equal(t, usage, buf.String())

	buf.Reset()
	do(t, s, "   ")
	require.Empty(t, buf.String())

	quit, err := s.exec(context.Background(), "q")
	require.NoError(t, err)
	require.True(t, quit)
}

func TestBadCommands(t *testing.T) {
	s, buf := newTestSession(t, 3)
	cases := []struct {
		line string
		err  error
	}{
		{"z", bplus.ErrUnknownCommand},
		{"i", bplus.ErrMissingArgument},
		{"r 1", bplus.ErrMissingArgument},
		{"d abc", bplus.ErrBadInput},
		{"f 99999999999999999999", bplus.ErrBadInput},
	}
	for _, c := range cases {
		buf.Reset()
		quit, err := s.exec(context.Background(), c.line)
		require.ErrorIs(t, err, c.err, c.line)
		require.False(t, quit)
		require.Equal(t, usage, buf.String(), c.line)
	}
	require.True(t, s.tree.Empty())
}

func TestIntro(t *testing.T) {
	out := intro(5)
	require.True(t, strings.HasPrefix(out, "B+ Tree of Order 5\n"))
	require.Contains(t, out, "(3 <= order <= 20)")
}
