// bpt is an interactive shell over an in-memory B+ tree.
//
// Usage:
//
//	bpt [flags] [order] [inputfile]
//
// The order must lie in [3, 20]; an invalid order falls back to 4.
// Keys in inputfile are whitespace-separated integers, each inserted as
// both key and value before the prompt appears.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/internal/config"
	"github.com/dacapoday/bplus/internal/logger"
	"github.com/dacapoday/bplus/internal/telemetry"
	"github.com/dacapoday/bplus/loader"
)

func main() {
	configFlag := flag.String("config", "", "YAML config file")
	verboseFlag := flag.Bool("v", false, "start in verbose mode")
	logLevelFlag := flag.String("log-level", "", "log level (debug, info, warn, error)")
	metricsFlag := flag.Int("metrics-port", -1, "serve Prometheus metrics on this port (0 = off)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bpt [flags] [order] [inputfile]")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if *verboseFlag {
		cfg.Verbose = true
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}
	if *metricsFlag >= 0 {
		cfg.Telemetry.Enabled = *metricsFlag > 0
		cfg.Telemetry.PrometheusPort = *metricsFlag
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log = log.With(zap.String("session", uuid.NewString()))

	orderArg := strconv.Itoa(cfg.Order)
	if flag.NArg() > 0 {
		orderArg = flag.Arg(0)
		order, err := strconv.Atoi(orderArg)
		if err != nil {
			order = -1
		}
		cfg.Order = order
	}
	if err := cfg.Validate(); err != nil {
		if !errors.Is(err, config.ErrInvalidOrder) {
			log.Fatal("invalid config", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "Invalid order specification: %s\n", orderArg)
		fmt.Fprintf(os.Stderr, "Order must be an integer such that %d <= <order> <= %d\n", bptree.MinOrder, bptree.MaxOrder)
		fmt.Fprintf(os.Stderr, "Proceeding with order %d\n", bptree.DefaultOrder)
		log.Warn("invalid order", zap.Error(err), zap.Int("order", bptree.DefaultOrder))
		cfg.Order = bptree.DefaultOrder
	}

	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		log.Fatal("telemetry", zap.Error(err))
	}
	defer tel.Shutdown(context.Background())

	if err := run(cfg, flag.Arg(1), log, tel); err != nil {
		log.Error("session ended", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, input string, log *zap.Logger, tel *telemetry.Telemetry) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "q",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	out := rl.Stdout()
	tree := bptree.New(cfg.Order)
	s := newSession(tree, out, log, tel)
	s.printer.Verbose = cfg.Verbose

	io.WriteString(out, intro(tree.Order()))
	io.WriteString(out, usage)

	if input != "" {
		stats, err := loader.LoadFile(input, tree)
		log.Info("load", zap.String("file", input), zap.Int("read", stats.Read), zap.Int("inserted", stats.Inserted), zap.Error(err))
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
		}
		fmt.Fprintf(out, "Input from file %s:\n", input)
		if err := s.printer.Tree(tree); err != nil {
			return err
		}
	}

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.exec(ctx, line)
		if err != nil {
			log.Debug("command", zap.String("line", line), zap.Error(err))
		}
		if quit {
			log.Info("quit", zap.Int("keys", tree.Len()))
			return nil
		}
	}
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bpt_history")
}
