// bview is a full-screen browser for the leaf chain of a B+ tree built
// from a file of whitespace-separated integers.
//
// Usage:
//
//	bview [-o order] <filename>           # interactive mode
//	bview -l <filename>                   # list mode (print all)
//	bview -l -n 20 <filename>             # list first 20 items
//
// Interactive mode:
//
//	j/↓    scroll down
//	k/↑    scroll up
//	g      jump to first
//	G      jump to last
//	/      seek to the first key >= input
//	q/Esc  quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/internal/logger"
	"github.com/dacapoday/bplus/iterator"
	"github.com/dacapoday/bplus/loader"
)

func main() {
	listFlag := flag.Bool("l", false, "list mode (non-interactive)")
	countFlag := flag.Int("n", 0, "number of items (0 = all)")
	orderFlag := flag.Int("o", bptree.DefaultOrder, "tree order")
	logFlag := flag.String("log", "stderr", "log output file")
	levelFlag := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bview [-l] [-n count] [-o order] <filename>")
		os.Exit(1)
	}
	filename := flag.Arg(0)

	log, err := logger.New(logger.Config{Level: *levelFlag, Format: "console", OutputFile: *logFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	tree := bptree.New(*orderFlag)
	stats, err := loader.LoadFile(filename, tree)
	if err != nil {
		log.Error("load", zap.String("file", filename), zap.Error(err))
		os.Exit(1)
	}
	log.Info("load", zap.String("file", filename),
		zap.Int("read", stats.Read), zap.Int("inserted", stats.Inserted),
		zap.Int("order", tree.Order()), zap.Int("height", tree.Height()))

	iter := tree.Iter()
	if *listFlag {
		if err := runList(os.Stdout, iter, *countFlag); err != nil {
			log.Error("list", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(iter, filename); err != nil {
		log.Error("interactive", zap.Error(err))
		os.Exit(1)
	}
}

func runList(w io.Writer, iter iterator.Iterator, count int) error {
	iter.SeekFirst()
	keys, vals, err := iterator.Collect(iter, count)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i, key := range keys {
		fmt.Fprintf(bw, "%d: %d\n", key, vals[i])
	}
	return bw.Flush()
}

func runInteractive(iter iterator.Iterator, title string) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	v := &viewer{iter: iter}
	updateSize(v, fd)
	iter.SeekFirst()
	v.load()

	fmt.Print("\033[?25l\033[2J") // hide cursor, clear screen once
	defer fmt.Print("\033[?25h\033[2J\033[H")

	reader := bufio.NewReader(os.Stdin)

	for {
		if updateSize(v, fd) {
			v.load()
		}
		v.render(os.Stdout, title)

		b, err := reader.ReadByte()
		if err != nil {
			return nil
		}

		v.status = ""

		switch b {
		case 'q', 3, 27: // q, Ctrl+C, Esc
			if b == 27 && reader.Buffered() > 0 {
				b2, _ := reader.ReadByte()
				if b2 == '[' {
					b3, _ := reader.ReadByte()
					switch b3 {
					case 'A': // up
						v.up()
					case 'B': // down
						v.down()
					case '5': // page up
						reader.ReadByte()
						v.pageUp()
					case '6': // page down
						reader.ReadByte()
						v.pageDown()
					}
				}
				continue
			}
			return nil
		case 'j':
			v.down()
		case 'k':
			v.up()
		case 'g':
			v.first()
		case 'G':
			v.last()
		case '/':
			if input, ok := prompt(reader, v.height); ok {
				v.seek(input)
			}
		}
	}
}

func updateSize(v *viewer, fd int) bool {
	w, h, err := term.GetSize(fd)
	if err != nil {
		w, h = 80, 24
	}
	return v.resize(w, h)
}

// prompt reads a line on the bottom row. ok is false when cancelled.
func prompt(reader *bufio.Reader, row int) (string, bool) {
	fmt.Print("\033[?25h")
	fmt.Printf("\033[%d;1H\033[K/", row)
	defer fmt.Print("\033[?25l")

	var input []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", false
		}
		switch {
		case b == 27 || b == 3: // Esc or Ctrl+C
			return "", false
		case b == 13 || b == 10: // Enter
			return string(input), len(input) > 0
		case b == 127 || b == 8: // Backspace
			if len(input) > 0 {
				input = input[:len(input)-1]
				fmt.Print("\b \b")
			}
		case b == '-' || (b >= '0' && b <= '9'):
			input = append(input, b)
			fmt.Print(string(b))
		}
	}
}
