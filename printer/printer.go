// Package printer renders a bptree.Tree as text for diagnostics.
//
// Output follows a fixed layout:
//
//	| 20 |                      one line per depth, nodes separated by |
//	| 10 | 30 |
//	| 1 2 | 10 11 | 20 | 30 31 |
//
// In verbose mode every node is prefixed with its identity and size, and
// leaves are suffixed with the identity of the next leaf.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dacapoday/bplus/bptree"
)

// Printer writes tree diagrams to W. Not thread-safe.
type Printer struct {
	W       io.Writer
	Verbose bool
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{W: w}
}

// Node formats one node view.
func (p *Printer) Node(v bptree.View) string {
	var b strings.Builder
	if p.Verbose {
		fmt.Fprintf(&b, "[%#x]<%d> ", v.ID, v.Size)
	}
	for i, key := range v.Keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(key, 10))
	}
	if p.Verbose && v.Leaf {
		fmt.Fprintf(&b, " [%#x>", v.Next)
	}
	return b.String()
}

// Tree prints every depth of tree on its own line, root first.
func (p *Printer) Tree(tree *bptree.Tree) error {
	if tree.Empty() {
		return p.empty()
	}
	var err error
	for _, nodes := range tree.Levels {
		var b strings.Builder
		b.WriteString("|")
		for _, v := range nodes {
			b.WriteString(" ")
			b.WriteString(p.Node(v))
			b.WriteString(" |")
		}
		b.WriteString("\n")
		if _, err = io.WriteString(p.W, b.String()); err != nil {
			break
		}
	}
	return err
}

// Leaves prints the leaf chain on one line.
func (p *Printer) Leaves(tree *bptree.Tree) error {
	if tree.Empty() {
		return p.empty()
	}
	var b strings.Builder
	for v := range tree.Leaves {
		b.WriteString("| ")
		b.WriteString(p.Node(v))
		b.WriteString(" ")
	}
	b.WriteString("|\n")
	_, err := io.WriteString(p.W, b.String())
	return err
}

// Value reports the record stored under key. With path set, the nodes
// visited on the way down from the root are printed first.
func (p *Printer) Value(tree *bptree.Tree, key int64, path bool) error {
	views := tree.Path(key)
	if len(views) == 0 {
		_, err := fmt.Fprintf(p.W, "Not found: empty tree.\n")
		return err
	}

	var b strings.Builder
	indent := ""
	if path {
		for i, v := range views[:len(views)-1] {
			if i == 0 {
				fmt.Fprintf(&b, "Root: \t%s\n", p.Node(v))
			} else {
				fmt.Fprintf(&b, "\tNode: %s\n", p.Node(v))
			}
		}
		indent = "\t"
	}
	fmt.Fprintf(&b, "%sLeaf: %s\n", indent, p.Node(views[len(views)-1]))

	if record := tree.Search(key); record == nil {
		fmt.Fprintf(&b, "Record not found with key %d.\n", key)
	} else {
		fmt.Fprintf(&b, "%sRecord found at location %p:\n", indent, record)
		fmt.Fprintf(&b, "\tKey: %d   Value: %d\n", key, record.Value())
	}
	_, err := io.WriteString(p.W, b.String())
	return err
}

// Range prints the pairs with start <= key <= end, one per line.
func (p *Printer) Range(tree *bptree.Tree, start, end int64) error {
	var b strings.Builder
	for key, val := range tree.Between(start, end) {
		fmt.Fprintf(&b, "Key: %d    Value: %d\n", key, val)
	}
	_, err := io.WriteString(p.W, b.String())
	return err
}

func (p *Printer) empty() error {
	_, err := io.WriteString(p.W, "Empty tree.\n")
	return err
}
