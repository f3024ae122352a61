//go:build debug

package bptree

import "fmt"

// assertNode panics if n breaks a local invariant: key order, occupancy,
// the sentinel slot or the parent links of its children.
// Only enabled with -tags debug.
func assertNode(method string, n node) {
	if err := checkNode(n); err != nil {
		panic(fmt.Sprintf("%s: %v", method, err))
	}
}
