package bptree

// Record holds the value stored under one key.
// The pointer is a stable handle for as long as the key stays in the tree.
type Record struct {
	val int64
}

// Value returns the stored value.
func (record *Record) Value() int64 {
	return record.val
}

// Entry is a key/value pair copied out of the tree.
type Entry struct {
	Key, Val int64
}
