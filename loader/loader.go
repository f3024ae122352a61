// Package loader bulk-loads integer keys from text into an index.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dacapoday/bplus"
)

var ErrBadInput = bplus.ErrBadInput

// Stats summarizes one load.
type Stats struct {
	Read     int // tokens parsed
	Inserted int // keys that were new
}

// Load reads whitespace-separated integers from r and inserts each k as
// the pair (k, k). Keys already present keep their value.
// A token that is not an int64 stops the load with ErrBadInput; the keys
// read before it stay inserted.
func Load(r io.Reader, index bplus.Inserter) (stats Stats, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		token := scanner.Text()
		key, perr := strconv.ParseInt(token, 10, 64)
		if perr != nil {
			err = fmt.Errorf("%w: token %d %q: %w", ErrBadInput, stats.Read+1, token, perr)
			return
		}
		stats.Read++
		if index.Insert(key, key) {
			stats.Inserted++
		}
	}
	err = scanner.Err()
	return
}

// LoadFile opens name and calls Load.
func LoadFile(name string, index bplus.Inserter) (stats Stats, err error) {
	file, err := os.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	stats, err = Load(file, index)
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return
}
