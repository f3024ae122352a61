package bptree

import "github.com/dacapoday/bplus"

var ErrCorrupt = bplus.ErrCorrupt
