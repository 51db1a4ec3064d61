package criteria

import (
	"fmt"
	"strings"

	"vfind/internal/common"
	"vfind/internal/listing"
)

// AttrMask is a set of attribute facts.
type AttrMask uint32

const (
	AttrArchive AttrMask = 1 << iota
	AttrDevice
	AttrCompressed
	AttrDirectory
	AttrEncrypted
	AttrNormal
	AttrHidden
	AttrVolume
	AttrOffline
	AttrReadOnly
	AttrSystem
	AttrTemporary
	AttrVirtual
	AttrWritable
)

// TypeLetters maps each -t letter to the fact it selects.
var TypeLetters = map[byte]AttrMask{
	'a': AttrArchive,
	'b': AttrDevice,
	'c': AttrCompressed,
	'd': AttrDirectory,
	'e': AttrEncrypted,
	'f': AttrNormal,
	'h': AttrHidden,
	'l': AttrVolume,
	'o': AttrOffline,
	'r': AttrReadOnly,
	's': AttrSystem,
	't': AttrTemporary,
	'v': AttrVirtual,
	'w': AttrWritable,
}

// Facts returns the attribute facts of an entry, including the derived
// Normal and Writable facts.
func Facts(a listing.Attributes) AttrMask {
	var m AttrMask
	set := func(ok bool, bit AttrMask) {
		if ok {
			m |= bit
		}
	}
	set(a.Archive, AttrArchive)
	set(a.Device, AttrDevice)
	set(a.Compressed, AttrCompressed)
	set(a.Directory, AttrDirectory)
	set(a.Encrypted, AttrEncrypted)
	set(a.Normal(), AttrNormal)
	set(a.Hidden, AttrHidden)
	set(a.Volume, AttrVolume)
	set(a.Offline, AttrOffline)
	set(a.ReadOnly, AttrReadOnly)
	set(a.System, AttrSystem)
	set(a.Temporary, AttrTemporary)
	set(a.Virtual, AttrVirtual)
	set(a.Writable(), AttrWritable)
	return m
}

// TypeFilter selects entries by attribute facts. The letters are or-ed together.
type TypeFilter struct {
	Negated bool
	Mask    AttrMask
}

// Accepts reports whether attrs pass the filter.
func (f *TypeFilter) Accepts(attrs listing.Attributes) bool {
	hit := Facts(attrs)&f.Mask != 0
	return hit != f.Negated
}

// ParseType parses a -t value such as "d", "fh" or "!r".
func ParseType(spec string) (*TypeFilter, error) {
	f := &TypeFilter{}
	letters := spec
	if strings.HasPrefix(letters, "!") {
		f.Negated = true
		letters = letters[1:]
	}
	if letters == "" {
		return nil, fmt.Errorf("%w: empty type specification %q", common.ErrUsage, spec)
	}
	for i := 0; i < len(letters); i++ {
		bit, ok := TypeLetters[letters[i]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown type letter %q in %q", common.ErrUsage, letters[i], spec)
		}
		f.Mask |= bit
	}
	return f, nil
}
