package walk

import "vfind/internal/listing"

// BlockSize is the allocation unit used for the block total.
const BlockSize = 512

// Count accumulates statistics over matched entries.
type Count struct {
	Entries int64
	Dirs    int64
	Files   int64
	Hidden  int64
	Bytes   uint64
	Blocks  uint64
}

// Tally adds one matched entry.
func (c *Count) Tally(e listing.Entry) {
	c.Entries++
	switch {
	case e.Attrs.Directory:
		c.Dirs++
	case !e.Attrs.Volume:
		c.Files++
	}
	if e.Attrs.HiddenOrSystem() {
		c.Hidden++
	}
	c.Bytes += e.Size
	c.Blocks += Blocks(e.Size)
}

// Visible returns the number of matched entries that are not hidden.
func (c *Count) Visible() int64 {
	return c.Entries - c.Hidden
}

// Add folds other into c.
func (c *Count) Add(other *Count) {
	if other == nil {
		return
	}
	c.Entries += other.Entries
	c.Dirs += other.Dirs
	c.Files += other.Files
	c.Hidden += other.Hidden
	c.Bytes += other.Bytes
	c.Blocks += other.Blocks
}

// Blocks returns the number of BlockSize blocks needed to hold size bytes.
func Blocks(size uint64) uint64 {
	n := size / BlockSize
	if size%BlockSize != 0 {
		n++
	}
	return n
}
