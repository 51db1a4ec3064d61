package listing

import (
	"os"
	"time"
)

// Kind selects which entries a listing yields.
type Kind int

const (
	// ListAll yields every entry of the directory
	ListAll Kind = iota
	// ListDirs yields directory entries only
	ListDirs
)

// Attributes are the named attribute facts of an entry.
// This abstracts away the platform's attribute bit layout.
type Attributes struct {
	Directory  bool
	Volume     bool
	Device     bool
	ReadOnly   bool
	Hidden     bool
	System     bool
	Archive    bool
	Compressed bool
	Temporary  bool
	Offline    bool
	Encrypted  bool
	Virtual    bool
	// Extended is set when the platform reports attributes beyond the ones above
	Extended bool
}

// Normal reports whether the entry is a plain file (not a directory, volume label or device).
func (a Attributes) Normal() bool {
	return !a.Directory && !a.Volume && !a.Device
}

// Writable reports whether the entry is not read-only.
func (a Attributes) Writable() bool {
	return !a.ReadOnly
}

// HiddenOrSystem reports whether the entry is hidden or a system entry.
func (a Attributes) HiddenOrSystem() bool {
	return a.Hidden || a.System
}

// Entry is a snapshot of one directory entry taken when it was listed.
type Entry struct {
	Name    string
	Size    uint64
	ModTime time.Time
	Attrs   Attributes
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Attrs.Directory
}

// FromFileInfo converts fi into an Entry, deriving attributes for the host platform.
func FromFileInfo(fi os.FileInfo) Entry {
	var size uint64
	if fi.Size() > 0 {
		size = uint64(fi.Size())
	}
	return Entry{
		Name:    fi.Name(),
		Size:    size,
		ModTime: fi.ModTime(),
		Attrs:   platformAttributes(fi),
	}
}

// modeAttributes derives the attributes every platform can read from the file mode.
func modeAttributes(mode os.FileMode) Attributes {
	return Attributes{
		Directory: mode.IsDir(),
		Device:    mode&(os.ModeDevice|os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0,
		ReadOnly:  mode.Perm()&0200 == 0,
		Virtual:   mode&os.ModeSymlink != 0,
	}
}
