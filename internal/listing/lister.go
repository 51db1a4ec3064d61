// Package listing enumerates directory entries for the walker.
package listing

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	log "github.com/sirupsen/logrus"

	"vfind/internal/common"
)

// Lister enumerates one directory at a time.
type Lister interface {
	// List opens dir for enumeration. Entries are yielded in name order.
	List(dir string, kind Kind) (Iterator, error)
	// ReadFile returns the contents of a file, used for ignore files.
	ReadFile(path string) ([]byte, error)
}

// Iterator yields the entries of one listing.
type Iterator interface {
	Next() (Entry, bool)
	Close() error
}

// Filesystem is the subset of billy.Filesystem a BillyLister needs.
type Filesystem interface {
	billy.Basic
	billy.Dir
}

// BillyLister lists directories of a billy filesystem.
type BillyLister struct {
	fs Filesystem

	// DotEntries makes every listing start with "." and "..", built from
	// Stat of the directory and its parent.
	DotEntries bool
}

// NewBillyLister creates a lister over fs.
func NewBillyLister(fs Filesystem) *BillyLister {
	return &BillyLister{fs: fs}
}

// OS returns a lister over the host filesystem. Its listings include the
// "." and ".." entries.
func OS() *BillyLister {
	l := NewBillyLister(osfs.Default)
	l.DotEntries = true
	return l
}

// List reads dir in full and returns an iterator over the snapshot.
func (l *BillyLister) List(dir string, kind Kind) (Iterator, error) {
	infos, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", common.ErrListing, dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		e := FromFileInfo(fi)
		if kind == ListDirs && !e.IsDir() {
			continue
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	if l.DotEntries {
		entries = append(l.dotEntries(dir), entries...)
	}

	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[LIST] %s kind=%d entries=%d", dir, kind, len(entries))
	}
	return &sliceIterator{entries: entries}, nil
}

// dotEntries returns "." and ".." for dir. A parent that cannot be read is
// left out.
func (l *BillyLister) dotEntries(dir string) []Entry {
	dots := make([]Entry, 0, 2)
	for _, name := range []string{".", ".."} {
		fi, err := l.fs.Stat(filepath.Join(dir, name))
		if err != nil {
			log.Debugf("[LIST] no %q entry in %s: %v", name, dir, err)
			continue
		}
		e := FromFileInfo(fi)
		e.Name = name
		dots = append(dots, e)
	}
	return dots
}

// ReadFile reads path from the underlying filesystem.
func (l *BillyLister) ReadFile(path string) ([]byte, error) {
	data, err := util.ReadFile(l.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

type sliceIterator struct {
	entries []Entry
	pos     int
	closed  bool
}

func (it *sliceIterator) Next() (Entry, bool) {
	if it.closed || it.pos >= len(it.entries) {
		return Entry{}, false
	}
	e := it.entries[it.pos]
	it.pos++
	return e, true
}

func (it *sliceIterator) Close() error {
	it.closed = true
	it.entries = nil
	return nil
}
