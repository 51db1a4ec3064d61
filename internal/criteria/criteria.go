// Package criteria decides which directory entries a search reports.
package criteria

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vfind/internal/common"
	"vfind/internal/listing"
)

// MaxConstraints is the number of date or size constraints a search accepts.
const MaxConstraints = 2

// Mode is the comparison applied by a date or size constraint.
type Mode int

const (
	Equal Mode = iota
	NotEqual
	AtLeast
	AtMost
)

func (m Mode) String() string {
	switch m {
	case NotEqual:
		return "!"
	case AtLeast:
		return "+"
	case AtMost:
		return "-"
	default:
		return "="
	}
}

// modeFromPrefix reads an optional comparison prefix from s.
func modeFromPrefix(s string) (Mode, string) {
	if s == "" {
		return Equal, s
	}
	switch s[0] {
	case '+':
		return AtLeast, s[1:]
	case '-':
		return AtMost, s[1:]
	case '!':
		return NotEqual, s[1:]
	case '=':
		return Equal, s[1:]
	}
	return Equal, s
}

// accepts applies the mode to a three-way comparison result.
func (m Mode) accepts(cmp int) bool {
	switch m {
	case NotEqual:
		return cmp != 0
	case AtLeast:
		return cmp >= 0
	case AtMost:
		return cmp <= 0
	default:
		return cmp == 0
	}
}

// DateConstraint compares an entry's modification time with Ref.
type DateConstraint struct {
	Mode Mode
	Ref  time.Time
}

// SizeConstraint compares an entry's size in bytes with Ref.
type SizeConstraint struct {
	Mode Mode
	Ref  uint64
}

// Visibility controls whether hidden entries and the "." and ".." names are reported.
type Visibility int

const (
	// VisibleOnly reports neither hidden/system entries nor "." and ".."
	VisibleOnly Visibility = iota
	// AllExceptDotDirs reports hidden entries but not "." and ".."
	AllExceptDotDirs
	// AllIncludingDotDirs reports everything
	AllIncludingDotDirs
)

// Criteria holds the filters of one search. It is built once from the
// command line and only read afterwards.
type Criteria struct {
	Dates      []DateConstraint
	Sizes      []SizeConstraint
	Type       *TypeFilter
	Visibility Visibility
	Location   *time.Location
}

// New returns criteria that accept every visible entry.
func New() *Criteria {
	return &Criteria{Location: time.Local}
}

// AddDate appends a date constraint; at most two are allowed.
func (c *Criteria) AddDate(d DateConstraint) error {
	if len(c.Dates) >= MaxConstraints {
		return fmt.Errorf("%w: at most %d date constraints are allowed", common.ErrUsage, MaxConstraints)
	}
	c.Dates = append(c.Dates, d)
	return nil
}

// AddSize appends a size constraint; at most two are allowed.
func (c *Criteria) AddSize(s SizeConstraint) error {
	if len(c.Sizes) >= MaxConstraints {
		return fmt.Errorf("%w: at most %d size constraints are allowed", common.ErrUsage, MaxConstraints)
	}
	c.Sizes = append(c.Sizes, s)
	return nil
}

// Include reports whether e satisfies every constraint in c.
func Include(e listing.Entry, c *Criteria) bool {
	if c == nil {
		return true
	}

	if len(c.Dates) > 0 {
		mtime := e.ModTime.Truncate(time.Second)
		for _, d := range c.Dates {
			if !d.Mode.accepts(mtime.Compare(d.Ref)) {
				return exclude(e, "date")
			}
		}
	}

	for _, s := range c.Sizes {
		if !s.Mode.accepts(compareSize(e.Size, s.Ref)) {
			return exclude(e, "size")
		}
	}

	if c.Type != nil && !c.Type.Accepts(e.Attrs) {
		return exclude(e, "type")
	}

	switch c.Visibility {
	case AllIncludingDotDirs:
	case AllExceptDotDirs:
		if common.IsDotName(e.Name) {
			return exclude(e, "dot name")
		}
	default:
		if common.IsDotName(e.Name) {
			return exclude(e, "dot name")
		}
		if e.Attrs.HiddenOrSystem() {
			return exclude(e, "hidden")
		}
	}

	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[CRITERIA] include %q", e.Name)
	}
	return true
}

func exclude(e listing.Entry, reason string) bool {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[CRITERIA] exclude %q: %s", e.Name, reason)
	}
	return false
}

func compareSize(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
