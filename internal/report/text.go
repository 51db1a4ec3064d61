// Package report renders search results as text.
package report

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"vfind/internal/listing"
	"vfind/internal/walk"
)

// TimeLayout is the timestamp format of long listings.
const TimeLayout = "2006-01-02 15:04:05"

// Text writes matches and summaries to an io.Writer.
type Text struct {
	out     io.Writer
	loc     *time.Location
	dirName *color.Color
}

var _ walk.Sink = (*Text)(nil)

// NewText creates a text sink. Timestamps are shown in loc; directory names
// are highlighted when useColor is set.
func NewText(out io.Writer, loc *time.Location, useColor bool) *Text {
	if loc == nil {
		loc = time.Local
	}
	dirName := color.New(color.FgBlue, color.Bold)
	if useColor {
		dirName.EnableColor()
	} else {
		dirName.DisableColor()
	}
	return &Text{out: out, loc: loc, dirName: dirName}
}

// Searching prints the directory about to be listed.
func (t *Text) Searching(dir string) {
	fmt.Fprintf(t.out, "Searching \"%s\"\n", dir)
}

// Emit prints one match, prefixed by its attributes, size and modification
// time when long is set.
func (t *Text) Emit(path string, e listing.Entry, long bool) {
	if e.IsDir() {
		path = t.dirName.Sprint(path)
	}
	if !long {
		fmt.Fprintln(t.out, path)
		return
	}
	fmt.Fprintf(t.out, "%-11s %15s %s  %s\n",
		AttrString(e.Attrs), Size(e.Size), e.ModTime.In(t.loc).Format(TimeLayout), path)
}

// EmitSummary prints the counts of one search root.
func (t *Text) EmitSummary(c *walk.Count) {
	if c.Entries > 0 {
		fmt.Fprintln(t.out)
	}
	t.block("", c)
}

// EmitGrandTotal prints the counts of all search roots.
func (t *Text) EmitGrandTotal(c *walk.Count) {
	fmt.Fprintln(t.out)
	t.block("Total ", c)
}

func (t *Text) block(label string, c *walk.Count) {
	fmt.Fprintf(t.out, " %sEntries:     %12s  (%s)\n", label, Count(c.Entries), Count(c.Visible()))
	fmt.Fprintf(t.out, " %sDirectories: %12s  Files:  %12s\n", label, Count(c.Dirs), Count(c.Files))
	fmt.Fprintf(t.out, " %sBytes:    %15s  Blocks: %12s\n", label, Size(c.Bytes), Size(c.Blocks))
}

// Count formats n with comma grouping.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Size formats a byte or block count with comma grouping.
func Size(n uint64) string {
	if n > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(n))
	}
	return humanize.Comma(int64(n))
}

// AttrString renders attributes as an 11 character string: the entry kind
// (d, l, b or -), '#' when extended attributes are present, the letters
// v e c o t s h a for set attributes and finally r or w.
func AttrString(a listing.Attributes) string {
	var buf [11]byte
	switch {
	case a.Directory:
		buf[0] = 'd'
	case a.Volume:
		buf[0] = 'l'
	case a.Device:
		buf[0] = 'b'
	default:
		buf[0] = '-'
	}
	buf[1] = flag(a.Extended, '#')
	buf[2] = flag(a.Virtual, 'v')
	buf[3] = flag(a.Encrypted, 'e')
	buf[4] = flag(a.Compressed, 'c')
	buf[5] = flag(a.Offline, 'o')
	buf[6] = flag(a.Temporary, 't')
	buf[7] = flag(a.System, 's')
	buf[8] = flag(a.Hidden, 'h')
	buf[9] = flag(a.Archive, 'a')
	buf[10] = 'w'
	if a.ReadOnly {
		buf[10] = 'r'
	}
	return string(buf[:])
}

func flag(set bool, c byte) byte {
	if set {
		return c
	}
	return '-'
}
