package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vfind/internal/listing"
	"vfind/internal/walk"
)

func TestAttrString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attrs listing.Attributes
		want  string
	}{
		{"plain_file", listing.Attributes{}, "----------w"},
		{"archived_file", listing.Attributes{Archive: true}, "---------aw"},
		{"read_only", listing.Attributes{ReadOnly: true}, "----------r"},
		{"directory", listing.Attributes{Directory: true}, "d---------w"},
		{"volume", listing.Attributes{Volume: true}, "l---------w"},
		{"device", listing.Attributes{Device: true}, "b---------w"},
		{"hidden_system", listing.Attributes{Hidden: true, System: true}, "-------sh-w"},
		{"symlink", listing.Attributes{Virtual: true}, "--v-------w"},
		{"extended", listing.Attributes{Extended: true, Directory: true}, "d#--------w"},
		{
			"everything",
			listing.Attributes{
				Directory: true, Extended: true, Virtual: true, Encrypted: true, Compressed: true,
				Offline: true, Temporary: true, System: true, Hidden: true, Archive: true, ReadOnly: true,
			},
			"d#vecotshar",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AttrString(tt.attrs)
			assert.Len(t, got, 11)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", Size(0))
	assert.Equal(t, "999", Size(999))
	assert.Equal(t, "1,000", Size(1000))
	assert.Equal(t, "1,234,567", Size(1234567))
	assert.Equal(t, "18,446,744,073,709,551,615", Size(math.MaxUint64))
	assert.Equal(t, "-5", Count(-5))
}

func TestEmitShort(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewText(&buf, time.UTC, false)
	sink.Emit("sub/a.txt", listing.Entry{Name: "a.txt"}, false)
	sink.Emit("sub", listing.Entry{Name: "sub", Attrs: listing.Attributes{Directory: true}}, false)

	assert.Equal(t, "sub/a.txt\nsub\n", buf.String())
}

func TestEmitLong(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewText(&buf, time.UTC, false)
	sink.Emit("a.txt", listing.Entry{
		Name:    "a.txt",
		Size:    1234567,
		ModTime: time.Date(2024, 3, 15, 8, 5, 9, 0, time.UTC),
		Attrs:   listing.Attributes{Archive: true},
	}, true)

	assert.Equal(t, "---------aw       1,234,567 2024-03-15 08:05:09  a.txt\n", buf.String())
}

func TestEmitLongUsesLocation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	loc := time.FixedZone("UTC+2", 2*60*60)
	NewText(&buf, loc, false).Emit("a", listing.Entry{
		Name:    "a",
		ModTime: time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC),
	}, true)

	assert.Contains(t, buf.String(), "2024-03-16 01:00:00")
}

func TestEmitColorsDirectories(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewText(&buf, time.UTC, true)
	sink.Emit("sub", listing.Entry{Name: "sub", Attrs: listing.Attributes{Directory: true}}, false)
	sink.Emit("a.txt", listing.Entry{Name: "a.txt"}, false)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "\x1b[")
	assert.Contains(t, lines[0], "sub")
	assert.Equal(t, "a.txt", lines[1])
}

func TestSearching(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewText(&buf, time.UTC, false).Searching("./sub")
	assert.Equal(t, "Searching \"./sub\"\n", buf.String())
}

func TestEmitSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewText(&buf, time.UTC, false)
	sink.EmitSummary(&walk.Count{Entries: 3, Dirs: 1, Files: 2, Hidden: 1, Bytes: 1536, Blocks: 3})

	want := "\n" +
		" Entries:                3  (2)\n" +
		" Directories:            1  Files:             2\n" +
		" Bytes:              1,536  Blocks:            3\n"
	assert.Equal(t, want, buf.String())
}

func TestEmitSummaryEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewText(&buf, time.UTC, false).EmitSummary(&walk.Count{})
	assert.True(t, strings.HasPrefix(buf.String(), " Entries:"))
}

func TestEmitGrandTotal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewText(&buf, time.UTC, false).EmitGrandTotal(&walk.Count{Entries: 1200, Files: 1200, Bytes: 2048, Blocks: 4})

	want := "\n" +
		" Total Entries:            1,200  (1,200)\n" +
		" Total Directories:            0  Files:         1,200\n" +
		" Total Bytes:              2,048  Blocks:            4\n"
	assert.Equal(t, want, buf.String())
}
