// Copyright 2024 LatentFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxPathLength bounds every directory prefix and recursion path built
	// during a search. Longer paths are reported and skipped, never truncated.
	MaxPathLength = 16 * 1024

	// CurrentDir is the listing prefix used when a search path has no separator.
	CurrentDir = "."
)

// Separator is the separator used when building paths.
var Separator = string(filepath.Separator)

// separators are the characters that end a directory prefix.
// Both '/' and the OS separator are accepted.
var separators = "/" + string(os.PathSeparator)

// SearchPath is a search argument decomposed into its volume, directory
// prefix and trailing filename pattern.
type SearchPath struct {
	Volume  string // Windows drive or UNC volume, empty elsewhere
	Prefix  string // Directory to list, without the volume
	Pattern string // Filename pattern (component after the last separator)

	// display is the prefix as shown to the user: "./" prefixes removed,
	// empty for the current directory and for the filesystem root.
	display string
	// joinSep is the separator placed between display and a name.
	joinSep string
}

// SplitSearchPath splits root into volume, directory prefix and filename
// pattern. Without a separator the prefix is CurrentDir and the pattern is the
// whole string. A leading separator makes the prefix the filesystem root.
func SplitSearchPath(root string) SearchPath {
	volume := filepath.VolumeName(root)
	rest := root[len(volume):]

	idx := strings.LastIndexAny(rest, separators)
	if idx < 0 {
		return SearchPath{
			Volume:  volume,
			Prefix:  CurrentDir,
			Pattern: rest,
		}
	}

	sp := SearchPath{
		Volume:  volume,
		Pattern: rest[idx+1:],
		joinSep: Separator,
	}
	if idx == 0 {
		sp.Prefix = Separator
		return sp
	}

	sp.Prefix = filepath.FromSlash(rest[:idx])
	sp.display, sp.joinSep = displayPrefix(sp.Prefix)
	return sp
}

// displayPrefix removes leading "./" components from prefix. A bare "."
// displays as nothing at all, so names print without a separator.
func displayPrefix(prefix string) (string, string) {
	dotSep := "." + Separator
	for {
		switch {
		case prefix == CurrentDir:
			return "", ""
		case strings.HasPrefix(prefix, dotSep):
			for strings.HasPrefix(prefix, dotSep) {
				prefix = prefix[len(dotSep):]
			}
		default:
			return prefix, Separator
		}
	}
}

// Dir returns the directory to list, including the volume.
func (sp SearchPath) Dir() string {
	return sp.Volume + sp.Prefix
}

// Display returns the full display path of name within this directory.
func (sp SearchPath) Display(name string) string {
	return sp.Volume + sp.display + sp.joinSep + name
}

// Child returns the search path for the same pattern inside subdirectory name.
func (sp SearchPath) Child(name string) string {
	var b strings.Builder
	b.Grow(len(sp.Volume) + len(sp.Prefix) + len(name) + len(sp.Pattern) + 2)
	b.WriteString(sp.Volume)
	b.WriteString(sp.Prefix)
	if sp.Prefix != Separator {
		b.WriteString(Separator)
	}
	b.WriteString(name)
	b.WriteString(Separator)
	b.WriteString(sp.Pattern)
	return b.String()
}

// IsDotName reports whether name is "." or "..".
func IsDotName(name string) bool {
	return name == "." || name == ".."
}
