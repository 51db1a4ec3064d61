//go:build !windows

package listing

import (
	"os"
	"strings"
)

// platformAttributes derives attributes on unix-like systems. Dot files are
// hidden; regular files count as archived since there is no archive bit.
func platformAttributes(fi os.FileInfo) Attributes {
	mode := fi.Mode()
	attrs := modeAttributes(mode)
	attrs.Hidden = strings.HasPrefix(fi.Name(), ".")
	attrs.Archive = mode.IsRegular()
	attrs.Extended = mode&(os.ModeSetuid|os.ModeSetgid|os.ModeSticky) != 0
	return attrs
}
