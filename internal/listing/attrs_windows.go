//go:build windows

package listing

import (
	"os"
	"syscall"
)

// Attribute bits not exported by the syscall package.
const (
	fileAttributeDevice     = 0x00000040
	fileAttributeTemporary  = 0x00000100
	fileAttributeCompressed = 0x00000800
	fileAttributeOffline    = 0x00001000
	fileAttributeEncrypted  = 0x00004000
	fileAttributeHighBits   = 0xFFFF0000
)

// platformAttributes reads the Win32 attribute word when the file info
// carries one, falling back to the file mode otherwise.
func platformAttributes(fi os.FileInfo) Attributes {
	attrs := modeAttributes(fi.Mode())

	data, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok || data == nil {
		return attrs
	}

	word := data.FileAttributes
	attrs.Directory = word&syscall.FILE_ATTRIBUTE_DIRECTORY != 0
	attrs.ReadOnly = word&syscall.FILE_ATTRIBUTE_READONLY != 0
	attrs.Hidden = word&syscall.FILE_ATTRIBUTE_HIDDEN != 0
	attrs.System = word&syscall.FILE_ATTRIBUTE_SYSTEM != 0
	attrs.Archive = word&syscall.FILE_ATTRIBUTE_ARCHIVE != 0
	attrs.Virtual = word&syscall.FILE_ATTRIBUTE_REPARSE_POINT != 0
	attrs.Device = word&fileAttributeDevice != 0
	attrs.Temporary = word&fileAttributeTemporary != 0
	attrs.Compressed = word&fileAttributeCompressed != 0
	attrs.Offline = word&fileAttributeOffline != 0
	attrs.Encrypted = word&fileAttributeEncrypted != 0
	attrs.Extended = word&fileAttributeHighBits != 0
	return attrs
}
