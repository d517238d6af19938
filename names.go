package iconbox

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const iconExt = ".png"

var iconNameRegex = regexp.MustCompile(`^[a-zA-Z]+$`)

// IsValidIconName reports whether name consists of one or more ASCII letters
// and nothing else.
func IsValidIconName(name string) bool {
	return iconNameRegex.MatchString(name)
}

// StoredFilename returns the object store key for an icon name.
func StoredFilename(name string) string {
	return name + iconExt
}

// IconNameFromFilename is the inverse of StoredFilename. It reports false when
// filename is not "<letters>.png".
func IconNameFromFilename(filename string) (string, bool) {
	name, ok := strings.CutSuffix(filename, iconExt)
	if !ok || !IsValidIconName(name) {
		return "", false
	}
	return name, true
}

// IsValidKey validates an object store key. Keys are flat file names:
//   - not empty
//   - no "/" or "\" separators
//   - no leading "." (reserved for temporary files, also rules out "." and "..")
//   - valid UTF-8
//   - no null bytes, control characters, DEL or whitespace
func IsValidKey(key string) bool {
	if key == "" || key[0] == '.' {
		return false
	}

	if strings.ContainsAny(key, `/\`) {
		return false
	}

	if !utf8.ValidString(key) {
		return false
	}

	for _, r := range key {
		if r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
