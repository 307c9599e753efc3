package detect

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourcePattern matches the file names accepted for upload and watching.
const SourcePattern = "*.{c,cpp,h,hpp}"

// inputMarkers are the phrases the service puts in program output when a run
// stopped waiting for stdin.
var inputMarkers = []string{"(Program requires input", "requires input"}

// OutputRequestsInput reports whether compile output carries the service's
// input-required marker.
func OutputRequestsInput(output string) bool {
	for _, m := range inputMarkers {
		if strings.Contains(output, m) {
			return true
		}
	}

	return false
}

// IsSourceFile reports whether path names a C or C++ source or header.
func IsSourceFile(path string) bool {
	ok, err := doublestar.Match(SourcePattern, strings.ToLower(filepath.Base(path)))

	return err == nil && ok
}
