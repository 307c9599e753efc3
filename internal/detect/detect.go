// Package detect guesses whether a C program will block on standard input.
//
// The guess is advisory. The workflow combines it with the service's own
// "requires input" marker before deciding to skip the automatic run.
package detect

import (
	"regexp"
	"strings"
)

// inputCalls are the libc calls that read from a stream.
var inputCalls = []string{"scanf", "gets", "fgets", "getchar", "getc", "fgetc", "read"}

// inputPattern matches any input call followed by optional whitespace and "(".
// Calls match anywhere in an identifier, so fscanf and fread count as input
// and so does thread( as a false positive.
var inputPattern = regexp.MustCompile(`(?i)(?:` + strings.Join(inputCalls, "|") + `)\s*\(`)

// NeedsInput reports whether source contains a blocking-input call pattern.
// It returns false for empty or whitespace-only source.
func NeedsInput(source string) bool {
	if strings.TrimSpace(source) == "" {
		return false
	}

	return inputPattern.MatchString(source)
}

// Calls returns the distinct input calls found in source, in first-seen order.
// `codemate detect` prints them to explain a positive result.
func Calls(source string) []string {
	matches := inputPattern.FindAllString(source, -1)
	seen := make(map[string]struct{}, len(matches))
	calls := make([]string, 0, len(matches))

	for _, m := range matches {
		name := strings.ToLower(strings.TrimRight(strings.TrimSuffix(m, "("), " \t\r\n"))
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		calls = append(calls, name)
	}

	return calls
}
