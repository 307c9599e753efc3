package crashdump

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/smykla-skalski/codemate/pkg/config"
)

const redactedValue = "[REDACTED]"

var sensitiveKey = regexp.MustCompile(`(?i)token|secret|password|credential|auth|api[-_]?key`)

// Sanitizer strips secrets from the configuration before it is dumped.
type Sanitizer struct{}

// NewSanitizer creates a new config sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// SanitizeConfig converts cfg to a generic map with secrets redacted.
// Credentials embedded in URLs are replaced, the rest of the URL is kept.
func (s *Sanitizer) SanitizeConfig(cfg *config.Config) map[string]any {
	if cfg == nil {
		return nil
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return map[string]any{"error": "failed to serialize config"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to deserialize config"}
	}

	s.sanitizeMap(result)

	return result
}

func (s *Sanitizer) sanitizeMap(m map[string]any) {
	for key, value := range m {
		if sensitiveKey.MatchString(key) {
			m[key] = redactedValue

			continue
		}

		switch v := value.(type) {
		case map[string]any:
			s.sanitizeMap(v)
		case []any:
			s.sanitizeSlice(v)
		case string:
			m[key] = redactURL(v)
		}
	}
}

func (s *Sanitizer) sanitizeSlice(slice []any) {
	for i, value := range slice {
		switch v := value.(type) {
		case map[string]any:
			s.sanitizeMap(v)
		case []any:
			s.sanitizeSlice(v)
		case string:
			slice[i] = redactURL(v)
		}
	}
}

// redactURL replaces the userinfo of an absolute URL. Other strings are
// returned unchanged.
func redactURL(value string) string {
	if !strings.Contains(value, "://") {
		return value
	}

	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return value
	}

	u.User = url.User(redactedValue)

	return u.String()
}
