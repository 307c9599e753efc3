package crashdump

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/smykla-skalski/codemate/internal/history"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/pkg/config"
)

const (
	shortIDLength = 8

	// panicNilStr is the string representation of panic(nil).
	panicNilStr = "panic(nil)"
)

// formatPanicValue converts a recovered panic value to a string.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	// Go 1.21+ converts panic(nil) to *runtime.PanicNilError
	type panicNilError interface {
		error
		RuntimeError()
	}

	if _, ok := v.(panicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// Collector gathers crash diagnostics.
type Collector struct {
	version   string
	sanitizer *Sanitizer
	now       func() time.Time
}

// NewCollector creates a collector stamping dumps with version.
func NewCollector(version string) *Collector {
	return &Collector{
		version:   version,
		sanitizer: NewSanitizer(),
		now:       time.Now,
	}
}

// Collect builds a dump from a recovered panic. snap and cfg may be nil.
func (c *Collector) Collect(recovered any, snap *session.Snapshot, cfg *config.Config) *CrashInfo {
	now := c.now()
	panicValue := formatPanicValue(recovered)

	info := &CrashInfo{
		ID:         generateCrashID(now, panicValue),
		Timestamp:  now,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Runtime:    collectRuntime(),
		Metadata:   c.collectMetadata(),
	}

	if snap != nil {
		info.Session = collectSession(*snap)
	}

	if cfg != nil {
		info.Config = c.sanitizer.SanitizeConfig(cfg)
	}

	return info
}

func collectRuntime() RuntimeInfo {
	return RuntimeInfo{
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}
}

func collectSession(s session.Snapshot) *SessionInfo {
	info := &SessionInfo{
		Cycle:      s.Cycle,
		Phase:      s.Phase.String(),
		Outcome:    s.Outcome.Kind.String(),
		Analyzing:  s.Analyzing,
		Running:    s.Running,
		SourceSize: len(s.Source),
		StdinSize:  len(s.Stdin),
		HasFix:     s.FixedCode != "",
		Reachable:  s.Connectivity.Reachable,
	}

	if s.Source != "" {
		info.SourceDigest = history.Digest(s.Source)
	}

	return info
}

func (c *Collector) collectMetadata() DumpMetadata {
	meta := DumpMetadata{Version: c.version}

	if u, err := user.Current(); err == nil {
		meta.User = u.Username
	}

	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}

	if wd, err := os.Getwd(); err == nil {
		meta.WorkingDir = wd
	}

	return meta
}

// generateCrashID returns crash-{timestamp}-{shortHash}.
func generateCrashID(timestamp time.Time, panicValue string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), panicValue)
	hash := sha256.Sum256([]byte(data))
	shortHash := hex.EncodeToString(hash[:])[:shortIDLength]

	return fmt.Sprintf("crash-%s-%s", timestamp.Format("20060102T150405"), shortHash)
}
