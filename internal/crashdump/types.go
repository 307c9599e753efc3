// Package crashdump writes diagnostic dumps when codemate panics.
//
// Dumps never contain the program source or its input, only their digests
// and sizes, so they can be attached to bug reports as is.
package crashdump

import "time"

// CrashInfo is the content of a single crash dump file.
type CrashInfo struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	PanicValue string         `json:"panic_value"`
	StackTrace string         `json:"stack_trace"`
	Runtime    RuntimeInfo    `json:"runtime"`
	Session    *SessionInfo   `json:"session,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
	Metadata   DumpMetadata   `json:"metadata"`
}

// RuntimeInfo describes the Go runtime at crash time.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
}

// SessionInfo is a redacted view of the analysis session.
type SessionInfo struct {
	Cycle        uint64 `json:"cycle"`
	Phase        string `json:"phase"`
	Outcome      string `json:"outcome"`
	Analyzing    bool   `json:"analyzing"`
	Running      bool   `json:"running"`
	SourceDigest string `json:"source_digest,omitempty"`
	SourceSize   int    `json:"source_size"`
	StdinSize    int    `json:"stdin_size"`
	HasFix       bool   `json:"has_fix"`
	Reachable    bool   `json:"reachable"`
}

// DumpMetadata holds host details.
type DumpMetadata struct {
	Version    string `json:"version"`
	User       string `json:"user,omitempty"`
	Hostname   string `json:"hostname,omitempty"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// DumpSummary is the listing view of a stored dump.
type DumpSummary struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	PanicValue string    `json:"panic_value"`
	FilePath   string    `json:"file_path"`
	Size       int64     `json:"size"`
}
