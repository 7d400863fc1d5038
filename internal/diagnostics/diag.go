// Package diagnostics carries structured, user-facing problem reports.
package diagnostics

import (
	"sync"
	"time"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes reported by the face and its drivers.
const (
	AssetMissing     = "ASSET.MISSING"
	ConfigIgnored    = "CONFIG.IGNORED"
	StoreWriteFailed = "STORE.WRITE_FAILED"
	DriverWrite      = "DRIVER.WRITE_FAILED"
	SourceFailed     = "SOURCE.FAILED"
	FaceLoaded       = "FACE.LOADED"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	At             time.Time      `json:"at"`
}

// Journal keeps the most recent diagnostics and fans new ones out to
// subscribers. It is safe for concurrent use.
type Journal struct {
	mu   sync.Mutex
	max  int
	buf  []Diagnostic
	subs []func(Diagnostic)
}

func NewJournal(max int) *Journal {
	if max <= 0 {
		max = 64
	}
	return &Journal{max: max}
}

// Report stamps d if needed, records it, then notifies subscribers outside
// the lock.
func (j *Journal) Report(d Diagnostic) {
	if d.At.IsZero() {
		d.At = time.Now()
	}
	j.mu.Lock()
	j.buf = append(j.buf, d)
	if len(j.buf) > j.max {
		j.buf = append(j.buf[:0], j.buf[len(j.buf)-j.max:]...)
	}
	subs := append([]func(Diagnostic){}, j.subs...)
	j.mu.Unlock()

	for _, fn := range subs {
		fn(d)
	}
}

func (j *Journal) Subscribe(fn func(Diagnostic)) {
	j.mu.Lock()
	j.subs = append(j.subs, fn)
	j.mu.Unlock()
}

// Recent returns the retained diagnostics, oldest first.
func (j *Journal) Recent() []Diagnostic {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Diagnostic(nil), j.buf...)
}

// Count returns how many retained diagnostics carry code.
func (j *Journal) Count(code string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, d := range j.buf {
		if d.Code == code {
			n++
		}
	}
	return n
}
