package testutil

import (
	"sync"

	"github.com/dinosandi/Mobile-Driver/internal/logx"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// LogRecorder is a logx.Logger that captures entries for assertions.
type LogRecorder struct {
	mu      sync.Mutex
	entries []Entry
	with    []logx.Field
}

// NewLogRecorder returns an empty recorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (r *LogRecorder) record(level, msg string, fields []logx.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := append(append([]logx.Field{}, r.with...), fields...)
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: all})
}

func (r *LogRecorder) Debug(msg string, fields ...logx.Field) { r.record("debug", msg, fields) }
func (r *LogRecorder) Info(msg string, fields ...logx.Field)  { r.record("info", msg, fields) }
func (r *LogRecorder) Warn(msg string, fields ...logx.Field)  { r.record("warn", msg, fields) }
func (r *LogRecorder) Error(msg string, fields ...logx.Field) { r.record("error", msg, fields) }

// With returns the same recorder with extra fields attached to later entries.
func (r *LogRecorder) With(fields ...logx.Field) logx.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.with = append(r.with, fields...)
	return r
}

// Entries returns a copy of everything recorded so far.
func (r *LogRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the recorded messages at the given level.
func (r *LogRecorder) Messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}
