package models

import "time"

// LogCategory selects which archiver log stream to pull.
type LogCategory string

const (
	LogCategoryBridge  LogCategory = "bridge"
	LogCategoryStream  LogCategory = "stream"
	LogCategoryAnalog  LogCategory = "analog"
	LogCategoryPreview LogCategory = "preview"
)

// LogCategories returns the full category set in retrieval order.
func LogCategories() []LogCategory {
	return []LogCategory{LogCategoryBridge, LogCategoryStream, LogCategoryAnalog, LogCategoryPreview}
}

// CategoryResult is the per-category outcome of a log pull. A failed
// category carries Err and writes no file; the pull still continues.
type CategoryResult struct {
	Category LogCategory   `json:"category"`
	Path     string        `json:"path,omitempty"`
	Lines    int           `json:"lines"`
	Elapsed  time.Duration `json:"elapsed"`
	Err      error         `json:"-"`
}

// Failed reports whether this category's request did not produce a file.
func (r CategoryResult) Failed() bool {
	return r.Err != nil
}
