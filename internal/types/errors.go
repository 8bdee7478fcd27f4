package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateURL   = errors.New("duplicate article URL")
	ErrInvalidURL     = errors.New("invalid URL")
	ErrSourceInactive = errors.New("source is inactive")
	ErrEmptyText      = errors.New("empty text")
	ErrQueueEmpty     = errors.New("queue is empty")
	ErrNotConfigured  = errors.New("source is not configured for this collector")
)

// FetchError wraps errors that occur while fetching a source.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// CollectError wraps errors that occur while collecting from a source.
type CollectError struct {
	SourceName string
	SourceType SourceType
	Err        error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("collect error for %s (%s): %v", e.SourceName, e.SourceType, e.Err)
}

func (e *CollectError) Unwrap() error { return e.Err }

// ProcessError wraps errors from the NLP enrichment pipeline.
type ProcessError struct {
	ArticleID int64
	Stage     AnalysisType
	Err       error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process error for article %d at stage %q: %v", e.ArticleID, e.Stage, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// StoreError wraps persistence failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
