package service

import "errors"

var (
	// ErrExtractionFailed means no text could be obtained from the document.
	// It is distinct from a document whose text simply has no access key.
	ErrExtractionFailed = errors.New("text extraction failed")
	ErrEmptyText        = errors.New("document text is empty")
	ErrHistoryDisabled  = errors.New("extraction history is disabled")
)
