package dto

// Result sources
const (
	SourceText    = "text"
	SourceBarcode = "barcode"
	SourceOCR     = "ocr"
	SourceCache   = "cache"
)

// Document is one uploaded file awaiting extraction
type Document struct {
	Filename string
	Data     []byte
	Password string
	// MimeType is sniffed from Data when empty or application/octet-stream.
	MimeType string
}

// TextExtractRequest carries already extracted document text
type TextExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// AccessKeyResult is the outcome for a single document
type AccessKeyResult struct {
	Filename    string `json:"filename,omitempty"`
	AccessKey   string `json:"access_key,omitempty"`
	Found       bool   `json:"found"`
	Stage       string `json:"stage,omitempty"`
	Source      string `json:"source,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
	Error       string `json:"error,omitempty"`
	ProcessedAt string `json:"processed_at"`
}

// BatchSummary counts per-document outcomes of a batch
type BatchSummary struct {
	Total    int `json:"total"`
	Found    int `json:"found"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`
}

// BatchResponse lists results in upload order
type BatchResponse struct {
	Results     []AccessKeyResult `json:"results"`
	Summary     BatchSummary      `json:"summary"`
	ProcessedAt string            `json:"processed_at"`
}

// HistoryResponse lists previously processed documents, newest first
type HistoryResponse struct {
	Records []AccessKeyResult `json:"records"`
}
