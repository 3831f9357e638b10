package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Aashish23092/access-key-extractor/dto"
	"github.com/Aashish23092/access-key-extractor/store"
	"github.com/Aashish23092/access-key-extractor/utils"
	"github.com/Aashish23092/access-key-extractor/utils/accesskey"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// OCRClient recognises text on a page image and reports its confidence.
type OCRClient interface {
	ExtractText(img image.Image) (string, float64, error)
}

// HistoryStore persists extraction outcomes. *store.Store implements it.
type HistoryStore interface {
	Save(ctx context.Context, rec *store.ExtractionRecord) error
	FindByHash(ctx context.Context, hash string) (*store.ExtractionRecord, error)
	List(ctx context.Context, limit int) ([]store.ExtractionRecord, error)
}

type AccessKeyService struct {
	pdfProcessor  PDFProcessor
	extractor     *accesskey.Extractor
	ocrClient     OCRClient
	barcodeReader BarcodeReader
	history       HistoryStore
	minTextLength int
	logger        *zap.Logger
}

type ServiceOption func(*AccessKeyService)

// WithScannedFallback enables the image path for documents without a usable
// text layer. Either argument may be nil.
func WithScannedFallback(ocr OCRClient, barcodes BarcodeReader) ServiceOption {
	return func(s *AccessKeyService) {
		s.ocrClient = ocr
		s.barcodeReader = barcodes
	}
}

func WithHistory(h HistoryStore) ServiceOption {
	return func(s *AccessKeyService) { s.history = h }
}

// WithMinTextLength sets how many characters a text layer needs before it is
// trusted without trying the scanned-page path first.
func WithMinTextLength(n int) ServiceOption {
	return func(s *AccessKeyService) { s.minTextLength = n }
}

func NewAccessKeyService(
	pdfProcessor PDFProcessor,
	extractor *accesskey.Extractor,
	logger *zap.Logger,
	opts ...ServiceOption,
) *AccessKeyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AccessKeyService{
		pdfProcessor:  pdfProcessor,
		extractor:     extractor,
		minTextLength: 50,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractFromText searches text that was extracted elsewhere.
func (s *AccessKeyService) ExtractFromText(text string) (*dto.AccessKeyResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	res := s.extractor.Extract(normalizeText(text))
	return newResult(res, dto.SourceText), nil
}

// ExtractFromPDF obtains the text of a PDF and searches it for the access key.
// PNG and JPEG uploads skip the text layer and go straight to the image path.
// A document without a key yields a result with Found=false; an error is only
// returned when no text at all could be obtained or ctx is done.
func (s *AccessKeyService) ExtractFromPDF(ctx context.Context, doc dto.Document) (*dto.AccessKeyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := sha256.Sum256(doc.Data)
	sum := hex.EncodeToString(hash[:])
	log := s.logger.With(zap.String("file", doc.Filename), zap.String("sha256", sum[:12]))

	if cached := s.lookup(ctx, sum); cached != nil {
		log.Info("access key served from history")
		cached.Filename = doc.Filename
		return cached, nil
	}

	start := time.Now()
	result, err := s.extract(ctx, doc, log)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		s.record(ctx, doc.Filename, sum, nil, err)
		return nil, err
	}

	result.Filename = doc.Filename
	result.SHA256 = sum
	s.record(ctx, doc.Filename, sum, result, nil)

	if result.Found {
		log.Info("access key found",
			zap.String("stage", result.Stage),
			zap.String("source", result.Source),
			zap.Duration("took", time.Since(start)))
	} else {
		log.Info("no access key in document", zap.Duration("took", time.Since(start)))
	}
	return result, nil
}

func (s *AccessKeyService) extract(ctx context.Context, doc dto.Document, log *zap.Logger) (*dto.AccessKeyResult, error) {
	if isImageDocument(doc) {
		return s.extractFromImage(ctx, doc, log)
	}

	text, textErr := s.pdfProcessor.ExtractText(doc.Data, doc.Password)
	if textErr != nil {
		log.Warn("text layer unavailable", zap.Error(textErr))
	}
	text = normalizeText(text)
	textLen := utf8.RuneCountInString(strings.TrimSpace(text))
	searched, textSearched := false, false
	log.Debug("text layer extracted",
		zap.Int("length", textLen),
		zap.Float64("quality", utils.EvaluateTextQuality(text)))

	if textErr == nil && textLen > 0 && (textLen >= s.minTextLength || !s.scannedFallback()) {
		searched, textSearched = true, true
		if res := s.extractor.Extract(text); res.Found {
			return newResult(res, dto.SourceText), nil
		}
	}

	if s.scannedFallback() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		images, imgErr := s.pdfProcessor.ExtractImages(doc.Data, doc.Password)
		switch {
		case imgErr != nil:
			log.Warn("page images unavailable", zap.Error(imgErr))
		case len(images) == 0:
			log.Debug("document has no page images")
		default:
			res, didSearch, err := s.searchImages(ctx, images, log)
			if err != nil {
				return nil, err
			}
			searched = searched || didSearch
			if res != nil {
				return res, nil
			}
		}

		// Short text layers are still worth a look once the images gave nothing.
		if !textSearched && textErr == nil && textLen > 0 {
			searched = true
			if res := s.extractor.Extract(text); res.Found {
				return newResult(res, dto.SourceText), nil
			}
		}
	}

	if !searched {
		if textErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, textErr)
		}
		return nil, fmt.Errorf("%w: document has no extractable text", ErrExtractionFailed)
	}

	return &dto.AccessKeyResult{
		Found:       false,
		ProcessedAt: now(),
	}, nil
}

// extractFromImage handles photographed or scanned pages uploaded directly.
func (s *AccessKeyService) extractFromImage(ctx context.Context, doc dto.Document, log *zap.Logger) (*dto.AccessKeyResult, error) {
	if !s.scannedFallback() {
		return nil, fmt.Errorf("%w: image documents need OCR or barcode decoding enabled", ErrExtractionFailed)
	}

	img, err := decodeImage(doc.Data, documentMimeType(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrExtractionFailed, err)
	}
	log.Debug("image document decoded", zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))

	res, searched, err := s.searchImages(ctx, []image.Image{img}, log)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	if !searched {
		return nil, fmt.Errorf("%w: no barcode or text recognised in image", ErrExtractionFailed)
	}
	return &dto.AccessKeyResult{
		Found:       false,
		ProcessedAt: now(),
	}, nil
}

// searchImages tries barcode payloads first and OCR text second.
func (s *AccessKeyService) searchImages(ctx context.Context, images []image.Image, log *zap.Logger) (*dto.AccessKeyResult, bool, error) {
	searched := false

	if s.barcodeReader != nil {
		for i, img := range images {
			for _, payload := range s.barcodeReader.Decode(img) {
				searched = true
				log.Debug("barcode decoded", zap.Int("image", i+1), zap.Int("length", len(payload)))
				if res := s.extractor.Extract(normalizeText(payload)); res.Found {
					return newResult(res, dto.SourceBarcode), true, nil
				}
			}
		}
	}

	if s.ocrClient == nil {
		return nil, searched, nil
	}

	var combined strings.Builder
	var totalConfidence float64
	pages := 0
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, searched, err
		}
		pageText, conf, err := s.ocrClient.ExtractText(img)
		if err != nil {
			log.Warn("OCR failed for page", zap.Int("image", i+1), zap.Error(err))
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConfidence += conf
		pages++
	}

	ocrText := combined.String()
	if strings.TrimSpace(ocrText) == "" {
		return nil, searched, nil
	}
	ocrText = normalizeText(ocrText)
	log.Debug("OCR completed",
		zap.Int("pages", pages),
		zap.Float64("confidence", totalConfidence/float64(pages)),
		zap.Float64("quality", utils.EvaluateTextQuality(ocrText)))

	if res := s.extractor.Extract(ocrText); res.Found {
		return newResult(res, dto.SourceOCR), true, nil
	}

	// Retry with letter lookalikes inside numeric runs read back as digits.
	if repaired := utils.RepairOCRDigits(ocrText); repaired != ocrText {
		if res := s.extractor.Extract(repaired); res.Found {
			log.Debug("access key found after OCR digit repair")
			return newResult(res, dto.SourceOCR), true, nil
		}
	}
	return nil, true, nil
}

func (s *AccessKeyService) scannedFallback() bool {
	return s.ocrClient != nil || s.barcodeReader != nil
}

// History lists recent extractions, newest first.
func (s *AccessKeyService) History(ctx context.Context, limit int) ([]dto.AccessKeyResult, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	recs, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	out := make([]dto.AccessKeyResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordToResult(rec))
	}
	return out, nil
}

func (s *AccessKeyService) lookup(ctx context.Context, sum string) *dto.AccessKeyResult {
	if s.history == nil {
		return nil
	}
	rec, err := s.history.FindByHash(ctx, sum)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("history lookup failed", zap.Error(err))
		}
		return nil
	}
	res := recordToResult(*rec)
	res.Source = dto.SourceCache
	res.ProcessedAt = now()
	return &res
}

func (s *AccessKeyService) record(ctx context.Context, filename, sum string, result *dto.AccessKeyResult, extractErr error) {
	if s.history == nil {
		return
	}
	rec := &store.ExtractionRecord{
		Filename: filename,
		SHA256:   sum,
	}
	if result != nil {
		rec.AccessKey = result.AccessKey
		rec.Found = result.Found
		rec.Stage = result.Stage
		rec.Source = result.Source
	}
	if extractErr != nil {
		rec.Error = extractErr.Error()
	}
	// Recording must not fail the request; the caller may already be gone.
	if err := s.history.Save(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("failed to save history record", zap.Error(err))
	}
}

func newResult(res accesskey.Result, source string) *dto.AccessKeyResult {
	out := &dto.AccessKeyResult{
		AccessKey:   res.Key,
		Found:       res.Found,
		Stage:       string(res.Stage),
		ProcessedAt: now(),
	}
	if res.Found {
		out.Source = source
	}
	return out
}

func recordToResult(rec store.ExtractionRecord) dto.AccessKeyResult {
	return dto.AccessKeyResult{
		Filename:    rec.Filename,
		AccessKey:   rec.AccessKey,
		Found:       rec.Found,
		Stage:       rec.Stage,
		Source:      rec.Source,
		SHA256:      rec.SHA256,
		Error:       rec.Error,
		ProcessedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// normalizeText maps compatibility characters such as full-width digits and
// no-break spaces onto their plain forms.
func normalizeText(text string) string {
	return norm.NFKC.String(text)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
