package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

type TesseractClient struct {
	dataPath  string
	languages []string
	logger    *zap.Logger
}

// NewTesseractClient builds a client for the given tessdata directory and a
// "+"-separated language list such as "por+eng".
func NewTesseractClient(dataPath, language string, logger *zap.Logger) *TesseractClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	var langs []string
	for _, l := range strings.Split(language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"por", "eng"}
	}

	return &TesseractClient{
		dataPath:  dataPath,
		languages: langs,
		logger:    logger.Named("tesseract"),
	}
}

// ExtractText runs OCR on a page image and returns the text together with the
// mean word confidence (0-100).
func (tc *TesseractClient) ExtractText(img image.Image) (string, float64, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return "", 0, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(tc.languages...); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	// Get bounding boxes to calculate confidence
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		tc.logger.Debug("bounding boxes unavailable", zap.Error(err))
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}

	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}

	tc.logger.Debug("page recognised", zap.Int("chars", len(text)), zap.Float64("confidence", avgConf))
	return text, avgConf, nil
}
