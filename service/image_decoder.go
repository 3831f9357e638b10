package service

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/Aashish23092/access-key-extractor/dto"
)

// documentMimeType returns the declared MIME type of doc, sniffing the
// content when none or only the generic binary type was given.
func documentMimeType(doc dto.Document) string {
	declared := strings.ToLower(strings.TrimSpace(doc.MimeType))
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared
	}
	return http.DetectContentType(doc.Data)
}

// isImageDocument reports whether doc is a photo or scan rather than a PDF.
func isImageDocument(doc dto.Document) bool {
	mime := documentMimeType(doc)
	return strings.Contains(mime, "png") || strings.Contains(mime, "jpeg") || strings.Contains(mime, "jpg")
}

// decodeImage decodes an image from bytes based on MIME type
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	reader := bytes.NewReader(data)

	if strings.Contains(mimeType, "png") {
		return png.Decode(reader)
	} else if strings.Contains(mimeType, "jpeg") || strings.Contains(mimeType, "jpg") {
		return jpeg.Decode(reader)
	}

	// Try to decode anyway
	img, _, err := image.Decode(reader)
	return img, err
}
