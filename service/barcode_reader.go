package service

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// BarcodeReader decodes the symbols fiscal documents print next to the key:
// the DANFE Code-128 barcode and the NFC-e QR code.
type BarcodeReader interface {
	Decode(img image.Image) []string
}

type zxingReader struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func NewBarcodeReader() BarcodeReader {
	return &zxingReader{
		readers: []gozxing.Reader{
			oned.NewCode128Reader(),
			qrcode.NewQRCodeReader(),
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the payload of every symbol found in img. Images without a
// readable symbol yield nil.
func (z *zxingReader) Decode(img image.Image) []string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil
	}

	var payloads []string
	for _, reader := range z.readers {
		result, err := reader.Decode(bmp, z.hints)
		if err != nil {
			continue
		}
		if text := result.GetText(); text != "" {
			payloads = append(payloads, text)
		}
	}
	return payloads
}
