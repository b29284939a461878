package render

import (
	"image"

	"github.com/skip2/go-qrcode"
)

const (
	defaultQRCodeSizePx = 256
	maxQRCodeSizePx     = 1024
)

// GenerateQRCodeImage returns a QR code image for the given payload, drawn in
// the banner colors so it sits on the preview page without a frame.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	q, err := newQRCode(payload)
	if err != nil {
		return nil, err
	}
	return q.Image(clampQRSize(sizePx)), nil
}

// GenerateQRCodePNG is GenerateQRCodeImage encoded as PNG.
func GenerateQRCodePNG(payload string, sizePx int) ([]byte, error) {
	if payload == "" {
		return nil, nil
	}
	q, err := newQRCode(payload)
	if err != nil {
		return nil, err
	}
	return q.PNG(clampQRSize(sizePx))
}

func newQRCode(payload string) (*qrcode.QRCode, error) {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.ForegroundColor = BannerForeground
	q.BackgroundColor = PageBackground
	return q, nil
}

func clampQRSize(sizePx int) int {
	if sizePx <= 0 {
		return defaultQRCodeSizePx
	}
	if sizePx > maxQRCodeSizePx {
		return maxQRCodeSizePx
	}
	return sizePx
}
