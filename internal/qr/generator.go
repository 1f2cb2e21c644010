package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/vincent-petithory/dataurl"
)

const defaultSize = 256

// Generator encodes an arbitrary string into a scannable image payload.
type Generator interface {
	Encode(text string) (string, error)
}

// PNGGenerator renders QR codes as PNG data URIs.
type PNGGenerator struct {
	size int
}

// NewPNGGenerator returns a generator producing 256px PNG codes.
func NewPNGGenerator() *PNGGenerator {
	return &PNGGenerator{size: defaultSize}
}

// Encode renders text as a QR code and returns it as a data URI.
func (g *PNGGenerator) Encode(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, g.size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return dataurl.New(png, "image/png").String(), nil
}

// DecodeDataURI returns the binary payload and media type of a data URI.
// The mailer uses this to turn the stored textual form back into bytes for
// the inline attachment.
func DecodeDataURI(uri string) ([]byte, string, error) {
	decoded, err := dataurl.DecodeString(uri)
	if err != nil {
		return nil, "", fmt.Errorf("decode data uri: %w", err)
	}
	return decoded.Data, decoded.ContentType(), nil
}
