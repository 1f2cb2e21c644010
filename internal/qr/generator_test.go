package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestPNGGenerator_EncodeProducesDataURI(t *testing.T) {
	gen := NewPNGGenerator()

	uri, err := gen.Encode("http://localhost:5173/ticket/abc-123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestDecodeDataURI_RoundTripsToPNG(t *testing.T) {
	gen := NewPNGGenerator()

	uri, err := gen.Encode("http://localhost:5173/ticket/abc-123")
	require.NoError(t, err)

	payload, contentType, err := DecodeDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)
	require.GreaterOrEqual(t, len(payload), len(pngMagic))
	require.Equal(t, pngMagic, payload[:len(pngMagic)])
}

func TestDecodeDataURI_RejectsGarbage(t *testing.T) {
	_, _, err := DecodeDataURI("not a data uri")
	require.Error(t, err)
}

func TestPNGGenerator_RejectsOversizedInput(t *testing.T) {
	gen := NewPNGGenerator()

	// QR capacity tops out around 3KB; beyond that encoding must fail
	// rather than silently truncate.
	_, err := gen.Encode(strings.Repeat("x", 8000))
	require.Error(t, err)
}
