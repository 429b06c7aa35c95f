package store

import (
	"encoding/base64"
	"fmt"
)

// ImageKey is the blob store key holding the encoded database image.
// Versioned so a future schema change can migrate by writing a new key and
// detecting absence of it on load.
const ImageKey = "pourhouse.image.v2"

// encodeImage converts a raw database image to the text-safe form the blob
// store holds. The round trip with decodeImage is byte-exact.
func encodeImage(raw []byte) []byte {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	return encoded
}

// decodeImage reverses encodeImage.
func decodeImage(encoded []byte) ([]byte, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(raw, encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return raw[:n], nil
}
