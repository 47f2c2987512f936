package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotDataURI = errors.New("payload is not a base64 image data URI")

// DecodeImageData decodes an embedded image payload of the form
// "data:image/png;base64,...." and returns the raw bytes together with the
// file extension taken from the media type.
func DecodeImageData(payload string) ([]byte, string, error) {
	if !strings.HasPrefix(payload, "data:image/") {
		return nil, "", ErrNotDataURI
	}

	header, encoded, found := strings.Cut(payload, ";base64,")
	if !found {
		return nil, "", ErrNotDataURI
	}

	ext := strings.TrimPrefix(header, "data:image/")
	if ext == "" {
		return nil, "", ErrNotDataURI
	}
	if ext == "jpeg" {
		ext = "jpg"
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", ErrNotDataURI
	}

	return data, "." + ext, nil
}
