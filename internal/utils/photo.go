package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodedPhoto holds the raw bytes of a submitted photo plus the metadata
// needed to store it.
type DecodedPhoto struct {
	Data        []byte
	ContentType string
	Extension   string
}

var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DecodeDataURL parses a base64 data URL ("data:image/jpeg;base64,...") as
// produced by the form layer's compression step. Bare base64 payloads are
// accepted and treated as JPEG.
func DecodeDataURL(dataURL string) (*DecodedPhoto, error) {
	contentType := "image/jpeg"
	payload := dataURL

	if strings.HasPrefix(dataURL, "data:") {
		idx := strings.Index(dataURL, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		meta := dataURL[len("data:"):idx]
		payload = dataURL[idx+1:]

		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("unsupported data URL encoding")
		}
		if ct := strings.TrimSuffix(meta, ";base64"); ct != "" {
			contentType = ct
		}
	}

	ext, ok := extensionByContentType[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported photo content type: %s", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 photo payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty photo payload")
	}
	if len(data) > MaxPhotoSize {
		return nil, fmt.Errorf("photo exceeds the %d MB limit", MaxPhotoSize/(1024*1024))
	}

	return &DecodedPhoto{
		Data:        data,
		ContentType: contentType,
		Extension:   ext,
	}, nil
}
