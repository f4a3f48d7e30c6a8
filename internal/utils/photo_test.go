package utils

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF})

	decoded, err := DecodeDataURL("data:image/jpeg;base64," + payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ContentType != "image/jpeg" || decoded.Extension != ".jpg" {
		t.Errorf("got %s/%s, want image/jpeg/.jpg", decoded.ContentType, decoded.Extension)
	}
	if len(decoded.Data) != 3 {
		t.Errorf("got %d bytes, want 3", len(decoded.Data))
	}
}

func TestDecodeDataURLBarePayload(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img"))

	decoded, err := DecodeDataURL(payload)
	if err != nil {
		t.Fatalf("bare base64 must be accepted: %v", err)
	}
	if decoded.ContentType != "image/jpeg" {
		t.Errorf("bare payload should default to jpeg, got %s", decoded.ContentType)
	}
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	cases := []string{
		"data:image/jpeg;base64",           // no comma
		"data:image/jpeg,plainpayload",     // not base64-encoded
		"data:application/pdf;base64,aGk=", // unsupported type
		"data:image/png;base64,",           // empty payload
		"data:image/png;base64,!!!",        // invalid base64
	}
	for _, input := range cases {
		if _, err := DecodeDataURL(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestDecodeDataURLSizeLimit(t *testing.T) {
	big := base64.StdEncoding.EncodeToString(make([]byte, MaxPhotoSize+1))
	_, err := DecodeDataURL("data:image/png;base64," + big)
	if err == nil || !strings.Contains(err.Error(), "limit") {
		t.Fatalf("oversized photo must be rejected, got %v", err)
	}
}
