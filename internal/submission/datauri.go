package submission

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ParsePhotoDataURI splits a "data:<mime>;base64,<payload>" photo into its
// mime type and raw image bytes. The image-edit stage needs the raw bytes,
// not the URI form the client uploads.
func ParsePhotoDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("photo is not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	idx := strings.Index(rest, ",")
	if idx < 0 {
		return "", nil, fmt.Errorf("malformed data URI: missing payload separator")
	}
	meta, payload := rest[:idx], rest[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode photo payload: %w", err)
	}
	return mimeType, data, nil
}

// PhotoDataURI encodes raw image bytes as a data URI.
func PhotoDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// LoadPhotoFile reads an image file and returns it as a data URI, rejecting
// non-image files the same way the upload form does.
func LoadPhotoFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo file: %w", err)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image file (detected %s)", path, mimeType)
	}

	return PhotoDataURI(mimeType, data), nil
}
