package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid data URI")

// DecodeDataURI splits "data:<mime>;base64,<data>" into the decoded bytes and
// the content type. Only image types are accepted.
func DecodeDataURI(uri string) ([]byte, string, error) {
	meta, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrInvalidDataURI
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidDataURI, contentType)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidDataURI)
	}
	return raw, contentType, nil
}

// ExtensionFor returns a file extension for an image content type.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}
