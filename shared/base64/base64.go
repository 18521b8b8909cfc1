package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURI = errors.New("invalid base64 data uri")

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpg":  "jpg",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// GetContentType returns the media type of a data URI such as "data:image/png;base64,...".
func GetContentType(file string) string {
	start := len(dataPrefix)
	end := strings.Index(file, base64Marker)

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode splits a data URI into its media type and decoded payload.
func Decode(file string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(file, dataPrefix) {
		return "", nil, ErrInvalidDataURI
	}

	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrInvalidDataURI
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return contentType, data, nil
}

// Extension returns the file extension for a supported image media type.
func Extension(contentType string) string {
	return extensions[contentType]
}
