// Package receipts stores uploaded receipt files on local disk or in Azure
// Blob Storage.
package receipts

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxSize is the upload limit per file.
const DefaultMaxSize = 10 << 20

var (
	ErrInvalidName      = errors.New("invalid receipt name")
	ErrUnsupportedType  = errors.New("unsupported receipt file type")
	ErrTooLarge         = errors.New("receipt file too large")
	AllowedExtensions   = []string{"jpg", "jpeg", "png", "gif", "webp", "pdf"}
	extensionMediaTypes = map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
		"pdf":  "application/pdf",
	}
)

// Extension returns the lowercased extension of a file name, without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// CheckExtension reports ErrUnsupportedType for files outside the allowed set.
func CheckExtension(filename string) error {
	if !slices.Contains(AllowedExtensions, Extension(filename)) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, filename)
	}
	return nil
}

// NewName generates a storage name "<unix-millis>_<random base36>.<ext>" for
// an uploaded file, keeping the extension of the original name.
func NewName(original string, now time.Time) (string, error) {
	ext := Extension(original)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedType, original)
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate receipt name: %w", err)
	}
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
	return fmt.Sprintf("%d_%s.%s", now.UnixMilli(), suffix, ext), nil
}

// ValidateName rejects names that could escape the store: empty names,
// path separators and dot segments.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ContentType guesses the media type of a stored receipt from its name.
func ContentType(name string) string {
	if ct, ok := extensionMediaTypes[Extension(name)]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
