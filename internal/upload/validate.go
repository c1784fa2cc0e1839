package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload cap for work files.
const MaxFileSize = 100 << 20 // 100 MB

// ErrInvalidFile wraps every validation failure so handlers can map the
// whole family to a form error.
var ErrInvalidFile = errors.New("invalid work file")

var allowedExtensions = map[string]struct{}{
	// documents
	"pdf": {}, "doc": {}, "docx": {}, "txt": {}, "rtf": {},
	// audio
	"mp3": {}, "wav": {}, "flac": {}, "ogg": {}, "m4a": {}, "aac": {},
	// images
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {}, "svg": {}, "webp": {},
	// video
	"mp4": {}, "mov": {}, "avi": {}, "mkv": {}, "flv": {}, "webm": {},
	// archives
	"zip": {}, "rar": {}, "7z": {},
	// design files
	"psd": {}, "ai": {}, "xd": {}, "figma": {},
}

// Ext returns the lowercase extension of filename without the leading dot.
func Ext(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Validate checks a work file's size and extension before anything is
// persisted.
func Validate(filename string, size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: file size must not exceed 100 MB, you uploaded %.1f MB",
			ErrInvalidFile, float64(size)/(1<<20))
	}
	ext := Ext(filename)
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: file type %q is not allowed", ErrInvalidFile, "."+ext)
	}
	return nil
}
