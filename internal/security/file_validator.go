package security

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Validation limits for input files
const (
	DefaultThresholdKB = 256
	DefaultMaxSizeMB   = 512
	headerSize         = 64 * 1024
)

var (
	ErrTooLarge = errors.New("file exceeds the maximum input size")
	ErrBinary   = errors.New("file appears to be binary")
	ErrFormat   = errors.New("file content does not match its extension")
)

// FileValidator checks ontology, lexicon and alignment files before they are
// loaded fully. Files above ValidationThreshold have their header inspected.
type FileValidator struct {
	ValidationThreshold int64 // Files larger than this are validated first
	MaxSize             int64 // 0 = unlimited
	HeaderSize          int64 // Size of header to read for validation
}

func NewFileValidator(thresholdKB int64) *FileValidator {
	return &FileValidator{
		ValidationThreshold: thresholdKB * 1024,
		MaxSize:             DefaultMaxSizeMB * 1024 * 1024,
		HeaderSize:          headerSize,
	}
}

// Default is the validator used by the file loaders
var Default = NewFileValidator(DefaultThresholdKB)

// ValidateInput rejects files that are too large, binary, or whose header
// does not look like the format their extension names
func (fv *FileValidator) ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if fv.MaxSize > 0 && info.Size() > fv.MaxSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	// Skip validation for small files
	if info.Size() <= fv.ValidationThreshold {
		return nil
	}

	header := make([]byte, fv.HeaderSize)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read header: %w", err)
	}
	header = header[:n]

	if fv.isBinaryData(header) {
		return ErrBinary
	}
	return fv.validateFormat(path, header)
}

// isBinaryData checks if file contains binary data
func (fv *FileValidator) isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	// Control characters (0-31 except tab, LF, CR) and DEL (127)
	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}

	// If more than 30% non-printable, consider binary
	ratio := float64(nonPrintable) / float64(len(data))
	return ratio > 0.3
}

// validateFormat checks that the header looks like the format of the extension
func (fv *FileValidator) validateFormat(path string, header []byte) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".toml":
		return fv.validateTOMLFile(header)
	case ".lexicon":
		return fv.validateLexiconFile(header)
	case ".json":
		return fv.validateJSONFile(header)
	}

	return nil
}

// validateTOMLFile looks for a key assignment or a table header
func (fv *FileValidator) validateTOMLFile(header []byte) error {
	tomlPatterns := [][]byte{
		[]byte("="),
		[]byte("[["),
		[]byte("["),
	}

	for _, pattern := range tomlPatterns {
		if bytes.Contains(header, pattern) {
			return nil
		}
	}

	return fmt.Errorf("%w: no TOML keys or tables found", ErrFormat)
}

// validateLexiconFile requires tab-separated lines
func (fv *FileValidator) validateLexiconFile(header []byte) error {
	if bytes.IndexByte(header, '\t') >= 0 {
		return nil
	}
	return fmt.Errorf("%w: no tab-separated lexicon entries found", ErrFormat)
}

// validateJSONFile requires an array or an object
func (fv *FileValidator) validateJSONFile(header []byte) error {
	trimmed := bytes.TrimLeft(header, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return nil
	}
	return fmt.Errorf("%w: JSON alignment must be a list of correspondences", ErrFormat)
}
