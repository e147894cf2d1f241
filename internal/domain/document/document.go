package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxIDLength is the maximum identifier length in bytes.
const MaxIDLength = 255

// Status is the outcome of text extraction for an upload.
type Status string

// Extraction statuses.
const (
	StatusExtracted   Status = "extracted"
	StatusFailed      Status = "failed"
	StatusUnsupported Status = "unsupported"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusExtracted, StatusFailed, StatusUnsupported:
		return true
	}
	return false
}

// Document is one uploaded file reduced to its text (immutable value object).
// For failed or unsupported extractions the text is the error message.
type Document struct {
	id          string
	text        string
	contentType string
	status      Status
	size        int64
}

// New validates and creates a Document.
// ID: the upload file name, 1-255 bytes, valid UTF-8, no path separators.
func New(id, text, contentType string, status Status, size int64) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if !status.IsValid() {
		return Document{}, fmt.Errorf("invalid extraction status %q", status)
	}
	if size < 0 {
		return Document{}, fmt.Errorf("size must not be negative")
	}

	return Document{
		id:          id,
		text:        text,
		contentType: contentType,
		status:      status,
		size:        size,
	}, nil
}

// ValidateID checks a document identifier.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document ID is required")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("document ID too long (max %d)", MaxIDLength)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("document ID must be valid UTF-8")
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("document ID must not contain path separators")
	}
	return nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Text returns the extracted text, or the extraction error message.
func (d *Document) Text() string { return d.text }

// ContentType returns the resolved content type of the upload.
func (d *Document) ContentType() string { return d.contentType }

// Status returns the extraction status.
func (d *Document) Status() Status { return d.status }

// Size returns the original upload size in bytes.
func (d *Document) Size() int64 { return d.size }

// Download returns the bytes offered for download: the text itself.
func (d *Document) Download() []byte { return []byte(d.text) }
