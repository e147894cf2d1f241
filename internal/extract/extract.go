// Package extract turns uploaded files into plain text.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// Content types with a registered extractor.
const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TypeText = "text/*"
)

// Func extracts text from the raw bytes of one file.
type Func func(ctx context.Context, data []byte) (string, error)

// Format is an extraction capability.
type Format struct {
	Label   string // metrics label: pdf, docx, xlsx, text
	Kind    string // human name used in error text, e.g. "PDF file"
	Extract Func
}

// Outcome is the result of extracting one file. Failures are data, not errors:
// Text then holds the message shown in place of the document text.
type Outcome struct {
	Text        string
	ContentType string
	Status      domdoc.Status
	Err         error
}

// Registry maps content types to extraction capabilities.
// "type/*" entries match a whole family when no exact entry exists.
type Registry struct {
	exact    map[string]Format
	families map[string]Format
	logger   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		exact:    make(map[string]Format),
		families: make(map[string]Format),
		logger:   logger,
	}
}

// Default returns a registry with PDF, DOCX, XLSX and text/* support.
func Default(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(TypePDF, Format{Label: "pdf", Kind: "PDF file", Extract: extractPDF})
	r.Register(TypeDOCX, Format{Label: "docx", Kind: "Word document", Extract: extractDOCX})
	r.Register(TypeXLSX, Format{Label: "xlsx", Kind: "Excel file", Extract: extractXLSX})
	r.Register(TypeText, Format{Label: "text", Kind: "text file", Extract: extractText})
	return r
}

// Register adds or replaces the capability for a content type.
func (r *Registry) Register(contentType string, f Format) {
	contentType = strings.ToLower(contentType)
	if family, ok := strings.CutSuffix(contentType, "/*"); ok {
		r.families[family] = f
		return
	}
	r.exact[contentType] = f
}

// Lookup finds the capability for a content type. ok is false for
// unsupported types.
func (r *Registry) Lookup(contentType string) (Format, bool) {
	contentType = strings.ToLower(contentType)
	if f, ok := r.exact[contentType]; ok {
		return f, true
	}
	family, _, _ := strings.Cut(contentType, "/")
	f, ok := r.families[family]
	return f, ok
}

// Extract resolves the content type of one upload and extracts its text.
// It never fails: parser errors and panics become StatusFailed outcomes,
// unknown types StatusUnsupported.
func (r *Registry) Extract(ctx context.Context, name, declaredType string, data []byte) Outcome {
	contentType := ResolveContentType(declaredType, name, data)

	f, ok := r.Lookup(contentType)
	if !ok {
		metrics.ExtractionTotal.WithLabelValues("unknown", string(domdoc.StatusUnsupported)).Inc()
		err := fmt.Errorf("%w: %s", domain.ErrUnsupportedType, contentType)
		return Outcome{
			Text:        err.Error(),
			ContentType: contentType,
			Status:      domdoc.StatusUnsupported,
			Err:         err,
		}
	}

	text, err := r.run(ctx, f, data)
	if err != nil {
		metrics.ExtractionTotal.WithLabelValues(f.Label, string(domdoc.StatusFailed)).Inc()
		r.logger.Warn("Text extraction failed",
			zap.String("file", name),
			zap.String("content_type", contentType),
			zap.Error(err),
		)
		extErr := domain.NewExtractionError(f.Kind, err)
		return Outcome{
			Text:        extErr.Error(),
			ContentType: contentType,
			Status:      domdoc.StatusFailed,
			Err:         extErr,
		}
	}

	metrics.ExtractionTotal.WithLabelValues(f.Label, string(domdoc.StatusExtracted)).Inc()
	return Outcome{Text: text, ContentType: contentType, Status: domdoc.StatusExtracted}
}

func (r *Registry) run(ctx context.Context, f Format, data []byte) (text string, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("parser panic: %v", rvr)
		}
	}()
	return f.Extract(ctx, data)
}
