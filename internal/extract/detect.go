package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// ResolveContentType picks the content type of an upload: the declared type
// when it is specific, else the sniffed type, else the type implied by the
// file extension.
func ResolveContentType(declared, name string, data []byte) string {
	if ct := baseType(declared); ct != "" && ct != octetStream && ct != "application/zip" {
		return ct
	}

	sniffed := baseType(mimetype.Detect(data).String())
	if sniffed != "" && sniffed != octetStream && sniffed != "application/zip" {
		return sniffed
	}

	if byExt := baseType(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); byExt != "" {
		return byExt
	}
	if sniffed != "" {
		return sniffed
	}
	return octetStream
}

// baseType strips parameters such as charset and lower-cases the type.
func baseType(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	base, _, _ := strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
