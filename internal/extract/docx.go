package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// maxDocumentXML bounds the decompressed size of word/document.xml.
const maxDocumentXML = 64 << 20

// extractDOCX returns the body paragraphs of a Word document joined by newlines.
// Paragraphs nested in tables or text boxes are not part of the body.
func extractDOCX(_ context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := bodyParagraphs(io.LimitReader(rc, maxDocumentXML))
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			local := ""
			if el.Name.Space == wordNamespace {
				local = el.Name.Local
			}
			if local == "p" && len(stack) > 0 && stack[len(stack)-1] == "body" {
				inPara = true
				current.Reset()
			}
			if inPara {
				switch local {
				case "t":
					inText = true
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
			stack = append(stack, local)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			local := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case local == "t":
				inText = false
			case local == "p" && inPara && len(stack) > 0 && stack[len(stack)-1] == "body":
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
		case xml.CharData:
			if inPara && inText {
				current.Write(el)
			}
		}
	}

	return paragraphs, nil
}
