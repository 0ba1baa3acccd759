// Package resumetext pulls plain text out of résumé files for the local
// upload preview. The server always receives the original bytes; nothing
// here feeds the analysis.
package resumetext

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupported is returned for types we cannot extract locally (legacy
// .doc among them).
var ErrUnsupported = errors.New("unsupported file type")

// Extract returns the text content of data, which must be of the given type.
func Extract(mime string, data []byte) (string, error) {
	switch mime {
	case MIMEPDF:
		return extractPDF(data)
	case MIMEDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed object streams.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag       = regexp.MustCompile(`<[^>]*>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent hands back the raw document.xml body.
	body := paragraphEnd.ReplaceAllString(doc.Editable().GetContent(), " ")
	return unescapeXML(xmlTag.ReplaceAllString(body, "")), nil
}

var xmlEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Count extracts data and counts its words. ok is false when the type is not
// extractable or the file could not be parsed.
func Count(mime string, data []byte) (n int, ok bool) {
	text, err := Extract(mime, data)
	if err != nil {
		return 0, false
	}
	return WordCount(text), true
}
