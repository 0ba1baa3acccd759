package resumetext

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a one-page PDF showing text, with a correct xref table.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t, "Senior Go Engineer", "Kubernetes &amp; Postgres")

	text, err := Extract(MIMEDOCX, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Engineer")
	assert.Contains(t, text, "Kubernetes & Postgres")
	assert.NotContains(t, text, "<w:")

	n, ok := Count(MIMEDOCX, data)
	assert.True(t, ok)
	assert.Equal(t, 6, n)
}

func TestExtract_PDF(t *testing.T) {
	data := buildPDF(t, "Senior Go Engineer")

	text, err := Extract(MIMEPDF, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Go")
	assert.Contains(t, text, "Engineer")
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract(MIMEDOC, []byte{0xD0, 0xCF, 0x11, 0xE0})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Extract(MIMEPDF, []byte("not a pdf"))
	assert.Error(t, err)

	_, err = Extract(MIMEDOCX, []byte("not a zip"))
	assert.Error(t, err)

	n, ok := Count(MIMEPDF, []byte("nope"))
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("  \n\t "))
	assert.Equal(t, 3, WordCount("one  two\nthree"))
}
