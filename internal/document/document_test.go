package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// buildPDF writes a one-page PDF showing each line in its own text object.
func buildPDF(t *testing.T, lines ...string) []byte {
	t.Helper()

	var content strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", 720-i*20, line)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
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

func TestDetect(t *testing.T) {
	t.Parallel()

	docxData := buildDocx(t, "")

	tests := []struct {
		name string
		file string
		data []byte
		want Kind
	}{
		{name: "txt extension", file: "offre.TXT", data: []byte("x"), want: KindText},
		{name: "markdown", file: "offre.md", data: []byte("x"), want: KindText},
		{name: "pdf extension", file: "cv.pdf", data: nil, want: KindPDF},
		{name: "docx extension", file: "cv.docx", data: nil, want: KindDOCX},
		{name: "sniffed text", file: "upload", data: []byte("Développeur Go"), want: KindText},
		{name: "sniffed pdf", file: "upload", data: []byte("%PDF-1.4\n..."), want: KindPDF},
		{name: "sniffed docx", file: "upload", data: docxData, want: KindDOCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Detect(tt.file, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectRejectsUnknownContent(t *testing.T) {
	_, err := Detect("image", []byte("\x89PNG\r\n\x1a\n0000"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Detect("archive", buildZip(t))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func buildZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("readme.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	got, err := Extract("offre.txt", []byte("Poste : Data Analyst\r\n\r\n\r\n\r\nSQL, Python   \n"))
	require.NoError(t, err)
	assert.Equal(t, "Poste : Data Analyst\n\nSQL, Python", got)
}

func TestExtractDocx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Data Analyst</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>SQL</w:t></w:r><w:r><w:tab/><w:t>Python &amp; R</w:t></w:r></w:p>`)

	got, err := Extract("offre.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst\nSQL Python & R", got)
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, "Data Analyst", "SQL Python")

	kind, err := Detect("offre", data)
	require.NoError(t, err)
	assert.Equal(t, KindPDF, kind)

	got, err := Extract("offre.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst\nSQL Python", got)

	path := filepath.Join(t.TempDir(), "offre.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	got, err = ExtractFile(path)
	require.NoError(t, err)
	assert.Contains(t, got, "SQL Python")
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract("cv.pdf", []byte("not a pdf"))
	require.Error(t, err)

	_, err = Extract("cv.docx", []byte("not a zip"))
	require.Error(t, err)

	_, err = Extract("blank.txt", []byte(" \n\t "))
	require.ErrorIs(t, err, ErrEmpty)

	_, err = Extract("latin1.txt", []byte{0xe9, 0x74, 0xe9})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Extract("big.txt", bytes.Repeat([]byte("a"), MaxSize+1))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offre.md")
	require.NoError(t, os.WriteFile(path, []byte("# Offre\nDéveloppeur"), 0o600))

	got, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Offre\nDéveloppeur", got)

	_, err = ExtractFile(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestKindMIME(t *testing.T) {
	assert.Equal(t, "application/pdf", KindPDF.MIME())
	assert.Equal(t, docxMIME, KindDOCX.MIME())
	assert.Equal(t, "text/plain; charset=utf-8", KindText.MIME())
}
