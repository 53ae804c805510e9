package pdftext

import "testing"

func TestExtractTextRejectsNonPDF(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("plain text"), []byte("%PDF-")} {
		if _, err := ExtractText(data); err == nil {
			t.Errorf("ExtractText(%q) should fail on malformed input", data)
		}
	}
}
