package loader

import (
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// extractPDF pulls plain text from a PDF, one string per page, joined
// with newlines. Pages that fail text extraction are skipped rather
// than failing the whole document.
func extractPDF(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}
