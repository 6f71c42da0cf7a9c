package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"document-chat/internal/models"
)

// ExtractionError reports an unreadable or corrupt source document.
// It is fatal for the upload: no partial page sequence is returned.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ParsePages extracts the ordered (page number, text) sequence from a
// document. Formats without native pages map their natural subdivision
// to pages: slides for PPTX, sheets for XLSX/ODS, the whole file for
// DOCX, Markdown and plain text. Pages with no extractable text are
// omitted; the surviving pages keep their original numbers.
func ParsePages(filePath string) ([]models.Page, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".pptx":
		return parsePPTX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	case ".ods":
		return parseODS(filePath)
	case ".md", ".markdown":
		return parseMarkdown(filePath)
	case ".txt":
		return parseText(filePath)
	default:
		return nil, &ExtractionError{Path: filePath, Err: fmt.Errorf("unsupported file format %q", ext)}
	}
}

func parsePDF(filePath string) ([]models.Page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}

	var pages []models.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &ExtractionError{Path: filePath, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pages = appendPage(pages, i, pageText)
	}
	return pages, nil
}

func parseDOCX(filePath string) ([]models.Page, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer r.Close()

	// DOCX carries no page boundaries; the whole body becomes page 1.
	content := r.Editable().GetContent()
	return appendPage(nil, 1, stripXMLTags(content)), nil
}

func parsePPTX(filePath string) ([]models.Page, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer f.Close()

	var pages []models.Page
	slide := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		slide++
		rc, err := file.Open()
		if err != nil {
			return nil, &ExtractionError{Path: filePath, Err: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &ExtractionError{Path: filePath, Err: err}
		}
		pages = appendPage(pages, slide, extractTextFromXML(string(data)))
	}
	return pages, nil
}

func parseXLSX(filePath string) ([]models.Page, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}

	var pages []models.Page
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString("Sheet: " + sheet.Name + "\n")
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		pages = appendPage(pages, sheetNum+1, text.String())
	}
	return pages, nil
}

func parseODS(filePath string) ([]models.Page, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	defer f.Close()

	var pages []models.Page
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		pages = appendPage(pages, sheetNum+1, text.String())
	}
	return pages, nil
}

func parseText(filePath string) ([]models.Page, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	return appendPage(nil, 1, string(data)), nil
}

func appendPage(pages []models.Page, number int, text string) []models.Page {
	text = strings.TrimSpace(text)
	if text == "" {
		return pages
	}
	return append(pages, models.Page{PageNumber: number, Text: text})
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		if endIdx := strings.Index(part, "</a:t>"); endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}

// stripXMLTags drops any residual markup the docx body extraction leaves in.
func stripXMLTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
