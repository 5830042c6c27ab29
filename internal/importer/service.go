package importer

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/importer/sheet"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type Service struct {
	sheetImporter Importer
}

func NewService() *Service {
	return &Service{
		sheetImporter: sheet.NewParser(),
	}
}

// FormatOf guesses the upload format from its file name. Unknown or missing
// extensions are treated as CSV.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsv", ".tab":
		return FormatTSV
	}

	return FormatCSV
}

// Import parses line items for an invoice from r.
func (s *Service) Import(format Format, r io.Reader) ([]invoice.LineItem, error) {
	var importer Importer

	switch format {
	case FormatCSV, FormatTSV:
		importer = s.sheetImporter
	default:
		return nil, apperr.Invalid("format", "unknown import format: "+string(format))
	}

	return importer.Parse(r)
}
