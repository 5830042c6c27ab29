package importer

import (
	"io"

	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatTSV Format = "tsv"
)

type Importer interface {
	Parse(r io.Reader) ([]invoice.LineItem, error)
}
