package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
	"github.com/MrJamesThe3rd/estoque/internal/money"
)

const (
	InvoicesFile = "notas.csv"
	CatalogFile  = "catalogo.zip"
	productsFile = "produtos.csv"
	imagesDir    = "imagens"
)

// Result describes what Export wrote to disk.
type Result struct {
	Invoices     []*invoice.Invoice
	InvoicesPath string
	CatalogPath  string
	Products     int
}

// Service exports invoices and the product catalog in spreadsheet-friendly
// formats (semicolon separated, comma decimals).
type Service struct {
	invoices *invoice.Service
	catalog  *catalog.Service
}

func NewService(invoices *invoice.Service, catalog *catalog.Service) *Service {
	return &Service{invoices: invoices, catalog: catalog}
}

var invoiceHeader = []string{
	"Número", "Cliente", "E-mail", "Telefone", "CPF/CNPJ", "Endereço",
	"Data de emissão", "Status", "Itens", "Subtotal", "Impostos", "Total", "Criada em",
}

// InvoicesCSV writes the invoices matching filter to w and returns them.
func (s *Service) InvoicesCSV(ctx context.Context, filter invoice.ListFilter, w io.Writer) ([]*invoice.Invoice, error) {
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(invoiceHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, inv := range invoices {
		record := []string{
			inv.Number,
			inv.ClientName,
			inv.ClientEmail,
			inv.ClientPhone,
			inv.ClientTaxID,
			inv.ClientAddress,
			inv.IssueDate,
			string(inv.Status),
			strconv.Itoa(len(inv.Items)),
			money.FormatBR(inv.Subtotal),
			money.FormatBR(inv.Tax),
			money.FormatBR(inv.Total),
			inv.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("writing invoice %s: %w", inv.Number, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return invoices, nil
}

// CatalogArchive writes a zip holding produtos.csv and every product image
// under imagens/. Products whose image is gone are exported without one.
func (s *Service) CatalogArchive(ctx context.Context, w io.Writer) (int, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing products: %w", err)
	}

	zw := zip.NewWriter(w)

	rows := [][]string{{"ID", "Nome", "Descrição", "Categoria", "Preço", "Imagem"}}

	for _, p := range products {
		imagePath, err := s.writeImage(ctx, zw, p)
		if err != nil {
			return 0, err
		}

		rows = append(rows, []string{
			p.ID.Hex(),
			p.Name,
			p.Description,
			p.Category,
			money.FormatBR(p.Price),
			imagePath,
		})
	}

	f, err := zw.Create(productsFile)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", productsFile, err)
	}

	cw := csv.NewWriter(f)
	cw.Comma = ';'

	if err := cw.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("writing %s: %w", productsFile, err)
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("closing archive: %w", err)
	}

	return len(products), nil
}

func (s *Service) writeImage(ctx context.Context, zw *zip.Writer, p *catalog.Product) (string, error) {
	if p.ImageID == nil {
		return "", nil
	}

	img, err := s.catalog.Image(ctx, p.ImageID.Hex())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			slog.Warn("product image missing, exporting without it", "product_id", p.ID.Hex(), "image_id", p.ImageID.Hex())
			return "", nil
		}

		return "", fmt.Errorf("getting image for product %s: %w", p.ID.Hex(), err)
	}

	name := imagesDir + "/" + imageFilename(img)

	f, err := zw.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := f.Write(img.Data); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	return name, nil
}

// imageFilename prefixes the stored filename with the image id so names stay
// unique inside the archive.
func imageFilename(img *catalog.Image) string {
	base := sanitize(strings.TrimSuffix(filepath.Base(img.Filename), filepath.Ext(img.Filename)))

	ext := strings.ToLower(filepath.Ext(img.Filename))
	if ext == "" {
		if m := mimetype.Lookup(img.MimeType); m != nil {
			ext = m.Extension()
		}
	}

	if ext == "" {
		ext = mimetype.Detect(img.Data).Extension()
	}

	if base == "" {
		return img.ID.Hex() + ext
	}

	return img.ID.Hex() + "_" + base + ext
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, s)
}

// Export writes notas.csv and catalogo.zip into outputDir.
func (s *Service) Export(ctx context.Context, filter invoice.ListFilter, outputDir string) (*Result, error) {
	res, err := s.ExportInvoices(ctx, filter, outputDir)
	if err != nil {
		return nil, err
	}

	catalogRes, err := s.ExportCatalog(ctx, outputDir)
	if err != nil {
		return nil, err
	}

	res.CatalogPath = catalogRes.CatalogPath
	res.Products = catalogRes.Products

	return res, nil
}

// ExportInvoices writes only notas.csv into outputDir.
func (s *Service) ExportInvoices(ctx context.Context, filter invoice.ListFilter, outputDir string) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &Result{InvoicesPath: filepath.Join(outputDir, InvoicesFile)}

	err := writeFile(res.InvoicesPath, func(w io.Writer) error {
		invoices, err := s.InvoicesCSV(ctx, filter, w)
		res.Invoices = invoices

		return err
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// ExportCatalog writes only catalogo.zip into outputDir.
func (s *Service) ExportCatalog(ctx context.Context, outputDir string) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &Result{CatalogPath: filepath.Join(outputDir, CatalogFile)}

	err := writeFile(res.CatalogPath, func(w io.Writer) error {
		n, err := s.CatalogArchive(ctx, w)
		res.Products = n

		return err
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := fn(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}

	return nil
}

var statusLabels = map[invoice.Status]string{
	invoice.StatusIssued:    "Emitida",
	invoice.StatusCancelled: "Cancelada",
	invoice.StatusPending:   "Pendente",
}

// Invoices returns the invoices an export for filter would contain.
func (s *Service) Invoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	return s.invoices.List(ctx, filter)
}

// GenerateSummary renders one line per invoice, for pasting into an email.
func (s *Service) GenerateSummary(invoices []*invoice.Invoice) string {
	var sb strings.Builder

	for _, inv := range invoices {
		sb.WriteString(fmt.Sprintf("* %s | %s | %s | R$ %s | %s\n",
			inv.IssueDate, inv.Number, inv.ClientName, money.FormatBR(inv.Total), statusLabels[inv.Status]))
	}

	return sb.String()
}
