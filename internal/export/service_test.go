package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type fixture struct {
	svc      *Service
	invoices *invoice.MockRepository
	products *catalog.MockProductRepository
	images   *catalog.MockImageRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		invoices: invoice.NewMockRepository(ctrl),
		products: catalog.NewMockProductRepository(ctrl),
		images:   catalog.NewMockImageRepository(ctrl),
	}
	f.svc = NewService(invoice.NewService(f.invoices), catalog.NewService(f.products, f.images))

	return f
}

func sampleInvoices() []*invoice.Invoice {
	created := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

	return []*invoice.Invoice{
		{
			Number:      "NF-000002",
			ClientName:  "Maria; Silva",
			ClientEmail: "maria@example.com",
			ClientTaxID: "123.456.789-00",
			Items:       []invoice.LineItem{{Description: "Caneca", Quantity: 2, UnitPrice: 10, Total: 20}},
			Subtotal:    1234.5,
			Tax:         0,
			Total:       1234.5,
			IssueDate:   "2024-05-01",
			Status:      invoice.StatusIssued,
			CreatedAt:   created,
		},
		{
			Number:     "NF-000001",
			ClientName: "João",
			Total:      12.5,
			IssueDate:  "2024-04-30",
			Status:     invoice.StatusCancelled,
			CreatedAt:  created.Add(-24 * time.Hour),
		},
	}
}

func TestService_InvoicesCSV(t *testing.T) {
	f := newFixture(t)

	status := invoice.StatusIssued
	filter := invoice.ListFilter{Status: &status}

	f.invoices.EXPECT().ListInvoices(gomock.Any(), filter).Return(sampleInvoices(), nil)

	var buf bytes.Buffer

	got, err := f.svc.InvoicesCSV(context.Background(), filter, &buf)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	r := csv.NewReader(&buf)
	r.Comma = ';'

	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Número", rows[0][0])
	assert.Equal(t, "Maria; Silva", rows[1][1])
	assert.Equal(t, "issued", rows[1][7])
	assert.Equal(t, "1", rows[1][8])
	assert.Equal(t, "1234,50", rows[1][11])
	assert.Equal(t, "2024-05-01 14:30:00", rows[1][12])
	assert.Equal(t, "12,50", rows[2][11])
}

func TestService_CatalogArchive(t *testing.T) {
	f := newFixture(t)

	withImage := primitive.NewObjectID()
	missingImage := primitive.NewObjectID()

	products := []*catalog.Product{
		{ID: primitive.NewObjectID(), Name: "Caneca", Price: 29.9, ImageID: &withImage},
		{ID: primitive.NewObjectID(), Name: "Prato", Price: 15, ImageID: &missingImage},
		{ID: primitive.NewObjectID(), Name: "Sem imagem", Price: 1},
	}

	f.products.EXPECT().ListProducts(gomock.Any()).Return(products, nil)
	f.images.EXPECT().
		GetImage(gomock.Any(), withImage).
		Return(&catalog.Image{ID: withImage, Filename: "minha caneca.PNG", MimeType: "image/png", Data: []byte("png-bytes")}, nil)
	f.images.EXPECT().GetImage(gomock.Any(), missingImage).Return(nil, apperr.ErrNotFound)

	var buf bytes.Buffer

	n, err := f.svc.CatalogArchive(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := map[string]string{}

	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		files[zf.Name] = string(data)
	}

	imageName := "imagens/" + withImage.Hex() + "_minha_caneca.png"
	assert.Equal(t, "png-bytes", files[imageName])

	r := csv.NewReader(strings.NewReader(files["produtos.csv"]))
	r.Comma = ';'

	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "29,90", rows[1][4])
	assert.Equal(t, imageName, rows[1][5])
	assert.Empty(t, rows[2][5])
	assert.Empty(t, rows[3][5])
}

func TestService_Export(t *testing.T) {
	f := newFixture(t)

	f.invoices.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).Return(sampleInvoices(), nil)
	f.products.EXPECT().ListProducts(gomock.Any()).Return([]*catalog.Product{}, nil)

	dir := filepath.Join(t.TempDir(), "out")

	res, err := f.svc.Export(context.Background(), invoice.ListFilter{}, dir)
	require.NoError(t, err)

	assert.Len(t, res.Invoices, 2)
	assert.Equal(t, 0, res.Products)

	_, err = os.Stat(res.InvoicesPath)
	require.NoError(t, err)

	_, err = os.Stat(res.CatalogPath)
	require.NoError(t, err)
}

func TestService_ExportInvoicesOnly(t *testing.T) {
	f := newFixture(t)

	f.invoices.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).Return(sampleInvoices(), nil)

	dir := t.TempDir()

	res, err := f.svc.ExportInvoices(context.Background(), invoice.ListFilter{}, dir)
	require.NoError(t, err)

	assert.Len(t, res.Invoices, 2)
	assert.Empty(t, res.CatalogPath)

	_, err = os.Stat(filepath.Join(dir, CatalogFile))
	assert.True(t, os.IsNotExist(err))
}

func TestService_ExportCatalogOnly(t *testing.T) {
	f := newFixture(t)

	f.products.EXPECT().ListProducts(gomock.Any()).Return([]*catalog.Product{{ID: primitive.NewObjectID(), Name: "Caneca"}}, nil)

	dir := t.TempDir()

	res, err := f.svc.ExportCatalog(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Products)
	assert.Empty(t, res.InvoicesPath)
	assert.Nil(t, res.Invoices)

	_, err = os.Stat(filepath.Join(dir, InvoicesFile))
	assert.True(t, os.IsNotExist(err))
}

func TestService_GenerateSummary(t *testing.T) {
	s := &Service{}

	body := s.GenerateSummary(sampleInvoices())

	expected := []string{
		"* 2024-05-01 | NF-000002 | Maria; Silva | R$ 1234,50 | Emitida",
		"* 2024-04-30 | NF-000001 | João | R$ 12,50 | Cancelada",
	}

	for _, line := range expected {
		assert.Contains(t, body, line)
	}
}
