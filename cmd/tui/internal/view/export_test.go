package view

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/export"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type exportMocks struct {
	invoices *invoice.MockRepository
	products *catalog.MockProductRepository
}

func newExportModel(t *testing.T) (ExportModel, exportMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mocks := exportMocks{
		invoices: invoice.NewMockRepository(ctrl),
		products: catalog.NewMockProductRepository(ctrl),
	}

	svc := export.NewService(
		invoice.NewService(mocks.invoices),
		catalog.NewService(mocks.products, catalog.NewMockImageRepository(ctrl)),
	)

	return NewExportModel(svc), mocks
}

func TestExportModel_RunCmd(t *testing.T) {
	sample := []*invoice.Invoice{{
		Number:     "NF-000007",
		ClientName: "Maria",
		Total:      10,
		IssueDate:  "2024-05-02",
		Status:     invoice.StatusIssued,
		CreatedAt:  time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
	}}

	tests := []struct {
		name      string
		target    exportTarget
		setupMock func(m exportMocks)
		check     func(t *testing.T, dir string, msg exportDoneMsg)
	}{
		{
			name:   "SummaryOnlyWritesNothing",
			target: exportSummaryOnly,
			setupMock: func(m exportMocks) {
				m.invoices.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).Return(sample, nil)
			},
			check: func(t *testing.T, dir string, msg exportDoneMsg) {
				assert.Contains(t, msg.summary, "NF-000007 | Maria")
				assert.Empty(t, exportedFiles(msg.res))

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Empty(t, entries)
			},
		},
		{
			name:   "InvoicesOnly",
			target: exportInvoicesCSV,
			setupMock: func(m exportMocks) {
				m.invoices.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).Return(sample, nil)
			},
			check: func(t *testing.T, dir string, msg exportDoneMsg) {
				assert.Equal(t, []string{"1 invoices -> " + filepath.Join(dir, export.InvoicesFile)}, exportedFiles(msg.res))
			},
		},
		{
			name:   "CatalogOnly",
			target: exportCatalogZip,
			setupMock: func(m exportMocks) {
				m.products.EXPECT().
					ListProducts(gomock.Any()).
					Return([]*catalog.Product{{ID: primitive.NewObjectID(), Name: "Caneca"}}, nil)
			},
			check: func(t *testing.T, dir string, msg exportDoneMsg) {
				assert.Equal(t, []string{"1 products -> " + filepath.Join(dir, export.CatalogFile)}, exportedFiles(msg.res))
				assert.Empty(t, msg.summary)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mocks := newExportModel(t)
			tt.setupMock(mocks)

			dir := t.TempDir()

			msg, ok := m.runCmd(tt.target, invoice.ListFilter{}, dir)().(exportDoneMsg)
			require.True(t, ok)
			require.NoError(t, msg.err)

			tt.check(t, dir, msg)
		})
	}
}

func TestExportedFiles(t *testing.T) {
	assert.Nil(t, exportedFiles(nil))

	res := &export.Result{
		Invoices:     make([]*invoice.Invoice, 3),
		InvoicesPath: "out/notas.csv",
		CatalogPath:  "out/catalogo.zip",
		Products:     2,
	}

	assert.Equal(t, []string{
		"3 invoices -> out/notas.csv",
		"2 products -> out/catalogo.zip",
	}, exportedFiles(res))
}

func TestExportTarget(t *testing.T) {
	assert.False(t, exportCatalogZip.usesFilter())
	assert.True(t, exportSummaryOnly.usesFilter())
	assert.False(t, exportSummaryOnly.writesFiles())
	assert.True(t, exportEverything.writesFiles())
}
