package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/estoque/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/estoque/internal/catalog/store"
	"github.com/MrJamesThe3rd/estoque/internal/config"
	"github.com/MrJamesThe3rd/estoque/internal/database"
	"github.com/MrJamesThe3rd/estoque/internal/export"
	"github.com/MrJamesThe3rd/estoque/internal/importer"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/estoque/internal/invoice/store"
	"github.com/MrJamesThe3rd/estoque/internal/logging"
)

type model struct {
	appName        string
	catalogService *catalog.Service
	invoiceService *invoice.Service
	importService  *importer.Service
	exportService  *export.Service

	currentView View

	productsView    view.ProductsModel
	invoicesView    view.InvoicesModel
	invoiceFormView view.InvoiceFormModel
	exportView      view.ExportModel
}

type View int

const (
	ViewMenu        View = 0
	ViewProducts    View = 1
	ViewInvoices    View = 2
	ViewInvoiceForm View = 3
	ViewExport      View = 4
)

func initialModel(cfg *config.Config, db *database.DB) model {
	catalogRepo := catalogStore.New(db)

	catalogSvc := catalog.NewService(catalogRepo, catalogRepo)
	invoiceSvc := invoice.NewService(invoiceStore.New(db))
	impSvc := importer.NewService()
	expSvc := export.NewService(invoiceSvc, catalogSvc)

	return model{
		appName:         cfg.App.Name,
		catalogService:  catalogSvc,
		invoiceService:  invoiceSvc,
		importService:   impSvc,
		exportService:   expSvc,
		currentView:     ViewMenu,
		productsView:    view.NewProductsModel(catalogSvc),
		invoicesView:    view.NewInvoicesModel(invoiceSvc),
		invoiceFormView: view.NewInvoiceFormModel(invoiceSvc, impSvc),
		exportView:      view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.catalogService)

				return m, m.productsView.Init()
			case "2":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService)

				return m, m.invoicesView.Init()
			case "3":
				m.currentView = ViewInvoiceForm
				m.invoiceFormView = view.NewInvoiceFormModel(m.invoiceService, m.importService)

				return m, m.invoiceFormView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewInvoiceForm:
		var newModel tea.Model
		newModel, cmd = m.invoiceFormView.Update(msg)
		m.invoiceFormView = newModel.(view.InvoiceFormModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Products\n" +
				"2. Invoices\n" +
				"3. New Invoice\n" +
				"4. Export\n\n" +
				"q. Quit",
		)
	case ViewProducts:
		return m.productsView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewInvoiceForm:
		return m.invoiceFormView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; only warnings and errors reach stderr.
	logging.Setup("warn", cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)

	db, err := database.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, database.Collections{
		Products: cfg.Mongo.ProductsCollection,
		Invoices: cfg.Mongo.InvoicesCollection,
		Images:   cfg.Mongo.ImagesCollection,
	})

	cancel()

	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(cfg, db), tea.WithAltScreen())

	_, runErr := p.Run()

	if err := db.Close(context.Background()); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
