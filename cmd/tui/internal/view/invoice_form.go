package view

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/estoque/internal/importer"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
	"github.com/MrJamesThe3rd/estoque/internal/money"
)

type invoiceFormState int

const (
	invoiceFormStateLoading invoiceFormState = iota
	invoiceFormStateDetails
	invoiceFormStateFilePick
	invoiceFormStateReview
	invoiceFormStateResult
)

const (
	itemsTyped    = "typed"
	itemsFromFile = "file"
)

// typedItemsHeader is prepended to typed items so they go through the same
// parser as imported files.
const typedItemsHeader = "Descrição;Quantidade;Valor unitário\n"

type InvoiceFormModel struct {
	CommonModel
	invoiceService *invoice.Service
	importService  *importer.Service

	state      invoiceFormState
	form       *huh.Form
	filePicker filepicker.Model
	fields     *invoiceFields
	items      []invoice.LineItem

	status string
	err    error
}

type invoiceFields struct {
	number        string
	clientName    string
	clientEmail   string
	clientPhone   string
	clientTaxID   string
	clientAddress string
	issueDate     string
	status        invoice.Status
	itemsSource   string
	itemsText     string
	tax           string
	confirm       bool
}

func NewInvoiceFormModel(invoiceSvc *invoice.Service, importSvc *importer.Service) InvoiceFormModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	return InvoiceFormModel{
		invoiceService: invoiceSvc,
		importService:  importSvc,
		filePicker:     fp,
		fields: &invoiceFields{
			issueDate:   time.Now().Format(time.DateOnly),
			status:      invoice.StatusIssued,
			itemsSource: itemsTyped,
			tax:         "0",
		},
	}
}

func (m InvoiceFormModel) Title() string { return "New Invoice" }

func (m InvoiceFormModel) ShortHelp() string {
	switch m.state {
	case invoiceFormStateFilePick:
		return "Enter: select | Esc: back to form"
	case invoiceFormStateResult:
		return "Esc: back to menu"
	}

	return "Navigate form | Esc: cancel"
}

func (m InvoiceFormModel) Init() tea.Cmd {
	return m.nextNumberCmd()
}

func (m InvoiceFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case nextNumberMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not suggest a number: %v", msg.err)
		} else {
			m.fields.number = msg.number
		}

		m.form = m.buildDetailsForm()
		m.state = invoiceFormStateDetails

		return m, m.form.Init()

	case itemsParsedMsg:
		if msg.err != nil {
			m.state = invoiceFormStateResult
			m.err = msg.err

			return m, nil
		}

		m.items = msg.items
		m.fields.confirm = false
		m.form = m.buildReviewForm()
		m.state = invoiceFormStateReview

		return m, m.form.Init()

	case invoiceCreatedMsg:
		m.state = invoiceFormStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Invoice %s created.", msg.number)
		}

		return m, nil
	}

	switch m.state {
	case invoiceFormStateDetails:
		return m.updateDetails(msg)
	case invoiceFormStateFilePick:
		return m.updateFilePick(msg)
	case invoiceFormStateReview:
		return m.updateReview(msg)
	}

	return m, nil
}

func (m InvoiceFormModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case invoiceFormStateFilePick, invoiceFormStateReview:
		m.form = m.buildDetailsForm()
		m.state = invoiceFormStateDetails

		return m, m.form.Init()
	}

	return m, Back
}

func (m InvoiceFormModel) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.fields.itemsSource == itemsFromFile {
		m.state = invoiceFormStateFilePick
		return m, m.filePicker.Init()
	}

	return m, m.parseTextCmd(m.fields.itemsText)
}

func (m InvoiceFormModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.status = fmt.Sprintf("Importing items from %s...", path)
		return m, m.parseFileCmd(path)
	}

	return m, cmd
}

func (m InvoiceFormModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.fields.confirm {
		m.form = m.buildDetailsForm()
		m.state = invoiceFormStateDetails

		return m, m.form.Init()
	}

	return m, m.createCmd(buildCreateParams(m.fields, m.items))
}

func (m InvoiceFormModel) buildDetailsForm() *huh.Form {
	f := m.fields

	statusOptions := make([]huh.Option[invoice.Status], len(invoice.Statuses))
	for i, s := range invoice.Statuses {
		statusOptions[i] = huh.NewOption(string(s), s)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Invoice number").Value(&f.number).Validate(required("invoice number")),
			huh.NewInput().Title("Client name").Value(&f.clientName).Validate(required("client name")),
			huh.NewInput().Title("Client e-mail").Value(&f.clientEmail).Validate(required("client e-mail")),
			huh.NewInput().Title("Client phone").Value(&f.clientPhone),
			huh.NewInput().Title("CPF/CNPJ").Value(&f.clientTaxID).Validate(required("CPF/CNPJ")),
			huh.NewInput().Title("Address").Value(&f.clientAddress).Validate(required("address")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Issue date").
				Placeholder("YYYY-MM-DD").
				Value(&f.issueDate).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
			huh.NewSelect[invoice.Status]().Title("Status").Options(statusOptions...).Value(&f.status),
			huh.NewInput().Title("Tax").Placeholder("0,00").Value(&f.tax).Validate(validAmount),
			huh.NewSelect[string]().
				Title("Items").
				Options(
					huh.NewOption("Type them", itemsTyped),
					huh.NewOption("Import a CSV file", itemsFromFile),
				).
				Value(&f.itemsSource),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Items").
				Description("One per line: description;quantity;unit price").
				Lines(8).
				Value(&f.itemsText).
				Validate(required("items")),
		).WithHideFunc(func() bool { return f.itemsSource != itemsTyped }),
	).WithWidth(60).WithShowHelp(false)
}

func (m InvoiceFormModel) buildReviewForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save invoice?").
				Affirmative("Save").
				Negative("Edit").
				Value(&m.fields.confirm),
		),
	).WithShowHelp(false)
}

func (m InvoiceFormModel) View() string {
	switch m.state {
	case invoiceFormStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Fetching next invoice number...")

	case invoiceFormStateDetails:
		header := m.Title()
		if m.status != "" {
			header += "\n" + errorText(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.form.View())

	case invoiceFormStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select items file (.csv):\n\n%s", m.filePicker.View()),
		)

	case invoiceFormStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.reviewView() + "\n\n" + m.form.View())

	case invoiceFormStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		return lipgloss.NewStyle().Padding(2).Render(successText(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

func (m InvoiceFormModel) reviewView() string {
	params := buildCreateParams(m.fields, m.items)

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s for %s (%s)\n\n", params.Number, params.ClientName, params.IssueDate)

	for _, it := range m.items {
		fmt.Fprintf(&sb, "  %dx %s @ %s = %s\n", it.Quantity, it.Description, FormatBRL(it.UnitPrice), FormatBRL(it.Total))
	}

	subtotal, _ := strconv.ParseFloat(params.Subtotal, 64)
	tax, _ := strconv.ParseFloat(params.Tax, 64)
	total, _ := strconv.ParseFloat(params.Total, 64)

	fmt.Fprintf(&sb, "\nSubtotal: %s\nTax:      %s\nTotal:    %s", FormatBRL(subtotal), FormatBRL(tax), activeStyle(FormatBRL(total)))

	return panel("Review", sb.String())
}

// buildCreateParams derives the amounts from the items: subtotal is their sum
// and total adds the tax.
func buildCreateParams(f *invoiceFields, items []invoice.LineItem) invoice.CreateParams {
	params := invoice.CreateParams{
		Number:        strings.TrimSpace(f.number),
		ClientName:    f.clientName,
		ClientEmail:   f.clientEmail,
		ClientPhone:   f.clientPhone,
		ClientTaxID:   f.clientTaxID,
		ClientAddress: f.clientAddress,
		IssueDate:     f.issueDate,
		Status:        string(f.status),
		Items:         make([]invoice.ItemParams, len(items)),
	}

	subtotal := decimal.Zero

	for i, it := range items {
		total := decimal.NewFromFloat(it.Total)
		subtotal = subtotal.Add(total)

		params.Items[i] = invoice.ItemParams{
			Description: it.Description,
			Quantity:    strconv.Itoa(it.Quantity),
			UnitPrice:   decimal.NewFromFloat(it.UnitPrice).String(),
			Total:       total.String(),
		}
	}

	tax, err := money.ParseBR(f.tax)
	if err != nil {
		tax = decimal.Zero
	}

	params.Subtotal = subtotal.StringFixed(2)
	params.Tax = tax.StringFixed(2)
	params.Total = subtotal.Add(tax).StringFixed(2)

	return params
}

// Messages

type nextNumberMsg struct {
	number string
	err    error
}

func (m InvoiceFormModel) nextNumberCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		next, err := m.invoiceService.NextNumber(ctx)
		if err != nil {
			return nextNumberMsg{err: err}
		}

		return nextNumberMsg{number: next.InvoiceNumber}
	}
}

type itemsParsedMsg struct {
	items []invoice.LineItem
	err   error
}

func (m InvoiceFormModel) parseTextCmd(text string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.importService.Import(importer.FormatCSV, strings.NewReader(typedItemsHeader+text))
		return itemsParsedMsg{items: items, err: err}
	}
}

func (m InvoiceFormModel) parseFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return itemsParsedMsg{err: err}
		}
		defer f.Close()

		items, err := m.importService.Import(importer.FormatOf(path), f)

		return itemsParsedMsg{items: items, err: err}
	}
}

type invoiceCreatedMsg struct {
	number string
	err    error
}

func (m InvoiceFormModel) createCmd(params invoice.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoiceService.Create(ctx, params)
		if err != nil {
			return invoiceCreatedMsg{err: err}
		}

		return invoiceCreatedMsg{number: inv.Number}
	}
}
