package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateStatus
	invoicesStateDelete
	invoicesStateFilter
)

type InvoicesModel struct {
	CommonModel
	invoiceService *invoice.Service

	state    invoicesState
	table    table.Model
	invoices []*invoice.Invoice
	stats    *invoice.Stats
	target   *invoice.Invoice
	huhForm  *huh.Form
	fields   *invoiceActionFields

	filterFields *invoiceFilterFields
	draft        *invoiceFilterFields
	filter       invoice.ListFilter

	loading bool
	err     error
	status  string
}

type invoiceActionFields struct {
	status  invoice.Status
	confirm bool
}

func NewInvoicesModel(svc *invoice.Service) InvoicesModel {
	return InvoicesModel{
		invoiceService: svc,
		loading:        true,
		filterFields:   newInvoiceFilterFields(periodAll),
		table: newTable([]table.Column{
			{Title: "Number", Width: 12},
			{Title: "Client", Width: 28},
			{Title: "Issued", Width: 12},
			{Title: "Status", Width: 10},
			{Title: "Total", Width: 16},
			{Title: "Created", Width: 12},
		}),
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state != invoicesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | f: filter | c: change status | x: delete | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.stats = msg.stats
		m.refreshTable()

		return m, nil

	case invoiceActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.leaveForm()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 16)
		return m, nil
	}

	if m.state == invoicesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			return m.enterFilter()
		case "c":
			if inv := m.selected(); inv != nil {
				return m.enterStatus(inv)
			}
		case "x":
			if inv := m.selected(); inv != nil {
				return m.enterDelete(inv)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoicesModel) enterStatus(inv *invoice.Invoice) (tea.Model, tea.Cmd) {
	m.target = inv
	m.fields = &invoiceActionFields{status: inv.Status}

	options := make([]huh.Option[invoice.Status], len(invoice.Statuses))
	for i, s := range invoice.Statuses {
		options[i] = huh.NewOption(string(s), s)
	}

	m.huhForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Status]().
				Title("Status of " + inv.Number).
				Options(options...).
				Value(&m.fields.status),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = invoicesStateStatus
	m.table.Blur()

	return m, m.huhForm.Init()
}

func (m InvoicesModel) enterDelete(inv *invoice.Invoice) (tea.Model, tea.Cmd) {
	m.target = inv
	m.fields = &invoiceActionFields{}

	m.huhForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete invoice %s?", inv.Number)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirm),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = invoicesStateDelete
	m.table.Blur()

	return m, m.huhForm.Init()
}

func (m InvoicesModel) enterFilter() (tea.Model, tea.Cmd) {
	draft := *m.filterFields
	m.draft = &draft
	m.huhForm = huh.NewForm(m.draft.groups(nil)...).WithWidth(40).WithShowHelp(false)

	m.state = invoicesStateFilter
	m.table.Blur()

	return m, m.huhForm.Init()
}

func (m *InvoicesModel) leaveForm() {
	m.state = invoicesStateBrowse
	m.target = nil
	m.huhForm = nil
	m.fields = nil
	m.draft = nil
	m.table.Focus()
}

func (m InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.leaveForm()
		return m, nil
	}

	form, cmd := m.huhForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.huhForm = f
	}

	if m.huhForm.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case invoicesStateFilter:
		draft := m.draft
		m.leaveForm()

		filter, err := draft.Filter(time.Now())
		if err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
			return m, nil
		}

		m.filterFields = draft
		m.filter = filter
		m.loading = true

		return m, m.loadCmd()
	case invoicesStateStatus:
		return m, m.updateStatusCmd(m.target, m.fields.status)
	case invoicesStateDelete:
		if m.fields.confirm {
			return m, m.deleteCmd(m.target)
		}
	}

	m.leaveForm()

	return m, nil
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	header := fmt.Sprintf("Filter: [f] %s", activeStyle(m.filterFields.String()))
	if m.stats != nil {
		header = fmt.Sprintf("%d invoices | %s | issued %d | pending %d | cancelled %d\n%s",
			m.stats.Count, FormatBRL(m.stats.TotalValue),
			m.stats.Issued, m.stats.Pending, m.stats.Cancelled, header)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		bordered(m.table.View()),
		m.detailView(),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.huhForm != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(m.formTitle(), m.huhForm.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m InvoicesModel) formTitle() string {
	if m.target == nil {
		return "Filter"
	}

	return m.target.Number
}

func (m InvoicesModel) detailView() string {
	inv := m.selected()
	if inv == nil {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s <%s> %s\n", inv.ClientName, inv.ClientEmail, inv.ClientTaxID)

	for _, it := range inv.Items {
		fmt.Fprintf(&sb, "  %dx %s @ %s = %s\n", it.Quantity, it.Description, FormatBRL(it.UnitPrice), FormatBRL(it.Total))
	}

	fmt.Fprintf(&sb, "  subtotal %s | tax %s | total %s", FormatBRL(inv.Subtotal), FormatBRL(inv.Tax), FormatBRL(inv.Total))

	return lipgloss.NewStyle().Padding(1, 0).Render(sb.String())
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			inv.ClientName,
			inv.IssueDate,
			string(inv.Status),
			FormatBRL(inv.Total),
			FormatDate(inv.CreatedAt),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	stats    *invoice.Stats
	err      error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, filter)
		if err != nil {
			return loadInvoicesMsg{err: err}
		}

		stats, err := m.invoiceService.Stats(ctx)

		return loadInvoicesMsg{invoices: invoices, stats: stats, err: err}
	}
}

type invoiceActionMsg struct {
	status string
	err    error
}

func (m InvoicesModel) updateStatusCmd(inv *invoice.Invoice, status invoice.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, err := m.invoiceService.UpdateStatus(ctx, inv.ID.Hex(), string(status))
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("%s is now %s", inv.Number, st)}
	}
}

func (m InvoicesModel) deleteCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.invoiceService.Delete(ctx, inv.ID.Hex()); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("Deleted %s", inv.Number)}
	}
}
