package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/estoque/internal/export"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type exportTarget int

const (
	exportEverything exportTarget = iota
	exportInvoicesCSV
	exportCatalogZip
	exportSummaryOnly
)

var exportTargetLabels = map[exportTarget]string{
	exportEverything:  "Invoices CSV and catalog zip",
	exportInvoicesCSV: "Invoices CSV (" + export.InvoicesFile + ")",
	exportCatalogZip:  "Catalog zip (" + export.CatalogFile + ")",
	exportSummaryOnly: "Invoice summary only",
}

func (t exportTarget) usesFilter() bool { return t != exportCatalogZip }
func (t exportTarget) writesFiles() bool { return t != exportSummaryOnly }

const (
	defaultExportDir = "./exports"
	exportTimeout    = 2 * time.Minute
)

type exportFields struct {
	target exportTarget
	dir    string
	filter *invoiceFilterFields
}

type exportState int

const (
	exportStateForm exportState = iota
	exportStateRunning
	exportStateDone
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	fields  *exportFields
	form    *huh.Form
	spinner spinner.Model

	target  exportTarget
	scope   string
	result  *export.Result
	summary string
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := ExportModel{
		exportService: svc,
		fields: &exportFields{
			dir:    defaultExportDir,
			filter: newInvoiceFilterFields(periodThisMonth),
		},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateRunning:
		return "Exporting..."
	case exportStateDone:
		return "Esc: back to menu | n: new export"
	}

	return "Esc: back | Enter: next"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) buildForm() *huh.Form {
	f := m.fields

	targets := make([]huh.Option[exportTarget], 0, len(exportTargetLabels))
	for t := exportEverything; t <= exportSummaryOnly; t++ {
		targets = append(targets, huh.NewOption(exportTargetLabels[t], t))
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[exportTarget]().
				Title("What to export").
				Options(targets...).
				Value(&f.target),
		),
	}

	groups = append(groups, f.filter.groups(func() bool { return !f.target.usesFilter() })...)

	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Output directory").
			Description("Created if it does not exist").
			Placeholder(defaultExportDir).
			Value(&f.dir).
			Validate(required("directory")),
	).WithHideFunc(func() bool { return !f.target.writesFiles() }))

	return huh.NewForm(groups...).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateRunning:
		return m.updateRunning(msg)
	case exportStateDone:
		return m.updateDone(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.target = m.fields.target
	m.scope = ""
	m.result = nil
	m.summary = ""

	var filter invoice.ListFilter

	if m.target.usesFilter() {
		var err error
		if filter, err = m.fields.filter.Filter(time.Now()); err != nil {
			m.state = exportStateDone
			m.err = err

			return m, nil
		}

		m.scope = m.fields.filter.String()
	}

	m.state = exportStateRunning
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.target, filter, strings.TrimSpace(m.fields.dir)))
}

func (m ExportModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(exportDoneMsg); ok {
		m.state = exportStateDone
		m.err = done.err
		m.result = done.res
		m.summary = done.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateDone(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "n":
		m.state = exportStateForm
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	return m, nil
}

func (m ExportModel) View() string {
	var body string

	switch m.state {
	case exportStateForm:
		body = m.form.View()
	case exportStateRunning:
		body = fmt.Sprintf("%s %s...", m.spinner.View(), exportTargetLabels[m.target])
	case exportStateDone:
		body = m.viewDone()
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			body,
			"",
			lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
		),
	)
}

func (m ExportModel) viewDone() string {
	if m.err != nil {
		return errorText(fmt.Sprintf("Error: %v", m.err))
	}

	lines := []string{successText(exportTargetLabels[m.target] + " done")}

	if m.scope != "" {
		lines = append(lines, "Invoices: "+m.scope)
	}

	if files := exportedFiles(m.result); len(files) > 0 {
		lines = append(lines, "", panel("Files", strings.Join(files, "\n")))
	}

	if m.target.usesFilter() {
		summary := m.summary
		if summary == "" {
			summary = "No invoices match."
		}

		lines = append(lines, "", panel("Summary", strings.TrimRight(summary, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// exportedFiles lists what an export wrote, one line per file.
func exportedFiles(res *export.Result) []string {
	if res == nil {
		return nil
	}

	var files []string

	if res.InvoicesPath != "" {
		files = append(files, fmt.Sprintf("%d invoices -> %s", len(res.Invoices), res.InvoicesPath))
	}

	if res.CatalogPath != "" {
		files = append(files, fmt.Sprintf("%d products -> %s", res.Products, res.CatalogPath))
	}

	return files
}

type exportDoneMsg struct {
	res     *export.Result
	summary string
	err     error
}

func (m ExportModel) runCmd(target exportTarget, filter invoice.ListFilter, dir string) tea.Cmd {
	svc := m.exportService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		var (
			res *export.Result
			err error
		)

		switch target {
		case exportInvoicesCSV:
			res, err = svc.ExportInvoices(ctx, filter, dir)
		case exportCatalogZip:
			res, err = svc.ExportCatalog(ctx, dir)
		case exportSummaryOnly:
			var invoices []*invoice.Invoice
			invoices, err = svc.Invoices(ctx, filter)
			res = &export.Result{Invoices: invoices}
		default:
			res, err = svc.Export(ctx, filter, dir)
		}

		if err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{res: res, summary: svc.GenerateSummary(res.Invoices)}
	}
}
