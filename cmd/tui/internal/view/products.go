package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/money"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateForm
	productsStateDelete
)

type ProductsModel struct {
	CommonModel
	catalogService *catalog.Service

	state    productsState
	table    table.Model
	products []*catalog.Product
	form     *huh.Form
	editing  *catalog.Product

	loading bool
	err     error
	status  string

	// Form bindings live behind a pointer so copies of the model share them.
	fields *productFields
}

type productFields struct {
	name      string
	desc      string
	category  string
	price     string
	imagePath string
	confirm   bool
}

func NewProductsModel(svc *catalog.Service) ProductsModel {
	return ProductsModel{
		catalogService: svc,
		loading:        true,
		table: newTable([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Category", Width: 16},
			{Title: "Price", Width: 14},
			{Title: "Image", Width: 6},
			{Title: "Description", Width: 40},
		}),
	}
}

func (m ProductsModel) Title() string { return "Products" }

func (m ProductsModel) ShortHelp() string {
	if m.state != productsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | x: delete | r: refresh"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.products = msg.products
		m.refreshTable()

		return m, nil

	case productSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.leaveForm()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case productsStateBrowse:
		return m.updateBrowse(msg)
	case productsStateForm, productsStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterForm(nil)
		case "e":
			if p := m.selected(); p != nil {
				return m.enterForm(p)
			}
		case "x":
			if p := m.selected(); p != nil {
				return m.enterDelete(p)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) selected() *catalog.Product {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}

	return m.products[idx]
}

func (m ProductsModel) enterForm(p *catalog.Product) (tea.Model, tea.Cmd) {
	m.editing = p
	f := &productFields{}
	m.fields = f

	imageHint := "Path to a PNG/JPEG file"
	if p != nil {
		f.name = p.Name
		f.desc = p.Description
		f.category = p.Category
		f.price = money.FormatBR(p.Price)
		imageHint = "Leave empty to keep the current image"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(required("name")),
			huh.NewInput().Title("Description").Value(&f.desc).Validate(required("description")),
			huh.NewInput().Title("Category").Value(&f.category).Validate(required("category")),
			huh.NewInput().Title("Price").Placeholder("29,90").Value(&f.price).Validate(validAmount),
			huh.NewInput().
				Title("Image").
				Description(imageHint).
				Value(&f.imagePath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						if p == nil {
							return errors.New("an image is required")
						}

						return nil
					}

					_, err := os.Stat(strings.TrimSpace(s))

					return err
				}),
		),
	).WithWidth(48).WithShowHelp(false)

	m.state = productsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) enterDelete(p *catalog.Product) (tea.Model, tea.Cmd) {
	m.editing = p
	m.fields = &productFields{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q and its image?", p.Name)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirm),
		),
	).WithWidth(48).WithShowHelp(false)

	m.state = productsStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m *ProductsModel) leaveForm() {
	m.state = productsStateBrowse
	m.form = nil
	m.editing = nil
	m.fields = nil
	m.table.Focus()
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.leaveForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == productsStateDelete {
		if !m.fields.confirm {
			m.leaveForm()
			return m, nil
		}

		return m, m.deleteCmd(m.editing)
	}

	return m, m.saveCmd()
}

func (m ProductsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	header := fmt.Sprintf("%s: %s", m.Title(), activeStyle(fmt.Sprintf("%d", len(m.products))))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		bordered(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.form != nil {
		title := "New Product"

		switch {
		case m.state == productsStateDelete:
			title = "Delete Product"
		case m.editing != nil:
			title = "Edit Product"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title, m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProductsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		hasImage := "no"
		if p.ImageID != nil {
			hasImage = "yes"
		}

		rows = append(rows, table.Row{
			p.Name,
			p.Category,
			FormatBRL(p.Price),
			hasImage,
			p.Description,
		})
	}

	m.table.SetRows(rows)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func validAmount(s string) error {
	d, err := money.ParseBR(s)
	if err != nil {
		return errors.New("not a valid amount")
	}

	if d.IsNegative() {
		return errors.New("amount cannot be negative")
	}

	return nil
}

// amountText converts a Brazilian-formatted amount to the dot-decimal form
// the services accept.
func amountText(s string) string {
	d, err := money.ParseBR(s)
	if err != nil {
		return s
	}

	return d.String()
}

func readUpload(path string) (*catalog.Upload, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	return &catalog.Upload{Filename: filepath.Base(path), Data: data}, nil
}

// Messages

type loadProductsMsg struct {
	products []*catalog.Product
	err      error
}

func (m ProductsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.catalogService.List(ctx)

		return loadProductsMsg{products: products, err: err}
	}
}

type productSavedMsg struct {
	status string
	err    error
}

func (m ProductsModel) saveCmd() tea.Cmd {
	editing := m.editing
	f := m.fields
	name, desc, category := f.name, f.desc, f.category
	price := amountText(f.price)
	imagePath := f.imagePath

	return func() tea.Msg {
		upload, err := readUpload(imagePath)
		if err != nil {
			return productSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			p, err := m.catalogService.Create(ctx, catalog.CreateParams{
				Name:        name,
				Description: desc,
				Category:    category,
				Price:       price,
				Image:       upload,
			})
			if err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: fmt.Sprintf("Created %s", p.Name)}
		}

		p, err := m.catalogService.Update(ctx, editing.ID.Hex(), catalog.UpdateParams{
			Name:        name,
			Description: desc,
			Category:    category,
			Price:       price,
			Image:       upload,
		})
		if err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: fmt.Sprintf("Updated %s", p.Name)}
	}
}

func (m ProductsModel) deleteCmd(p *catalog.Product) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.catalogService.Delete(ctx, p.ID.Hex()); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: fmt.Sprintf("Deleted %s", p.Name)}
	}
}
