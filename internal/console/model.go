// Package console is the terminal listing screen for one content kind.
//
// The screen owns no listing state of its own. Every key press is forwarded to
// a listing controller, and the controller's view changes arrive back through a
// Notifier as bubbletea messages.
package console

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rezkam/newsdesk/internal/domain"
)

// Controller is the listing controller as driven by the screen.
type Controller interface {
	SetSearchText(raw string)
	FlushSearch()
	SetCategory(category string)
	SetStatus(status string) error
	ClearFilters()
	NextPage()
	PrevPage()
	Retry() bool
	Refresh()
	Mutate(ctx context.Context, kind domain.MutationKind, fn func(context.Context) error) error
	View() domain.ViewState[domain.Item]
	RawSearch() string
}

// Deleter removes an item of the screen's kind.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusCategory
)

// mutationResultMsg is sent when an asynchronous delete completes.
type mutationResultMsg struct {
	title string
	err   error
}

// Model implements tea.Model for one listing screen.
type Model struct {
	ctx      context.Context
	kind     domain.Kind
	ctrl     Controller
	deleter  Deleter
	notifier *Notifier

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	category textinput.Model

	focus  focus
	view   domain.ViewState[domain.Item]
	cursor int

	pendingDelete *domain.Item
	notice        string
	noticeIsError bool

	width int
}

// NewModel creates the screen. ctx bounds mutations started from it.
// notifier may be nil when view changes are polled by the caller.
func NewModel(ctx context.Context, kind domain.Kind, ctrl Controller, deleter Deleter, notifier *Notifier) Model {
	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "title or summary"

	category := textinput.New()
	category.Prompt = "category: "
	category.Placeholder = "e.g. politics"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		kind:     kind,
		ctrl:     ctrl,
		deleter:  deleter,
		notifier: notifier,
		keys:     DefaultKeyMap,
		help:     help.New(),
		spinner:  spin,
		search:   search,
		category: category,
		view:     ctrl.View(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.notifier.listen(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewChangedMsg:
		m.applyView(msg.view)
		return m, m.notifier.listen()

	case mutationResultMsg:
		if msg.err != nil {
			m.setError(msg.err.Error())
		} else {
			m.setNotice(fmt.Sprintf("deleted %q", msg.title))
		}
		m.applyView(m.ctrl.View())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch m.focus {
		case focusSearch:
			m, cmd = m.updateSearch(msg)
		case focusCategory:
			m, cmd = m.updateCategory(msg)
		default:
			m, cmd = m.updateList(msg)
		}
		m.applyView(m.ctrl.View())
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.pendingDelete != nil {
		item := *m.pendingDelete
		m.pendingDelete = nil
		if key.Matches(msg, m.keys.Confirm) {
			m.setNotice(fmt.Sprintf("deleting %q", item.Title))
			return m, m.deleteItem(item)
		}
		m.setNotice("delete cancelled")
		return m, nil
	}

	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.items())-1, 0))
	case key.Matches(msg, m.keys.NextPage):
		m.ctrl.NextPage()
		m.cursor = 0
	case key.Matches(msg, m.keys.PrevPage):
		m.ctrl.PrevPage()
		m.cursor = 0
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		m.search.SetValue(m.ctrl.RawSearch())
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Category):
		m.focus = focusCategory
		m.category.SetValue(m.view.Inputs.Category)
		return m, m.category.Focus()
	case key.Matches(msg, m.keys.CycleStatus):
		if err := m.ctrl.SetStatus(nextStatus(m.view.Inputs.Status)); err != nil {
			m.setError(err.Error())
		}
		m.cursor = 0
	case key.Matches(msg, m.keys.ClearAll):
		m.ctrl.ClearFilters()
		m.search.SetValue("")
		m.category.SetValue("")
		m.cursor = 0
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.pendingDelete = &item
			m.setNotice(fmt.Sprintf("delete %q? press y to confirm", item.Title))
		}
	case key.Matches(msg, m.keys.Refresh):
		if !m.ctrl.Retry() {
			m.ctrl.Refresh()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.ctrl.FlushSearch()
		m.leaveInput()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.ctrl.RawSearch() {
		m.ctrl.SetSearchText(m.search.Value())
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateCategory(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.ctrl.SetCategory(strings.TrimSpace(m.category.Value()))
		m.cursor = 0
		m.leaveInput()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.category.SetValue(m.view.Inputs.Category)
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.category, cmd = m.category.Update(msg)
	return m, cmd
}

func (m *Model) leaveInput() {
	m.focus = focusList
	m.search.Blur()
	m.category.Blur()
}

func (m Model) deleteItem(item domain.Item) tea.Cmd {
	ctx, ctrl, deleter := m.ctx, m.ctrl, m.deleter
	return func() tea.Msg {
		err := ctrl.Mutate(ctx, domain.MutationDelete, func(ctx context.Context) error {
			return deleter.Delete(ctx, item.ID)
		})
		return mutationResultMsg{title: item.Title, err: err}
	}
}

// applyView ignores views older than the one shown.
func (m *Model) applyView(view domain.ViewState[domain.Item]) {
	if view.Revision < m.view.Revision {
		return
	}
	m.view = view
	m.cursor = min(m.cursor, max(len(m.items())-1, 0))
}

func (m *Model) setNotice(s string) {
	m.notice, m.noticeIsError = s, false
}

func (m *Model) setError(s string) {
	m.notice, m.noticeIsError = s, true
}

func (m Model) items() []domain.Item {
	if m.view.Result == nil {
		return nil
	}
	return m.view.Result.Items
}

func (m Model) selected() (domain.Item, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Item{}, false
	}
	return items[m.cursor], true
}

// nextStatus cycles all → breaking → live → headline → topstory → all.
func nextStatus(current string) string {
	if current == "" || current == domain.StatusAll {
		return string(domain.Statuses[0])
	}
	i := slices.Index(domain.Statuses, domain.ContentStatus(current))
	if i < 0 || i == len(domain.Statuses)-1 {
		return domain.StatusAll
	}
	return string(domain.Statuses[i+1])
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("newsdesk · "+string(m.kind)) + "  " + facetStyle.Render(facetLabel(m.view.Query.Selection))
	if m.view.Busy() {
		header += " " + m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	b.WriteString(m.filtersView() + "\n\n")
	b.WriteString(m.bodyView())
	b.WriteString("\n")
	b.WriteString(m.footerView())

	if m.notice != "" {
		style := noticeStyle
		if m.noticeIsError {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.notice))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) filtersView() string {
	search := m.search.View()
	if m.focus != focusSearch {
		search = "search: " + valueOrDash(m.ctrl.RawSearch())
		if m.ctrl.RawSearch() != m.view.Inputs.SearchText {
			search += dimStyle.Render(" (typing)")
		}
	}
	category := m.category.View()
	if m.focus != focusCategory {
		category = "category: " + valueOrDash(m.view.Inputs.Category)
	}
	status := m.view.Inputs.Status
	if status == "" {
		status = domain.StatusAll
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, search, "   ", category, "   ", "status: "+status)
}

func (m Model) bodyView() string {
	switch m.view.Phase {
	case domain.PhaseIdle:
		return dimStyle.Render("waiting for the first page…") + "\n"
	case domain.PhaseLoading:
		return dimStyle.Render("loading…") + "\n"
	case domain.PhaseError:
		return errorStyle.Render("failed to load: "+errString(m.view.Err)) + "\n" +
			dimStyle.Render("press r to retry") + "\n"
	}

	items := m.items()
	if len(items) == 0 {
		return dimStyle.Render("no items") + "\n"
	}

	titleWidth := 48
	if m.width > 0 {
		titleWidth = max(m.width-48, 16)
	}

	var b strings.Builder
	for i, item := range items {
		status := ""
		if item.Status != nil {
			status = string(*item.Status)
		}
		row := fmt.Sprintf("%-*s  %-14s  %-9s  %s",
			titleWidth, truncate(item.Title, titleWidth),
			truncate(item.Category, 14),
			status,
			item.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+row) + "\n")
			continue
		}
		if style, ok := statusStyles[status]; ok {
			row = strings.Replace(row, status, style.Render(status), 1)
		}
		b.WriteString("  " + row + "\n")
	}
	return b.String()
}

func (m Model) footerView() string {
	if m.view.Result == nil {
		return ""
	}
	footer := dimStyle.Render(fmt.Sprintf("page %d of %d · %d items",
		m.view.Query.Page, m.view.Result.TotalPages, m.view.Result.Total))
	if m.view.Err != nil {
		footer += "  " + errorStyle.Render("refresh failed: "+errString(m.view.Err))
	}
	return footer
}

func facetLabel(sel domain.Selection) string {
	switch sel.ActiveFacet() {
	case domain.FacetSearch:
		return fmt.Sprintf("search %q", sel.Value)
	case domain.FacetCategory:
		return "category " + sel.Value
	case domain.FacetStatus:
		return "status " + sel.Value
	default:
		return "all items"
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("-")
	}
	return s
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
