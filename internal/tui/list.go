package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-doc-verifier/internal/adapter"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// ListModel shows the caller's documents with masked numbers. Enter asks
// the server for a view grant and hands it to the view page.
type ListModel struct {
	ctx    context.Context
	server adapter.ServerAdapter

	docs       []models.DocumentSummary
	idx        int
	loading    bool
	requesting bool
	spinner    spinner.Model
	errMsg     string
}

func NewListModel(ctx context.Context, server adapter.ServerAdapter) *ListModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return &ListModel{ctx: ctx, server: server, spinner: s}
}

func (m *ListModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.cmdLoad())
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.docs = msg.docs
		m.idx = min(m.idx, max(len(m.docs)-1, 0))
		return m, nil
	case viewGrantedMsg:
		m.requesting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m, func() tea.Msg { return NavigateTo{Page: pageView, Payload: msg} }
	case spinner.TickMsg:
		if !m.loading && !m.requesting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *ListModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.docs)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.refresh):
		return m, m.Init()
	case key.Matches(msg, keys.logout):
		m.server.SetToken("")
		m.docs = nil
		m.idx = 0
		m.errMsg = ""
		return m, func() tea.Msg { return NavigateTo{Page: pageLogin} }
	case key.Matches(msg, keys.enter):
		doc, ok := m.current()
		if !ok || m.requesting {
			return m, nil
		}
		m.requesting = true
		return m, tea.Batch(m.spinner.Tick, m.cmdRequestView(doc.ID))
	}
	return m, nil
}

func (m *ListModel) current() (models.DocumentSummary, bool) {
	if len(m.docs) == 0 || m.idx < 0 || m.idx >= len(m.docs) {
		return models.DocumentSummary{}, false
	}
	return m.docs[m.idx], true
}

func (m *ListModel) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading...\n")
	case len(m.docs) == 0:
		b.WriteString("No documents\n")
	default:
		b.WriteString("  Type       │ Number               │ Name                 │ Status   │ Views\n")
		for i, doc := range m.docs {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			b.WriteString(fmt.Sprintf("%s%-10s │ %-20s │ %-20s │ %-8s │ %d\n",
				cursor,
				fitText(orDash(doc.DocumentType), 10),
				fitText(orDash(doc.DocumentNumber), 20),
				fitText(orDash(doc.Name), 20),
				doc.VerificationStatus,
				doc.ViewCount,
			))
		}
	}

	if m.requesting {
		b.WriteString("\n" + m.spinner.View() + " Requesting view...\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("DOCUMENTS", strings.TrimRight(b.String(), "\n"),
		"enter: view number │ r: refresh │ l: sign out │ v: about │ q: quit")
}

func (m *ListModel) cmdLoad() tea.Cmd {
	ctx := m.ctx
	server := m.server
	return func() tea.Msg {
		docs, err := server.ListDocuments(ctx)
		return documentsLoadedMsg{docs: docs, err: err}
	}
}

func (m *ListModel) cmdRequestView(documentID int64) tea.Cmd {
	ctx := m.ctx
	server := m.server
	return func() tea.Msg {
		grant, err := server.RequestView(ctx, documentID)
		return viewGrantedMsg{documentID: documentID, grant: grant, err: err}
	}
}
