// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-doc-verifier/internal/adapter"
	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// ViewModel shows a decrypted document number for the lifetime of one view
// grant. When the grant expires the number is wiped from the screen and,
// if it was copied, from the clipboard.
type ViewModel struct {
	ctx    context.Context
	server adapter.ServerAdapter
	now    func() time.Time
	logger *logger.Logger

	documentID int64
	grant      models.ViewGrant
	gen        int
	deadline   time.Time

	view       *models.DocumentView
	locked     bool
	copied     bool
	requesting bool
	status     string
	errMsg     string
}

func NewViewModel(ctx context.Context, server adapter.ServerAdapter, log *logger.Logger) *ViewModel {
	return &ViewModel{ctx: ctx, server: server, now: time.Now, logger: log, locked: true}
}

func (m *ViewModel) Init() tea.Cmd {
	return nil
}

func (m *ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewGrantedMsg:
		m.requesting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		return m, m.start(msg)
	case viewResolvedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, adapter.ErrViewExpired) {
				m.lock()
			}
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		if m.locked {
			return m, nil
		}
		view := msg.view
		m.view = &view
		return m, nil
	case tickMsg:
		if msg.gen != m.gen || m.locked {
			return m, nil
		}
		if !msg.at.Before(m.deadline) {
			m.lock()
			m.status = "View expired, the number is hidden again"
			return m, nil
		}
		return m, m.tick()
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Clipboard unavailable: " + msg.err.Error()
			return m, nil
		}
		// The copy finished after the view was locked.
		if m.locked {
			m.wipeClipboard()
			return m, nil
		}
		m.copied = true
		m.status = "Number copied, it is cleared when the view expires"
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *ViewModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.lock()
		m.status = ""
		m.errMsg = ""
		return m, func() tea.Msg { return NavigateTo{Page: pageList} }
	case key.Matches(msg, keys.copy):
		if m.locked || m.view == nil {
			return m, nil
		}
		number := m.view.DocumentNumber
		return m, func() tea.Msg { return copiedMsg{err: copyToClipboard(number)} }
	case key.Matches(msg, keys.enter):
		if !m.locked || m.requesting || m.documentID == 0 {
			return m, nil
		}
		m.requesting = true
		m.errMsg = ""
		return m, m.cmdRequestView(m.documentID)
	}
	return m, nil
}

// start opens a new grant. The countdown begins before the number is
// resolved so the screen never outlives the token.
func (m *ViewModel) start(msg viewGrantedMsg) tea.Cmd {
	m.gen++
	m.documentID = msg.documentID
	m.grant = msg.grant
	m.deadline = m.now().Add(time.Duration(msg.grant.ExpiresIn) * time.Second)
	m.view = nil
	m.locked = false
	m.copied = false
	m.status = ""
	m.errMsg = ""

	return tea.Batch(m.cmdResolve(msg.grant.Token), m.tick())
}

func (m *ViewModel) lock() {
	if m.copied {
		m.wipeClipboard()
	}
	m.locked = true
	m.copied = false
	m.view = nil
	m.grant.Token = ""
}

func (m *ViewModel) wipeClipboard() {
	if err := copyToClipboard(""); err != nil {
		m.logger.Err(err).Str("func", "*ViewModel.wipeClipboard").Msg("failed to clear clipboard")
		m.errMsg = "Clipboard could not be cleared: " + err.Error()
	}
}

func (m *ViewModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m *ViewModel) remaining() time.Duration {
	left := m.deadline.Sub(m.now())
	if left < 0 {
		return 0
	}
	return left.Round(time.Second)
}

func (m *ViewModel) View() string {
	var b strings.Builder

	switch {
	case m.locked:
		b.WriteString("Number    │ ")
		b.WriteString(crypto.MaskPlaceholder)
		b.WriteString("\n")
	case m.view == nil:
		b.WriteString("Opening view...\n")
	default:
		fmt.Fprintf(&b, "Type      │ %s\n", orDash(m.view.DocumentType))
		fmt.Fprintf(&b, "Number    │ %s\n", secretStyle.Render(m.view.DocumentNumber))
		fmt.Fprintf(&b, "Name      │ %s\n", orDash(m.view.Name))
		fmt.Fprintf(&b, "Born      │ %s\n", orDash(m.view.DateOfBirth))
		fmt.Fprintf(&b, "Status    │ %s\n", m.view.VerificationStatus)
		fmt.Fprintf(&b, "Views     │ %d, remaining %s\n", m.view.ViewCount, m.view.ViewsRemaining)
	}

	if !m.locked {
		fmt.Fprintf(&b, "\nHidden in %s\n", m.remaining())
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	hotKeys := "c: copy │ esc: back"
	if m.locked {
		hotKeys = "enter: request again │ esc: back"
	}
	return renderPage("DOCUMENT VIEW", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *ViewModel) cmdResolve(token string) tea.Cmd {
	ctx := m.ctx
	server := m.server
	return func() tea.Msg {
		view, err := server.ResolveView(ctx, token)
		return viewResolvedMsg{view: view, err: err}
	}
}

func (m *ViewModel) cmdRequestView(documentID int64) tea.Cmd {
	ctx := m.ctx
	server := m.server
	return func() tea.Msg {
		grant, err := server.RequestView(ctx, documentID)
		return viewGrantedMsg{documentID: documentID, grant: grant, err: err}
	}
}
