// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal client: sign in, list documents and open a
// time-limited view of a document number.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-doc-verifier/internal/adapter"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

var ErrUserQuit = errors.New("user quit the program")

type TUI struct {
	server    adapter.ServerAdapter
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(server adapter.ServerAdapter, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if server == nil {
		return nil, errors.New("tui: server adapter is required")
	}
	return &TUI{server: server, buildInfo: buildInfo, logger: logger}, nil
}

// Run blocks until the user quits. Signing out returns to the login page
// without leaving the program.
func (t *TUI) Run(ctx context.Context) error {
	root := NewRootModel(t.pages(ctx), pageLogin, t.buildInfo)

	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		t.logger.Err(err).Str("func", "*TUI.Run").Msg("program stopped with error")
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}

func (t *TUI) pages(ctx context.Context) map[string]tea.Model {
	return map[string]tea.Model{
		pageLogin: NewLoginModel(ctx, t.server),
		pageList:  NewListModel(ctx, t.server),
		pageView:  NewViewModel(ctx, t.server, t.logger),
	}
}
