package tui

import (
	"time"

	"github.com/MKhiriev/go-doc-verifier/models"
)

// NavigateTo switches the active page. A non-nil Payload is delivered to
// the new page right after its Init command.
type NavigateTo struct {
	Page    string
	Payload any
}

// LoginResult is produced by the login command.
type LoginResult struct {
	User models.User
	Err  error
}

type documentsLoadedMsg struct {
	docs []models.DocumentSummary
	err  error
}

// viewGrantedMsg carries a fresh grant from the list to the view page.
type viewGrantedMsg struct {
	documentID int64
	grant      models.ViewGrant
	err        error
}

type viewResolvedMsg struct {
	view models.DocumentView
	err  error
}

// tickMsg drives the view countdown. gen ties it to one grant so ticks of
// an earlier grant are dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
