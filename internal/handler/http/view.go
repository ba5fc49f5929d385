// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// viewTokenParam is the query parameter carrying a view grant.
const viewTokenParam = "viewToken"

// requestView issues a 30 second view grant. For standard users the grant
// is paid from the document's view quota at this point.
func (h *Handler) requestView(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.requestView", err)
		return
	}

	documentID, err := documentIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.requestView", err)
		return
	}

	grant, err := h.services.ViewService.RequestView(r.Context(), documentID, requester)
	if err != nil {
		writeError(w, r, "*Handler.requestView", err)
		return
	}

	utils.WriteJSON(w, models.ViewGrantResponse{Success: true, ViewGrant: grant}, http.StatusOK)
}

// resolveView returns the decrypted document for a live grant. The
// response must not be cached anywhere on the way.
func (h *Handler) resolveView(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.resolveView", err)
		return
	}

	view, err := h.services.ViewService.ResolveView(r.Context(), r.URL.Query().Get(viewTokenParam), requester)
	if err != nil {
		writeError(w, r, "*Handler.resolveView", err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, models.DocumentViewResponse{
		Success:        true,
		Document:       view,
		ViewsRemaining: view.ViewsRemaining,
	}, http.StatusOK)
}
