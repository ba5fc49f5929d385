// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verifier/internal/service"
	"github.com/MKhiriev/go-doc-verifier/models"
)

func TestRequestView(t *testing.T) {
	router, fakes := newTestRouter(t)

	var gotID int64
	fakes.views.requestFn = func(_ context.Context, documentID int64, requester models.Requester) (models.ViewGrant, error) {
		gotID = documentID
		switch {
		case documentID == 404:
			return models.ViewGrant{}, service.ErrDocumentNotFound
		case documentID == 403:
			return models.ViewGrant{}, service.ErrViewQuotaExceeded
		case requester.IsAdmin:
			return models.ViewGrant{Token: "grant", ExpiresIn: 30, ViewsRemaining: models.Unlimited()}, nil
		}
		return models.ViewGrant{Token: "grant", ExpiresIn: 30, ViewsRemaining: models.Remaining(2)}, nil
	}

	rec := do(t, router, http.MethodPost, "/api/documents/12/view", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), gotID)
	assert.JSONEq(t, `{"success":true,"viewToken":"grant","expiresIn":30,"viewsRemaining":2}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/docs/12/view", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"viewToken":"grant","expiresIn":30,"viewsRemaining":"unlimited"}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/documents/403/view", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, codeQuotaExceeded, decodeError(t, rec).Error)

	rec = do(t, router, http.MethodPost, "/api/documents/404/view", userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeNotFound, decodeError(t, rec).Error)

	rec = do(t, router, http.MethodPost, "/api/documents/12/view", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResolveView(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "live grant", query: "?viewToken=live", wantStatus: http.StatusOK},
		{name: "no token", query: "", err: service.ErrViewTokenMissing, wantStatus: http.StatusBadRequest, wantCode: codeTokenMissing},
		{name: "expired", query: "?viewToken=old", err: service.ErrViewTokenExpired, wantStatus: http.StatusUnauthorized, wantCode: codeTokenExpired},
		{name: "tampered", query: "?viewToken=bad", err: fmt.Errorf("%w: signature", service.ErrViewTokenInvalid), wantStatus: http.StatusUnauthorized, wantCode: codeTokenInvalid},
		{name: "document gone", query: "?viewToken=gone", err: service.ErrDocumentNotFound, wantStatus: http.StatusNotFound, wantCode: codeNotFound},
		{name: "decryption blocked", query: "?viewToken=sealed", err: service.ErrDocumentDecryption, wantStatus: http.StatusInternalServerError, wantCode: codeDecryptionBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, fakes := newTestRouter(t)

			var gotToken string
			fakes.views.resolveFn = func(_ context.Context, token string, requester models.Requester) (models.DocumentView, error) {
				gotToken = token
				if tt.err != nil {
					return models.DocumentView{}, tt.err
				}
				return models.DocumentView{
					ID:             12,
					DocumentNumber: "123456789012",
					ViewCount:      1,
					ViewsRemaining: models.Remaining(2),
				}, nil
			}

			rec := do(t, router, http.MethodGet, "/api/documents/view"+tt.query, userToken, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode != "" {
				body := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, body.Error)
				assert.NotContains(t, rec.Body.String(), "123456789012")
				return
			}

			assert.Equal(t, "live", gotToken)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			var body models.DocumentViewResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Success)
			assert.Equal(t, "123456789012", body.Document.DocumentNumber)
			assert.Equal(t, models.Remaining(2), body.ViewsRemaining)
		})
	}
}

func TestResolveView_ServerErrorsHideDetails(t *testing.T) {
	router, fakes := newTestRouter(t)
	fakes.views.resolveFn = func(context.Context, string, models.Requester) (models.DocumentView, error) {
		return models.DocumentView{}, fmt.Errorf("%w: key v1:abcd rejected", service.ErrDocumentDecryption)
	}

	rec := do(t, router, http.MethodGet, "/api/documents/view?viewToken=x", userToken, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "v1:abcd")
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeError(t, rec).Message)
}
