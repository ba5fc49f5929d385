// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-doc-verifier/internal/utils"
)

// CheckHTTPMethod is registered both as the router's NotFound and
// MethodNotAllowed handler. A known path requested with a method it does
// not serve answers 404 like an unknown path, with the usual JSON error
// body, so the API does not reveal which paths exist.
func CheckHTTPMethod(w http.ResponseWriter, _ *http.Request) {
	utils.WriteError(w, http.StatusNotFound, codeNotFound, http.StatusText(http.StatusNotFound))
}
