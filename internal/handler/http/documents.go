package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/models"
)

const (
	// uploadFormField is the multipart field holding the document file.
	uploadFormField = "document"

	// multipartOverhead is room for the form fields around the file.
	multipartOverhead = 1 << 20
)

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.listDocuments", err)
		return
	}

	documents, err := h.services.DocumentService.List(r.Context(), requester)
	if err != nil {
		writeError(w, r, "*Handler.listDocuments", err)
		return
	}

	utils.WriteJSON(w, models.DocumentListResponse{
		Success:   true,
		Count:     len(documents),
		Documents: documents,
	}, http.StatusOK)
}

// uploadDocument accepts a multipart form with the file in "document" and
// optional typed fields used when OCR is unavailable or incomplete.
func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.uploadDocument", err)
		return
	}

	in, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, "*Handler.uploadDocument", err)
		return
	}

	document, err := h.services.DocumentService.Upload(r.Context(), requester, in)
	if err != nil {
		writeError(w, r, "*Handler.uploadDocument", err)
		return
	}

	utils.WriteJSON(w, models.DocumentResponse{
		Success:  true,
		Message:  "Document uploaded successfully",
		Document: document,
	}, http.StatusCreated)
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (models.UploadInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.UploadInput{}, ErrRequestTooLarge
		}
		return models.UploadInput{}, fmt.Errorf("%w: %w", ErrInvalidRequestBody, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		return models.UploadInput{}, ErrMissingFile
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.UploadInput{}, fmt.Errorf("%w: %w", ErrInvalidRequestBody, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}

	logger.FromRequest(r).Debug().Str("func", "*Handler.readUpload").
		Str("file_name", header.Filename).
		Str("content_type", contentType).
		Int("size", len(content)).
		Msg("upload received")

	return models.UploadInput{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     content,
		Manual: models.ExtractedData{
			DocumentNumber: r.FormValue("document_number"),
			Name:           r.FormValue("name"),
			DateOfBirth:    r.FormValue("date_of_birth"),
			Gender:         r.FormValue("gender"),
		},
	}, nil
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteDocument", err)
		return
	}

	documentID, err := documentIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteDocument", err)
		return
	}

	if err = h.services.DocumentService.Delete(r.Context(), requester, documentID); err != nil {
		writeError(w, r, "*Handler.deleteDocument", err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Success: true, Message: "Document deleted successfully"}, http.StatusOK)
}

func (h *Handler) verifyDocument(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.verifyDocument", err)
		return
	}

	documentID, err := documentIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.verifyDocument", err)
		return
	}

	var review models.VerifyInput
	if err = json.NewDecoder(r.Body).Decode(&review); err != nil {
		writeError(w, r, "*Handler.verifyDocument", fmt.Errorf("%w: %w", ErrInvalidRequestBody, err))
		return
	}

	document, err := h.services.DocumentService.Verify(r.Context(), requester, documentID, review)
	if err != nil {
		writeError(w, r, "*Handler.verifyDocument", err)
		return
	}

	utils.WriteJSON(w, models.DocumentResponse{
		Success:  true,
		Message:  "Document " + string(document.VerificationStatus),
		Document: document,
	}, http.StatusOK)
}

func documentIDParam(r *http.Request) (int64, error) {
	documentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || documentID < 1 {
		return 0, ErrInvalidDocumentID
	}
	return documentID, nil
}
