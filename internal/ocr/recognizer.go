// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package ocr turns uploaded document images into structured fields. A
// Recognizer produces raw text (the HTTP implementation calls an external
// OCR service); Extract applies the field heuristics to that text.
package ocr

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
)

//go:generate mockgen -source=recognizer.go -destination=../mock/ocr_mock.go -package=mock

// Recognizer extracts raw text from a document file.
type Recognizer interface {
	Recognize(ctx context.Context, content []byte, contentType string) (string, error)
}

// recognizePath is the endpoint of the OCR service. It takes the raw file
// as the request body and answers {"text": "..."}.
const recognizePath = "/ocr"

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// HTTPRecognizer calls an OCR service over HTTP.
type HTTPRecognizer struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

func NewHTTPRecognizer(address string, timeout time.Duration, log *logger.Logger) *HTTPRecognizer {
	return &HTTPRecognizer{
		client: utils.NewHTTPClient(address, timeout),
		logger: log,
	}
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, content []byte, contentType string) (string, error) {
	log := logger.FromContext(ctx)

	var out recognizeResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(content).
		SetResult(&out).
		SetError(&out).
		Post(recognizePath)
	if err != nil {
		log.Err(err).Str("func", "*HTTPRecognizer.Recognize").Msg("ocr service unreachable")
		return "", fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}

	if resp.StatusCode() != http.StatusOK {
		log.Error().Str("func", "*HTTPRecognizer.Recognize").
			Int("status", resp.StatusCode()).
			Str("error", out.Error).
			Msg("ocr service returned an error")
		return "", fmt.Errorf("%w: status %d", ErrRecognitionFailed, resp.StatusCode())
	}

	if out.Text == "" {
		return "", ErrEmptyText
	}

	log.Debug().Str("func", "*HTTPRecognizer.Recognize").Int("chars", len(out.Text)).Msg("text recognized")
	return out.Text, nil
}
