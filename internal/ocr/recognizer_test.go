package ocr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

func TestHTTPRecognizer_Recognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ocr", r.URL.Path)
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "png-bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "Asha Rao"})
	}))
	defer srv.Close()

	r := NewHTTPRecognizer(srv.URL, time.Second, logger.Nop())
	text, err := r.Recognize(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", text)
}

func TestHTTPRecognizer_Errors(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"engine down"}`))
		}))
		defer srv.Close()

		_, err := NewHTTPRecognizer(srv.URL, time.Second, logger.Nop()).Recognize(context.Background(), []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrRecognitionFailed)
	})

	t.Run("empty text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":""}`))
		}))
		defer srv.Close()

		_, err := NewHTTPRecognizer(srv.URL, time.Second, logger.Nop()).Recognize(context.Background(), []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPRecognizer(url, time.Second, logger.Nop()).Recognize(context.Background(), []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrRecognitionFailed)
	})
}
