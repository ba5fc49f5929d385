package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	mailer := NewLogMailer(&logger.Logger{Logger: zerolog.New(&buf)})
	user := models.User{UserID: 3, Email: "asha@example.com"}

	require.NoError(t, mailer.SendVerification(context.Background(), user, "https://docs.example.com/api/auth/verify-email/abc"))
	assert.Contains(t, buf.String(), `"link":"https://docs.example.com/api/auth/verify-email/abc"`)
	assert.Contains(t, buf.String(), `"email":"asha@example.com"`)
	assert.Contains(t, buf.String(), "*logMailer.SendVerification")

	buf.Reset()
	require.NoError(t, mailer.SendPasswordReset(context.Background(), user, "https://docs.example.com/reset-password/def"))
	assert.Contains(t, buf.String(), `"link":"https://docs.example.com/reset-password/def"`)
	assert.Contains(t, buf.String(), "expires in 1 hour")
}
