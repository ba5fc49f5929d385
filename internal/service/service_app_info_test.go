package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

func TestGetAppVersion_ReturnsConfiguredVersion(t *testing.T) {
	svc := NewAppInfoService(models.AppBuildInfo{Version: "3.1.4"}, logger.Nop())

	assert.Equal(t, "3.1.4", svc.GetAppVersion(context.Background()))
}

func TestGetBuildInfo_FillsMissingValues(t *testing.T) {
	svc := NewAppInfoService(models.AppBuildInfo{Version: "v1.2.3-beta+build.42", Commit: "abc123"}, logger.Nop())

	info := svc.GetBuildInfo(context.Background())
	assert.Equal(t, "v1.2.3-beta+build.42", info.Version)
	assert.Equal(t, "N/A", info.Date)
	assert.Equal(t, "abc123", info.Commit)
}

func TestGetAppVersion_EmptyVersion(t *testing.T) {
	svc := NewAppInfoService(models.AppBuildInfo{}, logger.Nop())

	assert.Equal(t, "N/A", svc.GetAppVersion(context.Background()))
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	svc := NewAppInfoService(models.AppBuildInfo{Version: "1.0.0"}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppVersion(ctx))
}
