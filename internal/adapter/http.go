package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter returns the REST implementation of [ServerAdapter].
// A bare host:port in cfg.ServerURL gets an http:// scheme.
func NewHTTPServerAdapter(cfg config.ClientConfig, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login posts to /api/auth/login and keeps the token from the
// Authorization response header. The cookie the server also sets is ignored.
func (h *httpServerAdapter) Login(ctx context.Context, email, password string) (models.User, error) {
	var result models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Email: email, Password: password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return models.User{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	h.logger.Debug().Str("func", "*httpServerAdapter.Login").Int64("user_id", result.User.UserID).Msg("logged in")
	return result.User, nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	var result models.AuthResponse

	resp, err := h.authedRequest(ctx).SetResult(&result).Get("/api/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}
	return result.User, nil
}

func (h *httpServerAdapter) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	var result models.DocumentListResponse

	resp, err := h.authedRequest(ctx).SetResult(&result).Get("/api/documents")
	if err != nil {
		return nil, fmt.Errorf("list documents request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return result.Documents, nil
}

func (h *httpServerAdapter) RequestView(ctx context.Context, documentID int64) (models.ViewGrant, error) {
	var result models.ViewGrantResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&result).
		Post("/api/documents/" + strconv.FormatInt(documentID, 10) + "/view")
	if err != nil {
		return models.ViewGrant{}, fmt.Errorf("request view: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ViewGrant{}, err
	}
	return result.ViewGrant, nil
}

func (h *httpServerAdapter) ResolveView(ctx context.Context, viewToken string) (models.DocumentView, error) {
	var result models.DocumentViewResponse

	resp, err := h.authedRequest(ctx).
		SetQueryParam("viewToken", viewToken).
		SetResult(&result).
		Get("/api/documents/view")
	if err != nil {
		return models.DocumentView{}, fmt.Errorf("resolve view: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DocumentView{}, err
	}

	view := result.Document
	view.ViewsRemaining = result.ViewsRemaining
	return view, nil
}

func (h *httpServerAdapter) Version(ctx context.Context) (models.AppBuildInfo, error) {
	var info models.AppBuildInfo

	resp, err := h.client.R().SetContext(ctx).SetResult(&info).Get("/api/version")
	if err != nil {
		return models.AppBuildInfo{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AppBuildInfo{}, err
	}
	return info, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
