package service

import (
	"fmt"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/ocr"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/internal/validators"
	"github.com/MKhiriev/go-doc-verifier/models"
)

type Services struct {
	AuthService     AuthService
	DocumentService DocumentService
	ViewService     ViewService
	AppInfoService  AppInfoService
}

// NewServices builds every service over storages. recorder may be nil.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, recorder Recorder, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	keys, err := crypto.NewPassphraseKeyProvider(cfg.App.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("error building key provider: %w", err)
	}
	cipher := crypto.NewFieldCipher(keys,
		crypto.WithFailOpen(cfg.App.FailOpenEncryption),
		crypto.WithLogger(logger),
	)
	if cfg.App.FailOpenEncryption {
		logger.Warn().Msg("field encryption runs fail-open, failures store plaintext")
	}

	var recognizer ocr.Recognizer
	if cfg.OCR.Address != "" {
		recognizer = ocr.NewHTTPRecognizer(cfg.OCR.Address, cfg.OCR.Timeout, logger)
	} else {
		logger.Info().Msg("no OCR service configured, uploads use submitted fields")
	}

	validator := validators.NewDocumentValidator(cfg.App.MaxUploadSize)
	recorder = recorderOrNop(recorder)

	documentService := NewDocumentService(
		storages.DocumentRepository,
		storages.FileStorage,
		cipher,
		recognizer,
		validator,
		recorder,
		logger,
	)

	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, crypto.NewPasswordHasher(cfg.App.BcryptCost), validator, cfg.App, logger),
		DocumentService: NewDocumentValidationService(validator).Wrap(documentService),
		ViewService: NewViewService(
			storages.DocumentRepository,
			cipher,
			cfg.App.TokenSignKey,
			cfg.App.TokenIssuer,
			cfg.App.ViewQuota,
			logger,
			WithRecorder(recorder),
		),
		AppInfoService: NewAppInfoService(buildInfo, logger),
	}, nil
}
