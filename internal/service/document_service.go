package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/url"
	"os"
	"path"
	"regexp"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/storage"
)

// AdmissionDocumentFields lists the upload field names an admission accepts.
var AdmissionDocumentFields = []string{
	"photo", "signature", "sscMarksheet", "sscCertificate", "birthCertificate",
	"fatherNidFront", "fatherNidBack", "motherNidFront", "motherNidBack",
	"testimonial", "medicalCertificate", "quotaDocument",
}

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

const sniffLength = 3072

type documentStorage interface {
	SaveStream(relPath string, r io.Reader, maxBytes int64) (int64, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
}

type urlSigner interface {
	Generate(ownerID, relPath string) (string, time.Time, error)
	Parse(token string) (ownerID, relPath string, err error)
}

type documentAdmissionStore interface {
	FindSubmittedByUser(ctx context.Context, userID string) (*models.Admission, error)
	FindDraftByUser(ctx context.Context, userID string) (*models.Admission, error)
	UpdateDocuments(ctx context.Context, id string, documents models.DocumentMap) error
}

type admissionLookup interface {
	Lookup(ctx context.Context, ref string) (*models.Admission, error)
}

// DocumentUpload is one multipart file addressed by its form field.
type DocumentUpload struct {
	Field    string
	Filename string
	Content  io.Reader
}

// DocumentConfig bounds uploads and names the download endpoint.
type DocumentConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	DownloadPath     string
}

// DocumentService stores admission documents and issues signed download links.
type DocumentService struct {
	admissions documentAdmissionStore
	lookup     admissionLookup
	storage    documentStorage
	signer     urlSigner
	cfg        DocumentConfig
	logger     *zap.Logger
}

// NewDocumentService constructs the service.
func NewDocumentService(admissions documentAdmissionStore, lookup admissionLookup, store documentStorage, signer urlSigner, cfg DocumentConfig, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/documents/download"
	}
	return &DocumentService{admissions: admissions, lookup: lookup, storage: store, signer: signer, cfg: cfg, logger: logger}
}

func knownDocumentField(field string) bool {
	for _, candidate := range AdmissionDocumentFields {
		if candidate == field {
			return true
		}
	}
	return false
}

// currentAdmission returns the caller's submitted admission, or the draft when nothing was submitted.
func (s *DocumentService) currentAdmission(ctx context.Context, userID string) (*models.Admission, error) {
	admission, err := s.admissions.FindSubmittedByUser(ctx, userID)
	if err == nil {
		if admission.Status == models.AdmissionStatusApproved {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "approved admissions cannot change documents")
		}
		return admission, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admission")
	}
	draft, err := s.admissions.FindDraftByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Validation("save a draft or submit an admission before uploading documents")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

// Upload stores files under admissions/{applicationId}/ and merges their paths into the
// caller's current admission. Unknown fields, disallowed types and oversize files are rejected.
func (s *DocumentService) Upload(ctx context.Context, actor *models.JWTClaims, uploads []DocumentUpload) (*models.Admission, error) {
	if err := requireApplicant(actor); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, appErrors.Validation("no documents uploaded")
	}
	for _, upload := range uploads {
		if !knownDocumentField(upload.Field) {
			return nil, appErrors.Validation("unknown document field: " + upload.Field)
		}
	}

	admission, err := s.currentAdmission(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	documents := models.DocumentMap{}
	for field, stored := range admission.Documents {
		documents[field] = stored
	}
	folder := path.Join("admissions", unsafePathChars.ReplaceAllString(admission.ApplicationID, "_"))

	var written []string
	for _, upload := range uploads {
		relPath, err := s.store(folder, upload)
		if err != nil {
			s.discard(written)
			return nil, err
		}
		written = append(written, relPath)
		if previous, ok := documents[upload.Field]; ok && previous != relPath {
			if err := s.storage.Delete(previous); err != nil {
				s.logger.Warn("failed to remove replaced document", zap.String("path", previous), zap.Error(err))
			}
		}
		documents[upload.Field] = relPath
	}

	if err := s.admissions.UpdateDocuments(ctx, admission.ID, documents); err != nil {
		s.discard(written)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record documents")
	}
	admission.Documents = documents
	s.logger.Info("admission documents uploaded", zap.String("admission_id", admission.ID), zap.Int("files", len(uploads)))
	return admission, nil
}

func (s *DocumentService) store(folder string, upload DocumentUpload) (string, error) {
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if n == 0 {
		return "", appErrors.Validation(upload.Field + " is empty")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	allowed := false
	for _, mime := range s.cfg.AllowedMIMEs {
		if detected.Is(mime) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", appErrors.Validation(upload.Field + " has unsupported type " + detected.String())
	}

	relPath := path.Join(folder, upload.Field+detected.Extension())
	if _, err := s.storage.SaveStream(relPath, io.MultiReader(bytes.NewReader(head), upload.Content), s.cfg.MaxFileSizeBytes); err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			return "", appErrors.Validation(upload.Field + " exceeds the size limit")
		case errors.Is(err, storage.ErrInvalidPath):
			return "", appErrors.Validation(upload.Field + " has an invalid path")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	return relPath, nil
}

func (s *DocumentService) discard(paths []string) {
	for _, p := range paths {
		if err := s.storage.Delete(p); err != nil {
			s.logger.Warn("failed to discard document", zap.String("path", p), zap.Error(err))
		}
	}
}

// SignedURL issues a download link for one document of an admission.
func (s *DocumentService) SignedURL(ctx context.Context, actor *models.JWTClaims, ref, field string) (*dto.DocumentURL, error) {
	admission, err := s.lookup.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Staff() && admission.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admission belongs to another user")
	}
	relPath, ok := admission.Documents[field]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document not uploaded")
	}
	token, expiresAt, err := s.signer.Generate(admission.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign document url")
	}
	return &dto.DocumentURL{
		Field:     field,
		URL:       s.cfg.DownloadPath + "?token=" + url.QueryEscape(token),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Open resolves a download token to the stored file. The caller closes it.
func (s *DocumentService) Open(token string) (*os.File, string, error) {
	_, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	return file, path.Base(relPath), nil
}
