package handler

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/service"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
	"github.com/noah-isme/slms-api/pkg/response"
)

const multipartMemory = 8 << 20

type admissionService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitAdmissionRequest) (*models.Admission, error)
	SaveDraft(ctx context.Context, actor *models.JWTClaims, req dto.SaveDraftRequest) (*models.Admission, error)
	GetDraft(ctx context.Context, actor *models.JWTClaims) (*models.Admission, error)
	ClearDraft(ctx context.Context, actor *models.JWTClaims) error
	Get(ctx context.Context, actor *models.JWTClaims, ref string) (*models.Admission, error)
	Mine(ctx context.Context, actor *models.JWTClaims) (*models.Admission, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.AdmissionFilter) ([]models.Admission, *models.Pagination, error)
	Approve(ctx context.Context, actor *models.JWTClaims, ref string, req dto.ApproveAdmissionRequest) (*models.Student, error)
	Reject(ctx context.Context, actor *models.JWTClaims, ref string, req dto.RejectAdmissionRequest) (*models.Admission, error)
	Reapply(ctx context.Context, actor *models.JWTClaims) (*models.Admission, error)
}

type documentService interface {
	Upload(ctx context.Context, actor *models.JWTClaims, uploads []service.DocumentUpload) (*models.Admission, error)
	SignedURL(ctx context.Context, actor *models.JWTClaims, ref, field string) (*dto.DocumentURL, error)
	Open(token string) (*os.File, string, error)
}

// AdmissionHandler exposes the admission workflow and its documents.
type AdmissionHandler struct {
	admissions admissionService
	documents  documentService
}

// NewAdmissionHandler builds a new handler.
func NewAdmissionHandler(admissions admissionService, documents documentService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions, documents: documents}
}

// Submit godoc
// @Summary Submit an admission application
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitAdmissionRequest true "Admission payload"
// @Success 201 {object} response.Envelope
// @Router /admissions [post]
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admission payload"))
		return
	}
	admission, err := h.admissions.Submit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admission)
}

// List godoc
// @Summary List admissions for review
// @Tags Admissions
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param department query string false "Desired department ID"
// @Param session query string false "Session YYYY-YY"
// @Param search query string false "Name, application ID or SSC roll"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admissions [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	filter := models.AdmissionFilter{
		Status:       models.AdmissionStatus(c.Query("status")),
		DepartmentID: c.Query("department"),
		Session:      c.Query("session"),
		Search:       strings.TrimSpace(c.Query("search")),
		Page:         parseQueryInt(c, "page", 1),
		PageSize:     parseQueryInt(c, "limit", 20),
	}
	items, pagination, err := h.admissions.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Mine godoc
// @Summary Get the caller's submitted admission
// @Tags Admissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admissions/me [get]
func (h *AdmissionHandler) Mine(c *gin.Context) {
	admission, err := h.admissions.Mine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admission)
}

// Get godoc
// @Summary Get an admission by ID or application ID
// @Tags Admissions
// @Produce json
// @Param ref path string true "Admission ID or application ID"
// @Success 200 {object} response.Envelope
// @Router /admissions/{ref} [get]
func (h *AdmissionHandler) Get(c *gin.Context) {
	admission, err := h.admissions.Get(c.Request.Context(), claimsFromContext(c), c.Param("ref"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admission)
}

// Approve godoc
// @Summary Approve an admission and enroll the student
// @Tags Admissions
// @Accept json
// @Produce json
// @Param ref path string true "Admission ID or application ID"
// @Param payload body dto.ApproveAdmissionRequest true "Enrollment details"
// @Success 201 {object} response.Envelope
// @Router /admissions/{ref}/approve [post]
func (h *AdmissionHandler) Approve(c *gin.Context) {
	var req dto.ApproveAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}
	student, err := h.admissions.Approve(c.Request.Context(), claimsFromContext(c), c.Param("ref"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Reject godoc
// @Summary Reject an admission
// @Tags Admissions
// @Accept json
// @Produce json
// @Param ref path string true "Admission ID or application ID"
// @Param payload body dto.RejectAdmissionRequest true "Review notes"
// @Success 200 {object} response.Envelope
// @Router /admissions/{ref}/reject [post]
func (h *AdmissionHandler) Reject(c *gin.Context) {
	var req dto.RejectAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}
	admission, err := h.admissions.Reject(c.Request.Context(), claimsFromContext(c), c.Param("ref"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admission)
}

// Reapply godoc
// @Summary Reopen the caller's rejected admission
// @Tags Admissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admissions/reapply [post]
func (h *AdmissionHandler) Reapply(c *gin.Context) {
	admission, err := h.admissions.Reapply(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admission)
}

// SaveDraft godoc
// @Summary Save the admission wizard draft
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body dto.SaveDraftRequest true "Draft snapshot"
// @Success 200 {object} response.Envelope
// @Router /admissions/draft [put]
// @Router /admissions/save-draft [post]
func (h *AdmissionHandler) SaveDraft(c *gin.Context) {
	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	draft, err := h.admissions.SaveDraft(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, draft)
}

// GetDraft godoc
// @Summary Get the admission wizard draft
// @Tags Admissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admissions/draft [get]
// @Router /admissions/get-draft [get]
func (h *AdmissionHandler) GetDraft(c *gin.Context) {
	draft, err := h.admissions.GetDraft(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, draft)
}

// ClearDraft godoc
// @Summary Discard the admission wizard draft
// @Tags Admissions
// @Success 204
// @Router /admissions/draft [delete]
// @Router /admissions/clear-draft [delete]
func (h *AdmissionHandler) ClearDraft(c *gin.Context) {
	if err := h.admissions.ClearDraft(c.Request.Context(), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadDocuments godoc
// @Summary Upload admission documents
// @Description Each multipart file field names the document it replaces, e.g. photo or sscMarksheet.
// @Tags Admissions
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admissions/upload-documents [post]
func (h *AdmissionHandler) UploadDocuments(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload"))
		return
	}
	form := c.Request.MultipartForm
	defer func() { _ = form.RemoveAll() }()

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var uploads []service.DocumentUpload
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, field := range fields {
		headers := form.File[field]
		if len(headers) != 1 {
			response.Error(c, appErrors.Validation("exactly one file is allowed per document field"))
			return
		}
		file, err := headers[0].Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
			return
		}
		opened = append(opened, file)
		uploads = append(uploads, service.DocumentUpload{Field: field, Filename: headers[0].Filename, Content: file})
	}

	admission, err := h.documents.Upload(c.Request.Context(), claimsFromContext(c), uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admission)
}

// DocumentURL godoc
// @Summary Issue a signed download link for an admission document
// @Tags Admissions
// @Produce json
// @Param ref path string true "Admission ID or application ID"
// @Param field path string true "Document field"
// @Success 200 {object} response.Envelope
// @Router /admissions/{ref}/documents/{field}/url [get]
func (h *AdmissionHandler) DocumentURL(c *gin.Context) {
	link, err := h.documents.SignedURL(c.Request.Context(), claimsFromContext(c), c.Param("ref"), c.Param("field"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}

// DownloadDocument godoc
// @Summary Download a document through a signed token
// @Tags Admissions
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Router /documents/download [get]
func (h *AdmissionHandler) DownloadDocument(c *gin.Context) {
	file, name, err := h.documents.Open(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to stat document"))
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
