package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/service"
	"github.com/careerforge/onboarding-portal/internal/storage"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// UploadHandler accepts and serves onboarding attachments.
type UploadHandler struct {
	storage    *storage.LocalStorage
	onboarding *service.OnboardingService
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(store *storage.LocalStorage, onboarding *service.OnboardingService) *UploadHandler {
	return &UploadHandler{storage: store, onboarding: onboarding}
}

// UploadAttachment POST /api/upload/onboarding-attachment. The form carries
// job_id and file; attach=true also links the file to the job.
func (h *UploadHandler) UploadAttachment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID := c.FormValue("job_id")
	if jobID == "" {
		return apperrors.NewValidationError("job_id is required", map[string]any{"field": "job_id"})
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", map[string]any{"field": "file"})
	}
	if header.Size > h.storage.MaxBytes() {
		return tooLarge(h.storage.MaxBytes())
	}
	if _, err := h.onboarding.GetJob(c.UserContext(), user, jobID); err != nil {
		return err
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", nil)
	}
	defer file.Close()

	stored, err := h.storage.SaveAttachment(jobID, header.Filename, file)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return tooLarge(h.storage.MaxBytes())
	case err != nil:
		return err
	}

	resp := dto.AttachmentResponse{
		StorageKey: stored.Key,
		FileName:   stored.FileName,
		MimeType:   header.Header.Get(fiber.HeaderContentType),
		SizeBytes:  stored.Size,
		UploadedBy: user.Email,
		URL:        stored.URL,
	}

	if attach, _ := strconv.ParseBool(c.FormValue("attach")); attach {
		_, err := h.onboarding.UpdateJob(c.UserContext(), user, jobID, service.JobUpdateInput{
			Attachment: &service.AttachmentInput{
				StorageKey: resp.StorageKey,
				FileName:   resp.FileName,
				MimeType:   resp.MimeType,
				SizeBytes:  resp.SizeBytes,
			},
		})
		if err != nil {
			_ = h.storage.Delete(stored.Key)
			return err
		}
	}
	return data(c, fiber.StatusCreated, resp)
}

// DownloadAttachment GET /api/upload/onboarding/:jobId/*, the URL handed out
// for stored attachments.
func (h *UploadHandler) DownloadAttachment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID := c.Params("jobId")
	if _, err := h.onboarding.GetJob(c.UserContext(), user, jobID); err != nil {
		return err
	}
	file, err := h.storage.Open("onboarding/" + jobID + "/" + c.Params("*"))
	if err != nil {
		return apperrors.NewNotFound("attachment", map[string]any{"job_id": jobID})
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.SendStream(file, int(info.Size()))
}

func tooLarge(max int64) error {
	return apperrors.NewDomainError(apperrors.CodeValidation, "file exceeds upload limit", fiber.StatusRequestEntityTooLarge, map[string]any{"max_bytes": max})
}
