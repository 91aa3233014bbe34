package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type MailHandler struct {
	mail      Mailer
	emailRepo repository.EmailRepository
}

func NewMailHandler(mail Mailer, emailRepo repository.EmailRepository) *MailHandler {
	return &MailHandler{mail: mail, emailRepo: emailRepo}
}

// SendMail godoc
// @Summary Send email
// @Description Sends an ad hoc message. The result is logged with status sent, failed or skipped.
// @Tags Mail
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mail body models.SendMailPayload true "Message"
// @Success 200 {object} models.Envelope{data=models.Email}
// @Failure 502 {object} models.ErrorEnvelope "Transport failure"
// @Router /mail/send [post]
func (h *MailHandler) SendMail(c *fiber.Ctx) error {
	var payload models.SendMailPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	email, err := h.mail.Send(ctx, models.EmailCategoryGeneral, payload.To, payload.Subject, payload.Body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to send email: "+err.Error())
	}
	msg := "Email sent"
	if email.Status == models.EmailSkipped {
		msg = "Mail transport disabled, email logged as skipped"
	}
	return util.Success(c, fiber.StatusOK, msg, email)
}

// GetLogs godoc
// @Summary Email log
// @Tags Mail
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} models.Envelope{data=models.PagedData}
// @Router /mail/logs [get]
func (h *MailHandler) GetLogs(c *fiber.Ctx) error {
	page, limit := util.Pagination(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	emails, total, err := h.emailRepo.ListEmails(ctx, c.Query("category"), int64(page), int64(limit))
	if err != nil {
		return storeError(err, "Emails")
	}
	return util.Paged(c, emails, total, page, limit)
}
