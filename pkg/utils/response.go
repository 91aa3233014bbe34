package util

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
)

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(models.Envelope{Success: true, Message: message, Data: data})
}

func Paged(c *fiber.Ctx, items interface{}, total int64, page, limit int) error {
	return c.Status(fiber.StatusOK).JSON(models.Envelope{
		Success: true,
		Data: models.PagedData{
			Items:      items,
			Pagination: models.Pagination{Total: total, Page: page, Limit: limit},
		},
	})
}

// Fail writes the failure envelope. The raw error is only exposed on 5xx.
func Fail(c *fiber.Ctx, status int, message string, err error) error {
	body := models.Envelope{Success: false, Message: message}
	if err != nil && status >= fiber.StatusInternalServerError {
		body.Error = err.Error()
	}
	return c.Status(status).JSON(body)
}

func ValidationFailed(c *fiber.Ctx, errs []*ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Pagination reads page/limit query params with the usual bounds.
func Pagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// ValidationError carries per-field failures up to ErrorHandler.
type ValidationError struct {
	Errors []*ErrorResponse
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Errors))
}

// ParseBody decodes the JSON body into dst and validates it.
func ParseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := ValidateStruct(dst); errs != nil {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ErrorHandler renders any error returned by a handler as the failure envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ValidationFailed(c, verr.Errors)
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return Fail(c, ferr.Code, ferr.Message, nil)
	}
	log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	return Fail(c, fiber.StatusInternalServerError, "Internal server error", err)
}
