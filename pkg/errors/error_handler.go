package errors

import (
	stderrors "errors"

	"video-svc/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func StatusFor(code string) int {
	switch code {
	case CodeNotFound, CodeDataNotFound:
		return fiber.StatusNotFound
	case CodeAlreadyLiked, CodeNotLiked, CodeInvalidRequest:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// messageFor prefers the loaded locale and falls back to the error's own message.
func messageFor(ve *VideoError) string {
	if msg, ok := i18n.Lookup(ve.Code); ok {
		return msg
	}
	if ve.Message != "" {
		return ve.Message
	}
	return ve.Code
}

// codeForStatus classifies errors raised by fiber itself (routing, body limits).
func codeForStatus(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return CodeNotFound
	case status == fiber.StatusUnauthorized:
		return CodeUnauthorized
	case status >= fiber.StatusInternalServerError:
		return CodeInternal
	default:
		return CodeInvalidRequest
	}
}

func HandleError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	var ve *VideoError
	if stderrors.As(err, &ve) {
		status := StatusFor(ve.Code)
		if ve.Err != nil && status >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("code", ve.Code), zap.Error(ve.Err))
		} else if ve.Err != nil {
			log.Debug("request rejected", zap.String("code", ve.Code), zap.Error(ve.Err))
		}

		// Client’a sadece Code + Message gönder
		return c.Status(status).JSON(fiber.Map{
			"error":   ve.Code,
			"message": messageFor(ve),
		})
	}

	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   codeForStatus(fe.Code),
			"message": fe.Message,
		})
	}

	log.Error("unexpected error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   CodeInternal,
		"message": i18n.T(CodeInternal),
	})
}
