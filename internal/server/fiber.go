package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/Chative-support-poc/server/internal/agent/model"
	errx "github.com/Chative-support-poc/server/internal/core/error"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

// NewFiber builds the fiber app with jsoniter codecs and JSON error bodies.
func NewFiber(cfg model.ServerConfig) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	return fiber.New(fiber.Config{
		AppName:               "Chative Support",
		BodyLimit:             bodyLimit,
		StrictRouting:         true,
		Immutable:             true,
		CaseSensitive:         true,
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		ErrorHandler:          errorHandler,
	})
}

// errorHandler renders every error as {"error": message} with the status it carries.
func errorHandler(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	message := errx.MessageOf(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}

	ev := logx.Warn()
	if status >= fiber.StatusInternalServerError {
		ev = logx.Error()
	}
	ev.Str("request_id", RequestID(c)).
		Str("path", c.Path()).
		Int("status", status).
		Err(err).
		Msg("Request failed")

	return c.Status(status).JSON(ErrorResponse{Error: message})
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return errx.StatusOf(err)
}
