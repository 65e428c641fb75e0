package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/Chative-support-poc/server/internal/agent/graph"
	"github.com/Chative-support-poc/server/internal/agent/model"
	errx "github.com/Chative-support-poc/server/internal/core/error"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

// SessionIDHeader lets clients that cannot put the id in the body resume a session.
const SessionIDHeader = "X-Session-ID"

const requestTimeout = 10 * time.Second

var (
	ErrInvalidBody      = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	ErrInvalidSessionID = fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
)

// ChatHandler exposes the turn runner over HTTP.
type ChatHandler struct {
	runner    graph.Runner
	validator *validator.Validate
}

func NewChatHandler(runner graph.Runner, validate *validator.Validate) *ChatHandler {
	return &ChatHandler{
		runner:    runner,
		validator: validate,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	srv.Post("/chat", h.Chat)

	sessions := srv.Group("/sessions")
	sessions.Get("/:id/history", h.History)
	sessions.Delete("/:id", h.Reset)
}

func (h *ChatHandler) Chat(ctx *fiber.Ctx) error {
	var req ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ErrInvalidBody
	}

	if err := h.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Message" {
			return errx.ErrEmptyInput
		}
		return ErrInvalidSessionID
	}

	sessionID := h.resolveSessionID(ctx, req.SessionID)
	if sessionID == "" {
		return ErrInvalidSessionID
	}

	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	logx.Debug().
		Str("request_id", RequestID(ctx)).
		Str("session_id", sessionID).
		Msg("Processing chat request")

	reply, err := h.runner.Invoke(c, model.QueryInput{
		ConversationID: sessionID,
		Query:          req.Message,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(ChatResponse{
		Response:  reply,
		SessionID: sessionID,
	})
}

// resolveSessionID prefers the body, then the header, then mints a new id.
func (h *ChatHandler) resolveSessionID(ctx *fiber.Ctx, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	// the id outlives the request as a store key; never keep fiber's pooled bytes
	if id := strings.TrimSpace(utils.CopyString(ctx.Get(SessionIDHeader))); id != "" {
		if h.validator.Var(id, "max=128,printascii") != nil {
			return ""
		}
		return id
	}
	return uuid.NewString()
}

func (h *ChatHandler) History(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")
	if sessionID == "" {
		return ErrInvalidSessionID
	}

	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	msgs, err := h.runner.History(c, sessionID)
	if err != nil {
		return err
	}

	resp := HistoryResponse{
		SessionID: sessionID,
		Messages:  make([]HistoryMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, HistoryMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

func (h *ChatHandler) Reset(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")
	if sessionID == "" {
		return ErrInvalidSessionID
	}

	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	if err := h.runner.Reset(c, sessionID); err != nil {
		return err
	}

	logx.Debug().
		Str("request_id", RequestID(ctx)).
		Str("session_id", sessionID).
		Msg("Session reset")
	return ctx.SendStatus(fiber.StatusNoContent)
}
