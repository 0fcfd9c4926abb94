package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davrd/hashlink/internal/analytics"
	"github.com/davrd/hashlink/internal/messaging"
	"github.com/davrd/hashlink/internal/shortener"
)

// LinkHandler exposes the shortener engine over HTTP.
type LinkHandler struct {
	engine              *shortener.Engine
	publishLinkCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishLinkResolved messaging.Publish[analytics.LinkResolvedEvent]
	logger              *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	engine *shortener.Engine,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishLinkResolved messaging.Publish[analytics.LinkResolvedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		engine:              engine,
		publishLinkCreated:  publishLinkCreated,
		publishLinkResolved: publishLinkResolved,
		logger:              logger,
	}
}

func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	shortURL, err := h.engine.Shorten(ctx, req.Body.URL)
	if err != nil {
		var exceeded *shortener.LengthExceededError
		if errors.As(err, &exceeded) {
			return nil, huma.Error422UnprocessableEntity(exceeded.Error())
		}

		h.logger.Error("failed to shorten url",
			zap.String("url", req.Body.URL),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to shorten url")
	}

	code := strings.TrimPrefix(shortURL, h.engine.BaseURL()+"/short/")

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		EventID:   uuid.NewString(),
		Code:      code,
		ShortURL:  shortURL,
		URL:       req.Body.URL,
		CreatedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishLinkCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	resp := &ShortenResponse{}
	resp.Headers.Location = shortURL
	resp.Body.Code = code
	resp.Body.ShortURL = shortURL

	return resp, nil
}

func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	fullURL, err := h.engine.Resolve(ctx, req.Code)
	if err != nil {
		var notFound *shortener.NotFoundError
		if errors.As(err, &notFound) {
			return nil, huma.Error404NotFound(notFound.Error())
		}

		h.logger.Error("failed to resolve short link",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve short link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkResolvedEvent{
		EventID:    uuid.NewString(),
		Code:       req.Code,
		ResolvedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishLinkResolved(event); err != nil {
		h.logger.Error("failed to publish link resolved event",
			zap.String("code", req.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = fullURL

	return resp, nil
}
