package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/shiftwatch/dashboard/backend/internal/domain"
	"github.com/shiftwatch/dashboard/backend/internal/shiftboard"
)

type shiftsQuery struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

type shiftsPayload struct {
	Shifts    []*domain.GroupedShift `json:"shifts"`
	Partial   bool                   `json:"partial"`
	Cached    bool                   `json:"cached"`
	FetchedAt time.Time              `json:"fetchedAt"`
}

func shiftsCacheKey(query shiftsQuery) string {
	return fmt.Sprintf("shifts_%s_%s", query.StartDate, query.EndDate)
}

// GetShifts serves the grouped shift list for the dashboard, from cache when
// a fresh enough copy exists.
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	query := shiftsQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := h.validate.Struct(query); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cached, err := h.redisClient.Get(r.Context(), shiftsCacheKey(query)).Result()
	switch {
	case err == nil:
		payload := shiftsPayload{}
		if err := json.Unmarshal([]byte(cached), &payload); err == nil {
			payload.Cached = true
			h.successResponse(w, r, "shifts served from cache", payload)
			return
		}
		// A corrupt cache entry falls through to a fresh fetch.
	case !errors.Is(err, redis.Nil):
		h.internalServerError(w, r, err)
		return
	}

	h.refreshAndRespond(w, r, query)
}

// RefreshShifts bypasses the cache and forces a fresh upstream fetch.
func (h *Handler) RefreshShifts(w http.ResponseWriter, r *http.Request) {
	query := shiftsQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := h.validate.Struct(query); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.refreshAndRespond(w, r, query)
}

func (h *Handler) refreshAndRespond(w http.ResponseWriter, r *http.Request, query shiftsQuery) {
	payload, err := h.refreshShifts(r.Context(), query)
	if err != nil {
		h.pipelineError(w, r, err)
		return
	}

	h.successResponse(w, r, "shifts refreshed", payload)
}

// refreshShifts runs the full pagination pipeline, groups the result, updates
// the cache and records refresh telemetry.
func (h *Handler) refreshShifts(ctx context.Context, query shiftsQuery) (*shiftsPayload, error) {
	params := map[string]any{"extended": true}
	selected := map[string]any{}
	if query.StartDate != "" {
		selected["start_date"] = query.StartDate
	}
	if query.EndDate != "" {
		selected["end_date"] = query.EndDate
	}
	if len(selected) > 0 {
		params["select"] = selected
	}

	started := time.Now()
	list, err := h.upstream.ListShifts(ctx, params)
	duration := time.Since(started)

	if err != nil {
		h.recordRefresh(&domain.RefreshRun{
			Method:     "shift.list",
			DurationMS: duration.Milliseconds(),
			Succeeded:  false,
			Detail:     err.Error(),
		})
		return nil, err
	}

	grouped := shiftboard.GroupShifts(list.Shifts, list.Referenced.Accounts)
	payload := &shiftsPayload{
		Shifts:    grouped,
		Partial:   list.Partial,
		FetchedAt: time.Now(),
	}

	if data, err := json.Marshal(payload); err == nil {
		ttl := time.Duration(h.config.Redis.ShiftsTTL) * time.Second
		if err := h.redisClient.Set(ctx, shiftsCacheKey(query), data, ttl).Err(); err != nil {
			slog.Warn("failed to cache shifts", "error", err)
		}
	}

	if list.Partial {
		slog.Warn("upstream returned a partial shift list", "pages", list.Pages)
	}

	h.recordRefresh(&domain.RefreshRun{
		Method:     "shift.list",
		ShiftCount: len(grouped),
		PageCount:  list.Pages,
		Partial:    list.Partial,
		DurationMS: duration.Milliseconds(),
		Succeeded:  true,
	})

	return payload, nil
}

// recordRefresh persists the run and publishes it to the refresh queue.
// Telemetry failures are logged, never surfaced; serving data comes first.
func (h *Handler) recordRefresh(run *domain.RefreshRun) {
	if err := h.repository.InsertRefreshRun(run); err != nil {
		slog.Error("failed to record refresh run", "error", err)
	}

	message, err := json.Marshal(domain.RefreshMessage{
		Method:     run.Method,
		ShiftCount: run.ShiftCount,
		PageCount:  run.PageCount,
		Partial:    run.Partial,
		DurationMS: run.DurationMS,
		Succeeded:  run.Succeeded,
		Detail:     run.Detail,
	})
	if err != nil {
		slog.Error("failed to encode refresh event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.refreshChannel.PublishWithContext(
		ctx,
		"",
		"refresh_events",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		},
	); err != nil {
		slog.Error("failed to publish refresh event", "error", err)
	}
}

// pipelineError maps the pipeline error taxonomy onto the response envelope.
func (h *Handler) pipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var upstreamErr *shiftboard.UpstreamError
	var shapeErr *shiftboard.InvalidResponseShapeError
	var limitErr *shiftboard.PageLimitExceededError

	switch {
	case errors.As(err, &upstreamErr):
		h.errorResponse(w, r, upstreamErr.Error())
	case errors.As(err, &shapeErr):
		h.errorResponse(w, r, shapeErr.Error())
	case errors.As(err, &limitErr):
		h.errorResponse(w, r, limitErr.Error())
	default:
		h.internalServerError(w, r, err)
	}
}
