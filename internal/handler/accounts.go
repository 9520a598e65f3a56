package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shiftwatch/dashboard/backend/internal/domain"
)

const accountsCacheKey = "accounts"

// GetAccounts serves the deduplicated account list, from cache when possible.
func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cached, err := h.redisClient.Get(ctx, accountsCacheKey).Result()
	switch {
	case err == nil:
		var accounts []domain.Account
		if err := json.Unmarshal([]byte(cached), &accounts); err == nil {
			h.successResponse(w, r, "accounts served from cache", accounts)
			return
		}
	case !errors.Is(err, redis.Nil):
		h.internalServerError(w, r, err)
		return
	}

	accounts, err := h.upstream.ListAccounts(ctx)
	if err != nil {
		h.pipelineError(w, r, err)
		return
	}

	if data, err := json.Marshal(accounts); err == nil {
		ttl := time.Duration(h.config.Redis.AccountsTTL) * time.Second
		if err := h.redisClient.Set(ctx, accountsCacheKey, data, ttl).Err(); err != nil {
			slog.Warn("failed to cache accounts", "error", err)
		}
	}

	h.successResponse(w, r, "accounts fetched", accounts)
}
