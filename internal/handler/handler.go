package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/shiftwatch/dashboard/backend/internal/config"
	"github.com/shiftwatch/dashboard/backend/internal/repository"
	"github.com/shiftwatch/dashboard/backend/internal/shiftboard"
)

type Handler struct {
	validate       *validator.Validate
	config         *config.Config
	repository     *repository.Repository
	translator     ut.Translator
	upstream       *shiftboard.Service
	refreshChannel *amqp.Channel
	redisClient    *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, upstream *shiftboard.Service, refreshCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:       validate,
		config:         cfg,
		repository:     repo,
		translator:     trans,
		upstream:       upstream,
		refreshChannel: refreshCh,
		redisClient:    rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// Everything under /api requires a logged-in dashboard session.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/api", func(r chi.Router) {
			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.GetShifts)
				r.Post("/refresh", h.RefreshShifts)
			})
			r.Get("/accounts", h.GetAccounts)
			r.Get("/refreshes", h.GetRecentRefreshes)
		})
	})
}
