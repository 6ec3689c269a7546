package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/team8-2025-2026/AiAgents/internal/backend"
	"github.com/team8-2025-2026/AiAgents/internal/chat"
	"github.com/team8-2025-2026/AiAgents/internal/config"
	"github.com/team8-2025-2026/AiAgents/internal/guard"
	"github.com/team8-2025-2026/AiAgents/internal/model"
	"github.com/team8-2025-2026/AiAgents/internal/session"
)

type Server struct {
	cfg      config.Config
	api      *backend.Client
	sessions session.Store
	codec    *session.CookieCodec
	chats    *chat.Service
	flash    Flash
	locks    actionLocks

	// baseCtx bounds work that outlives a single request, such as the demo
	// assistant reply timers.
	baseCtx context.Context
}

func NewServer(ctx context.Context, cfg config.Config, api *backend.Client, sessions session.Store, chats *chat.Service, redisClient *redis.Client) *Server {
	var flash Flash
	var locks actionLocks
	if redisClient != nil {
		flash = newRedisFlash(redisClient)
		locks = newRedisLocks(redisClient)
	} else {
		flash = newMemoryFlash()
		locks = newMemoryLocks()
	}
	return &Server{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		codec:    session.NewCookieCodec(cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL),
		chats:    chats,
		flash:    flash,
		locks:    locks,
		baseCtx:  ctx,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.With(s.withPolicy(guard.Public())).Get("/auth", s.handleAuthPage)
		r.With(s.withPolicy(guard.Public())).Post("/auth", s.handleLogin)
		r.With(s.withPolicy(guard.Public())).Post("/logout", s.handleLogout)

		r.With(s.withPolicy(guard.RequireSession())).Get("/", s.handleHomePage)
		r.With(s.withPolicy(guard.RequireSession())).Get("/user", s.handleUserPage)
		r.With(s.withPolicy(guard.RequireSession())).Get("/settings", s.handleSettingsPage)
		r.With(s.withPolicy(guard.RequireSession())).Post("/settings", s.handleChangePassword)

		r.With(s.withPolicy(guard.RequireRole(model.StatusAssistent))).Get("/manage", s.handleManagePage)
		r.With(s.withPolicy(guard.RequireRole(model.StatusAssistent))).Post("/manage", s.handleCreateUser)
		r.With(s.withPolicy(guard.RequireRole(model.StatusAssistent))).Post("/manage/delete", s.handleDeleteUser)

		r.Route("/api", func(r chi.Router) {
			r.Use(s.withAPIPolicy(guard.RequireSession()))
			r.Get("/chats", s.handleListChats)
			r.Post("/chats", s.handleCreateChat)
			r.Patch("/chats/{chatID}", s.handleRenameChat)
			r.Delete("/chats/{chatID}", s.handleDeleteChat)
			r.Get("/chats/{chatID}/messages", s.handleListMessages)
			r.Post("/chats/{chatID}/messages", s.handleSendMessage)
		})
	})

	return r
}

// Session plumbing

type sessionKey struct{}

// sessionMiddleware decodes the cookie and loads the session once per
// request. A missing or invalid cookie yields an anonymous session; guard
// policies decide what that session may reach.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if cookie, err := r.Cookie(session.CookieName); err == nil {
			sid = s.codec.Decode(cookie.Value)
		}
		sess := &session.Session{}
		if sid != "" {
			loaded, err := session.Load(r.Context(), s.sessions, sid)
			if err != nil {
				http.Error(w, "session store unavailable", http.StatusInternalServerError)
				return
			}
			sess = loaded
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}

// withPolicy evaluates the route's access policy on every navigation and
// redirects the browser when entry is denied.
func (s *Server) withPolicy(policy guard.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Evaluate(policy, sessionFromContext(r.Context()))
			if !decision.Allowed {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withAPIPolicy is the JSON variant: denial answers 401/403 instead of a
// redirect, since the caller is the polling script, not a navigation.
func (s *Server) withAPIPolicy(policy guard.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Evaluate(policy, sessionFromContext(r.Context()))
			if !decision.Allowed {
				if decision.RedirectTo == guard.LoginRoute {
					writeError(w, http.StatusUnauthorized, "missing_session")
					return
				}
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) error {
	value, err := s.codec.Encode(sid)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.codec.TTL()),
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
