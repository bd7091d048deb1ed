// Package api is the thin JSON surface over the session, used by the demo
// service and integration hosts. It holds no domain logic of its own.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/deeplink"
	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/orgball2608/insta-profile-viewer/internal/mentions"
	"github.com/orgball2608/insta-profile-viewer/internal/session"
	"github.com/orgball2608/insta-profile-viewer/pkg/formatter"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Session *session.Session
	Inbox   deeplink.Inbox
	Logger  logger.Logger
}

type Server struct {
	session *session.Session
	inbox   deeplink.Inbox
	logger  logger.Logger
}

func New(opts Opts) *Server {
	return &Server{
		session: opts.Session,
		inbox:   opts.Inbox,
		logger:  opts.Logger.WithComponent("API"),
	}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/fetch", s.handleFetch)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/save/toggle", s.handleToggleSave)
	mux.HandleFunc("GET /api/saved", s.handleSaved)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/mentions", s.handleMentions)
	mux.HandleFunc("POST /api/deeplink", s.handleDeepLink)
	mux.HandleFunc("POST /api/handoff", s.handleHandoff)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.session.FetchProfile(r.Context(), body.Input); err != nil {
		s.logger.Info("Fetch failed", "input", body.Input, "error", err)
	}
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ToggleSave(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle save")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

func (s *Server) handleSaved(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, entriesResponse(s.session.State().Saved))
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, entriesResponse(s.session.State().History))
}

func (s *Server) handleMentions(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	spans := mentions.Scan(text)

	out := make([]spanPayload, 0, len(spans))
	for _, span := range spans {
		kind := "mention"
		if span.Kind == domain.SpanLink {
			kind = "link"
		}
		out = append(out, spanPayload{
			Start:  span.Start,
			End:    span.End,
			Kind:   kind,
			Target: span.Target,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"spans": out})
}

// handleDeepLink resolves an igviewer:// URL and feeds the username into
// the session.
func (s *Server) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, ok := deeplink.ParseURL(body.URL)
	if !ok {
		writeError(w, http.StatusBadRequest, "unrecognized deep link")
		return
	}

	if err := s.session.Ingest(r.Context(), name, time.Now()); err != nil {
		s.logger.Info("Deep link fetch failed", "username", name, "error", err)
	}
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

// handleHandoff mirrors the share action: it extracts a username from a
// shared profile URL and publishes it as the pending handoff value.
func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, ok := deeplink.ExtractProfileURL(body.URL)
	if !ok {
		writeError(w, http.StatusBadRequest, "not a profile URL")
		return
	}

	if err := s.inbox.Publish(r.Context(), name, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store handoff")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"pending_username": name})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

type spanPayload struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

type postPayload struct {
	ID           string     `json:"id"`
	ImageURLs    []string   `json:"image_urls"`
	IsCarousel   bool       `json:"is_carousel"`
	Caption      *string    `json:"caption,omitempty"`
	LikeCount    *int       `json:"like_count,omitempty"`
	CommentCount *int       `json:"comment_count,omitempty"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
}

type userPayload struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	FullName       *string `json:"full_name,omitempty"`
	Biography      *string `json:"biography,omitempty"`
	ProfilePicURL  *string `json:"profile_pic_url,omitempty"`
	IsPrivate      bool    `json:"is_private"`
	FollowerCount  *string `json:"follower_count,omitempty"`
	FollowingCount *string `json:"following_count,omitempty"`
	PostCount      *string `json:"post_count,omitempty"`
}

func stateResponse(state session.State) map[string]any {
	resp := map[string]any{
		"phase":    phaseName(state.Phase),
		"is_saved": state.IsSaved,
	}
	if state.Err != nil {
		resp["error"] = errorName(state.Err)
	}
	if state.Profile != nil {
		user := state.Profile.User
		posts := make([]postPayload, 0, len(state.Profile.Posts))
		for _, post := range state.Profile.Posts {
			posts = append(posts, postPayload{
				ID:           post.ID,
				ImageURLs:    post.ImageURLs,
				IsCarousel:   post.IsCarousel(),
				Caption:      post.Caption,
				LikeCount:    post.LikeCount,
				CommentCount: post.CommentCount,
				PostedAt:     post.PostedAt,
			})
		}
		resp["user"] = userPayload{
			ID:             user.ID,
			Username:       user.Username,
			FullName:       user.FullName,
			Biography:      user.Biography,
			ProfilePicURL:  user.ProfilePicURL,
			IsPrivate:      user.IsPrivate,
			FollowerCount:  formatCount(user.FollowerCount),
			FollowingCount: formatCount(user.FollowingCount),
			PostCount:      formatCount(user.PostCount),
		}
		resp["posts"] = posts
	}
	return resp
}

func entriesResponse(entries []domain.SavedEntry) map[string]any {
	if entries == nil {
		entries = []domain.SavedEntry{}
	}
	return map[string]any{"entries": entries}
}

func formatCount(n *int) *string {
	if n == nil {
		return nil
	}
	s := formatter.FormatNumber(*n)
	return &s
}

func phaseName(phase session.Phase) string {
	switch phase {
	case session.PhaseLoading:
		return "loading"
	case session.PhaseLoaded:
		return "loaded"
	case session.PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

func errorName(err error) string {
	var transportErr *instagram.TransportError
	switch {
	case errors.Is(err, instagram.ErrInvalidUsername):
		return "invalid_username"
	case errors.Is(err, instagram.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, instagram.ErrMalformedResponse):
		return "malformed_response"
	case errors.As(err, &transportErr):
		return "transport_error"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
