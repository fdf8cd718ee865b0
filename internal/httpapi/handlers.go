package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linkauth/pkg/auth"
	"github.com/dmitrymomot/linkauth/pkg/clientip"
	"github.com/dmitrymomot/linkauth/pkg/user"
)

const maxBodyBytes = 64 << 10

// AuthService is the subset of *auth.Service the API calls.
type AuthService interface {
	RequestMagicLink(ctx context.Context, in auth.RequestMagicLinkInput, meta auth.ClientMeta) (*auth.LinkRequested, error)
	VerifyMagicLink(ctx context.Context, token string, meta auth.ClientMeta) (*auth.Authenticated, error)
	VerifySession(ctx context.Context, bearer string) (*auth.Identity, error)
	Logout(ctx context.Context, bearer string) error
	LogoutAll(ctx context.Context, bearer string) error
	UpdateProfile(ctx context.Context, bearer string, in auth.ProfileInput) (*user.User, error)
}

type handler struct {
	svc AuthService
	log *slog.Logger
}

type userResponse struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Preferences map[string]any `json:"preferences,omitempty"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"`
}

func newUserResponse(u *user.User) userResponse {
	created := u.CreatedAt
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Preferences: u.Preferences,
		CreatedAt:   &created,
	}
}

type requestLinkBody struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *handler) requestMagicLink(w http.ResponseWriter, r *http.Request) {
	var body requestLinkBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.svc.RequestMagicLink(r.Context(), auth.RequestMagicLinkInput{
		Email: body.Email,
		Name:  body.Name,
	}, clientMeta(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"expires_at": res.ExpiresAt})
}

type verifyLinkBody struct {
	Token string `json:"token"`
}

func (h *handler) verifyMagicLink(w http.ResponseWriter, r *http.Request) {
	var body verifyLinkBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.svc.VerifyMagicLink(r.Context(), body.Token, clientMeta(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          newUserResponse(res.User),
		"session_token": res.SessionToken,
		"expires_at":    res.ExpiresAt,
	})
}

func (h *handler) currentSession(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, auth.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: id.UserID, Email: id.Email, Name: id.Name},
		"session": map[string]any{
			"id":         id.SessionID,
			"expires_at": id.ExpiresAt,
		},
	})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	tok, err := auth.ParseBearer(r.Header.Get("Authorization"))
	if err == nil {
		err = h.svc.Logout(r.Context(), tok)
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	tok, err := auth.ParseBearer(r.Header.Get("Authorization"))
	if err == nil {
		err = h.svc.LogoutAll(r.Context(), tok)
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileBody struct {
	Name        *string        `json:"name"`
	Preferences map[string]any `json:"preferences"`
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	tok, err := auth.ParseBearer(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var body profileBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), tok, auth.ProfileInput{
		Name:        body.Name,
		Preferences: body.Preferences,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": newUserResponse(u)})
}

func clientMeta(r *http.Request) auth.ClientMeta {
	return auth.ClientMeta{
		IPAddress: clientip.GetIPFromContext(r.Context()),
		UserAgent: r.UserAgent(),
	}
}

// decodeJSON reads a single JSON object. Malformed bodies are validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &auth.Error{Kind: auth.KindValidation, Reason: "empty request body", Err: err}
		}
		return &auth.Error{Kind: auth.KindValidation, Reason: "malformed request body", Err: err}
	}
	return nil
}
