package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/services"
)

const maxBodyBytes = 1 << 20

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Image    string `json:"image"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ok"})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	profile, err := h.sessions.RegisterUser(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Image:    req.Image,
		Password: req.Password,
	})
	if err != nil {
		h.writeMappedError(r.Context(), w, "signup", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"user": profile})
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.sessions.AuthenticateUser(r.Context(), services.LoginInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeMappedError(r.Context(), w, "signin", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user":          res.Profile,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	token, err := h.sessions.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeMappedError(r.Context(), w, "refresh", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"access_token": token})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.sessions.CreatePasswordResetToken(r.Context(), req.Email); err != nil {
		h.writeMappedError(r.Context(), w, "forgot_password", err)
		return
	}
	writeSuccess(w, http.StatusAccepted, map[string]string{
		"message": "if the account exists, a reset link has been sent",
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.sessions.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.writeMappedError(r.Context(), w, "reset_password", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeMappedError(r.Context(), w, "signout", common.ErrAccessTokenRequired)
		return
	}
	if err := h.sessions.LogoutUser(r.Context(), id.UserID); err != nil {
		h.writeMappedError(r.Context(), w, "signout", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeMappedError(r.Context(), w, "me", common.ErrAccessTokenRequired)
		return
	}
	profile, err := h.sessions.Profile(r.Context(), id.UserID)
	if err != nil {
		h.writeMappedError(r.Context(), w, "me", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": profile})
}
