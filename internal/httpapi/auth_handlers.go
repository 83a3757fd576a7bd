package httpapi

import (
	"errors"
	"net/http"

	"expensa.org/internal/audit"
	"expensa.org/internal/auth"
	"expensa.org/internal/user"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

func summarize(u *user.User) userSummary {
	return userSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := a.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			writeError(w, r, http.StatusBadRequest, "User already exists")
		case errors.Is(err, user.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "Name, email and password are required")
		default:
			writeError(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.user.registered", map[string]any{
		"user_id": u.ID,
		"email":   u.Email,
	})

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: summarize(u)})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password answer identically.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, http.StatusBadRequest, "Invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.user.login", map[string]any{
		"user_id": u.ID,
	})

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: summarize(u)})
}

func (a *API) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	// withAuth authenticated the bearer token and stashed the identity.
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Token is not valid")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": summarize(u)})
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrMailDispatch):
			writeErrorDetails(w, r, http.StatusInternalServerError,
				"Failed to send reset email", err.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.password.reset_requested", map[string]any{
		"email": req.Email,
	})

	writeJSON(w, http.StatusOK, map[string]any{"message": "Password reset email sent"})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			writeError(w, r, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.password.reset", nil)

	writeJSON(w, http.StatusOK, map[string]any{"message": "Password has been reset"})
}
