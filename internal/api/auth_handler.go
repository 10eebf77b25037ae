package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/api/shared"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/config"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/redact"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service/auth"
)

// AuthHandler handles authentication requests. The application has a single
// admin principal whose credentials come from configuration, so login
// checks against config rather than a user table.
type AuthHandler struct {
	authConfig       config.AuthConfig
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authConfig config.AuthConfig,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authConfig:       authConfig,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /auth/login requests. A successful login returns a
// bearer token and its lifetime in seconds. Bad credentials always produce
// the same 401 regardless of which check failed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request body", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if req.Username != h.authConfig.AdminUsername {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
			fmt.Errorf("%w: unknown username", domain.ErrUnauthorized),
			shared.WithElevatedLogLevel())
		return
	}

	if err := h.passwordVerifier.Compare(h.authConfig.AdminPasswordHash, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
			fmt.Errorf("%w: %v", domain.ErrUnauthorized, err),
			shared.WithElevatedLogLevel())
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), req.Username)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	log.Info("admin logged in", slog.String("username", req.Username))
	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: int64(h.jwtService.TokenLifetime().Seconds()),
	})
}
