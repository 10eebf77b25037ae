package api

import (
	"github.com/google/uuid"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	// Token is the JWT used for API authorization.
	Token string `json:"token"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// BuildRequest defines the payload for creating or updating a build.
type BuildRequest struct {
	Name           string   `json:"name"           validate:"required,max=120"`
	Authors        []string `json:"authors"        validate:"required,min=1,dive,required"`
	Themes         []string `json:"themes"         validate:"omitempty,dive,required"`
	Colors         []string `json:"colors"         validate:"omitempty,dive,required"`
	Description    string   `json:"description"    validate:"omitempty,max=4000"`
	ScreenshotURLs []string `json:"screenshotUrls" validate:"omitempty,dive,url"`
}

// toDomain converts the request into a validated domain build.
func (req BuildRequest) toDomain() (*domain.Build, error) {
	return domain.NewBuild(
		req.Name,
		req.Authors,
		req.Themes,
		req.Colors,
		req.Description,
		req.ScreenshotURLs,
	)
}

// TaskInitiatedResponse acknowledges an accepted log-generation request. The
// client polls the status endpoint with the returned handle.
type TaskInitiatedResponse struct {
	TaskID uuid.UUID `json:"taskId"`
}

// TaskPendingResponse is returned when the log file is requested before the
// task has finished.
type TaskPendingResponse struct {
	Message string `json:"message"`
}
