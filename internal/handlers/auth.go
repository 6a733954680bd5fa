package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/logger"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/oauth"
	"github.com/taskflow/taskflow-api/internal/schema"
	"github.com/taskflow/taskflow-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	provider    oauth.Provider
	clientURL   string
}

// NewAuthHandler creates a new AuthHandler. provider may be nil when OAuth is not configured.
func NewAuthHandler(authService *services.AuthService, provider oauth.Provider, clientURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		provider:    provider,
		clientURL:   clientURL,
	}
}

// Register creates a local account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req schema.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.authService.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisteredUserDTO{
		UserDTO: dto.ToUserDTO(*session.User),
		Token:   session.Token,
	})
}

// Login authenticates with email and password and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req schema.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: session.Token,
		User:  dto.ToUserDTO(*session.User),
	})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// OAuthStart redirects to the identity provider.
func (h *AuthHandler) OAuthStart(c *gin.Context) {
	if h.provider == nil {
		apierrors.NotFound(c, "OAuth login is not configured")
		return
	}

	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// OAuthCallback completes the provider login and hands the token to the client app.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if h.provider == nil {
		apierrors.NotFound(c, "OAuth login is not configured")
		return
	}

	session := sessions.Default(c)
	expected, _ := session.Get(constants.SessionKeyOAuthState).(string)
	session.Delete(constants.SessionKeyOAuthState)
	if err := session.Save(); err != nil {
		logger.WarnLog(c.Request.Context(), "failed to clear oauth state: %v", err)
	}

	if expected == "" || c.Query("state") != expected {
		h.redirectToLogin(c, "invalid_state")
		return
	}
	code := c.Query("code")
	if code == "" {
		h.redirectToLogin(c, "access_denied")
		return
	}

	profile, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.WarnLog(c.Request.Context(), "oauth exchange failed: %v", err)
		h.redirectToLogin(c, "exchange_failed")
		return
	}

	result, err := h.authService.LoginWithOAuth(c.Request.Context(), *profile)
	if err != nil {
		logger.WarnLog(c.Request.Context(), "oauth login failed: %v", err)
		h.redirectToLogin(c, "login_failed")
		return
	}

	c.Redirect(http.StatusFound, h.clientURL+"/login-success?token="+url.QueryEscape(result.Token))
}

func (h *AuthHandler) redirectToLogin(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, h.clientURL+"/login?error="+url.QueryEscape(reason))
}
