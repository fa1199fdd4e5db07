package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/dto"
	"github.com/hirelens/hirelens_backend/internal/middleware"
)

const oauthStateCookie = "oauthstate"

// googleOAuthHandler handles the Google sign-in flows: the browser redirect
// flow and direct ID token verification for native clients.
type googleOAuthHandler struct {
	googleOAuth      portssvc.GoogleOAuthSvcFacade
	userService      portssvc.UserSvcFacade
	workspaceService portssvc.WorkspaceSvcFacade
	tokenService     portssvc.TokenSvcFacade
}

func newGoogleOAuthHandler(services *portssvc.ServiceContainer) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuth:      services.GoogleOAuth,
		userService:      services.User,
		workspaceService: services.Workspace,
		tokenService:     services.TokenService,
	}
}

// registerGoogleOAuthRoutes registers the public Google sign-in routes.
func registerGoogleOAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(services)

	google := r.Group("/api/v1/auth/google")
	{
		google.GET("/login", h.googleLogin)
		google.GET("/callback", h.googleCallback)
		google.POST("/id-token", h.googleIDTokenSignIn)
	}
}

// googleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to the Google consent screen.
// @Tags auth
// @Success 307 "Redirect to Google"
// @Failure 500 {object} map[string]string "Failed to start sign-in"
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) googleLogin(c *gin.Context) {
	state, err := h.googleOAuth.GenerateStateString(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to start Google sign-in")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.GetGoogleLoginURL(c.Request.Context(), state))
}

// googleCallback godoc
// @Summary Google sign-in callback
// @Description Completes the OAuth flow, creating the user on first login, and issues a token pair.
// @Tags auth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "State mismatch or missing code"
// @Failure 500 {object} map[string]string "Sign-in failed"
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) googleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	storedState, err := c.Cookie(oauthStateCookie)
	if err != nil || storedState == "" || c.Query("state") != storedState {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	token, err := h.googleOAuth.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, err, "Failed to complete Google sign-in")
		return
	}
	info, err := h.googleOAuth.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		respondWithError(c, err, "Failed to fetch Google profile")
		return
	}

	h.signInGoogleUser(c, info)
}

// googleIDTokenSignIn godoc
// @Summary Sign in with a Google ID token
// @Description Verifies a Google-issued ID token directly and issues a token pair. Used by native clients.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleIDTokenRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid ID token"
// @Router /auth/google/id-token [post]
func (h *googleOAuthHandler) googleIDTokenSignIn(c *gin.Context) {
	var req dto.GoogleIDTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payload, err := h.googleOAuth.ValidateGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google ID token"})
		return
	}

	info := &domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		VerifiedEmail: claimBool(payload.Claims, "email_verified"),
		Name:          claimString(payload.Claims, "name"),
		Picture:       claimString(payload.Claims, "picture"),
	}
	h.signInGoogleUser(c, info)
}

// signInGoogleUser resolves the Google identity to a local user, provisions
// the default workspace on first login and responds with a token pair.
func (h *googleOAuthHandler) signInGoogleUser(c *gin.Context, info *domain.GoogleUserInfo) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	user, created, err := h.userService.FindOrCreateGoogleUser(ctx, info)
	if err != nil {
		respondWithError(c, err, "Failed to sign in with Google")
		return
	}
	if created {
		if _, err := h.workspaceService.CreateDefaultWorkspace(ctx, user); err != nil {
			logger.Error("Failed to provision default workspace",
				slog.String("user_id", user.UserID),
				slog.String("error", err.Error()))
		}
	}

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		respondWithError(c, err, "Failed to issue access token")
		return
	}
	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		respondWithError(c, err, "Failed to issue refresh token")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiry,
		User:                  dto.ToUserResponse(user),
	})
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func claimBool(claims map[string]any, key string) bool {
	if v, ok := claims[key].(bool); ok {
		return v
	}
	return false
}
