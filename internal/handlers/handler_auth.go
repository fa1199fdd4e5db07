package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/dto"
	"github.com/hirelens/hirelens_backend/internal/middleware"
	"github.com/hirelens/hirelens_backend/internal/utils"
)

// authHandler handles registration, login and token rotation.
type authHandler struct {
	userService      portssvc.UserSvcFacade
	workspaceService portssvc.WorkspaceSvcFacade
	tokenService     portssvc.TokenSvcFacade
}

func newAuthHandler(
	userService portssvc.UserSvcFacade,
	workspaceService portssvc.WorkspaceSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *authHandler {
	return &authHandler{
		userService:      userService,
		workspaceService: workspaceService,
		tokenService:     tokenService,
	}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, rateLimit gin.HandlerFunc) {
	h := newAuthHandler(services.User, services.Workspace, services.TokenService)

	auth := r.Group("/api/v1/auth")
	if rateLimit != nil {
		auth.Use(rateLimit)
	}
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
	}
}

// registerLogoutRoute registers the authenticated logout endpoint.
func registerLogoutRoute(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.User, services.Workspace, services.TokenService)
	rg.POST("/auth/logout", h.logout)
}

// register godoc
// @Summary Register a new user
// @Description Creates a local account and provisions the user's personal workspace.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterUserRequest true "Registration details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to register user")
		return
	}

	if _, err := h.workspaceService.CreateDefaultWorkspace(c.Request.Context(), user); err != nil {
		// The account exists; the user can create a workspace manually.
		logger.Error("Failed to provision default workspace",
			slog.String("user_id", user.UserID),
			slog.String("error", err.Error()))
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in with email and password
// @Description Verifies credentials and issues an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		// Same response for unknown email and wrong password.
		logger.Warn("Login failed", slog.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.respondWithTokenPair(c, user.UserID)
}

// refresh godoc
// @Summary Rotate tokens
// @Description Validates a refresh token and issues a fresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param tokens body dto.RefreshTokenRequest true "User ID and refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	h.respondWithTokenPair(c, user.UserID)
}

// logout godoc
// @Summary Log out
// @Description Invalidates the caller's stored refresh token.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.userService.ClearRefreshTokenHash(c.Request.Context(), userID); err != nil {
		respondWithError(c, err, "Failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// respondWithTokenPair loads the user, issues both tokens and writes the
// login response.
func (h *authHandler) respondWithTokenPair(c *gin.Context, userID string) {
	ctx := c.Request.Context()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondWithError(c, err, "Failed to load user")
		return
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
