package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/controller"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/dto"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/service"
)

// AuthController handles authentication HTTP requests
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// GoogleLogin handles GET /public/auth/google
// @Summary Start Google login
// @Description Redirects to the Google consent screen
// @Tags Auth
// @Success 302
// @Router /public/auth/google [get]
func (c *AuthController) GoogleLogin(ctx echo.Context) error {
	url, appErr := c.AuthService.GoogleLoginURL(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return ctx.Redirect(http.StatusFound, url)
}

// GoogleCallback handles GET /public/auth/google/callback
// @Summary Google OAuth callback
// @Description Exchanges the authorization code and returns a token pair
// @Tags Auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State nonce"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /public/auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "code and state are required")
	}

	result, appErr := c.AuthService.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Login successful")
}

// RefreshToken handles POST /public/auth/refresh
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /public/auth/refresh [post]
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return c.BadRequest(errors.ErrInvalidInput, "refresh_token is required")
	}

	result, appErr := c.AuthService.RefreshToken(ctx.Request().Context(), req.RefreshToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Token refreshed")
}

// Logout handles POST /private/auth/logout
// @Summary Log out
// @Description Revokes the presented access token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /private/auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return c.Unauthorized(errors.ErrInvalidTokenFormat, "invalid authorization header")
	}

	if appErr := c.AuthService.Logout(ctx.Request().Context(), parts[1]); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out")
}

// Me handles GET /private/auth/me
// @Summary Current user profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /private/auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	user, appErr := c.AuthService.GetUserByID(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToUserResponse(user), "Success")
}
