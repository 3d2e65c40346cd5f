package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/legacy-sukawarna/rsvp-app/core/cache"
	"github.com/legacy-sukawarna/rsvp-app/core/config"
	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/dto"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/entity"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/repository"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService owns Google login, token issuance and user lookup.
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache

	// overridable in tests
	userInfoURL string
	httpClient  *http.Client
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	GoogleLoginURL(ctx context.Context) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache) AuthServiceInterface {
	return &AuthService{
		repo:        repo,
		cache:       c,
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (service *AuthService) oauthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleLoginURL stores a one-shot state nonce and returns the consent URL.
func (service *AuthService) GoogleLoginURL(ctx context.Context) (string, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return "", errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}
	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" {
		return "", errors.NewAppError(errors.ErrInternalServer, "Google OAuth is not configured", nil)
	}

	state := utils.GenerateRandomString(32)
	if err := service.cache.SetOAuthState(ctx, state); err != nil {
		logger.Error("AuthService:GoogleLoginURL:SetOAuthState:Error:", err)
		return "", errors.NewAppError(errors.ErrStoreUnavailable, "failed to store OAuth state", err)
	}

	authURL := service.oauthConfig(cfg).AuthCodeURL(state, oauth2.AccessTypeOnline)
	return authURL, nil
}

// HandleGoogleCallback handles the OAuth callback from Google
func (service *AuthService) HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}

	valid, err := service.cache.ConsumeOAuthState(ctx, state)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:ConsumeOAuthState:Error", "error", err, "state", state)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to verify OAuth state", err)
	}
	if !valid {
		logger.Error("AuthService:HandleGoogleCallback:StateNotFound", "state", state)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token", nil)
	}

	token, err := service.oauthConfig(cfg).Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error:", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	userInfo, err := service.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:GetGoogleUserInfo:Error:", err)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to fetch Google profile", err)
	}
	if userInfo.Email == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google profile has no email", nil)
	}

	user, appErr := service.findOrCreateUser(ctx, userInfo)
	if appErr != nil {
		return nil, appErr
	}

	return service.issueTokenPair(user)
}

func (service *AuthService) findOrCreateUser(ctx context.Context, userInfo *GoogleUserInfo) (*entity.User, *errors.AppError) {
	user, err := service.repo.GetUserByEmail(ctx, userInfo.Email)
	if err != nil {
		logger.Error("AuthService:FindOrCreateUser:GetUserByEmail:Error:", err)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to look up user", err)
	}

	// Without a profile name, fall back to the email local-part so the full
	// address never becomes a public display name.
	username := userInfo.Name
	if username == "" {
		username, _, _ = strings.Cut(userInfo.Email, "@")
	}
	var avatarURL *string
	if userInfo.Picture != "" {
		avatarURL = &userInfo.Picture
	}

	if user == nil {
		// Local password is never used for OAuth accounts; store a hash of
		// random bytes so the column is not a login vector.
		hashedPassword, err := utils.HashPassword(utils.GenerateRandomString(32))
		if err != nil {
			logger.Error("AuthService:FindOrCreateUser:HashPassword:Error:", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to provision user", err)
		}

		newUser := &entity.User{
			Email:     userInfo.Email,
			Username:  username,
			Password:  hashedPassword,
			AvatarURL: avatarURL,
		}
		created, err := service.repo.CreateUser(ctx, newUser)
		if err != nil {
			logger.Error("AuthService:FindOrCreateUser:CreateUser:Error:", err)
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to create user", err)
		}
		logger.Info("AuthService:FindOrCreateUser:Created", "user_id", created.ID, "email", created.Email)
		return created, nil
	}

	if err := service.repo.UpdateProfile(ctx, user.ID, username, avatarURL); err != nil {
		// Profile refresh is best effort; login still succeeds.
		logger.Warn("AuthService:FindOrCreateUser:UpdateProfile:Error", "error", err, "user_id", user.ID)
	} else {
		user.Username = username
		if avatarURL != nil {
			user.AvatarURL = avatarURL
		}
	}

	return user, nil
}

func (service *AuthService) issueTokenPair(user *entity.User) (*dto.LoginResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:IssueTokenPair:GenerateAccessToken:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenRefresh)
	if err != nil {
		logger.Error("AuthService:IssueTokenPair:GenerateRefreshToken:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken issues a new token pair from a valid refresh token.
func (service *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, *errors.AppError) {
	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("AuthService:RefreshToken:IsTokenBlacklisted:Error:", err)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to check token blacklist", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token has been revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is not a refresh token", nil)
	}

	user, appErr := service.GetUserByID(ctx, claims.UserID)
	if appErr != nil {
		return nil, appErr
	}

	return service.issueTokenPair(user)
}

// Logout blacklists the token until its natural expiry.
func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := service.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:AddToTokenBlacklist:Error:", err)
		return errors.NewAppError(errors.ErrStoreUnavailable, "failed to revoke token", err)
	}

	return nil
}

func (service *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error("AuthService:GetUserByID:Error:", err)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

// getGoogleUserInfo fetches user information from Google API
func (service *AuthService) getGoogleUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", service.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := service.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: %s", string(body))
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}

// GoogleUserInfo represents Google user information
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}
