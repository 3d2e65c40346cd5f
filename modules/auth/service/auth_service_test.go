package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legacy-sukawarna/rsvp-app/core/config"
	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/entity"
)

type fakeAuthRepo struct {
	usersByID    map[uuid.UUID]*entity.User
	usersByEmail map[string]*entity.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByID:    make(map[uuid.UUID]*entity.User),
		usersByEmail: make(map[string]*entity.User),
	}
}

func (r *fakeAuthRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.usersByEmail[email], nil
}

func (r *fakeAuthRepo) GetUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.usersByID[id], nil
}

func (r *fakeAuthRepo) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.usersByID[created.ID] = &created
	r.usersByEmail[created.Email] = &created
	return &created, nil
}

func (r *fakeAuthRepo) UpdateProfile(_ context.Context, id uuid.UUID, username string, avatarURL *string) error {
	user, ok := r.usersByID[id]
	if !ok {
		return nil
	}
	user.Username = username
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}
	return nil
}

type fakeCache struct {
	blacklist map[string]time.Duration
	states    map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		blacklist: make(map[string]time.Duration),
		states:    make(map[string]bool),
	}
}

func (c *fakeCache) AddToTokenBlacklist(_ context.Context, token string, ttl time.Duration) error {
	c.blacklist[token] = ttl
	return nil
}

func (c *fakeCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := c.blacklist[token]
	return ok, nil
}

func (c *fakeCache) SetOAuthState(_ context.Context, state string) error {
	c.states[state] = true
	return nil
}

func (c *fakeCache) ConsumeOAuthState(_ context.Context, state string) (bool, error) {
	if !c.states[state] {
		return false, nil
	}
	delete(c.states, state)
	return true, nil
}

func (c *fakeCache) Close() error { return nil }

func setTestConfig(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret"},
		GoogleAPI: config.GoogleAPIConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost:7070/api/v1/public/auth/google/callback",
		},
	})
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeAuthRepo, *fakeCache) {
	t.Helper()
	setTestConfig(t)
	repo := newFakeAuthRepo()
	c := newFakeCache()
	svc := NewAuthService(repo, c).(*AuthService)
	return svc, repo, c
}

func TestGoogleLoginURLStoresState(t *testing.T) {
	svc, _, c := newTestAuthService(t)

	loginURL, appErr := svc.GoogleLoginURL(context.Background())
	require.Nil(t, appErr)
	assert.Contains(t, loginURL, "client_id=client-id")

	require.Len(t, c.states, 1)
	for state := range c.states {
		assert.Contains(t, loginURL, "state="+state)
	}
}

func TestGoogleLoginURLWithoutCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	config.Set(&config.Config{JWT: config.JWTConfig{Secret: "test-secret"}})

	_, appErr := svc.GoogleLoginURL(context.Background())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)
}

func TestHandleGoogleCallbackRejectsUnknownState(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, appErr := svc.HandleGoogleCallback(context.Background(), "code", "never-issued")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestOAuthStateIsSingleUse(t *testing.T) {
	_, _, c := newTestAuthService(t)

	require.NoError(t, c.SetOAuthState(context.Background(), "abc"))

	ok, err := c.ConsumeOAuthState(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ConsumeOAuthState(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetGoogleUserInfo(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer google-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ana@example.com","name":"Ana B","picture":"https://img.test/ana.png"}`))
	}))
	defer server.Close()
	svc.userInfoURL = server.URL

	info, err := svc.getGoogleUserInfo(context.Background(), "google-token")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", info.Email)
	assert.Equal(t, "Ana B", info.Name)
	assert.Equal(t, "https://img.test/ana.png", info.Picture)
}

func TestGetGoogleUserInfoNonOK(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()
	svc.userInfoURL = server.URL

	_, err := svc.getGoogleUserInfo(context.Background(), "bad-token")
	assert.Error(t, err)
}

func TestFindOrCreateUserCreatesOnFirstLogin(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, appErr := svc.findOrCreateUser(context.Background(), &GoogleUserInfo{
		Email:   "ana@example.com",
		Name:    "Ana B",
		Picture: "https://img.test/ana.png",
	})
	require.Nil(t, appErr)
	assert.Equal(t, "Ana B", user.Username)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, "https://img.test/ana.png", *user.AvatarURL)

	// The placeholder password must never equal anything a client can send.
	assert.NotEmpty(t, user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"))

	assert.Len(t, repo.usersByID, 1)
}

func TestFindOrCreateUserReusesExisting(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	first, appErr := svc.findOrCreateUser(context.Background(), &GoogleUserInfo{Email: "ana@example.com", Name: "Ana"})
	require.Nil(t, appErr)

	second, appErr := svc.findOrCreateUser(context.Background(), &GoogleUserInfo{Email: "ana@example.com", Name: "Ana Renamed"})
	require.Nil(t, appErr)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana Renamed", second.Username)
	assert.Len(t, repo.usersByID, 1)
}

func TestFindOrCreateUserFallsBackToEmailUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	user, appErr := svc.findOrCreateUser(context.Background(), &GoogleUserInfo{Email: "ana@example.com"})
	require.Nil(t, appErr)
	assert.Equal(t, "ana", user.Username)
}

func TestFindOrCreateUserNeverStoresFullEmailAsUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		info     *GoogleUserInfo
		username string
	}{
		{"profile name wins", &GoogleUserInfo{Email: "ana@example.com", Name: "Ana Silva"}, "Ana Silva"},
		{"local part when nameless", &GoogleUserInfo{Email: "ana@example.com"}, "ana"},
		{"empty local part stays empty", &GoogleUserInfo{Email: "@example.com"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, appErr := svc.findOrCreateUser(context.Background(), tc.info)
			require.Nil(t, appErr)
			assert.Equal(t, tc.username, user.Username)
			assert.NotEqual(t, tc.info.Email, user.Username)
		})
	}
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, err := repo.CreateUser(context.Background(), &entity.User{Email: "ana@example.com", Username: "ana"})
	require.NoError(t, err)

	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenRefresh)
	require.NoError(t, err)

	pair, appErr := svc.RefreshToken(context.Background(), refreshToken)
	require.Nil(t, appErr)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := utils.ValidateAndParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, err := repo.CreateUser(context.Background(), &entity.User{Email: "ana@example.com", Username: "ana"})
	require.NoError(t, err)

	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenAccess)
	require.NoError(t, err)

	_, appErr := svc.RefreshToken(context.Background(), accessToken)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, repo, c := newTestAuthService(t)

	user, err := repo.CreateUser(context.Background(), &entity.User{Email: "ana@example.com", Username: "ana"})
	require.NoError(t, err)

	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenRefresh)
	require.NoError(t, err)

	require.Nil(t, svc.Logout(context.Background(), refreshToken))

	ttl, ok := c.blacklist[refreshToken]
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))

	_, appErr := svc.RefreshToken(context.Background(), refreshToken)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestGetUserByIDUnknown(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, appErr := svc.GetUserByID(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
