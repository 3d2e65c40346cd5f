package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/entity"
)

// AuthRepository handles user persistence for the auth module.
type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the contract for auth repository operations
type AuthRepositoryInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username string, avatarURL *string) error
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, username, password, avatar_url, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail:Error:", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, username, password, avatar_url, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID:Error:", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, username, password, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, username, password, avatar_url, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Email, user.Username, user.Password, user.AvatarURL)
	if err != nil {
		logger.Error("AuthRepository:CreateUser:Error:", err)
		return nil, err
	}

	return &created, nil
}

// UpdateProfile refreshes the display name and avatar from the latest
// Google profile on login.
func (r *AuthRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username string, avatarURL *string) error {
	query := `
		UPDATE users
		SET username = $2, avatar_url = COALESCE($3, avatar_url), updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, id, username, avatarURL)
	if err != nil {
		logger.Error("AuthRepository:UpdateProfile:Error:", err)
		return err
	}
	return nil
}
