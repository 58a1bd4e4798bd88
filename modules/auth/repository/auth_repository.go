package repository

import (
	"context"
	"database/sql"

	"interviewhub/core/constants"
	"interviewhub/core/database"
	"interviewhub/core/logger"
	"interviewhub/core/params"
	"interviewhub/modules/auth/entity"

	"github.com/google/uuid"
)

// AuthRepository handles user account persistence. It doubles as the
// interviewer directory for the assignment engine and the role directory for
// notification fan-out.
type AuthRepository struct {
	DB database.Database
}

func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	IsInterviewer(ctx context.Context, userID uuid.UUID) (bool, error)
	GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
	ListUsersByRole(ctx context.Context, role string, p params.QueryParams) (*entity.PaginatedUserEntity, error)
}

const userColumns = `id, email, password_hash, full_name, role, last_login_at, created_at, updated_at`

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Email, user.PasswordHash, user.FullName, user.Role)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("AuthRepository:TouchLastLogin", err)
		return err
	}
	return nil
}

// IsInterviewer reports whether the id belongs to an INTERVIEWER account.
func (r *AuthRepository) IsInterviewer(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2)`

	var exists bool
	err := r.DB.GetContext(ctx, &exists, query, userID, constants.RoleInterviewer)
	if err != nil {
		logger.Error("AuthRepository:IsInterviewer", err)
		return false, err
	}

	return exists, nil
}

func (r *AuthRepository) GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE role = $1`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query, role)
	if err != nil {
		logger.Error("AuthRepository:GetUserIDsByRole", err)
		return nil, err
	}

	return ids, nil
}

func (r *AuthRepository) ListUsersByRole(ctx context.Context, role string, p params.QueryParams) (*entity.PaginatedUserEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	baseQuery := `FROM users WHERE role = $1`

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, role)
	if err != nil {
		logger.Error("AuthRepository:ListUsersByRole:Count", err)
		return nil, err
	}

	query := `
		SELECT ` + userColumns + ` ` + baseQuery + `
		ORDER BY full_name
		LIMIT $2 OFFSET $3
	`

	var users []entity.User
	err = r.DB.SelectContext(ctx, &users, query, role, p.PageSize, offset)
	if err != nil {
		logger.Error("AuthRepository:ListUsersByRole:Select", err)
		return nil, err
	}

	return &entity.PaginatedUserEntity{
		Items:      users,
		TotalItems: totalItems,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}
