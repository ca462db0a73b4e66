package repositories

import (
	"database/sql"
	"fmt"

	"finquest/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ExistsByEmailOrPhone(email, phone string) (bool, error)

	// verification / credential side effects of the OTP workflow
	MarkVerified(userID int) error
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, COALESCE(phone, ''), password_hash,
	COALESCE(first_name, ''), COALESCE(last_name, ''),
	is_verified, is_active, verified_at, created_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var verifiedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.PasswordHash,
		&u.FirstName, &u.LastName,
		&u.IsVerified, &u.IsActive, &verifiedAt, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if verifiedAt.Valid {
		u.VerifiedAt = &verifiedAt.Time
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, phone, password_hash, first_name, last_name, is_verified, is_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, FALSE, TRUE)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		user.Email, user.Phone, user.PasswordHash, user.FirstName, user.LastName,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.IsActive = true
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) ExistsByEmailOrPhone(email, phone string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE email = $1 OR (phone IS NOT NULL AND phone = NULLIF($2, ''))
		)
	`
	var exists bool
	if err := r.DB.QueryRow(q, email, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists check: %w", err)
	}
	return exists, nil
}

func (r *userRepository) MarkVerified(userID int) error {
	const q = `UPDATE users SET is_verified = TRUE, verified_at = NOW() WHERE id = $1`
	if _, err := r.DB.Exec(q, userID); err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE id = $2`
	if _, err := r.DB.Exec(q, passwordHash, userID); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}
