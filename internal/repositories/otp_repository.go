package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finquest/internal/models"
)

// ErrOTPAlreadyUsed is returned by MarkUsed when the conditional update
// finds the row already consumed. Two racing verifications for the same
// code resolve here: the loser sees this error.
var ErrOTPAlreadyUsed = errors.New("otp code already used")

type OTPRepository interface {
	Create(userID int, code, purpose string, createdAt, expiresAt time.Time) (*models.OTPCode, error)

	// FindMatching returns an unconsumed, unexpired record matching
	// (userID, code, purpose), or nil when none exists. When several
	// qualify the newest is returned.
	FindMatching(userID int, code, purpose string) (*models.OTPCode, error)

	// MarkUsed flips used to true only if it is currently false.
	MarkUsed(id int64) error

	PurgeExpired() (int64, error)
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

// Create — every send is a new row; prior outstanding codes are left alone.
func (r *otpRepository) Create(userID int, code, purpose string, createdAt, expiresAt time.Time) (*models.OTPCode, error) {
	const q = `
		INSERT INTO otp_codes (user_id, code, purpose, created_at, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id
	`
	rec := &models.OTPCode{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
	if err := r.DB.QueryRow(q, userID, code, purpose, createdAt, expiresAt).Scan(&rec.ID); err != nil {
		return nil, fmt.Errorf("create otp code: %w", err)
	}
	return rec, nil
}

func (r *otpRepository) FindMatching(userID int, code, purpose string) (*models.OTPCode, error) {
	const q = `
		SELECT id, user_id, code, purpose, created_at, expires_at, used
		FROM otp_codes
		WHERE user_id = $1 AND code = $2 AND purpose = $3
		  AND used = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, userID, code, purpose)
	var rec models.OTPCode
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Code, &rec.Purpose, &rec.CreatedAt, &rec.ExpiresAt, &rec.Used); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find matching otp: %w", err)
	}
	return &rec, nil
}

// MarkUsed — conditional write, not a blind one: the WHERE used = FALSE
// guard makes concurrent redemption of the same row a one-winner race.
func (r *otpRepository) MarkUsed(id int64) error {
	const q = `UPDATE otp_codes SET used = TRUE WHERE id = $1 AND used = FALSE`
	res, err := r.DB.Exec(q, id)
	if err != nil {
		return fmt.Errorf("mark otp used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark otp used rows: %w", err)
	}
	if n == 0 {
		return ErrOTPAlreadyUsed
	}
	return nil
}

func (r *otpRepository) PurgeExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM otp_codes WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge expired otps: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired otps rows: %w", err)
	}
	return n, nil
}
