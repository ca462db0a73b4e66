package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"finquest/internal/models"
	"finquest/internal/repositories"
	"finquest/internal/utils"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrDeliveryFailed means the provider rejected the send; the OTP
	// record has already been persisted and stays valid for a resend.
	ErrDeliveryFailed = errors.New("failed to deliver verification code")
	// ErrInvalidOrExpired deliberately covers wrong, expired and
	// already-used codes alike so callers can't probe which it was.
	ErrInvalidOrExpired = errors.New("invalid or expired OTP")
	ErrNoDeliveryTarget = errors.New("no phone or email to deliver the code to")
)

const defaultOTPTTL = 10 * time.Minute

// SMSSender is the SMS side of the Code Delivery Channel.
type SMSSender interface {
	SendSMS(to, body string) (*utils.SendSMSResponse, error)
}

// OTPService is the OTP verification workflow: issuing codes, matching
// and consuming them, and the follow-up side effects of a successful
// verification (account activation, password replacement).
type OTPService interface {
	IssueCode(userID int, purpose string, target models.DeliveryTarget) (*models.DeliveryResult, error)
	VerifyCode(userID int, submittedCode, purpose string) (*models.OTPCode, error)
	ResendCode(userID int, purpose string) (*models.DeliveryResult, error)
	ConsumeForRegistration(userID int, submittedCode string) (string, error)
	ConsumeForPasswordReset(userID int, submittedCode, newPassword string) error
	PurgeExpired() error
}

type otpService struct {
	repo     repositories.OTPRepository
	userRepo repositories.UserRepository
	sms      SMSSender
	emails   EmailService
	hasher   PasswordHasher
	tokens   TokenIssuer
	codeTTL  time.Duration

	now func() time.Time // injectable for expiry tests
}

func NewOTPService(
	repo repositories.OTPRepository,
	userRepo repositories.UserRepository,
	sms SMSSender,
	emails EmailService,
	hasher PasswordHasher,
	tokens TokenIssuer,
	codeTTL time.Duration,
) OTPService {
	if codeTTL <= 0 {
		codeTTL = defaultOTPTTL
	}
	return &otpService{
		repo:     repo,
		userRepo: userRepo,
		sms:      sms,
		emails:   emails,
		hasher:   hasher,
		tokens:   tokens,
		codeTTL:  codeTTL,
		now:      time.Now,
	}
}

// generateCode draws a uniform random 6-digit code in [100000, 999999].
// The fixed-width decimal form means leading digits are never dropped.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func otpMessage(code string) string {
	return fmt.Sprintf("Your verification code is: %s. Valid for 10 minutes.", code)
}

// IssueCode persists a fresh code and then attempts delivery. The order
// matters: a delivery failure leaves the stored code in place so a resend
// path (or a code that arrived late) can still succeed.
func (s *otpService) IssueCode(userID int, purpose string, target models.DeliveryTarget) (*models.DeliveryResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("issue code: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if target.Phone == "" && target.Email == "" {
		return nil, ErrNoDeliveryTarget
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec, err := s.repo.Create(userID, code, purpose, now, now.Add(s.codeTTL))
	if err != nil {
		return nil, fmt.Errorf("issue code: %w", err)
	}

	// SMS wins whenever a phone number is available
	if target.Phone != "" {
		resp, err := s.sms.SendSMS(target.Phone, otpMessage(code))
		if err != nil {
			log.Printf("[otp][issue] sms delivery failed: user_id=%d purpose=%s err=%v", userID, purpose, err)
			return nil, ErrDeliveryFailed
		}
		log.Printf("[otp][issue] sms sent: user_id=%d purpose=%s message_id=%s", userID, purpose, resp.SID)
		return &models.DeliveryResult{RecordID: rec.ID, Channel: "sms", MessageID: resp.SID}, nil
	}

	if err := s.emails.SendOTPEmail(target.Email, code); err != nil {
		log.Printf("[otp][issue] email delivery failed: user_id=%d purpose=%s err=%v", userID, purpose, err)
		return nil, ErrDeliveryFailed
	}
	log.Printf("[otp][issue] email sent: user_id=%d purpose=%s", userID, purpose)
	return &models.DeliveryResult{RecordID: rec.ID, Channel: "email"}, nil
}

// VerifyCode consumes one eligible record. Multiple outstanding codes may
// match; the repository picks the newest, but the contract only promises
// that *some* eligible record is consumed. The used flag is flipped with a
// conditional update, so of two racing calls exactly one wins.
func (s *otpService) VerifyCode(userID int, submittedCode, purpose string) (*models.OTPCode, error) {
	rec, err := s.repo.FindMatching(userID, submittedCode, purpose)
	if err != nil {
		return nil, fmt.Errorf("verify code: %w", err)
	}
	if rec == nil {
		return nil, ErrInvalidOrExpired
	}

	if err := s.repo.MarkUsed(rec.ID); err != nil {
		if errors.Is(err, repositories.ErrOTPAlreadyUsed) {
			// lost the race to a concurrent verification
			return nil, ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("verify code: %w", err)
	}

	rec.Used = true
	log.Printf("[otp][verify] OK user_id=%d purpose=%s record_id=%d", userID, purpose, rec.ID)
	return rec, nil
}

// ResendCode issues a brand-new code to the user's stored contact target.
// Prior outstanding codes are neither invalidated nor extended.
func (s *otpService) ResendCode(userID int, purpose string) (*models.DeliveryResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("resend code: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.IssueCode(userID, purpose, models.DeliveryTarget{Phone: user.Phone, Email: user.Email})
}

// ConsumeForRegistration verifies a REGISTRATION code, activates the
// account and returns a bearer token for the now-verified user.
func (s *otpService) ConsumeForRegistration(userID int, submittedCode string) (string, error) {
	if _, err := s.VerifyCode(userID, submittedCode, models.OTPPurposeRegistration); err != nil {
		return "", err
	}
	if err := s.userRepo.MarkVerified(userID); err != nil {
		return "", fmt.Errorf("consume for registration: %w", err)
	}
	token, err := s.tokens.IssueToken(userID)
	if err != nil {
		return "", fmt.Errorf("consume for registration: %w", err)
	}
	return token, nil
}

// ConsumeForPasswordReset verifies a PASSWORD_RESET code and only then
// replaces the stored credential. Verification failure short-circuits
// before any mutation.
func (s *otpService) ConsumeForPasswordReset(userID int, submittedCode, newPassword string) error {
	if _, err := s.VerifyCode(userID, submittedCode, models.OTPPurposePasswordReset); err != nil {
		return err
	}
	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("consume for password reset: %w", err)
	}
	if err := s.userRepo.UpdatePassword(userID, hash); err != nil {
		return fmt.Errorf("consume for password reset: %w", err)
	}
	log.Printf("[otp][reset] password replaced: user_id=%d", userID)
	return nil
}

// PurgeExpired is housekeeping only: expired rows can never match a
// verification, deleting them just keeps the table small.
func (s *otpService) PurgeExpired() error {
	n, err := s.repo.PurgeExpired()
	if err != nil {
		log.Printf("[otp][purge] failed: err=%v", err)
		return err
	}
	if n > 0 {
		log.Printf("[otp][purge] removed %d expired codes", n)
	}
	return nil
}
