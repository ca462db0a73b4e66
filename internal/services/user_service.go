package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"finquest/internal/models"
	"finquest/internal/repositories"
)

var ErrEmailTaken = errors.New("user with this email or phone already exists")

type UserService interface {
	Register(req *models.RegisterRequest) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	hasher       PasswordHasher
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, hasher PasswordHasher) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		hasher:       hasher,
	}
}

// Register creates an unverified account. The caller is expected to issue
// a REGISTRATION code right after, which is what flips is_verified later.
func (s *userService) Register(req *models.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	exists, err := s.repo.ExistsByEmailOrPhone(email, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			// warn but do not fail registration
			log.Printf("Register: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
}
