package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finquest/internal/models"
	"finquest/internal/services"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
	otpService  services.OTPService
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, otpService services.OTPService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService, otpService: otpService}
}

// @Summary      Register a new account
// @Description  Creates an unverified user and sends a verification code (SMS preferred when a phone is given)
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]string
// @Failure      502       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[auth][register] failed: email=%q err=%v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	_, err = h.otpService.IssueCode(user.ID, models.OTPPurposeRegistration, models.DeliveryTarget{
		Phone: user.Phone,
		Email: user.Email,
	})
	if err != nil {
		// the code row is stored; the client can retry via /auth/resend-otp
		log.Printf("[auth][register] verification code delivery failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to send verification code",
			"user_id": user.ID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Please verify your account with the OTP sent.",
		"user_id": user.ID,
	})
}

// @Summary      Verify a registration code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verify  body      object  true  "user_id and code"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		UserID int    `json:"user_id" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.otpService.ConsumeForRegistration(req.UserID, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		log.Printf("[auth][verify] failed: user_id=%d err=%v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OTP verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account verified successfully",
		"token":   token,
		"user": gin.H{
			"id":          req.UserID,
			"is_verified": true,
		},
	})
}

// @Summary      Resend a verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        resend  body      object  true  "user_id and optional purpose"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		UserID  int    `json:"user_id" binding:"required"`
		Purpose string `json:"purpose"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Purpose == "" {
		req.Purpose = models.OTPPurposeRegistration
	}

	if _, err := h.otpService.ResendCode(req.UserID, req.Purpose); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrNoDeliveryTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send OTP"})
		default:
			log.Printf("[auth][resend] failed: user_id=%d err=%v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.TrimSpace(req.Email)
	user, err := h.userService.GetUserByEmail(email)
	if err != nil || user == nil {
		log.Printf("[auth][login] user lookup failed: email=%q err=%v", email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		log.Printf("[auth][login] bcrypt mismatch: user_id=%d", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		log.Printf("[auth][login] token issue failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[auth][login] success user_id=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user, // PasswordHash is json:"-", it never leaves
	})
}

// @Summary      Request a password reset code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      object  true  "email"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("[auth][forgot] user lookup failed: email=%q err=%v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// reset codes always go to the registered email
	_, err = h.otpService.IssueCode(user.ID, models.OTPPurposePasswordReset, models.DeliveryTarget{Email: user.Email})
	if err != nil {
		if errors.Is(err, services.ErrDeliveryFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send password reset code"})
			return
		}
		log.Printf("[auth][forgot] failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset code sent to your email"})
}

// @Summary      Reset the password with a code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      object  true  "user_id, code, new_password"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		UserID      int    `json:"user_id" binding:"required"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.otpService.ConsumeForPasswordReset(req.UserID, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidOrExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		log.Printf("[auth][reset] failed: user_id=%d err=%v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
