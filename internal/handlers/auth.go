package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hahacafe/coffee-shop/internal/hash"
	"github.com/hahacafe/coffee-shop/internal/jwtmiddleware"
	"github.com/hahacafe/coffee-shop/internal/mail"
	"github.com/hahacafe/coffee-shop/internal/models"
	"github.com/hahacafe/coffee-shop/internal/mykafka"
)

const otpTTL = 5 * time.Minute

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *mykafka.Producer
	Mailer    mail.Mailer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName"  validate:"required"`
		Email     string `json:"email"     validate:"required,email"`
		Password  string `json:"password"  validate:"required,min=6"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Logger().Errorf("register lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		c.Logger().Errorf("password hash error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: pwHash,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.Logger().Errorf("register create error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	token, err := jwtmiddleware.SignToken(user.ID, h.JWTSecret)
	if err != nil {
		c.Logger().Errorf("token sign error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registration successful",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"    validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := jwtmiddleware.SignToken(user.ID, h.JWTSecret)
	if err != nil {
		c.Logger().Errorf("token sign error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.sendMail(c, user.Email, "Login successful",
		fmt.Sprintf("Hello %s %s,\n\nYour account was just used to sign in at %s.\nIf this was not you, please contact support immediately.",
			user.FirstName, user.LastName, time.Now().Format(time.RFC1123)))

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) GetProfile(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		c.Logger().Errorf("profile lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName"  validate:"required"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		c.Logger().Errorf("profile lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Address = req.Address
	if err := h.DB.Save(&user).Error; err != nil {
		c.Logger().Errorf("profile update error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) sendMail(c echo.Context, to, subject, body string) {
	if h.Mailer == nil {
		return
	}
	if err := h.Mailer.Send(c.Request().Context(), to, subject, body); err != nil {
		c.Logger().Errorf("mail send error: %v", err)
	}
}

func generateOTP() string {
	// 6-digit numeric code, 100000..999999.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprint(n.Int64() + 100000)
}

// RequestResetOTP always answers 200 with a neutral message so the endpoint
// cannot be used to probe which emails are registered.
func (h *AuthHandler) RequestResetOTP(c echo.Context) error {
	neutral := echo.Map{"message": "if the email exists, you will receive an OTP code"}

	var req struct {
		Email string `json:"email" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, neutral)
		}
		c.Logger().Errorf("otp lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	otp := generateOTP()
	expires := time.Now().Add(otpTTL)
	updates := map[string]any{"reset_otp": otp, "reset_otp_expires": expires}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		c.Logger().Errorf("otp save error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.sendMail(c, user.Email, "Password reset OTP",
		fmt.Sprintf("Hello %s %s,\n\nYour OTP code is: %s\nIt is valid for 5 minutes.\nIf you did not request a password reset, ignore this email.",
			user.FirstName, user.LastName, otp))

	h.publish(c, map[string]any{
		"type":   "reset_otp_requested",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, neutral)
}

func (h *AuthHandler) checkOTP(user *models.User, otp string) error {
	if user.ResetOTP == "" || user.ResetOTPExpires == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid OTP")
	}
	if user.ResetOTP != otp {
		return echo.NewHTTPError(http.StatusBadRequest, "incorrect OTP code")
	}
	if user.ResetOTPExpires.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "OTP code has expired")
	}
	return nil
}

// VerifyResetOTP only checks the code; the password changes in ResetPassword.
func (h *AuthHandler) VerifyResetOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required"`
		OTP   string `json:"otp"   validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid OTP")
	}
	if err := h.checkOTP(&user, req.OTP); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP is valid, you may reset your password"})
}

// ResetPassword rehashes the password and clears the OTP, making it single-use.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email"       validate:"required"`
		OTP         string `json:"otp"         validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid OTP")
	}
	if err := h.checkOTP(&user, req.OTP); err != nil {
		return err
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		c.Logger().Errorf("password hash error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	updates := map[string]any{
		"password_hash":     pwHash,
		"reset_otp":         "",
		"reset_otp_expires": nil,
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		c.Logger().Errorf("password update error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":   "password_reset",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "password changed successfully"})
}

// FullName is the fallback customer name used on orders when the request
// carries none.
func FullName(u *models.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
