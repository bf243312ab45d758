package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/internal/repository"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/nandanhq/peerverse/pkg/mailer"
	"github.com/nandanhq/peerverse/pkg/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) error
}

type authService struct {
	userRepo    repository.UserRepository
	collegeRepo repository.CollegeRepository
	mail        mailer.Mailer
	secret      string
	tokenTTL    time.Duration
	frontendURL string
}

func NewAuthService(userRepo repository.UserRepository, collegeRepo repository.CollegeRepository, mail mailer.Mailer) AuthService {
	secret := token.Secret()

	ttl := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	return &authService{
		userRepo:    userRepo,
		collegeRepo: collegeRepo,
		mail:        mail,
		secret:      secret,
		tokenTTL:    ttl,
		frontendURL: frontendURL,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(0, "user already exists", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	collegeID, err := uuid.Parse(input.CollegeID)
	if err != nil {
		return nil, apperror.New(0, "invalid college id", apperror.ErrInvalidInput)
	}

	college, err := s.collegeRepo.FindByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("college", input.CollegeID)
		}
		return nil, err
	}

	if !emailMatchesDomains(input.Email, college.EmailDomains) {
		return nil, apperror.New(0, "email domain is not allowed for this college", apperror.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expiresAt := time.Now().Add(24 * time.Hour)

	year := input.Year
	user := &model.User{
		Name:                       input.Name,
		Email:                      input.Email,
		PasswordHash:               string(hashedPassword),
		CollegeID:                  &collegeID,
		Major:                      strPtrOrNil(input.Major),
		Year:                       &year,
		LinkedIn:                   strPtrOrNil(input.LinkedIn),
		VerificationToken:          &token,
		VerificationTokenExpiresAt: &expiresAt,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(0, "user already exists", apperror.ErrBadRequest)
		}
		return nil, err
	}

	// Registration succeeds even if the email fails to send; the user can
	// request a resend.
	s.sendVerificationEmail(user, token)

	jwtToken, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: jwtToken, User: toUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "invalid email or password", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperror.New(0, "invalid email or password", apperror.ErrUnauthorized)
	}

	if !user.IsEmailVerified {
		return nil, apperror.New(0, "please verify your email before logging in", apperror.ErrForbidden)
	}

	jwtToken, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: jwtToken, User: toUserResponse(user)}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(0, "invalid verification token", apperror.ErrBadRequest)
		}
		return err
	}

	if user.VerificationTokenExpiresAt == nil || time.Now().After(*user.VerificationTokenExpiresAt) {
		return apperror.New(0, "verification token has expired", apperror.ErrBadRequest)
	}

	user.IsEmailVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiresAt = nil

	return s.userRepo.Update(ctx, user)
}

func (s *authService) signToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) sendVerificationEmail(user *model.User, token string) {
	if s.mail == nil {
		return
	}

	verificationURL := fmt.Sprintf("%s/verify-email/%s", s.frontendURL, token)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Peerverse!</h2>
  <p>Hello %s,</p>
  <p>Thank you for registering. Please verify your email address by opening the link below:</p>
  <p><a href="%s">Verify Email</a></p>
  <p>This link will expire in 24 hours.</p>
</div>`, user.Name, verificationURL)

	if err := s.mail.Send(user.Email, "Verify Your Email - Peerverse", body); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}
}

func emailMatchesDomains(email string, domains []string) bool {
	// A college without configured domains accepts any address.
	if len(domains) == 0 {
		return true
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	emailDomain := strings.ToLower(email[at+1:])

	for _, d := range domains {
		if emailDomain == strings.ToLower(d) {
			return true
		}
	}
	return false
}

func generateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePic:     user.ProfilePic,
		CollegeID:      user.CollegeID,
		Major:          user.Major,
		Year:           user.Year,
		LinkedIn:       user.LinkedIn,
		Karma:          user.Karma,
		QuestionsAsked: user.QuestionsAsked,
		AnswersGiven:   user.AnswersGiven,
		IsMentor:       user.IsMentor,
		CreatedAt:      user.CreatedAt,
	}
}
