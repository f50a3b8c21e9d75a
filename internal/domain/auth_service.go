package domain

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type authService struct {
	users  ports.UserRepository
	secret string
}

func NewAuthService(users ports.UserRepository, secret string) ports.AuthService {
	return &authService{
		users:  users,
		secret: secret,
	}
}

func (s *authService) Register(ctx context.Context, email, name, password string) (string, error) {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	if _, err := s.users.InsertUser(ctx, &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}); err != nil {
		return "", err
	}

	return s.token(email), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidLogin
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidLogin
	}

	return s.token(email), nil
}

// ValidateToken returns the id of the user the token was issued for.
func (s *authService) ValidateToken(ctx context.Context, token string) (int64, error) {
	i := strings.LastIndex(token, "|")
	if i < 0 {
		return 0, ErrInvalidLogin
	}
	email, sig := token[:i], token[i+1:]

	if !hmac.Equal([]byte(sig), []byte(s.sign(email))) {
		return 0, ErrInvalidLogin
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrInvalidLogin
	}
	return user.ID, nil
}

func (s *authService) token(email string) string {
	return email + "|" + s.sign(email)
}

func (s *authService) sign(msg string) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
