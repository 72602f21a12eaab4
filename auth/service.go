package auth

import (
	"errors"
	"time"

	pkgzauth "github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/provider"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/models"
)

const issuer = "traffic-analysis-app"

// Service issues and verifies the bearer tokens this API consumes.
// Token subject is the user's email.
type Service struct {
	svc *pkgzauth.Service
	db  *gorm.DB
}

func NewService(db *gorm.DB, secret string) *Service {
	options := pkgzauth.Opts{
		SecretReader: token.SecretFunc(func(id string) (string, error) {
			return secret, nil
		}),
		TokenDuration:  time.Hour * 24,
		CookieDuration: time.Hour * 24 * 7,
		Issuer:         issuer,
		URL:            "http://localhost:8000",
		AvatarStore:    avatar.NewLocalFS("/tmp/avatars"),
	}

	service := pkgzauth.NewService(options)
	s := &Service{svc: service, db: db}

	service.AddDirectProvider("local", provider.CredCheckerFunc(func(identity, password string) (bool, error) {
		return s.checkCredentials(identity, password)
	}))

	return s
}

// IssueToken creates a signed bearer token for the user.
func (s *Service) IssueToken(u models.User) (string, error) {
	claims := token.Claims{
		User: &token.User{
			ID:    u.Email,
			Name:  u.Name,
			Email: u.Email,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.Email,
			Audience:  []string{issuer},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	return s.svc.TokenService().Token(claims)
}

// ParseSubject verifies a bearer token and returns the email it was issued
// for. Expired and malformed tokens come back as errors.
func (s *Service) ParseSubject(tokenStr string) (string, error) {
	claims, err := s.svc.TokenService().Parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.User != nil && claims.User.Email != "" {
		return claims.User.Email, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", errors.New("token has no subject")
}

func (s *Service) checkCredentials(email, password string) (bool, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return CheckPasswordHash(password, user.Password), nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
