// Package jwt выпускает и проверяет токены сессии и ссылок-приглашений.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Назначение токена.
const (
	PurposeSession = "session"
	PurposeInvite  = "invite"
)

// ErrWrongPurpose токен выпущен для другого сценария.
var ErrWrongPurpose = errors.New("token purpose mismatch")

// CustomClaims данные токена. Subject хранит user_id, ID хранит jti.
type CustomClaims struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// UserID идентификатор пользователя из токена.
func (c *CustomClaims) UserID() string {
	return c.Subject
}

// Maker подписывает токены HS256.
type Maker struct {
	secretKey []byte
	tokenTTL  time.Duration
	inviteTTL time.Duration
	now       func() time.Time
}

// NewMaker создаёт Maker.
func NewMaker(secretKey string, tokenTTL, inviteTTL time.Duration) *Maker {
	return &Maker{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		inviteTTL: inviteTTL,
		now:       time.Now,
	}
}

// Issued выпущенный токен.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// GenerateToken выпускает токен сессии.
func (m *Maker) GenerateToken(userID, role string) (Issued, error) {
	return m.generate(userID, role, PurposeSession, m.tokenTTL)
}

// GenerateInviteToken выпускает токен для установки пароля по приглашению.
func (m *Maker) GenerateInviteToken(userID string) (Issued, error) {
	return m.generate(userID, "", PurposeInvite, m.inviteTTL)
}

func (m *Maker) generate(userID, role, purpose string, ttl time.Duration) (Issued, error) {
	const op = "jwt.generate"
	now := m.now()
	claims := CustomClaims{
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return Issued{}, fmt.Errorf("%s: %w", op, err)
	}
	return Issued{Token: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ParseToken проверяет подпись, срок и назначение токена сессии.
func (m *Maker) ParseToken(tokenStr string) (*CustomClaims, error) {
	return m.parse(tokenStr, PurposeSession)
}

// ParseInviteToken проверяет токен приглашения.
func (m *Maker) ParseInviteToken(tokenStr string) (*CustomClaims, error) {
	return m.parse(tokenStr, PurposeInvite)
}

func (m *Maker) parse(tokenStr, purpose string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongPurpose)
	}
	return claims, nil
}
