// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package session issues and reads the bearer tokens carrying the console
// user.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "arcade"

var ErrNoSession = errors.New("no user session")

type UserClaims struct {
	Username string `json:"username"`
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

func (c *UserClaims) User() *model.User {
	return &model.User{
		Username: c.Username,
		Fullname: c.Fullname,
		Email:    c.Email,
		Admin:    c.Admin,
	}
}

// GenToken signs an HS256 token for u valid for ttl.
func GenToken(u model.User, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		Username: u.Username,
		Fullname: u.Fullname,
		Email:    u.Email,
		Admin:    u.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies token against secretKey.
func ParseToken(token string, secretKey []byte) (*UserClaims, error) {
	claims := new(UserClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TokenSession reads the user from the claims of the API token. The
// signature is checked by the backend, not here.
type TokenSession struct {
	user *model.User
	err  error
}

var _ service.ISessionProvider = (*TokenSession)(nil)

func NewTokenSession(token string) *TokenSession {
	if token == "" {
		return &TokenSession{err: ErrNoSession}
	}
	claims := new(UserClaims)
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return &TokenSession{err: fmt.Errorf("read token claims: %w", err)}
	}
	if claims.Username == "" {
		return &TokenSession{err: ErrNoSession}
	}
	return &TokenSession{user: claims.User()}
}

func (s *TokenSession) GetUser() (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u := *s.user
	return &u, nil
}

// Static is a session for a fixed user.
type Static struct {
	User model.User
}

func (s Static) GetUser() (*model.User, error) {
	u := s.User
	return &u, nil
}
