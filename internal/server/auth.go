package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"warbler/internal/middleware"
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "warbler-api"
	tokenAudience = "warbler-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// AuthRequired returns the authentication middleware. It accepts a Bearer JWT
// or the session cookie and rejects users that no longer exist.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := s.resolveUser(c)
		if err != nil {
			return respondError(c, err)
		}
		if !ok {
			return respondUnauthorized(c)
		}
		setCurrentUser(c, userID)
		return c.Next()
	}
}

// resolveUser finds the caller from the Authorization header, falling back to
// the session. ok is false when neither names an existing user.
func (s *Server) resolveUser(c *fiber.Ctx) (userID uint, ok bool, err error) {
	if raw := bearerToken(c); raw != "" {
		claims, perr := s.parseToken(c.UserContext(), raw)
		if perr != nil {
			return 0, false, nil
		}
		id, perr := strconv.ParseUint(claims.Subject, 10, 32)
		if perr != nil {
			return 0, false, nil
		}
		userID = uint(id)
	} else {
		sess, serr := s.sessions.Get(c)
		if serr != nil {
			return 0, false, models.NewInternalError(serr)
		}
		if userID, ok = sess.Get(sessionUserKey).(uint); !ok {
			return 0, false, nil
		}
	}

	if _, err := s.userRepo.GetByID(c.UserContext(), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return userID, true, nil
}

// generateToken creates a JWT for the given user.
func (s *Server) generateToken(user *models.User) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken validates signature, issuer, audience and expiry, then checks the
// revocation list.
func (s *Server) parseToken(ctx context.Context, raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" && s.redis != nil {
		revoked, err := s.redis.Exists(ctx, revokedKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, errors.New("token has been revoked")
		}
	}
	return claims, nil
}

// revokeToken blacklists the token's jti until it would have expired anyway.
func (s *Server) revokeToken(ctx context.Context, raw string) {
	if s.redis == nil || raw == "" {
		return
	}
	claims, err := s.parseToken(ctx, raw)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.redis.Set(ctx, revokedKey(claims.ID), "1", ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to revoke token", slog.String("error", err.Error()))
	}
}

func revokedKey(jti string) string {
	return "blacklist:" + jti
}

// login stores userID in the session.
func (s *Server) login(c *fiber.Ctx, userID uint) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// logout destroys the session, if any.
func (s *Server) logout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
