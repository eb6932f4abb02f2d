package services

import (
	"context"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// TokenRevoker remembers logged out access tokens until they expire.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error
	IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error)
}

type AuthService struct {
	logger  *gecho.Logger
	cfg     *structs.Config
	repo    database.Repository
	revoker TokenRevoker
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, repo database.Repository, revoker TokenRevoker) *AuthService {
	return &AuthService{
		logger:  logger,
		cfg:     cfg,
		repo:    repo,
		revoker: revoker,
	}
}

func (as *AuthService) Login(ctx context.Context, authRequest *structs.AuthRequest) (*tables.User, error) {
	startTime := time.Now()

	user, err := as.repo.FindUserByEmail(ctx, authRequest.Email)
	if err != nil {
		// Only log as error if it's not a "not found" error
		if !lib.IsNotFound(err) {
			as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		} else {
			as.logger.Debug("User not found during login attempt", gecho.Field("identifier", authRequest.Email))
		}

		// Always return invalid credentials (don't leak user existence)
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(authRequest.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.Id),
		)
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", authRequest.Email),
			gecho.Field("user_id", user.Id),
		)
		return nil, lib.ErrInvalidCredentials
	}

	if lib.NeedsRehash(user.PasswordHash, lib.DefaultArgonParams) {
		as.rehash(ctx, user, authRequest.Password)
	}

	now := time.Now()
	if err := as.repo.TouchLastLogin(ctx, user.Id, now); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}
	user.LastLogin = &now

	as.logger.Debug("User logged in successfully",
		gecho.Field("user_id", user.Id),
		gecho.Field("duration", time.Since(startTime)))

	// Remove password hash before returning user
	user.PasswordHash = ""
	return user, nil
}

// rehash upgrades a hash made with older parameters. Failures only cost a log line.
func (as *AuthService) rehash(ctx context.Context, user *tables.User, password string) {
	hash, err := lib.HashPassword(password, lib.DefaultArgonParams)
	if err == nil {
		err = as.repo.UpdatePasswordHash(ctx, user.Id, hash)
	}
	if err != nil {
		as.logger.Warn("Failed to upgrade password hash", gecho.Field("user_id", user.Id), gecho.Field("error", err))
		return
	}
	as.logger.Info("Password hash upgraded", gecho.Field("user_id", user.Id))
}

// GenerateAccessToken signs a fresh token for user, valid for the configured expiry.
func (as *AuthService) GenerateAccessToken(user *tables.User) (string, *structs.AuthClaims, error) {
	now := time.Now()
	claims := &structs.AuthClaims{
		Sub:     user.Id,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Iat:     now,
		Exp:     now.Add(as.cfg.Auth.AccessTokenExpiry),
		Jti:     uuid.New(),
	}

	token, err := lib.SignToken(claims, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func (as *AuthService) GetAccessTokenSecret() string {
	return as.cfg.Auth.AccessTokenSecret
}

// Logout revokes the token behind the claims
func (as *AuthService) Logout(ctx context.Context, claims *structs.AuthClaims) error {
	if as.revoker == nil {
		return nil
	}
	return as.revoker.BlacklistToken(ctx, claims.Jti, claims.Exp)
}

// IsRevoked reports whether the token was logged out. Lookup failures count as not revoked.
func (as *AuthService) IsRevoked(ctx context.Context, jti uuid.UUID) bool {
	if as.revoker == nil {
		return false
	}
	revoked, err := as.revoker.IsTokenBlacklisted(ctx, jti)
	if err != nil {
		as.logger.Warn("Failed to check token revocation", gecho.Field("error", err))
		return false
	}
	return revoked
}

func (as *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*tables.User, error) {
	user, err := as.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
