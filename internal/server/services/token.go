package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/auth"
	"github.com/dmitrijs2005/donnamis/internal/server/config"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and, for members who asked to
// be remembered, a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// TokenService issues access tokens and rotates server-stored refresh tokens.
type TokenService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// IssueTokens signs an access token for member; with rememberMe it also stores
// a refresh token.
func (s *TokenService) IssueTokens(ctx context.Context, member *models.Member, rememberMe bool) (*TokenPair, error) {
	if !rememberMe {
		access, err := s.generateAccessToken(member)
		if err != nil {
			return nil, err
		}
		return &TokenPair{AccessToken: access}, nil
	}
	return s.generateTokenPair(ctx, member, s.db)
}

// Refresh validates a refresh token, rotates it transactionally and returns a
// fresh pair. Expired tokens yield ErrRefreshTokenExpired; a member who is no
// longer valid gets ErrorUnauthorized.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		member, err := s.repomanager.Members(tx).GetByID(ctx, token.MemberID)
		if err != nil {
			return fmt.Errorf("error getting member: %w", err)
		}
		if member.Status != models.MemberStatusValid {
			return common.ErrorUnauthorized
		}

		pair, err = s.generateTokenPair(ctx, member, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *TokenService) generateAccessToken(member *models.Member) (string, error) {
	token, err := auth.GenerateToken(member.ID, member.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: signing access token: %w", common.ErrorFatal, err)
	}
	return token, nil
}

func (s *TokenService) generateTokenPair(ctx context.Context, member *models.Member, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(member)
	if err != nil {
		return nil, err
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("%w: generating refresh token: %w", common.ErrorFatal, err)
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, member.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
