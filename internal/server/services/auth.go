package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/cryptox"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/auth"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/config"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/repomanager"
)

// AuthService resolves credentials into principals for the command layer.
// It deliberately cannot tell the caller whether a username exists: a login
// against an absent account burns the same hash work and returns the same
// ErrorUnauthorized as a wrong password.
type AuthService struct {
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewAuthService(repos repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		repos:         repos,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// decoyHash soaks up a verification round for unknown usernames so response
// timing does not reveal account existence.
var decoyHash = func() string {
	h, err := cryptox.HashPassword("decoy")
	if err != nil {
		panic(err)
	}
	return h
}()

// Login verifies the credential and returns the principal plus a signed
// token for subsequent calls.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Principal, string, error) {
	account, err := s.repos.Accounts(nil).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = cryptox.VerifyPassword(decoyHash, password)
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", classifyStorage(err)
	}

	ok, err := cryptox.VerifyPassword(account.CredentialHash, password)
	if err != nil || !ok {
		return nil, "", common.ErrorUnauthorized
	}

	principal := &models.Principal{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}
	token, err := auth.GenerateToken(principal, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", err
	}
	return principal, token, nil
}

// ResolvePrincipal parses a token previously issued by Login.
func (s *AuthService) ResolvePrincipal(tokenString string) (*models.Principal, error) {
	return auth.ParsePrincipal(tokenString, s.jwtSecret)
}
