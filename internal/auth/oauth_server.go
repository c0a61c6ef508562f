package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// DefaultScope is granted to every token issued by the login endpoint
const DefaultScope = "read write"

// OAuthConfig configures token issuance for the first-party web client
type OAuthConfig struct {
	JWTSecret      string
	ClientID       string
	ClientSecret   string
	AccessTokenTTL time.Duration
}

// OAuthService issues and revokes access tokens. Tokens are JWTs signed with
// HS512 and persisted in the oauth_tokens table so they can be revoked.
type OAuthService struct {
	manager *manage.Manager
	tokens  *GormTokenStore
	clients *GormClientStore
	db      *gorm.DB
	config  OAuthConfig
}

func NewOAuthService(db *gorm.DB, config OAuthConfig) *OAuthService {
	if config.AccessTokenTTL <= 0 {
		config.AccessTokenTTL = 24 * time.Hour
	}

	manager := manage.NewDefaultManager()
	manager.SetPasswordTokenCfg(&manage.Config{
		AccessTokenExp:    config.AccessTokenTTL,
		IsGenerateRefresh: false,
	})

	// Use JWT for access tokens
	manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(config.JWTSecret), jwt.SigningMethodHS512, db))

	// Configure token store
	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)

	// Configure client store
	clientStore := NewGormClientStore(db)
	manager.MapClientStorage(clientStore)

	return &OAuthService{
		manager: manager,
		tokens:  tokenStore,
		clients: clientStore,
		db:      db,
		config:  config,
	}
}

// EnsureClient registers the first-party client or refreshes its secret hash
// when the configured secret changed
func (o *OAuthService) EnsureClient(ctx context.Context) error {
	var client models.OAuthClient
	err := o.db.WithContext(ctx).Where("id = ?", o.config.ClientID).First(&client).Error
	if err == nil && client.VerifyPassword(o.config.ClientSecret) {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up oauth client: %w", err)
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(o.config.ClientSecret), bcrypt.DefaultCost)
	if hashErr != nil {
		return fmt.Errorf("hash client secret: %w", hashErr)
	}

	client.ID = o.config.ClientID
	client.Secret = string(hash)
	client.Name = "Foodgram web client"
	client.Scopes = DefaultScope
	if err := o.db.WithContext(ctx).Save(&client).Error; err != nil {
		return fmt.Errorf("save oauth client: %w", err)
	}

	log.WithField("client_id", client.ID).Info("OAuth client registered")
	return nil
}

// IssueToken creates an access token for an already authenticated user
func (o *OAuthService) IssueToken(ctx context.Context, user *models.User) (oauth2.TokenInfo, error) {
	ti, err := o.manager.GenerateAccessToken(ctx, oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     o.config.ClientID,
		ClientSecret: o.config.ClientSecret,
		UserID:       strconv.FormatUint(uint64(user.ID), 10),
		Scope:        DefaultScope,
	})
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"expires_in": ti.GetAccessExpiresIn().String(),
	}).Debug("Access token issued")
	return ti, nil
}

// RevokeToken deletes the stored token so it is rejected from now on
func (o *OAuthService) RevokeToken(ctx context.Context, access string) error {
	return o.manager.RemoveAccessToken(ctx, access)
}

// IsTokenActive reports whether access was issued here and not revoked
func (o *OAuthService) IsTokenActive(ctx context.Context, access string) (bool, error) {
	ti, err := o.tokens.GetByAccess(ctx, access)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return ti != nil, nil
}

// PurgeExpiredTokens removes tokens past their expiry
func (o *OAuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return o.tokens.RemoveExpired(ctx, time.Now())
}
