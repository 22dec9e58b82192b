package shared

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound indicates the bearer token is unknown or expired.
var ErrTokenNotFound = errors.New("token not found")

// Identity is the authenticated principal attached to a bearer token.
type Identity struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   *int64 `json:"tenant_id,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`

	// Token carries the opaque bearer value the identity was loaded from.
	// It is never serialized back into Redis.
	Token string `json:"-"`
}

// HasRole reports whether the identity holds one of the given roles.
func (id *Identity) HasRole(roles ...string) bool {
	if id == nil {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// TokenStore issues and resolves opaque bearer tokens backed by Redis.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
	secret []byte
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, secret string, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl, secret: []byte(secret)}
}

// Issue creates a fresh token for the identity and persists it with TTL.
func (ts *TokenStore) Issue(ctx context.Context, id Identity) (string, error) {
	token := ts.generateToken()
	data, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if err := ts.client.Set(ctx, ts.redisKey(token), data, ts.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Load resolves a bearer token into an Identity. A payload that fails to
// parse is purged so the caller starts unauthenticated instead of crashing.
func (ts *TokenStore) Load(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	payload, err := ts.client.Get(ctx, ts.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		_ = ts.client.Del(ctx, ts.redisKey(token)).Err()
		return nil, ErrTokenNotFound
	}
	id.Token = token
	return &id, nil
}

// Revoke deletes the token. Revoking an unknown token is not an error.
func (ts *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := ts.client.Del(ctx, ts.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// SetTenant updates the tenant affiliation stored on the token.
func (ts *TokenStore) SetTenant(ctx context.Context, id *Identity, tenantID int64, slug string) error {
	if id == nil || id.Token == "" {
		return nil
	}
	id.TenantID = &tenantID
	id.TenantSlug = slug
	return ts.save(ctx, id)
}

// ClearTenant removes the tenant affiliation stored on the token.
func (ts *TokenStore) ClearTenant(ctx context.Context, id *Identity) error {
	if id == nil || id.Token == "" {
		return nil
	}
	id.TenantID = nil
	id.TenantSlug = ""
	return ts.save(ctx, id)
}

// TTL exposes the configured token lifetime.
func (ts *TokenStore) TTL() time.Duration {
	return ts.ttl
}

func (ts *TokenStore) save(ctx context.Context, id *Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return ts.client.Set(ctx, ts.redisKey(id.Token), data, redis.KeepTTL).Err()
}

// redisKey derives the storage key from the bearer value. With a secret
// configured, keys are an HMAC over the token; the raw bearer value never
// reaches Redis.
func (ts *TokenStore) redisKey(token string) string {
	if len(ts.secret) == 0 {
		return "token:" + token
	}
	mac := hmac.New(sha256.New, ts.secret)
	mac.Write([]byte(token))
	return "token:" + hex.EncodeToString(mac.Sum(nil))
}

func (ts *TokenStore) generateToken() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
