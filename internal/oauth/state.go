package oauth

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrStateInvalid covers malformed, tampered, or expired state tokens.
	ErrStateInvalid = errors.New("invalid oauth state")
	// ErrStateConsumed is returned when a state nonce is replayed.
	ErrStateConsumed = errors.New("oauth state already used")
)

// NonceStore persists one-time state nonces with a TTL.
type NonceStore interface {
	Save(ctx context.Context, nonce string, ttl time.Duration) error
	Consume(ctx context.Context, nonce string) (bool, error)
}

// RedisNonceStore keeps nonces in Redis so state stays single-use across
// replicas.
type RedisNonceStore struct {
	client *redis.Client
}

// NewRedisNonceStore constructs a Redis-backed nonce store.
func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

func nonceKey(nonce string) string {
	return "oauth:state:" + nonce
}

// Save stores the nonce with the given TTL.
func (s *RedisNonceStore) Save(ctx context.Context, nonce string, ttl time.Duration) error {
	return s.client.Set(ctx, nonceKey(nonce), "1", ttl).Err()
}

// Consume removes the nonce, reporting whether it was present.
func (s *RedisNonceStore) Consume(ctx context.Context, nonce string) (bool, error) {
	if err := s.client.GetDel(ctx, nonceKey(nonce)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// stateClaims carries the origin hint through the provider round trip. The
// nonce rides in the registered ID claim.
type stateClaims struct {
	Origin string `json:"origin"`
	jwt.RegisteredClaims
}

// StateManager issues and verifies signed, single-use OAuth state tokens.
// The signature protects the origin hint from tampering; the nonce store
// makes each state single-use.
type StateManager struct {
	secret []byte
	ttl    time.Duration
	nonces NonceStore
}

// NewStateManager builds a manager with the given signing secret and TTL.
func NewStateManager(secret string, ttl time.Duration, nonces NonceStore) *StateManager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateManager{secret: []byte(secret), ttl: ttl, nonces: nonces}
}

// Issue signs a state token carrying the origin hint and records its nonce.
func (m *StateManager) Issue(ctx context.Context, origin string) (string, error) {
	nonce := uuid.NewString()
	now := time.Now()
	claims := &stateClaims{
		Origin: origin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", err
	}
	if err := m.nonces.Save(ctx, nonce, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Verify validates the signature and expiry, consumes the nonce, and returns
// the origin hint.
func (m *StateManager) Verify(ctx context.Context, state string) (string, error) {
	parsed, err := jwt.ParseWithClaims(state, &stateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrStateInvalid
	}
	claims, ok := parsed.Claims.(*stateClaims)
	if !ok || !parsed.Valid {
		return "", ErrStateInvalid
	}

	found, err := m.nonces.Consume(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrStateConsumed
	}
	return claims.Origin, nil
}
