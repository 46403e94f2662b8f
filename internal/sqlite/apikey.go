package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/budgetline/internal/repository"
)

// Identity is the user an API key authenticates as.
type Identity struct {
	UserID string
	Email  string
}

// APIKeyRepository stores hashed API keys
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores the hash of token for userID
func (r *APIKeyRepository) Create(ctx context.Context, token, userID, email, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, email, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		HashToken(token), userID, email, description, formatTimestamp(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// Resolve looks up the identity for token and stamps last_used
func (r *APIKeyRepository) Resolve(ctx context.Context, token string) (Identity, error) {
	hash := HashToken(token)

	var id Identity
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, email FROM api_keys WHERE key_hash = ?`, hash,
	).Scan(&id.UserID, &id.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, repository.ErrNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, formatTimestamp(time.Now()), hash,
	); err != nil {
		return Identity{}, fmt.Errorf("failed to stamp api key: %w", err)
	}
	return id, nil
}

// ResolveUser adapts Resolve to the bearer-token resolvers used by the
// MCP and REST middleware.
func (r *APIKeyRepository) ResolveUser(ctx context.Context, token string) (string, string, error) {
	id, err := r.Resolve(ctx, token)
	if err != nil {
		return "", "", err
	}
	return id.UserID, id.Email, nil
}

// Revoke deletes every key belonging to userID
func (r *APIKeyRepository) Revoke(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke api keys: %w", err)
	}
	return result.RowsAffected()
}

// HashToken returns the hex SHA-256 of an API token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateToken returns a random 32-byte hex token
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
