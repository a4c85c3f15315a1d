package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayfarer-travel/wayfarer-backend/internal/database"
)

const (
	// ResetCodeKeyPrefix is the Redis key prefix for pending reset codes.
	ResetCodeKeyPrefix = "resetcode:"
	// ResetCodeTTL is how long a reset code stays valid.
	ResetCodeTTL = 10 * time.Minute
)

// GenerateResetCode returns a random 6-digit code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// StoreResetCode saves the code for the email with a 10-minute TTL. Redis
// expires the key itself, so abandoned reset requests cannot accumulate.
func StoreResetCode(ctx context.Context, email, code string) error {
	return database.RedisClient.Set(ctx, ResetCodeKeyPrefix+email, code, ResetCodeTTL).Err()
}

// LookupResetCode returns the pending code for the email, or ok=false when no
// code was requested or it has expired.
func LookupResetCode(ctx context.Context, email string) (string, bool, error) {
	code, err := database.RedisClient.Get(ctx, ResetCodeKeyPrefix+email).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

// DeleteResetCode discards the pending code after a successful reset.
func DeleteResetCode(ctx context.Context, email string) error {
	return database.RedisClient.Del(ctx, ResetCodeKeyPrefix+email).Err()
}
