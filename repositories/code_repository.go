package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeRepository records which confirmation codes have been redeemed.
// Redeeming rotates the user state the code derives from, so the marker
// backstops the window between the code check and that rotation landing.
type CodeRepository interface {
	MarkRedeemed(ctx context.Context, userID uint, code string, ttl time.Duration) error
	IsRedeemed(ctx context.Context, userID uint, code string) (bool, error)
}

type codeRepository struct {
	rdb *redis.Client
}

func NewCodeRepository(rdb *redis.Client) CodeRepository {
	return &codeRepository{rdb: rdb}
}

func (r *codeRepository) MarkRedeemed(ctx context.Context, userID uint, code string, ttl time.Duration) error {
	return r.rdb.Set(ctx, redeemedKey(userID, code), "1", ttl).Err()
}

func (r *codeRepository) IsRedeemed(ctx context.Context, userID uint, code string) (bool, error) {
	n, err := r.rdb.Exists(ctx, redeemedKey(userID, code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// redeemedKey hashes the code so the plaintext credential never lands in
// Redis.
func redeemedKey(userID uint, code string) string {
	sum := sha256.Sum256([]byte(code))
	return fmt.Sprintf("code:redeemed:%d:%s", userID, hex.EncodeToString(sum[:16]))
}
