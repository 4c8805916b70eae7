package services

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"

	"go.uber.org/zap"
)

const releaseTimeout = 2 * time.Second

func cartLockKey(userID string) string {
	return "cart:" + userID
}

// withUserLock runs fn while holding the user's cart lock. Cart mutations and
// checkout share the key, so a checkout never races an add.
func withUserLock(ctx context.Context, locker infra.Locker, log *zap.Logger, userID string, fn func(context.Context) error) error {
	release, err := locker.Acquire(ctx, cartLockKey(userID))
	if err != nil {
		if errors.Is(err, infra.ErrLockNotAcquired) {
			return domain.Conflict("cart")
		}
		return err
	}
	defer func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := release(rctx); err != nil {
			log.Warn("cart lock release failed", zap.String("user_id", userID), zap.Error(err))
		}
	}()
	return fn(ctx)
}
