package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
	"github.com/Neon-Gen/finovix-sub000/internal/session"
)

// VerificationRepo is a session.CodeStore backed by Redis. Codes are
// stored JSON-encoded under verify:<email> with a TTL slightly past
// their logical expiry, so Redis garbage-collects what the flow never
// consumes. The authenticator still checks ExpiresAt itself; the TTL is
// only a cleanup mechanism.
type VerificationRepo struct{ RDB *redis.Client }

func NewVerificationRepo(rdb *redis.Client) *VerificationRepo {
	return &VerificationRepo{RDB: rdb}
}

func verifyKey(email string) string { return "verify:" + email }

func (r *VerificationRepo) Get(ctx context.Context, email string) (model.VerificationCode, error) {
	raw, err := r.RDB.Get(ctx, verifyKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.VerificationCode{}, session.ErrVerificationNotFound
	}
	if err != nil {
		return model.VerificationCode{}, err
	}
	var vc model.VerificationCode
	if err := json.Unmarshal(raw, &vc); err != nil {
		return model.VerificationCode{}, err
	}
	return vc, nil
}

// Put overwrites any prior code for the email.
func (r *VerificationRepo) Put(ctx context.Context, code model.VerificationCode) error {
	raw, err := json.Marshal(code)
	if err != nil {
		return err
	}
	ttl := time.Until(code.ExpiresAt) + time.Minute
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return r.RDB.Set(ctx, verifyKey(code.Email), raw, ttl).Err()
}

func (r *VerificationRepo) Delete(ctx context.Context, email string) error {
	return r.RDB.Del(ctx, verifyKey(email)).Err()
}

// FlagRepo is a session.FlagStore backed by Redis, persisting the
// app-closed marker across process restarts.
type FlagRepo struct{ RDB *redis.Client }

func NewFlagRepo(rdb *redis.Client) *FlagRepo { return &FlagRepo{RDB: rdb} }

func flagKey(userID uint64) string {
	return "app_closed:" + strconv.FormatUint(userID, 10)
}

func (r *FlagRepo) Set(ctx context.Context, userID uint64) error {
	// Flags older than a day are meaningless; let Redis expire them.
	return r.RDB.Set(ctx, flagKey(userID), "1", 24*time.Hour).Err()
}

func (r *FlagRepo) Take(ctx context.Context, userID uint64) (bool, error) {
	n, err := r.RDB.Del(ctx, flagKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
