/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redlock

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	extendScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('pexpire', KEYS[1], ARGV[2]) else return 0 end"

	maxRetryDelay = 100 * time.Millisecond
)

var (
	ErrLockHeld    = errors.New("lock is already held")
	ErrNotHolder   = errors.New("lock expired or is held by another owner")
	ErrWaitTimeout = errors.New("lock wait timed out")
)

// Locker is a single-key mutual exclusion lock on redis. The value identifies
// the holder so that only the holder can release or extend it.
type Locker struct {
	client redis.UniversalClient
	key    string
	value  string
}

func NewLocker(client redis.UniversalClient, key, value string) *Locker {
	return &Locker{
		client: client,
		key:    key,
		value:  value,
	}
}

// NewResourceLocker locks "paydocs:lock:<resource>:<id>" with a random holder value.
func NewResourceLocker(client redis.UniversalClient, resource, id string) *Locker {
	return NewLocker(client, ResourceKey(resource, id), uuid.NewString())
}

func ResourceKey(resource, id string) string {
	return fmt.Sprintf("paydocs:lock:%s:%s", resource, id)
}

func (l *Locker) Key() string {
	return l.key
}

// Lock tries once to take the lock for ttl.
func (l *Locker) Lock(ctx context.Context, ttl time.Duration) error {
	ok, err := l.client.SetNX(ctx, l.key, l.value, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockHeld, l.key)
	}
	return nil
}

func (l *Locker) Unlock(ctx context.Context) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("unlock %s: %w", l.key, ErrNotHolder)
	}
	return nil
}

func (l *Locker) ExtendLock(ctx context.Context, extension time.Duration) error {
	result, err := l.client.Eval(ctx, extendScript, []string{l.key}, l.value, strconv.FormatInt(extension.Milliseconds(), 10)).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("extend %s: %w", l.key, ErrNotHolder)
	}
	return nil
}

// WaitLock retries Lock with a short jittered delay until it succeeds, the
// wait timeout passes or ctx is done.
func (l *Locker) WaitLock(ctx context.Context, lockTTL, waitTimeout time.Duration) error {
	deadline := time.Now().Add(waitTimeout)
	for {
		err := l.Lock(ctx, lockTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return err
		}

		delay := rand.N(maxRetryDelay) + time.Millisecond
		if time.Now().Add(delay).After(deadline) {
			return fmt.Errorf("%w: %s", ErrWaitTimeout, l.key)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// WithLock runs fn while holding the lock and releases it afterwards.
func (l *Locker) WithLock(ctx context.Context, lockTTL, waitTimeout time.Duration, fn func() error) error {
	if err := l.WaitLock(ctx, lockTTL, waitTimeout); err != nil {
		return err
	}
	defer func() {
		_ = l.Unlock(context.WithoutCancel(ctx))
	}()
	return fn()
}
