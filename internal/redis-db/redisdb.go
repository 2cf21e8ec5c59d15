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

package redis_db

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 500 * time.Millisecond

// Redis wraps the universal client shared by the draft store and the draft locks.
type Redis struct {
	addresses []string
	client    redis.UniversalClient
}

// ParseRedisURL turns a configured redis address into client options. Bare
// host:port addresses are used as-is; redis:// and rediss:// URLs are parsed,
// and a password-only userinfo ("redis://secret@host") is accepted.
func ParseRedisURL(rawURL string, skipTLSVerify bool) (*redis.Options, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	if !strings.Contains(rawURL, "//") && !strings.Contains(rawURL, "@") {
		return &redis.Options{Addr: rawURL}, nil
	}

	if strings.HasPrefix(rawURL, "redis://") && strings.Contains(rawURL, "@") {
		userinfo, host, _ := strings.Cut(strings.TrimPrefix(rawURL, "redis://"), "@")
		if !strings.Contains(userinfo, ":") {
			rawURL = fmt.Sprintf("redis://:%s@%s", userinfo, host)
		}
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		password, host, found := strings.Cut(rawURL, "@")
		if !found {
			return nil, fmt.Errorf("invalid redis address %q: %w", rawURL, err)
		}
		opts = &redis.Options{
			Addr:     host,
			Password: strings.TrimPrefix(password, "redis://"),
		}
	}

	if opts.TLSConfig != nil && skipTLSVerify {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true,
		}
	}

	return opts, nil
}

// NewRedisClient connects to a single instance when one address is given and
// to a cluster otherwise. The connection is verified with a PING.
func NewRedisClient(addresses []string, skipTLSVerify bool) (*Redis, error) {
	if len(addresses) == 0 {
		return nil, errors.New("redis addresses list cannot be empty")
	}

	var client redis.UniversalClient
	if len(addresses) == 1 {
		opts, err := ParseRedisURL(addresses[0], skipTLSVerify)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else {
		clusterOpts, err := clusterOptions(addresses, skipTLSVerify)
		if err != nil {
			return nil, err
		}
		client = redis.NewUniversalClient(clusterOpts)
	}

	r := &Redis{addresses: addresses, client: client}
	if err := r.Ping(context.Background()); err != nil {
		_ = client.Close()
		return nil, err
	}
	return r, nil
}

func clusterOptions(addresses []string, skipTLSVerify bool) (*redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{}
	useTLS := false
	for _, addr := range addresses {
		parsed, err := ParseRedisURL(addr, skipTLSVerify)
		if err != nil {
			return nil, err
		}
		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if parsed.TLSConfig != nil {
			useTLS = true
		}
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: skipTLSVerify,
		}
	}
	return opts, nil
}

// Ping checks the connection with a short deadline.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Client returns the underlying universal client.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}

// Addresses returns the addresses the client was built from.
func (r *Redis) Addresses() []string {
	return r.addresses
}

func (r *Redis) Close() error {
	return r.client.Close()
}
