// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tinytales/internal/platform/constants"
)

// scanBatch is the COUNT hint used while clearing the namespace.
const scanBatch = 100

// Redis keeps values as plain string keys under a namespace prefix.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis wraps a connected client. Every key is stored as prefix+key.
func NewRedis(client *redis.Client, prefix string, logger *slog.Logger) *Redis {
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		r.logger.Warn("kv redis read failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	return value, true
}

func (r *Redis) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		r.logger.Error("kv redis write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (r *Redis) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logger.Error("kv redis remove failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Clear deletes every key under the prefix. Keys outside it are untouched.
func (r *Redis) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("kv redis scan failed", slog.Any("error", err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("kv redis clear failed", slog.Any("error", err))
	}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
