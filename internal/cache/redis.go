package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

const doctorKeyPrefix = "medconnect:doctor:"

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// DoctorCache keeps serialized doctor profiles in Redis. Redis errors are
// logged and treated as misses.
type DoctorCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewDoctorCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) *DoctorCache {
	return &DoctorCache{client: client, ttl: ttl, log: log}
}

func (c *DoctorCache) Get(ctx context.Context, id string) (*models.Doctor, bool) {
	raw, err := c.client.Get(ctx, doctorKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("doctor_id", id).Warn("doctor cache read failed")
		}
		return nil, false
	}

	var d models.Doctor
	if err := json.Unmarshal(raw, &d); err != nil {
		c.log.WithError(err).WithField("doctor_id", id).Warn("doctor cache entry unreadable")
		return nil, false
	}
	return &d, true
}

func (c *DoctorCache) Set(ctx context.Context, d *models.Doctor) {
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, doctorKeyPrefix+d.ID.Hex(), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("doctor_id", d.ID.Hex()).Warn("doctor cache write failed")
	}
}

func (c *DoctorCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, doctorKeyPrefix+id).Err(); err != nil {
		c.log.WithError(err).WithField("doctor_id", id).Warn("doctor cache delete failed")
	}
}
