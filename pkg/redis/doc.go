// Package redis opens go-redis clients from connection URLs with startup
// retry and pooling defaults tuned for a small long-running service.
//
//	client, err := redis.Open(ctx, cfg.RedisURL)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Both redis:// and rediss:// (TLS) schemes are supported.
package redis
