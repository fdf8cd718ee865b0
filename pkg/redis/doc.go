// Package redis connects to Redis with go-redis and exposes a healthcheck.
//
// The client backs the shared rate-limit store when counters must be shared
// between service instances.
//
//	var cfg redis.Config
//	_ = config.Load(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
