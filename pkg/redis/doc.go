// Package redis provides connection plumbing for the shared entitlement
// cache backend: client construction with retry, environment-driven
// configuration, and a healthcheck closure for health endpoints.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer client.Close()
package redis
