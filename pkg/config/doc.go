// Package config loads environment-driven configuration structs exactly
// once per type, combining godotenv (optional .env file) with caarlos0/env
// tag parsing.
//
// Every package that needs configuration declares its own Config struct
// with `env` tags and loads it through Load or MustLoad; the per-type cache
// guarantees all callers see one consistent value for the process lifetime.
package config
