// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads optional .env files into
// the process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs through `env` and `envDefault` tags. Each
// configuration type is parsed once and cached for the life of the process.
//
//	if err := config.LoadEnv(".env.local"); err != nil {
//		return err
//	}
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
package config
