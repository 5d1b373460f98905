// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv (optional .env files) with
// github.com/caarlos0/env/v11 (struct tag parsing). Every package owns its
// Config struct; main composes them:
//
//	var srv httpserver.Config
//	config.MustLoad(&srv)
//
//	var san sanitizer.Config
//	config.MustLoad(&san)
//
// Each configuration type is parsed once and cached by type. Tests that
// change the environment between loads call ResetCache or Reload.
//
// Failures wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and can
// be matched with errors.Is.
package config
