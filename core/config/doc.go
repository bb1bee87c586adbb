// Package config provides configuration management for scan-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// a .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, public URL)
//   - Store: session store backend (memory, mongo, database)
//   - Session: session TTL and catalog column names
//   - Sync: synchronizer backend selection, poll interval, grace period
//   - Database: MySQL connection details (database store backend)
//   - Storage: S3/MinIO credentials for the report archiver
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
