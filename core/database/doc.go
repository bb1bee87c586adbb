// Package database handles the MySQL connection for the database session
// store backend.
//
// It provides a wrapper around GORM that configures the DSN (with encoded
// credentials and explicit timeouts), the connection pool, and an initial
// ping, based on the application's configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
