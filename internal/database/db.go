// Package database opens the MySQL pool the repositories run on.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/Neon-Gen/finovix-sub000/internal/config"
)

// Open connects to MySQL using the loaded configuration and verifies
// the connection before returning. parseTime must stay on: work_date
// and the created_at/updated_at columns scan into time.Time.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// Attendance submissions arrive in short bursts around shift
	// boundaries; a modest pool with recycled connections covers that
	// without holding idle connections all day.
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// dsn builds the driver connection string. All times are stored and
// compared in UTC; the overnight-shift arithmetic depends on that.
func dsn(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = cfg.DBUser + ":" + cfg.DBPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
