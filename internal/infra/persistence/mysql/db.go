package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cart_snapshots (
        session_id  VARCHAR(64)  NOT NULL,
        storage_key VARCHAR(128) NOT NULL,
        payload     MEDIUMBLOB   NOT NULL,
        updated_at  DATETIME(3)  NOT NULL,
        PRIMARY KEY (session_id, storage_key)
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id    BIGINT       NOT NULL PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        price DOUBLE       NOT NULL DEFAULT 0,
        image VARCHAR(512) NOT NULL DEFAULT '',
        stock BIGINT       NOT NULL DEFAULT 0
    )`,
}

// Open connects to MySQL and creates the tables when missing. parseTime is
// forced on so DATETIME columns scan into time.Time.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxIdleConns(5)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply mysql schema: %w", err)
		}
	}
	return db, nil
}
