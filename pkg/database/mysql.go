package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	dispatches := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id CHAR(36) PRIMARY KEY,
		from_number VARCHAR(20) NOT NULL,
		body TEXT NOT NULL,
		targets JSON NOT NULL,
		media_urls JSON NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		error_detail TEXT,
		completed_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_dispatches_status (status),
		INDEX idx_dispatches_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`

	outcomes := `
	CREATE TABLE IF NOT EXISTS dispatch_outcomes (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		dispatch_id CHAR(36) NOT NULL,
		position INT NOT NULL,
		recipient VARCHAR(20) NOT NULL,
		success TINYINT(1) NOT NULL DEFAULT 0,
		message_sid VARCHAR(64),
		error_code INT,
		error_message TEXT,
		sent_at DATETIME NOT NULL,
		INDEX idx_outcomes_dispatch_id (dispatch_id),
		CONSTRAINT fk_outcomes_dispatch FOREIGN KEY (dispatch_id)
			REFERENCES dispatches(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`

	for _, schema := range []string{dispatches, outcomes} {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM dispatches")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d dispatches, skipping seed", count)
		return nil
	}

	testDispatches := []struct {
		fromNumber string
		body       string
		targets    string
		mediaURLs  string
	}{
		{"+15550100001", "Motion detected at the front door", `["+15550200001"]`, `[]`},
		{"+15550100001", "Garage door left open for 10 minutes", `["+15550200001", "+15550200002"]`, `[]`},
		{"+15550100001", "Doorbell pressed, snapshot attached", `["+15550200001"]`, `["/local/doorbell_snapshot.jpg"]`},
		{"+15550100002", "Water leak sensor triggered in the basement", `["+15550200003"]`, `[]`},
		{"+15550100002", "Smoke alarm test reminder", `["+15550200001", "+15550200003"]`, `[]`},
		{"+15550100001", "Backyard camera spotted movement", `["+15550200002"]`, `["/media/backyard/latest.jpg"]`},
	}

	for _, d := range testDispatches {
		_, err := db.Exec(
			"INSERT INTO dispatches (id, from_number, body, targets, media_urls, status) VALUES (?, ?, ?, ?, ?, 'pending')",
			uuid.NewString(), d.fromNumber, d.body, d.targets, d.mediaURLs,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded %d test dispatches", len(testDispatches))
	return nil
}
