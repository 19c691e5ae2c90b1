package db

import (
	"database/sql"
	"fmt"
	"log"
)

// Migrate runs all table creation statements. Safe to call multiple times
// due to IF NOT EXISTS clauses.
func Migrate(db *sql.DB) error {
	log.Println("running database migrations")

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}

	log.Println("database migrations complete")
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		company_name VARCHAR(255),
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		address TEXT,
		gst_number VARCHAR(32),
		currency CHAR(3) NOT NULL DEFAULT 'INR',
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id INT AUTO_INCREMENT PRIMARY KEY,
		client_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		status VARCHAR(32) NOT NULL DEFAULT 'active',
		deadline DATE NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL,
		FOREIGN KEY (client_id) REFERENCES clients(id)
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'client',
		client_id INT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL,
		UNIQUE KEY uq_users_email (email),
		FOREIGN KEY (client_id) REFERENCES clients(id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_sessions (
		user_id INT PRIMARY KEY,
		role VARCHAR(32) NOT NULL,
		refresh_token VARCHAR(255) NOT NULL,
		expires_at DATETIME NOT NULL,
		UNIQUE KEY uq_sessions_token (refresh_token),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS device_tokens (
		user_id INT PRIMARY KEY,
		token VARCHAR(512) NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id INT AUTO_INCREMENT PRIMARY KEY,
		project_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		status VARCHAR(32) NOT NULL DEFAULT 'open',
		priority VARCHAR(16),
		assignee_id INT NULL,
		revision INT NOT NULL DEFAULT 0,
		attachment VARCHAR(1024),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id),
		FOREIGN KEY (assignee_id) REFERENCES users(id)
	)`,

	`CREATE TABLE IF NOT EXISTS ticket_comments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		ticket_id INT NOT NULL,
		user_id INT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL,
		FOREIGN KEY (ticket_id) REFERENCES tickets(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,

	// invoice_number stays NULL while the invoice is a draft; the unique
	// index backstops the finalize transaction against double assignment.
	`CREATE TABLE IF NOT EXISTS invoices (
		id INT AUTO_INCREMENT PRIMARY KEY,
		client_id INT NOT NULL,
		project_id INT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'draft',
		currency CHAR(3) NOT NULL DEFAULT 'INR',
		invoice_number BIGINT NULL,
		proforma_number VARCHAR(32) NOT NULL,
		subtotal DECIMAL(14,2) NOT NULL DEFAULT 0,
		tax_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		total_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		notes TEXT,
		tax_type VARCHAR(16),
		client_gst_number VARCHAR(32),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL,
		UNIQUE KEY uq_invoices_number (invoice_number),
		FOREIGN KEY (client_id) REFERENCES clients(id),
		FOREIGN KEY (project_id) REFERENCES projects(id)
	)`,

	`CREATE TABLE IF NOT EXISTS invoice_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		invoice_id INT NOT NULL,
		description VARCHAR(512) NOT NULL,
		quantity DECIMAL(12,2) NOT NULL DEFAULT 1,
		rate DECIMAL(14,2) NOT NULL,
		amount DECIMAL(14,2) NOT NULL,
		hsn_code VARCHAR(16),
		tax_rate DECIMAL(5,2) NOT NULL DEFAULT 0,
		tax_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL,
		FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS invoice_payments (
		id INT AUTO_INCREMENT PRIMARY KEY,
		invoice_id INT NOT NULL,
		gateway_payment_id VARCHAR(64),
		amount DECIMAL(14,2) NOT NULL,
		status VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (invoice_id) REFERENCES invoices(id)
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id INT PRIMARY KEY,
		usd_to_inr_rate DECIMAL(12,4) NULL,
		eur_to_inr_rate DECIMAL(12,4) NULL,
		gbp_to_inr_rate DECIMAL(12,4) NULL,
		gateway_key_id VARCHAR(64),
		gateway_secret VARCHAR(128),
		mail_from_name VARCHAR(255),
		mail_from_addr VARCHAR(255),
		reminder_days INT NOT NULL DEFAULT 7,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NULL
	)`,
}
