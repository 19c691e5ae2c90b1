package repositories

import (
	"context"
	"database/sql"
	"errors"

	"prodeskBack/internal/models"
)

type ClientRepository struct {
	DB *sql.DB
}

func (r *ClientRepository) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	result, err := r.DB.ExecContext(ctx, `
INSERT INTO clients (name, company_name, email, phone, address, gst_number, currency, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		c.Name, c.CompanyName, c.Email, c.Phone, c.Address, c.GSTNumber, c.Currency, c.Notes,
	)
	if err != nil {
		return models.Client{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Client{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *ClientRepository) GetClientByID(ctx context.Context, id int) (models.Client, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT id, name, company_name, email, phone, address, gst_number, currency, notes, created_at, updated_at
FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, models.ErrClientNotFound
	}
	return c, err
}

func scanClient(scanner interface{ Scan(dest ...any) error }) (models.Client, error) {
	var c models.Client
	var company, phone, address, gst, notes sql.NullString
	var updated sql.NullTime
	err := scanner.Scan(&c.ID, &c.Name, &company, &c.Email, &phone, &address, &gst, &c.Currency, &notes, &c.CreatedAt, &updated)
	if err != nil {
		return models.Client{}, err
	}
	c.CompanyName = company.String
	c.Phone = phone.String
	c.Address = address.String
	c.GSTNumber = gst.String
	c.Notes = notes.String
	if updated.Valid {
		t := updated.Time
		c.UpdatedAt = &t
	}
	return c, nil
}

func (r *ClientRepository) GetAllClients(ctx context.Context) ([]models.Client, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, name, company_name, email, phone, address, gst_number, currency, notes, created_at, updated_at
FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) UpdateClient(ctx context.Context, c models.Client) error {
	_, err := r.DB.ExecContext(ctx, `
UPDATE clients
SET name = ?, company_name = ?, email = ?, phone = ?, address = ?, gst_number = ?, currency = ?, notes = ?, updated_at = NOW()
WHERE id = ?`,
		c.Name, c.CompanyName, c.Email, c.Phone, c.Address, c.GSTNumber, c.Currency, c.Notes, c.ID,
	)
	return err
}

func (r *ClientRepository) DeleteClient(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	return err
}
