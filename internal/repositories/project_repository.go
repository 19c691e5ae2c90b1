package repositories

import (
	"context"
	"database/sql"
	"errors"

	"prodeskBack/internal/models"
)

type ProjectRepository struct {
	DB *sql.DB
}

func (r *ProjectRepository) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	result, err := r.DB.ExecContext(ctx, `
INSERT INTO projects (client_id, name, description, status, deadline, created_at)
VALUES (?, ?, ?, ?, ?, NOW())`,
		p.ClientID, p.Name, p.Description, p.Status, p.Deadline,
	)
	if err != nil {
		return models.Project{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Project{}, err
	}
	p.ID = int(id)
	return p, nil
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, id int) (models.Project, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT id, client_id, name, description, status, deadline, created_at, updated_at
FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.ErrProjectNotFound
	}
	return p, err
}

func scanProject(scanner interface{ Scan(dest ...any) error }) (models.Project, error) {
	var p models.Project
	var desc sql.NullString
	var deadline, updated sql.NullTime
	err := scanner.Scan(&p.ID, &p.ClientID, &p.Name, &desc, &p.Status, &deadline, &p.CreatedAt, &updated)
	if err != nil {
		return models.Project{}, err
	}
	p.Description = desc.String
	if deadline.Valid {
		t := deadline.Time
		p.Deadline = &t
	}
	if updated.Valid {
		t := updated.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

func (r *ProjectRepository) GetProjectsByClient(ctx context.Context, clientID int) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, client_id, name, description, status, deadline, created_at, updated_at
FROM projects WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, client_id, name, description, status, deadline, created_at, updated_at
FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows *sql.Rows) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, p models.Project) error {
	_, err := r.DB.ExecContext(ctx, `
UPDATE projects SET name = ?, description = ?, status = ?, deadline = ?, updated_at = NOW() WHERE id = ?`,
		p.Name, p.Description, p.Status, p.Deadline, p.ID,
	)
	return err
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}
