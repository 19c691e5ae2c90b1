package repositories

import (
	"context"
	"database/sql"
	"errors"

	"prodeskBack/internal/models"
)

type TicketRepository struct {
	DB *sql.DB
}

func (r *TicketRepository) CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	result, err := r.DB.ExecContext(ctx, `
INSERT INTO tickets (project_id, title, description, status, priority, assignee_id, revision, attachment, created_at)
VALUES (?, ?, ?, ?, ?, ?, 0, ?, NOW())`,
		t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.Attachment,
	)
	if err != nil {
		return models.Ticket{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Ticket{}, err
	}
	t.ID = int(id)
	return t, nil
}

func (r *TicketRepository) GetTicketByID(ctx context.Context, id int) (models.Ticket, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT id, project_id, title, description, status, priority, assignee_id, revision, attachment, created_at, updated_at
FROM tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, models.ErrTicketNotFound
	}
	return t, err
}

func scanTicket(scanner interface{ Scan(dest ...any) error }) (models.Ticket, error) {
	var t models.Ticket
	var desc, priority, attachment sql.NullString
	var assignee sql.NullInt64
	var updated sql.NullTime
	err := scanner.Scan(&t.ID, &t.ProjectID, &t.Title, &desc, &t.Status, &priority, &assignee, &t.Revision, &attachment, &t.CreatedAt, &updated)
	if err != nil {
		return models.Ticket{}, err
	}
	t.Description = desc.String
	t.Priority = priority.String
	t.Attachment = attachment.String
	if assignee.Valid {
		a := int(assignee.Int64)
		t.AssigneeID = &a
	}
	if updated.Valid {
		u := updated.Time
		t.UpdatedAt = &u
	}
	return t, nil
}

func (r *TicketRepository) GetTicketsByProject(ctx context.Context, projectID int) ([]models.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, project_id, title, description, status, priority, assignee_id, revision, attachment, created_at, updated_at
FROM tickets WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) UpdateTicket(ctx context.Context, t models.Ticket) error {
	_, err := r.DB.ExecContext(ctx, `
UPDATE tickets SET title = ?, description = ?, status = ?, priority = ?, assignee_id = ?, attachment = ?, updated_at = NOW()
WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.Attachment, t.ID,
	)
	return err
}

// BumpRevision increments the rework counter when a client sends the
// ticket back.
func (r *TicketRepository) BumpRevision(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE tickets SET revision = revision + 1, status = 'in_revision', updated_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) DeleteTicket(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	return err
}

func (r *TicketRepository) CreateComment(ctx context.Context, c models.TicketComment) (models.TicketComment, error) {
	result, err := r.DB.ExecContext(ctx, `
INSERT INTO ticket_comments (ticket_id, user_id, body, created_at) VALUES (?, ?, ?, NOW())`,
		c.TicketID, c.UserID, c.Body,
	)
	if err != nil {
		return models.TicketComment{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.TicketComment{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *TicketRepository) GetCommentsByTicket(ctx context.Context, ticketID int) ([]models.TicketComment, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT c.id, c.ticket_id, c.user_id, u.name, c.body, c.created_at, c.updated_at
FROM ticket_comments c
JOIN users u ON c.user_id = u.id
WHERE c.ticket_id = ?
ORDER BY c.created_at`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.TicketComment{}
	for rows.Next() {
		var c models.TicketComment
		var updated sql.NullTime
		if err := rows.Scan(&c.ID, &c.TicketID, &c.UserID, &c.UserName, &c.Body, &c.CreatedAt, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			t := updated.Time
			c.UpdatedAt = &t
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *TicketRepository) DeleteComment(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM ticket_comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}
