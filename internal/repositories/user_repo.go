package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"prodeskBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
        INSERT INTO users (name, phone, email, password, role, client_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	user.CreatedAt = time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Phone, user.Email, user.Password, user.Role, user.ClientID, user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	query := `
        SELECT id, name, phone, email, password, role, client_id, created_at, updated_at
        FROM users
        WHERE id = ?
    `
	var phone sql.NullString
	var clientID sql.NullInt64
	var updated sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &phone, &user.Email, &user.Password, &user.Role,
		&clientID, &user.CreatedAt, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.Phone = phone.String
	if clientID.Valid {
		c := int(clientID.Int64)
		user.ClientID = &c
	}
	if updated.Valid {
		t := updated.Time
		user.UpdatedAt = &t
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	var phone sql.NullString
	var clientID sql.NullInt64
	var updated sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, name, phone, email, password, role, client_id, created_at, updated_at
        FROM users
        WHERE email = ?`, email).Scan(
		&user.ID, &user.Name, &phone, &user.Email, &user.Password, &user.Role,
		&clientID, &user.CreatedAt, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.Phone = phone.String
	if clientID.Valid {
		c := int(clientID.Int64)
		user.ClientID = &c
	}
	if updated.Valid {
		t := updated.Time
		user.UpdatedAt = &t
	}
	return user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE users SET name = ?, phone = ?, email = ?, role = ?, client_id = ?, updated_at = NOW()
        WHERE id = ?`,
		user.Name, user.Phone, user.Email, user.Role, user.ClientID, user.ID,
	)
	if err != nil {
		return models.User{}, err
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hashed string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = NOW() WHERE id = ?`, hashed, userID)
	return err
}

func (r *UserRepository) SetSession(ctx context.Context, session models.Session) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO user_sessions (user_id, role, refresh_token, expires_at)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)`,
		session.UserID, session.Role, session.RefreshToken, session.ExpiresAt,
	)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	err := r.DB.QueryRowContext(ctx, `
        SELECT user_id, role, refresh_token, expires_at
        FROM user_sessions WHERE refresh_token = ?`, refreshToken).Scan(
		&session.UserID, &session.Role, &session.RefreshToken, &session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	return session, err
}

func (r *UserRepository) DeleteSession(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = ?`, userID)
	return err
}

// SaveDeviceToken keeps one FCM token per user, replacing older ones.
func (r *UserRepository) SaveDeviceToken(ctx context.Context, userID int, token string) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO device_tokens (user_id, token)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE token = VALUES(token)`, userID, token)
	return err
}

func (r *UserRepository) GetDeviceTokens(ctx context.Context, role string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT t.token FROM device_tokens t
        JOIN users u ON t.user_id = u.id
        WHERE u.role = ?`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
