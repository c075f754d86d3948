package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var validRoles = map[string]bool{"student": true, "teacher": true, "admin": true}

// UpsertUser creates username, or resets its password and role when it
// already exists. It returns the user's id.
func UpsertUser(ctx context.Context, db *sql.DB, username, password, role string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", errors.New("username and password required")
	}
	if !validRoles[role] {
		return "", errors.New("role must be student, teacher or admin")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	var id string
	err = db.QueryRowContext(ctx, `SELECT id FROM users WHERE username=$1`, username).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = db.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
			id, username, string(hash), role, time.Now().Unix())
		return id, err
	case err != nil:
		return "", err
	}
	_, err = db.ExecContext(ctx, `UPDATE users SET password_hash=$1, role=$2 WHERE id=$3`, string(hash), role, id)
	return id, err
}
