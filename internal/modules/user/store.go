// README: User store backed by PostgreSQL.
package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_blocked, phone, address, created_at`

func (s *PGStore) Create(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, is_blocked, phone, address)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)`,
		string(u.ID), u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, u.Address,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))
	return scanUser(row)
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PGStore) UpdateProfile(ctx context.Context, id types.ID, p ProfileUpdate) (*User, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET name = COALESCE($1, name),
		    phone = COALESCE($2, phone),
		    address = COALESCE($3, address)
		WHERE id = $4`,
		p.Name, p.Phone, p.Address, string(id),
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *PGStore) SetBlocked(ctx context.Context, id types.ID, blocked bool) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE users SET is_blocked = $1 WHERE id = $2`, blocked, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) List(ctx context.Context, role, search string, offset, limit int) ([]User, int, error) {
	pattern := "%" + search + "%"

	rows, err := s.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1
		  AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3)
		ORDER BY created_at DESC
		OFFSET $4 LIMIT $5`,
		role, search, pattern, offset, limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsBlocked, &u.Phone, &u.Address, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE role = $1
		  AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3)`,
		role, search, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsBlocked, &u.Phone, &u.Address, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
