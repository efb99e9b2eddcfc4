package pgrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/user"
)

const userColumns = `id, email, display_name, first_name, last_name, photo_url, interests,
	is_active, password_hash, progress, created_at, updated_at, last_login`

type userRow struct {
	ID           string      `db:"id"`
	Email        string      `db:"email"`
	DisplayName  string      `db:"display_name"`
	FirstName    string      `db:"first_name"`
	LastName     string      `db:"last_name"`
	PhotoURL     string      `db:"photo_url"`
	Interests    string      `db:"interests"`
	IsActive     bool        `db:"is_active"`
	PasswordHash []byte      `db:"password_hash"`
	RawProgress  []byte      `db:"progress"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	LastLogin    pq.NullTime `db:"last_login"`
}

func (r userRow) toUser() (user.User, error) {
	usr := user.User{
		ID:           r.ID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhotoURL:     r.PhotoURL,
		Interests:    r.Interests,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time.UTC()
	}
	if err := (&jsonb{v: &usr.Progress}).Scan(r.RawProgress); err != nil {
		return user.User{}, errors.Wrap(err, "decoding progress")
	}
	if usr.Progress.Quizzes == nil {
		usr.Progress.Quizzes = make(map[string]progress.QuizResult)
	}
	return usr, nil
}

func nullTime(t time.Time) pq.NullTime {
	return pq.NullTime{Time: t, Valid: !t.IsZero()}
}

// nullBytes returns SQL NULL for an empty hash; pq encodes a nil []byte as an empty bytea.
func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE `+where, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.toUser()
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	ids := make([]string, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		ids = append(ids, u.ID)
	}

	var exists bool
	err := repo.db.GetContext(
		ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND NOT (id = ANY($2)))`,
		email, pq.Array(ids),
	)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.Progress.Quizzes == nil {
		usr.Progress.Quizzes = make(map[string]progress.QuizResult)
	}
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		usr.ID, usr.Email, usr.DisplayName, usr.FirstName, usr.LastName, usr.PhotoURL, usr.Interests,
		usr.IsActive, nullBytes(usr.PasswordHash), jsonb{v: usr.Progress}, usr.CreatedAt, usr.UpdatedAt, nullTime(usr.LastLogin),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getOne(ctx, "id = $1", id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getOne(ctx, "email = $1", email)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(
		ctx, &row,
		`UPDATE users SET
			display_name = $2, first_name = $3, last_name = $4, photo_url = $5, interests = $6,
			is_active = $7, password_hash = COALESCE($8, password_hash), updated_at = $9, last_login = $10
		WHERE id = $1
		RETURNING `+userColumns,
		usr.ID, usr.DisplayName, usr.FirstName, usr.LastName, usr.PhotoURL, usr.Interests,
		usr.IsActive, nullBytes(usr.PasswordHash), usr.UpdatedAt, nullTime(usr.LastLogin),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.toUser()
}
