// Package repo is the persistence boundary of the clinic backend. Every
// query is scoped by clinic id; the rest of the code base only sees the
// entity types declared here.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a scoped lookup matches no row.
var ErrNotFound = errors.New("repo: not found")

// IsNotFound reports whether err came from a lookup that matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// Querier is the subset of pgxpool.Pool used by the repositories. pgx.Tx and
// pgxmock pools satisfy it as well.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Client struct {
	Clinic         *ClinicRepo
	User           *UserRepo
	Patient        *PatientRepo
	Appointment    *AppointmentRepo
	Payment        *PaymentRepo
	TaskDefinition *TaskDefinitionRepo
	TaskConfig     *TaskConfigRepo

	db    Querier
	close func()
}

func NewClient(db Querier) *Client {
	return &Client{
		Clinic:         &ClinicRepo{db: db},
		User:           &UserRepo{db: db},
		Patient:        &PatientRepo{db: db},
		Appointment:    &AppointmentRepo{db: db},
		Payment:        &PaymentRepo{db: db},
		TaskDefinition: &TaskDefinitionRepo{db: db},
		TaskConfig:     &TaskConfigRepo{db: db},
		db:             db,
	}
}

// NewClientFromPool wires the repositories to a pool and hands ownership of
// it to the client.
func NewClientFromPool(pool *pgxpool.Pool) *Client {
	c := NewClient(pool)
	c.close = pool.Close
	return c
}

// Ping checks that the underlying store answers.
func (c *Client) Ping(ctx context.Context) error {
	var one int
	return c.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (c *Client) Close() error {
	if c.close != nil {
		c.close()
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func expectOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
