package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/ports"
)

// Repository persists data captured by the agent's tools: visitor leads and
// questions the agent could not answer.
type Repository struct {
	db *sql.DB
}

var _ ports.Repository = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id VARCHAR PRIMARY KEY,
			email VARCHAR NOT NULL,
			name VARCHAR,
			notes VARCHAR,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS unknown_questions (
			id VARCHAR PRIMARY KEY,
			question VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *Repository) SaveLead(ctx context.Context, lead domain.Lead) error {
	query := `
	INSERT INTO leads (id, email, name, notes, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		email = excluded.email,
		name = excluded.name,
		notes = excluded.notes;
	`
	_, err := r.db.ExecContext(ctx, query, lead.ID, lead.Email, lead.Name, lead.Notes, lead.CreatedAt)
	return err
}

func (r *Repository) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	query := `SELECT id, email, name, notes, created_at FROM leads ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(&lead.ID, &lead.Email, &lead.Name, &lead.Notes, &lead.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *Repository) SaveUnknownQuestion(ctx context.Context, q domain.UnknownQuestion) error {
	query := `
	INSERT INTO unknown_questions (id, question, created_at)
	VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		question = excluded.question;
	`
	_, err := r.db.ExecContext(ctx, query, q.ID, q.Question, q.CreatedAt)
	return err
}

func (r *Repository) ListUnknownQuestions(ctx context.Context) ([]domain.UnknownQuestion, error) {
	query := `SELECT id, question, created_at FROM unknown_questions ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.UnknownQuestion
	for rows.Next() {
		var q domain.UnknownQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
