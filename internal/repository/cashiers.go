package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CashierCredentials is the login-time view of a cashier row, including the
// password hash; it never leaves the service layer.
type CashierCredentials struct {
	Cashier      domain.Cashier
	PasswordHash string
}

func (r *Repository) GetCashierByEmail(ctx context.Context, email string) (*CashierCredentials, error) {
	var creds CashierCredentials
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, role, created_at, password_hash
		FROM cashiers
		WHERE LOWER(email) = LOWER($1)
	`, strings.TrimSpace(email)).Scan(
		&creds.Cashier.ID,
		&creds.Cashier.FullName,
		&creds.Cashier.Email,
		&creds.Cashier.Role,
		&creds.Cashier.CreatedAt,
		&creds.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cashier by email: %w", err)
	}
	return &creds, nil
}

func (r *Repository) GetCashierByID(ctx context.Context, id uuid.UUID) (*domain.Cashier, error) {
	var cashier domain.Cashier
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, role, created_at
		FROM cashiers
		WHERE id = $1
	`, id).Scan(&cashier.ID, &cashier.FullName, &cashier.Email, &cashier.Role, &cashier.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cashier %s: %w", id, err)
	}
	return &cashier, nil
}

func (r *Repository) CreateCashier(ctx context.Context, fullName, email, passwordHash, role string) (domain.Cashier, error) {
	var cashier domain.Cashier
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cashiers (full_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, full_name, email, role, created_at
	`, fullName, email, passwordHash, role).Scan(
		&cashier.ID,
		&cashier.FullName,
		&cashier.Email,
		&cashier.Role,
		&cashier.CreatedAt,
	)
	if err != nil {
		return domain.Cashier{}, fmt.Errorf("create cashier: %w", err)
	}
	return cashier, nil
}

func (r *Repository) ListCashiers(ctx context.Context) ([]domain.Cashier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, email, role, created_at
		FROM cashiers
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list cashiers: %w", err)
	}
	defer rows.Close()

	cashiers := make([]domain.Cashier, 0)
	for rows.Next() {
		var cashier domain.Cashier
		if err := rows.Scan(&cashier.ID, &cashier.FullName, &cashier.Email, &cashier.Role, &cashier.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cashier: %w", err)
		}
		cashiers = append(cashiers, cashier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashiers: %w", err)
	}
	return cashiers, nil
}
