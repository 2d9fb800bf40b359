package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumonpay/lumonpay/internal/shared"
)

// Repository provides PostgreSQL backed persistence for client profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const profileColumns = `id, client_no, first_name, middle_name, last_name, address,
	contact_no, occupation, spouse_first_name, spouse_last_name,
	spouse_occupation, spouse_contact_no, created_at, updated_at`

// CreateProfile inserts a new client.
func (r *Repository) CreateProfile(ctx context.Context, clientNo string, input ProfileInput) (*Profile, error) {
	query := `
		INSERT INTO clients (
			client_no, first_name, middle_name, last_name, address, contact_no,
			occupation, spouse_first_name, spouse_last_name, spouse_occupation,
			spouse_contact_no, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var p Profile
	err := r.pool.QueryRow(ctx, query,
		clientNo,
		input.FirstName, input.MiddleName, input.LastName,
		input.Address, input.ContactNo, input.Occupation,
		input.Spouse.FirstName, input.Spouse.LastName,
		input.Spouse.Occupation, input.Spouse.ContactNo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.ClientNo = clientNo
	p.FirstName = input.FirstName
	p.MiddleName = input.MiddleName
	p.LastName = input.LastName
	p.Address = input.Address
	p.ContactNo = input.ContactNo
	p.Occupation = input.Occupation
	p.Spouse = input.Spouse
	return &p, nil
}

// GetProfile retrieves a client by client number.
func (r *Repository) GetProfile(ctx context.Context, clientNo string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM clients WHERE client_no = $1`

	var p Profile
	err := r.pool.QueryRow(ctx, query, clientNo).Scan(
		&p.ID, &p.ClientNo, &p.FirstName, &p.MiddleName, &p.LastName, &p.Address,
		&p.ContactNo, &p.Occupation, &p.Spouse.FirstName, &p.Spouse.LastName,
		&p.Spouse.Occupation, &p.Spouse.ContactNo, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", clientNo, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile writes merged profile fields. The spouse block is only
// written when it carries an effective change.
func (r *Repository) UpdateProfile(ctx context.Context, clientNo string, merge Merge) (*Profile, error) {
	query := `
		UPDATE clients SET
			first_name = $2, middle_name = $3, last_name = $4, address = $5,
			contact_no = $6, occupation = $7, updated_at = NOW()`
	args := []any{
		clientNo,
		merge.Fields.FirstName, merge.Fields.MiddleName, merge.Fields.LastName,
		merge.Fields.Address, merge.Fields.ContactNo, merge.Fields.Occupation,
	}
	if merge.SpouseChanged {
		query += `,
			spouse_first_name = $8, spouse_last_name = $9,
			spouse_occupation = $10, spouse_contact_no = $11`
		args = append(args,
			merge.Fields.Spouse.FirstName, merge.Fields.Spouse.LastName,
			merge.Fields.Spouse.Occupation, merge.Fields.Spouse.ContactNo,
		)
	}
	query += ` WHERE client_no = $1`

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("client %q: %w", clientNo, shared.ErrNotFound)
	}
	return r.GetProfile(ctx, clientNo)
}
