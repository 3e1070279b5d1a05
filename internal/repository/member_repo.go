package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffportal/internal/model"
)

const memberColumns = `
        id, created, updated, birthdate, first_name, last_name, t_number,
        gender, o_r_status, community, contact_number, "option", email`

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Search matches the term case-insensitively as a substring against name,
// member number, contact number and email; any field matching qualifies.
// The result is uncapped by contract.
func (r *MemberRepository) Search(ctx context.Context, term string) ([]model.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM fn_members
        WHERE first_name ILIKE $1
           OR last_name ILIKE $1
           OR t_number ILIKE $1
           OR contact_number ILIKE $1
           OR email ILIKE $1
        ORDER BY last_name, first_name
    `
	var members []model.Member
	if err := pgxscan.Select(ctx, r.db, &members, query, "%"+term+"%"); err != nil {
		return nil, err
	}
	return members, nil
}

// List returns the full directory.
func (r *MemberRepository) List(ctx context.Context) ([]model.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM fn_members
        ORDER BY last_name, first_name
    `
	var members []model.Member
	if err := pgxscan.Select(ctx, r.db, &members, query); err != nil {
		return nil, err
	}
	return members, nil
}

// FindByContactNumbers resolves stored contact strings back to directory
// entries. Strings with no current match are simply absent from the result.
func (r *MemberRepository) FindByContactNumbers(ctx context.Context, numbers []string) ([]model.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM fn_members
        WHERE contact_number = ANY($1)
    `
	var members []model.Member
	if err := pgxscan.Select(ctx, r.db, &members, query, numbers); err != nil {
		return nil, err
	}
	return members, nil
}

// FindByEmails is the email-channel counterpart of FindByContactNumbers.
func (r *MemberRepository) FindByEmails(ctx context.Context, emails []string) ([]model.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM fn_members
        WHERE email = ANY($1)
    `
	var members []model.Member
	if err := pgxscan.Select(ctx, r.db, &members, query, emails); err != nil {
		return nil, err
	}
	return members, nil
}
