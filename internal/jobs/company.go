package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrCompanyNotFound is returned when no company has the requested handle.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyByHandle reads one company.
func (s *Service) CompanyByHandle(ctx context.Context, handle string) (*Company, error) {
	var c Company
	err := s.db.QueryRow(ctx,
		`SELECT handle, name, description, num_employees, logo_url
		 FROM companies
		 WHERE handle = $1`,
		handle,
	).Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("companyByHandle: %w", err)
	}
	return &c, nil
}
