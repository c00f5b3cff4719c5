// Package jobs contains the data access and business rules for job
// postings. It is transport-agnostic: used by the REST handler in this
// package and by the gRPC server (grpcserver package).
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"jobmate/jobs-service/internal/db"
	"jobmate/jobs-service/internal/sqlgen"
)

// Event types published after each successful write.
const (
	EventCreated = "JOB_CREATED"
	EventUpdated = "JOB_UPDATED"
	EventRemoved = "JOB_REMOVED"
)

// Notifier receives change notifications. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, eventType string, jobID int) error
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates all job posting logic.
// It has no dependency on net/http.
type Service struct {
	db     db.Querier
	notify Notifier
}

// NewService returns a configured Service. notify may be nil.
func NewService(q db.Querier, notify Notifier) *Service {
	return &Service{db: q, notify: notify}
}

// ─── Business logic ───────────────────────────────────────────────────────────

// Create inserts a job and returns it with its generated id. The returned
// fields are the ones supplied, not re-read.
func (s *Service) Create(ctx context.Context, in NewJob) (*Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var id int
	err := s.db.QueryRow(ctx,
		`INSERT INTO jobs (title, salary, equity, company_handle)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		in.Title, in.Salary, in.Equity, in.CompanyHandle,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("createJob: %w", err)
	}

	handle := in.CompanyHandle
	job := &Job{
		ID:            id,
		Title:         in.Title,
		Salary:        in.Salary,
		Equity:        in.Equity,
		CompanyHandle: &handle,
	}
	s.publish(ctx, EventCreated, id)
	return job, nil
}

// FindAll returns every job matching f, joined to its company name and
// ordered by title. Jobs without a company are included with a nil name.
func (s *Service) FindAll(ctx context.Context, f Filter) ([]JobSummary, error) {
	query := `SELECT j.id, j.title, j.salary, j.equity, j.company_handle, c.name
		FROM jobs j
		LEFT JOIN companies c ON c.handle = j.company_handle`

	where := f.Compile()
	if !where.Empty() {
		query += " " + where.SQL
	}
	query += " ORDER BY j.title"

	rows, err := s.db.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("findAll query: %w", err)
	}
	defer rows.Close()

	jobs := make([]JobSummary, 0)
	for rows.Next() {
		var j JobSummary
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &j.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("findAll scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("findAll rows: %w", err)
	}
	return jobs, nil
}

// Get returns one job with its company nested. The company is read by a
// second query; Company is nil when the job has no handle or the company
// row is gone.
func (s *Service) Get(ctx context.Context, id int) (*JobDetail, error) {
	var (
		d      JobDetail
		handle *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, title, salary, equity, company_handle
		 FROM jobs
		 WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Title, &d.Salary, &d.Equity, &handle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getJob: %w", err)
	}

	if handle != nil {
		c, err := s.CompanyByHandle(ctx, *handle)
		switch {
		case errors.Is(err, ErrCompanyNotFound):
		case err != nil:
			return nil, err
		default:
			d.Company = c
		}
	}
	return &d, nil
}

// Update applies a partial update and returns the stored row.
func (s *Service) Update(ctx context.Context, id int, u JobUpdate) (*Job, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	set, err := sqlgen.Set(u.Assignments(), jobColumns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE jobs
		 SET %s
		 WHERE id = %s
		 RETURNING id, title, salary, equity, company_handle`,
		set.SQL, sqlgen.Placeholder(set.Next()),
	)

	var j Job
	err = s.db.QueryRow(ctx, query, append(set.Args, id)...).
		Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updateJob: %w", err)
	}

	s.publish(ctx, EventUpdated, id)
	return &j, nil
}

// Remove deletes a job by id.
func (s *Service) Remove(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("removeJob: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.publish(ctx, EventRemoved, id)
	return nil
}

// publish forwards a change event (non-fatal).
func (s *Service) publish(ctx context.Context, eventType string, id int) {
	if s.notify == nil {
		return
	}
	if err := s.notify.Notify(ctx, eventType, id); err != nil {
		slog.Warn("publish job event failed", "type", eventType, "jobId", id, "err", err)
	}
}
