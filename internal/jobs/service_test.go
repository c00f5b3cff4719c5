package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/jobs-service/internal/db/dbtest"
	"jobmate/jobs-service/internal/jobs"
	"jobmate/jobs-service/internal/sqlgen"
)

var acmeRow = []any{"acme", "Acme Corp", "Rockets", 120, "http://acme.test/logo.png"}

func TestCreate_ReturnsSuppliedFields(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Rows: [][]any{{7}}})
	rec := &recorder{}
	svc := jobs.NewService(db, rec)

	job, err := svc.Create(context.Background(), jobs.NewJob{
		Title: "Dev", Salary: ptr(100000), Equity: ptr(0.1), CompanyHandle: "acme",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, job.ID)
	assert.Equal(t, "Dev", job.Title)
	assert.Equal(t, 100000, *job.Salary)
	assert.Equal(t, 0.1, *job.Equity)
	assert.Equal(t, "acme", *job.CompanyHandle)

	require.Len(t, db.Calls, 1)
	assert.Contains(t, db.Calls[0].SQL, "INSERT INTO jobs (title, salary, equity, company_handle)")
	assert.Equal(t, []any{"Dev", ptr(100000), ptr(0.1), "acme"}, db.Calls[0].Args)
	assert.Equal(t, []string{"JOB_CREATED:7"}, rec.events)
}

func TestCreate_InvalidIssuesNoQuery(t *testing.T) {
	db := &dbtest.Fake{}
	svc := jobs.NewService(db, nil)

	_, err := svc.Create(context.Background(), jobs.NewJob{Title: "Dev"})
	var ve *jobs.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Empty(t, db.Calls)
}

func TestFindAll_NoFilter(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Rows: [][]any{
		{1, "Plumber", nil, nil, nil, nil},
		{2, "Senior Engineer", 120000, 0.05, "acme", "Acme Corp"},
	}})
	svc := jobs.NewService(db, nil)

	got, err := svc.FindAll(context.Background(), jobs.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Nil(t, got[0].CompanyHandle)
	assert.Nil(t, got[0].CompanyName)
	assert.Equal(t, "Acme Corp", *got[1].CompanyName)
	assert.Equal(t, 120000, *got[1].Salary)

	q := db.Calls[0].SQL
	assert.Contains(t, q, "LEFT JOIN companies c ON c.handle = j.company_handle")
	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "ORDER BY j.title")
	assert.Empty(t, db.Calls[0].Args)
}

func TestFindAll_WithFilter(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{})
	svc := jobs.NewService(db, nil)

	got, err := svc.FindAll(context.Background(), jobs.Filter{
		MinSalary: ptr(1000), HasEquity: ptr(true), Title: ptr("engineer"),
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	q := db.Calls[0].SQL
	assert.Contains(t, q, "WHERE j.salary >= $1 AND j.equity > 0 AND j.title ILIKE $2 ORDER BY j.title")
	assert.Equal(t, []any{1000, "%engineer%"}, db.Calls[0].Args)
}

func TestFindAll_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := jobs.NewService((&dbtest.Fake{}).Push(dbtest.Result{Err: boom}), nil)

	_, err := svc.FindAll(context.Background(), jobs.Filter{})
	assert.ErrorIs(t, err, boom)
}

func TestGet_NotFound(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{})
	svc := jobs.NewService(db, nil)

	_, err := svc.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, jobs.ErrNotFound)
	require.Len(t, db.Calls, 1, "no company lookup after a miss")
	assert.Equal(t, []any{999999}, db.Calls[0].Args)
}

func TestGet_NestsCompany(t *testing.T) {
	db := (&dbtest.Fake{}).Push(
		dbtest.Result{Rows: [][]any{{7, "Dev", 100000, 0.1, "acme"}}},
		dbtest.Result{Rows: [][]any{acmeRow}},
	)
	svc := jobs.NewService(db, nil)

	d, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, d.ID)
	require.NotNil(t, d.Company)
	assert.Equal(t, "acme", d.Company.Handle)
	assert.Equal(t, "Acme Corp", d.Company.Name)
	assert.Equal(t, 120, *d.Company.NumEmployees)

	require.Len(t, db.Calls, 2)
	assert.Contains(t, db.Calls[1].SQL, "FROM companies")
	assert.Equal(t, []any{"acme"}, db.Calls[1].Args)
}

func TestGet_NoHandleSkipsCompanyLookup(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Rows: [][]any{{3, "Dev", nil, nil, nil}}})
	svc := jobs.NewService(db, nil)

	d, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, d.Company)
	assert.Len(t, db.Calls, 1)
}

func TestGet_MissingCompanyIsNil(t *testing.T) {
	db := (&dbtest.Fake{}).Push(
		dbtest.Result{Rows: [][]any{{3, "Dev", nil, nil, "gone"}}},
		dbtest.Result{},
	)
	svc := jobs.NewService(db, nil)

	d, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, d.Company)
}

func TestUpdate_BuildsSetAndIDPlaceholder(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Rows: [][]any{{7, "Lead Dev", 90000, 0.1, "acme"}}})
	rec := &recorder{}
	svc := jobs.NewService(db, rec)

	job, err := svc.Update(context.Background(), 7, jobs.JobUpdate{Title: ptr("Lead Dev"), Salary: ptr(90000)})
	require.NoError(t, err)
	assert.Equal(t, "Lead Dev", job.Title)

	q := db.Calls[0].SQL
	assert.Contains(t, q, `SET "title" = $1, "salary" = $2`)
	assert.Contains(t, q, "WHERE id = $3")
	assert.Equal(t, []any{"Lead Dev", 90000, 7}, db.Calls[0].Args)
	assert.Equal(t, []string{"JOB_UPDATED:7"}, rec.events)
}

func TestUpdate_TranslatesCompanyHandle(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Rows: [][]any{{7, "Dev", nil, nil, "initech"}}})
	svc := jobs.NewService(db, nil)

	_, err := svc.Update(context.Background(), 7, jobs.JobUpdate{CompanyHandle: ptr("initech")})
	require.NoError(t, err)
	assert.Contains(t, db.Calls[0].SQL, `SET "company_handle" = $1`)
	assert.Contains(t, db.Calls[0].SQL, "WHERE id = $2")
}

func TestUpdate_EmptyPayloadIssuesNoQuery(t *testing.T) {
	db := &dbtest.Fake{}
	svc := jobs.NewService(db, nil)

	_, err := svc.Update(context.Background(), 7, jobs.JobUpdate{})
	assert.ErrorIs(t, err, sqlgen.ErrEmptyPayload)
	assert.Empty(t, db.Calls)
}

func TestUpdate_NotFound(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{})
	rec := &recorder{}
	svc := jobs.NewService(db, rec)

	_, err := svc.Update(context.Background(), 999999, jobs.JobUpdate{Salary: ptr(1)})
	assert.ErrorIs(t, err, jobs.ErrNotFound)
	assert.Empty(t, rec.events)
}

func TestRemove(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Tag: "DELETE 1"})
	rec := &recorder{}
	svc := jobs.NewService(db, rec)

	require.NoError(t, svc.Remove(context.Background(), 7))
	assert.Equal(t, []any{7}, db.Calls[0].Args)
	assert.Equal(t, []string{"JOB_REMOVED:7"}, rec.events)
}

func TestRemove_NotFound(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Tag: "DELETE 0"})
	rec := &recorder{}
	svc := jobs.NewService(db, rec)

	assert.ErrorIs(t, svc.Remove(context.Background(), 999999), jobs.ErrNotFound)
	assert.Len(t, db.Calls, 1)
	assert.Empty(t, rec.events)
}

func TestNotifyFailureIsNotFatal(t *testing.T) {
	db := (&dbtest.Fake{}).Push(dbtest.Result{Tag: "DELETE 1"})
	svc := jobs.NewService(db, &recorder{err: errors.New("redis down")})

	assert.NoError(t, svc.Remove(context.Background(), 7))
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	db := (&dbtest.Fake{}).Push(
		dbtest.Result{Rows: [][]any{{42}}},
		dbtest.Result{Rows: [][]any{{42, "Dev", 100000, 0.1, "acme"}}},
		dbtest.Result{Rows: [][]any{acmeRow}},
	)
	svc := jobs.NewService(db, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, jobs.NewJob{
		Title: "Dev", Salary: ptr(100000), Equity: ptr(0.1), CompanyHandle: "acme",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, *created.Salary, *got.Salary)
	assert.Equal(t, *created.Equity, *got.Equity)
	require.NotNil(t, got.Company)
	assert.Equal(t, *created.CompanyHandle, got.Company.Handle)
	assert.Equal(t, []any{42}, db.Calls[1].Args)
}
