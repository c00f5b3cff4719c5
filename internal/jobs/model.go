package jobs

import "fmt"

// Job is the canonical job posting row.
type Job struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle *string  `json:"companyHandle"`
}

// JobSummary is a flattened job + company-name row, as returned by FindAll.
type JobSummary struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle *string  `json:"companyHandle"`
	CompanyName   *string  `json:"companyName"`
}

// JobDetail is a single job with its company nested in place of the
// handle, as returned by Get.
type JobDetail struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Salary  *int     `json:"salary"`
	Equity  *float64 `json:"equity"`
	Company *Company `json:"company"`
}

// Company mirrors a companies row. Companies are read-only here.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// NewJob is the input to Service.Create.
type NewJob struct {
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"companyHandle"`
}

// Validate checks the business rules for a new posting.
func (n NewJob) Validate() error {
	if n.Title == "" {
		return &ValidationError{Msg: "title is required"}
	}
	if n.CompanyHandle == "" {
		return &ValidationError{Msg: "companyHandle is required"}
	}
	return validateAmounts(n.Salary, n.Equity)
}

func validateAmounts(salary *int, equity *float64) error {
	if salary != nil && *salary < 0 {
		return &ValidationError{Msg: "salary must be >= 0"}
	}
	if equity != nil && (*equity < 0 || *equity > 1) {
		return &ValidationError{Msg: fmt.Sprintf("equity must be between 0 and 1, got %g", *equity)}
	}
	return nil
}
