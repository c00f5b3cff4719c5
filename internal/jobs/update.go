package jobs

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"jobmate/jobs-service/internal/sqlgen"
)

// jobColumns is the mutable field set of a job and the column each field
// is stored in.
var jobColumns = sqlgen.Columns{
	"title":         "title",
	"salary":        "salary",
	"equity":        "equity",
	"companyHandle": "company_handle",
}

// JobUpdate is a partial update. Only non-nil fields are written.
type JobUpdate struct {
	Title         *string  `json:"title,omitempty"`
	Salary        *int     `json:"salary,omitempty"`
	Equity        *float64 `json:"equity,omitempty"`
	CompanyHandle *string  `json:"companyHandle,omitempty"`
}

// UnmarshalJSON decodes a JSON object, rejecting keys outside the mutable
// field set and explicit nulls.
func (u *JobUpdate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Msg: "update body must be a JSON object"}
	}

	var out JobUpdate
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if _, ok := jobColumns[key]; !ok {
			return &sqlgen.UnknownFieldError{Field: key}
		}
		val := raw[key]
		if string(val) == "null" {
			return &ValidationError{Msg: fmt.Sprintf("%s cannot be null", key)}
		}

		var err error
		switch key {
		case "title":
			err = json.Unmarshal(val, &out.Title)
		case "salary":
			err = json.Unmarshal(val, &out.Salary)
		case "equity":
			err = json.Unmarshal(val, &out.Equity)
		case "companyHandle":
			err = json.Unmarshal(val, &out.CompanyHandle)
		}
		if err != nil {
			return &ValidationError{Msg: fmt.Sprintf("%s has the wrong type", key)}
		}
	}

	*u = out
	return nil
}

// Validate checks the business rules of every present field.
func (u JobUpdate) Validate() error {
	if u.Title != nil && *u.Title == "" {
		return &ValidationError{Msg: "title cannot be empty"}
	}
	if u.CompanyHandle != nil && *u.CompanyHandle == "" {
		return &ValidationError{Msg: "companyHandle cannot be empty"}
	}
	return validateAmounts(u.Salary, u.Equity)
}

// Assignments lists the present fields in column order: title, salary,
// equity, companyHandle.
func (u JobUpdate) Assignments() []sqlgen.Assignment {
	var out []sqlgen.Assignment
	if u.Title != nil {
		out = append(out, sqlgen.Assignment{Field: "title", Value: *u.Title})
	}
	if u.Salary != nil {
		out = append(out, sqlgen.Assignment{Field: "salary", Value: *u.Salary})
	}
	if u.Equity != nil {
		out = append(out, sqlgen.Assignment{Field: "equity", Value: *u.Equity})
	}
	if u.CompanyHandle != nil {
		out = append(out, sqlgen.Assignment{Field: "companyHandle", Value: *u.CompanyHandle})
	}
	return out
}
