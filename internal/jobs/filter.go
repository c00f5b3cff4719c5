package jobs

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"jobmate/jobs-service/internal/sqlgen"
)

// Filter holds the optional search criteria for FindAll. A nil field is
// absent and contributes no predicate.
type Filter struct {
	MinSalary *int
	HasEquity *bool
	Title     *string
}

// likeEscaper makes LIKE wildcards in user input match literally, using
// Postgres' default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Compile renders the WHERE clause for f against the jobs table aliased
// as j. Predicates are appended in a fixed order (salary, equity, title)
// and HasEquity=false adds nothing. Title is a literal substring.
func (f Filter) Compile() sqlgen.Clause {
	var w sqlgen.Where
	if f.MinSalary != nil {
		w.Bind("j.salary >=", *f.MinSalary)
	}
	if f.HasEquity != nil && *f.HasEquity {
		w.Literal("j.equity > 0")
	}
	if f.Title != nil {
		w.Bind("j.title ILIKE", "%"+likeEscaper.Replace(*f.Title)+"%")
	}
	return w.Clause()
}

// ParseFilter builds a Filter from query-string parameters, rejecting
// unknown keys, repeated keys and malformed values.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter
	for key, vals := range q {
		switch key {
		case "minSalary", "hasEquity", "title":
		default:
			return Filter{}, &ValidationError{Msg: fmt.Sprintf("unknown filter %q", key)}
		}
		if len(vals) > 1 {
			return Filter{}, &ValidationError{Msg: fmt.Sprintf("filter %q given more than once", key)}
		}
	}

	if s := q.Get("minSalary"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return Filter{}, &ValidationError{Msg: fmt.Sprintf("minSalary must be a non-negative integer, got %q", s)}
		}
		f.MinSalary = &v
	}
	if s := q.Get("hasEquity"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return Filter{}, &ValidationError{Msg: fmt.Sprintf("hasEquity must be true or false, got %q", s)}
		}
		f.HasEquity = &v
	}
	if s := q.Get("title"); s != "" {
		f.Title = &s
	}
	return f, nil
}
