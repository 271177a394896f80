package dataset

import "fmt"

// Schema names the roles a table's columns play in an analysis.
// Group is optional; an empty Group means the schema has no categorical breakdown.
type Schema struct {
	Trait   string
	Outcome string
	Group   string
}

var (
	// PerformanceSchema describes HR_performance: trait, performance score and job.
	PerformanceSchema = Schema{Trait: "Neuroticism", Outcome: "Performance", Group: "Job"}
	// SalarySchema describes HR_salary: trait, salary and education level.
	SalarySchema = Schema{Trait: "Neuroticism", Outcome: "Salary", Group: "Education"}
)

// WithTrait returns a copy of s using a different trait column.
func (s Schema) WithTrait(trait string) Schema {
	if trait != "" {
		s.Trait = trait
	}
	return s
}

// Columns lists the schema's column names in role order, skipping an empty Group.
func (s Schema) Columns() []string {
	cols := []string{s.Trait, s.Outcome}
	if s.Group != "" {
		cols = append(cols, s.Group)
	}
	return cols
}

// Availability is the result of probing a table for a set of required columns.
type Availability struct {
	Present []string
	Missing []string
}

// OK reports whether every required column is present.
func (a Availability) OK() bool { return len(a.Missing) == 0 }

// Probe checks which of the required columns exist in t. A nil table reports
// every column missing.
func Probe(t *Table, required ...string) Availability {
	var a Availability
	for _, c := range required {
		if t != nil && t.Has(c) {
			a.Present = append(a.Present, c)
		} else {
			a.Missing = append(a.Missing, c)
		}
	}
	return a
}

// Record is one typed row under a Schema. Group is "" when the category is missing.
type Record struct {
	ID      string
	Trait   Value
	Outcome Value
	Group   string
}

// Records materializes typed rows for a schema. Every schema column must exist.
func (t *Table) Records(s Schema) ([]Record, error) {
	if a := Probe(t, s.Columns()...); !a.OK() {
		return nil, fmt.Errorf("%w: %v", ErrNoColumn, a.Missing)
	}
	xs, err := t.Floats(s.Trait)
	if err != nil {
		return nil, err
	}
	ys, err := t.Floats(s.Outcome)
	if err != nil {
		return nil, err
	}
	var gs []string
	if s.Group != "" {
		if gs, err = t.Strings(s.Group); err != nil {
			return nil, err
		}
	}
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = Record{ID: t.ids[i], Trait: xs[i], Outcome: ys[i]}
		if gs != nil {
			out[i].Group = gs[i]
		}
	}
	return out, nil
}
