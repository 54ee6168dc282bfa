// Package validation decides whether a registration draft may be committed.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Row is one attendee line of the registration form.
type Row struct {
	Name     string `validate:"notblank"`
	Location string `validate:"notblank"`
	Phone    string `validate:"phone"`
}

// Draft is the in-progress form. It always has at least one row once created.
type Draft struct {
	Rows []Row
}

// NewDraft starts a form with one empty row.
func NewDraft() Draft {
	return Draft{Rows: []Row{{}}}
}

// AddRow appends an empty row.
func (d *Draft) AddRow() {
	d.Rows = append(d.Rows, Row{})
}

// RowIssues lists what is wrong with one row.
type RowIssues struct {
	MissingName     bool
	MissingLocation bool
	MalformedPhone  bool
	PhoneTaken      bool // already registered somewhere
	PhoneRepeated   bool // used by another row of this draft
}

// Any reports whether the row has at least one issue.
func (ri RowIssues) Any() bool {
	return ri.MissingName || ri.MissingLocation || ri.MalformedPhone || ri.PhoneTaken || ri.PhoneRepeated
}

// Result holds the issues of every row and whether the draft may be committed.
type Result struct {
	Rows        []RowIssues
	Committable bool
}

// Validator checks drafts against a phone rule.
type Validator struct {
	v    *validator.Validate
	rule PhoneRule
}

// New returns a Validator for rule. It panics if the field tags cannot be
// registered.
func New(rule PhoneRule) *Validator {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return rule.Valid(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register phone: %v", err))
	}
	return &Validator{v: v, rule: rule}
}

// Rule returns the phone rule the validator checks against.
func (val *Validator) Rule() PhoneRule {
	return val.rule
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate reports per-row issues and whether the draft may be committed.
// Only the first row must carry a name and location; later rows are flagged
// but do not block the commit.
func (val *Validator) Validate(d Draft, existingPhones []string) Result {
	res := Result{Rows: make([]RowIssues, len(d.Rows))}

	existing := make(map[string]struct{}, len(existingPhones))
	for _, p := range existingPhones {
		existing[val.rule.Canonical(p)] = struct{}{}
	}

	counts := make(map[string]int, len(d.Rows))
	canonical := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		canonical[i] = val.rule.Canonical(row.Phone)
		counts[canonical[i]]++
	}

	phonesOK := true
	for i, row := range d.Rows {
		issues := val.fieldIssues(row)
		if _, ok := existing[canonical[i]]; ok {
			issues.PhoneTaken = true
		}
		if counts[canonical[i]] > 1 {
			phonesOK = false
			issues.PhoneRepeated = row.Phone != ""
		}
		if issues.MalformedPhone || issues.PhoneTaken {
			phonesOK = false
		}
		res.Rows[i] = issues
	}

	res.Committable = len(d.Rows) > 0 &&
		!res.Rows[0].MissingName &&
		!res.Rows[0].MissingLocation &&
		phonesOK

	return res
}

// Validate is a one-off check with a fresh validator.
func Validate(d Draft, existingPhones []string, rule PhoneRule) Result {
	return New(rule).Validate(d, existingPhones)
}

func (val *Validator) fieldIssues(row Row) RowIssues {
	var issues RowIssues

	err := val.v.Struct(row)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return issues
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			issues.MissingName = true
		case "Location":
			issues.MissingLocation = true
		case "Phone":
			issues.MalformedPhone = true
		}
	}
	return issues
}
