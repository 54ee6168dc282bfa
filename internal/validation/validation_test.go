package validation

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(name, location, phone string) Row {
	return Row{Name: name, Location: location, Phone: phone}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		draft       Draft
		existing    []string
		want        []RowIssues
		committable bool
	}{
		{
			name:        "single valid row",
			draft:       Draft{Rows: []Row{row("Alice", "Main St", "555-0100")}},
			want:        []RowIssues{{}},
			committable: true,
		},
		{
			name:        "no rows",
			draft:       Draft{},
			want:        []RowIssues{},
			committable: false,
		},
		{
			name:        "fresh draft",
			draft:       NewDraft(),
			want:        []RowIssues{{MissingName: true, MissingLocation: true, MalformedPhone: true}},
			committable: false,
		},
		{
			name:        "whitespace name is blank",
			draft:       Draft{Rows: []Row{row("  \t", "Main St", "555-0100")}},
			want:        []RowIssues{{MissingName: true}},
			committable: false,
		},
		{
			name:        "malformed phone",
			draft:       Draft{Rows: []Row{row("Alice", "Main St", "5550100")}},
			want:        []RowIssues{{MalformedPhone: true}},
			committable: false,
		},
		{
			name:        "phone already registered at any venue",
			draft:       Draft{Rows: []Row{row("Dan", "Elm St", "555-0100")}},
			existing:    []string{"555-0100"},
			want:        []RowIssues{{PhoneTaken: true}},
			committable: false,
		},
		{
			name: "phone repeated within draft",
			draft: Draft{Rows: []Row{
				row("Bob", "Elm St", "555-0200"),
				row("Carol", "Oak St", "555-0200"),
			}},
			want:        []RowIssues{{PhoneRepeated: true}, {PhoneRepeated: true}},
			committable: false,
		},
		{
			name: "later rows may omit name and location",
			draft: Draft{Rows: []Row{
				row("Bob", "Elm St", "555-0300"),
				row("", "", "555-0400"),
			}},
			want:        []RowIssues{{}, {MissingName: true, MissingLocation: true}},
			committable: true,
		},
		{
			name: "empty phones are malformed, not repeated",
			draft: Draft{Rows: []Row{
				row("Bob", "Elm St", ""),
				row("Carol", "Oak St", ""),
			}},
			want:        []RowIssues{{MalformedPhone: true}, {MalformedPhone: true}},
			committable: false,
		},
		{
			name:        "long form phone",
			draft:       Draft{Rows: []Row{row("Eve", "Pine St", "212-555-0100")}},
			want:        []RowIssues{{}},
			committable: true,
		},
	}

	v := New(DefaultPhoneRule())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.draft, tt.existing)
			assert.Equal(t, tt.want, got.Rows)
			assert.Equal(t, tt.committable, got.Committable)
		})
	}
}

func TestValidateIsRepeatable(t *testing.T) {
	draft := Draft{Rows: []Row{row("Bob", "Elm St", "555-0300"), row("Carol", "", "555-0300")}}
	existing := []string{"555-0100"}

	first := Validate(draft, existing, DefaultPhoneRule())
	second := Validate(draft, existing, DefaultPhoneRule())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"555-0100"}, existing)
}

func TestNewRegistersFieldTags(t *testing.T) {
	var val *Validator
	require.NotPanics(t, func() { val = New(DefaultPhoneRule()) })

	res := val.Validate(Draft{Rows: []Row{row("Bob", "Elm St", "555-0300")}}, nil)
	assert.True(t, res.Committable)
}

func TestAddRow(t *testing.T) {
	d := NewDraft()
	d.AddRow()
	require.Len(t, d.Rows, 2)
	assert.Equal(t, Row{}, d.Rows[1])
}

func TestRowIssuesAny(t *testing.T) {
	assert.False(t, RowIssues{}.Any())
	assert.True(t, RowIssues{PhoneRepeated: true}.Any())
}

func TestPhoneRuleWithRegion(t *testing.T) {
	rule := NewPhoneRule(regexp.MustCompile(`^[+0-9 ()-]+$`), "RO")

	assert.True(t, rule.Valid("0721 234 567"))
	assert.False(t, rule.Valid("123"))
	assert.Equal(t, "+40721234567", rule.Canonical("0721 234 567"))
	assert.Equal(t, "123", rule.Canonical("123"))

	// Different spellings of one number collide.
	v := New(rule)
	res := v.Validate(Draft{Rows: []Row{row("Ana", "Cluj", "0721-234-567")}}, []string{"+40721234567"})
	assert.True(t, res.Rows[0].PhoneTaken)
	assert.False(t, res.Committable)
}

func TestPhoneRuleWithoutRegionComparesExactly(t *testing.T) {
	rule := DefaultPhoneRule()
	assert.Equal(t, "555-0100", rule.Canonical("555-0100"))
	assert.True(t, rule.Valid("555-0100"))
	assert.False(t, rule.Valid("555 0100"))
}
