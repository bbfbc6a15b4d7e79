package movie

import (
	"strings"
	"testing"
)

func TestValidateTitleRequired(t *testing.T) {
	r := New()
	r.Year = "2020"
	r.Runtime = "90"
	r.Premiered = "2020-01-01"

	violations := Validate(r)
	if len(violations) == 0 {
		t.Fatal("empty title passed validation")
	}
	if !strings.Contains(violations[0], "title") {
		t.Errorf("violation = %q, want title mentioned", violations[0])
	}
}

func TestValidateMinimalRecordPasses(t *testing.T) {
	r := New()
	r.Title = "Anything"
	r.Year = ""
	r.Runtime = "0"

	if violations := Validate(r); len(violations) != 0 {
		t.Fatalf("minimal record failed: %v", violations)
	}
}

func TestValidateFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
		want   string
	}{
		{"year not digits", func(r *Record) { r.Year = "20xx" }, "year"},
		{"year too short", func(r *Record) { r.Year = "999" }, "year"},
		{"year out of range", func(r *Record) { r.Year = "1800" }, "year"},
		{"runtime negative", func(r *Record) { r.Runtime = "-5" }, "runtime"},
		{"runtime not a number", func(r *Record) { r.Runtime = "soon" }, "runtime"},
		{"premiered malformed", func(r *Record) { r.Premiered = "2020/01/01" }, "premiered"},
		{"actor without name", func(r *Record) { r.AddActor("", "lead", "") }, "actor"},
		{"rating out of range", func(r *Record) { r.AddRating("x", 11, 0) }, "rating"},
		{"negative votes", func(r *Record) { r.AddRating("x", 5, -1) }, "votes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			r.Title = "OK"
			tc.mutate(r)

			violations := Validate(r)
			if len(violations) == 0 {
				t.Fatal("expected a violation, got none")
			}
			found := false
			for _, v := range violations {
				if strings.Contains(v, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("violations %v do not mention %q", violations, tc.want)
			}
		})
	}
}

func TestValidateNeverMutates(t *testing.T) {
	r := New()
	r.Title = "Before"
	r.Year = "bad"
	Validate(r)
	if r.Title != "Before" || r.Year != "bad" {
		t.Fatal("Validate mutated the record")
	}
}
