package validate

import (
	"testing"
)

func TestNonEmptyString(t *testing.T) {
	s := NonEmptyString()
	if problems := s.Check("shop", "name"); len(problems) != 0 {
		t.Errorf("valid string reported %+v", problems)
	}
	problems := s.Check("", "name")
	if len(problems) != 1 {
		t.Fatalf("empty string problems = %+v", problems)
	}
	if problems[0].Field != "name" {
		t.Errorf("Field = %q, want name", problems[0].Field)
	}
}

func TestStringTypeMismatch(t *testing.T) {
	if problems := String().Check(42, "version"); len(problems) != 1 {
		t.Errorf("problems = %+v, want one type mismatch", problems)
	}
}

func TestBool(t *testing.T) {
	if problems := Bool().Check(true, "flag"); len(problems) != 0 {
		t.Errorf("problems = %+v", problems)
	}
	if problems := Bool().Check("yes", "flag"); len(problems) != 1 {
		t.Errorf("problems = %+v, want one type mismatch", problems)
	}
}

func TestObjectRequiredFields(t *testing.T) {
	s := Object(map[string]Schema{
		"name": NonEmptyString(),
		"type": NonEmptyString(),
	}, "name", "type")

	problems := s.Check(map[string]any{"name": "shop"}, "project")
	if len(problems) != 1 {
		t.Fatalf("problems = %+v, want one missing field", problems)
	}
	if problems[0].Field != "project.type" {
		t.Errorf("Field = %q, want project.type", problems[0].Field)
	}
}

func TestObjectCollectsEveryViolation(t *testing.T) {
	s := Object(map[string]Schema{
		"name": NonEmptyString(),
		"type": NonEmptyString(),
	}, "name", "type")

	problems := s.Check(map[string]any{"name": "", "type": ""}, "")
	if len(problems) != 2 {
		t.Errorf("problems = %+v, want both violations reported", problems)
	}
}

func TestArrayItemPaths(t *testing.T) {
	s := Array(NonEmptyString())
	problems := s.Check([]any{"ok", ""}, "tags")
	if len(problems) != 1 {
		t.Fatalf("problems = %+v", problems)
	}
	if problems[0].Field != "tags[1]" {
		t.Errorf("Field = %q, want tags[1]", problems[0].Field)
	}
}

func TestEnum(t *testing.T) {
	s := Enum("development", "staging", "production")
	if problems := s.Check("production", "environment"); len(problems) != 0 {
		t.Errorf("problems = %+v", problems)
	}
	if problems := s.Check("prod", "environment"); len(problems) != 1 {
		t.Errorf("problems = %+v, want one enum violation", problems)
	}
}

func TestObjectAcceptsStructs(t *testing.T) {
	type info struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	s := Object(map[string]Schema{
		"name": NonEmptyString(),
		"type": NonEmptyString(),
	}, "name", "type")

	if problems := s.Check(info{Name: "shop", Type: "web-app"}, "project"); len(problems) != 0 {
		t.Errorf("problems = %+v", problems)
	}
	problems := s.Check(info{Name: "shop"}, "project")
	if len(problems) != 1 || problems[0].Field != "project.type" {
		t.Errorf("problems = %+v, want project.type flagged", problems)
	}
}
