package project

import "testing"

func TestIsSensitiveField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  bool
	}{
		{"password", "password", true},
		{"camel case prefix", "userPassword", true},
		{"email", "email", true},
		{"phone", "phoneNumber", true},
		{"ssn", "ssn", true},
		{"credit card", "credit_card_number", true},
		{"uppercase", "PASSWORD_HASH", true},
		{"plain field", "username", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSensitiveField(tt.field); got != tt.want {
				t.Errorf("IsSensitiveField(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestSensitiveFields(t *testing.T) {
	db := DatabaseConfig{
		Models: []Model{
			{Name: "User", Fields: []Field{
				{Name: "id"},
				{Name: "email"},
				{Name: "password"},
			}},
			{Name: "Post", Fields: []Field{
				{Name: "title"},
			}},
		},
	}

	got := db.SensitiveFields()
	want := []string{"User.email", "User.password"}
	if len(got) != len(want) {
		t.Fatalf("SensitiveFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SensitiveFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if fields := (DatabaseConfig{}).SensitiveFields(); fields != nil {
		t.Errorf("empty config should yield no sensitive fields, got %v", fields)
	}
}
