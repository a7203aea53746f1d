package issue

import "testing"

func TestSeverityIsValid(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     bool
	}{
		{"error is valid", SeverityError, true},
		{"warning is valid", SeverityWarning, true},
		{"info is valid", SeverityInfo, true},
		{"empty is invalid", Severity(""), false},
		{"unknown is invalid", Severity("critical"), false},
		{"case sensitive", Severity("Error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.severity.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityWeight(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     int
	}{
		{"error weighs 3", SeverityError, 3},
		{"warning weighs 2", SeverityWarning, 2},
		{"info weighs 1", SeverityInfo, 1},
		{"invalid weighs 0", Severity("bogus"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.severity.Weight(); got != tt.want {
				t.Errorf("Weight() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Severity
		wantErr bool
	}{
		{"parses error", "error", SeverityError, false},
		{"parses warning", "warning", SeverityWarning, false},
		{"parses info", "info", SeverityInfo, false},
		{"rejects unknown", "fatal", "", true},
		{"rejects empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompareSeverity(t *testing.T) {
	if CompareSeverity(SeverityError, SeverityInfo) <= 0 {
		t.Error("error should compare greater than info")
	}
	if CompareSeverity(SeverityInfo, SeverityWarning) >= 0 {
		t.Error("info should compare less than warning")
	}
	if CompareSeverity(SeverityWarning, SeverityWarning) != 0 {
		t.Error("equal severities should compare to zero")
	}
}

func TestAllSeverities(t *testing.T) {
	all := AllSeverities()
	if len(all) != 3 {
		t.Fatalf("expected 3 severities, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Weight() <= all[i].Weight() {
			t.Errorf("severities not ordered by descending weight: %v before %v", all[i-1], all[i])
		}
	}
}
