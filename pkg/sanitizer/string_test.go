package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"no change needed", "Downtown Branch", "Downtown Branch"},
		{"leading and trailing", "  Airport Terminal 2  ", "Airport Terminal 2"},
		{"internal runs collapsed", "Main   Street\t\tGarage", "Main Street Garage"},
		{"mixed whitespace", " 12\n Harbor  Rd ", "12 Harbor Rd"},
		{"unicode preserved", "  Tel Aviv  ", "Tel Aviv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@test.io ", "bob@test.io"},
		{"", ""},
	}

	for _, tt := range tests {
		got := NormalizeEmail(tt.input)
		if got != tt.expected {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
