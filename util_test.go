package tick

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"valid-name", false},
		{"valid_name", false},
		{"ValidName", false},
		{"timer123", false},
		{"a", false},
		{"enemy:spawn", false},      // colon for grouping
		{"ui/cooldown/dash", false}, // slash for hierarchy
		{"boss.phase2", false},      // dot for hierarchy
		{"", true},                  // empty
		{"two words", true},         // contains space
		{"timer@1", true},           // contains @
	}

	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateName_Length(t *testing.T) {
	if err := ValidateName(strings.Repeat("a", MaxNameLength)); err != nil {
		t.Errorf("ValidateName(%d chars) error = %v, want nil", MaxNameLength, err)
	}
	if err := ValidateName(strings.Repeat("a", MaxNameLength+1)); !errors.Is(err, ErrInvalidName) {
		t.Errorf("ValidateName(%d chars) error = %v, want ErrInvalidName", MaxNameLength+1, err)
	}
}
