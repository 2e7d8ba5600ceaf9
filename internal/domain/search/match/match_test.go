package match

import "testing"

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		t    Type
		want bool
	}{
		{Semantic, true},
		{Keyword, true},
		{Hybrid, true},
		{Type("semantic"), false},
		{Type(""), false},
		{Type("FUZZY"), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.t, got, tt.want)
		}
	}
}
