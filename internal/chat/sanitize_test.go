package chat

import "testing"

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"<b>bold</b> move", "bold move"},
		{"fish &amp; chips", "fish & chips"},
		{"<script>x</script>", "x"},
		{"a < b", "a < b"},
		{"<br/>", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeInput(tt.in); got != tt.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
