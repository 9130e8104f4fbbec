package sanitize

import "testing"

func TestHTML(t *testing.T) {
	got := HTML(`<script>alert("x")</script> & done`)
	want := `&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; done`
	if got != want {
		t.Fatalf("HTML() = %q, want %q", got, want)
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"\x1b[31mERROR\x1b[0m boom", "ERROR boom"},
		{"bell\x07 here", "bell here"},
		{"a\tb", "a b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Terminal(tt.in); got != tt.want {
			t.Errorf("Terminal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
