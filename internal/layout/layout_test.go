package layout

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Biology", "Biology"},
		{"Formal Language & Automata Theory", "Formal_Language_Automata_Theory"},
		{"  cell biology  ", "cell_biology"},
		{"..hidden", "hidden"},
		{"a//b\\c", "a_b_c"},
		{"weird///   name", "weird_name"},
		{"___", ""},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, s := range []string{"Biology", "Formal Language & Automata Theory", "a b c"} {
		once := Sanitize(s)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestIsStoreEntry(t *testing.T) {
	if IsStoreEntry(".bio.stage-123") {
		t.Fatalf("staging dirs must be invisible to the store")
	}
	if !IsStoreEntry("bio") {
		t.Fatalf("plain names are store entries")
	}
}
