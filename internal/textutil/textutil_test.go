package textutil

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  A quiet story. ", want: "A quiet story."},
		{name: "breaks", in: "First line.<br><br>\nSecond line.", want: "First line.\n\nSecond line."},
		{name: "italics and entities", in: "<i>Source: Crunchyroll</i> &amp; more&#039;s", want: "Source: Crunchyroll & more's"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Fatalf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStableID(t *testing.T) {
	// "a" hashes to its code unit; "ab" = 97*31 + 98.
	if got := StableID("a"); got != 97 {
		t.Fatalf("StableID(a) = %d, want 97", got)
	}
	if got := StableID("ab"); got != 3105 {
		t.Fatalf("StableID(ab) = %d, want 3105", got)
	}
	if StableID("Cowboy Bebop") != StableID("Cowboy Bebop") {
		t.Fatal("expected stable output for identical input")
	}
	if StableID("Cowboy Bebop") == StableID("Trigun") {
		t.Fatal("expected different titles to hash differently")
	}
	long := "Sousou no Frieren: Beyond Journey's End, the second cour with a long subtitle"
	if StableID(long) < 0 {
		t.Fatalf("expected non-negative id, got %d", StableID(long))
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1k", 18000: "18k", 18499: "18k", 18500: "19k"}
	for in, want := range cases {
		if got := FormatCount(in); got != want {
			t.Fatalf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFold(t *testing.T) {
	if !EqualFold(" Slice of Life", "slice OF life ") {
		t.Fatal("expected case-insensitive match")
	}
	if EqualFold("Romance", "Romance of Three Kingdoms") {
		t.Fatal("expected prefix not to match")
	}
	if got := TitleCase("FINISHED"); got != "Finished" {
		t.Fatalf("TitleCase = %q", got)
	}
}
