package processor

import "testing"

func TestRemoveLinks(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"markdown link keeps text", "see [the report](https://example.com/r) here", "see the report here"},
		{"bare url removed", "details at https://example.com/page today", "details at  today"},
		{"www url removed", "visit www.example.com now", "visit  now"},
		{"plain text untouched", "nothing to strip", "nothing to strip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveLinks(tt.in); got != tt.want {
				t.Errorf("RemoveLinks(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	in := `<div><script>evil()</script><p>First paragraph.</p>  <p>Second   one.</p></div>`
	want := "First paragraph. Second one."
	if got := StripHTML(in); got != want {
		t.Errorf("StripHTML = %q, want %q", got, want)
	}
}

func TestCleanText(t *testing.T) {
	in := `<p>Read more at https://example.com/story</p>   <p>The   facts.</p>`
	want := "Read more at The facts."
	if got := CleanText(in); got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}
