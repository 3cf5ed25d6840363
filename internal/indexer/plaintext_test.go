package indexer

import "testing"

func TestPlainTextRenderer_Render(t *testing.T) {
	r := NewPlainTextRenderer()

	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "emphasis removed",
			markdown: "Some *soft* and **strong** words",
			want:     "Some soft and strong words",
		},
		{
			name:     "link keeps label only",
			markdown: "See [the manual](https://example.com/manual).",
			want:     "See the manual.",
		},
		{
			name:     "list markers removed",
			markdown: "- first\n- second",
			want:     "first\nsecond",
		},
		{
			name:     "fenced code keeps contents",
			markdown: "```sh\nmake run\n```",
			want:     "make run",
		},
		{
			name:     "inline html dropped",
			markdown: "before <br> after",
			want:     "before  after",
		},
		{
			name:     "table cells joined",
			markdown: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:     "a | b\n1 | 2",
		},
		{
			name:     "blank lines collapsed",
			markdown: "para one\n\n\n\npara two",
			want:     "para one\npara two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Render(tt.markdown); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.markdown, got, tt.want)
			}
		})
	}
}
