package songbook

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkPreface_Render(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []string
	}{
		{
			name:     "basic markdown",
			markdown: "# Foreword\n\nSome *emphasis* here.",
			want:     []string{"<h1>Foreword</h1>", "<em>emphasis</em>"},
		},
		{
			name:     "gfm table",
			markdown: "| Key | Chord |\n|-----|-------|\n| C   | Do    |",
			want:     []string{"<table>", "<td>Do</td>"},
		},
		{
			name:     "strikethrough",
			markdown: "~~old title~~",
			want:     []string{"<del>old title</del>"},
		},
		{
			name:     "code block gets syntax classes",
			markdown: "```go\nfunc main() {}\n```",
			want:     []string{`class="chroma"`},
		},
		{
			name:     "footnote",
			markdown: "Tuning[^1]\n\n[^1]: Standard EADGBE.",
			want:     []string{"fn:1", "Standard EADGBE."},
		},
		{
			name:     "empty input",
			markdown: "",
			want:     nil,
		},
	}

	p := newGoldmarkPreface()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Render(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q, got: %s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkPreface_Render_CanceledContext(t *testing.T) {
	p := newGoldmarkPreface()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Render(ctx, "# Hello")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
