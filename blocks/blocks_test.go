package blocks

import (
	"testing"

	"github.com/dspiers/pageant"
)

func TestBuild_BulletSplitsOnCommas(t *testing.T) {
	got := Build("A, B, C", pageant.FormatBullet)
	if len(got) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(got))
	}
	want := []string{"A", "B", "C"}
	for i, b := range got {
		if b.Type != "bulleted_list_item" {
			t.Errorf("block %d: expected bulleted_list_item, got %s", i, b.Type)
		}
		if b.Text() != want[i] {
			t.Errorf("block %d: expected %q, got %q", i, want[i], b.Text())
		}
	}
}

func TestBuild_TodoSplitsOnSemicolons(t *testing.T) {
	got := Build("buy milk; call mom", pageant.FormatTodo)
	if len(got) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got))
	}
	for _, b := range got {
		if b.ToDo == nil {
			t.Fatal("expected to_do payload")
		}
		if b.ToDo.Checked {
			t.Error("new to-dos must be unchecked")
		}
	}
	if got[0].Text() != "buy milk" || got[1].Text() != "call mom" {
		t.Errorf("unexpected texts: %q, %q", got[0].Text(), got[1].Text())
	}
}

func TestBuild_SingleItemNoSeparators(t *testing.T) {
	got := Build("just one thing", pageant.FormatBullet)
	if len(got) != 1 {
		t.Fatalf("expected 1 block, got %d", len(got))
	}
	if got[0].Text() != "just one thing" {
		t.Errorf("unexpected text: %q", got[0].Text())
	}
}

func TestBuild_ToggleNestsChildren(t *testing.T) {
	got := Build("Weekly goals\nship feature\nwrite docs", pageant.FormatToggle)
	if len(got) != 1 {
		t.Fatalf("expected 1 toggle block, got %d", len(got))
	}
	toggle := got[0].Toggle
	if toggle == nil {
		t.Fatal("expected toggle payload")
	}
	if got[0].Text() != "Weekly goals" {
		t.Errorf("expected toggle title 'Weekly goals', got %q", got[0].Text())
	}
	if len(toggle.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(toggle.Children))
	}
	if toggle.Children[0].Text() != "ship feature" {
		t.Errorf("unexpected child text: %q", toggle.Children[0].Text())
	}
}

func TestBuild_CodeVerbatimWithLanguage(t *testing.T) {
	src := "func main() {\n\tfmt.Println(\"hi\")\n}"
	got := Build(src, pageant.FormatCode)
	if len(got) != 1 {
		t.Fatalf("expected 1 block, got %d", len(got))
	}
	if got[0].Code == nil {
		t.Fatal("expected code payload")
	}
	if got[0].Text() != src {
		t.Error("code content must be wrapped verbatim")
	}
	if got[0].Code.Language != "go" {
		t.Errorf("expected language go, got %q", got[0].Code.Language)
	}
}

func TestBuild_DefaultsToParagraph(t *testing.T) {
	got := Build("hello", pageant.FormatParagraph)
	if len(got) != 1 || got[0].Paragraph == nil {
		t.Fatal("expected a single paragraph block")
	}
	if got[0].Object != "block" {
		t.Errorf("expected object 'block', got %q", got[0].Object)
	}
}

func TestBuild_QuoteHeadingCallout(t *testing.T) {
	if b := Build("stay hungry", pageant.FormatQuote); b[0].Quote == nil {
		t.Error("expected quote payload")
	}
	if b := Build("Roadmap", pageant.FormatHeading); b[0].Heading == nil {
		t.Error("expected heading payload")
	}
	b := Build("watch out", pageant.FormatCallout)
	if b[0].Callout == nil || b[0].Callout.Icon == nil {
		t.Error("expected callout payload with icon")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"func main() {}", "go"},
		{"def hello():\n    pass", "python"},
		{"const x = () => 1", "javascript"},
		{"SELECT * FROM users", "sql"},
		{"#!/bin/bash\nls", "shell"},
		{"totally plain words", DefaultLanguage},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.code); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
