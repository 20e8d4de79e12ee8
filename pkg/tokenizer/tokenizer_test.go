package tokenizer

import "testing"

func TestWordsCountTokens(t *testing.T) {
	var w Words
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 1},
		{"hello world", 2},
		{"  hello   world  ", 2},
		{"Who is Emily?", 4},
		{"NAME: Emily", 3},
		{"a\nb\nc", 3},
	}
	for _, tt := range tests {
		if got := w.CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestWordsDeterministic(t *testing.T) {
	var w Words
	text := "The quick brown fox, jumps; over!"
	first := w.CountTokens(text)
	for i := 0; i < 10; i++ {
		if got := w.CountTokens(text); got != first {
			t.Fatalf("count changed between calls: %d vs %d", got, first)
		}
	}
}

func TestWordsEncoding(t *testing.T) {
	var w Words
	if w.Encoding() != "words" {
		t.Error("unexpected encoding name")
	}
}
