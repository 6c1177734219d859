package model

import "testing"

func TestTranscript_Text_ConcatenatesWithoutSeparator(t *testing.T) {
	tr := Transcript{
		VideoID: "abc",
		Segments: []Segment{
			{Text: "we are ", Start: 0},
			{Text: "listing in ", Start: 1.5},
			{Text: "march", Start: 3.2},
		},
	}
	if got := tr.Text(); got != "we are listing in march" {
		t.Errorf("Unexpected concatenation: %q", got)
	}
}

func TestTranscript_Text_Empty(t *testing.T) {
	if got := (Transcript{}).Text(); got != "" {
		t.Errorf("Expected empty text, got %q", got)
	}
}

func TestTranscriptBundle_IsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		empty bool
	}{
		{"no text", "", true},
		{"whitespace only", "  \n\n\t ", true},
		{"has content", "the company reported revenue\n\n", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := TranscriptBundle{Text: tc.text}
			if b.IsEmpty() != tc.empty {
				t.Errorf("IsEmpty() = %v, want %v", b.IsEmpty(), tc.empty)
			}
		})
	}
}
