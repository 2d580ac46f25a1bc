package seller

import "testing"

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "duplicated reply collapsed",
			in:   "I can offer $48 per unit.\n\nI can offer $48 per unit.",
			want: "I can offer $48 per unit.",
		},
		{
			name: "duplicated two-paragraph reply",
			in:   "First part.\n\nSecond part.\n\nFirst part.\n\nSecond part.",
			want: "First part.\n\nSecond part.",
		},
		{
			name: "distinct paragraphs untouched",
			in:   "First part.\n\nSecond part.",
			want: "First part.\n\nSecond part.",
		},
		{
			name: "single paragraph untouched",
			in:   "Just one paragraph.",
			want: "Just one paragraph.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanReply(tt.in); got != tt.want {
				t.Errorf("CleanReply(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnforceConcise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "short reply unchanged",
			in:   "One. Two. Three.",
			max:  3,
			want: "One. Two. Three.",
		},
		{
			name: "long reply truncated",
			in:   "One. Two. Three. Four. Five.",
			max:  3,
			want: "One. Two. Three.",
		},
		{
			name: "decimal price is not a sentence break",
			in:   "The price is $45.50 per unit. Delivery takes 30 days. Volume is fixed. Anything else?",
			max:  3,
			want: "The price is $45.50 per unit. Delivery takes 30 days. Volume is fixed.",
		},
		{
			name: "abbreviation is not a sentence break",
			in:   "ChipSource Inc. is pleased to offer this. We can expedite. Let me know. Goodbye now.",
			max:  3,
			want: "ChipSource Inc. is pleased to offer this. We can expedite. Let me know.",
		},
		{
			name: "question mark counts as terminator",
			in:   "Can we agree? I think so. Yes indeed. Certainly.",
			max:  2,
			want: "Can we agree? I think so.",
		},
		{
			name: "empty input",
			in:   "",
			max:  3,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnforceConcise(tt.in, tt.max); got != tt.want {
				t.Errorf("EnforceConcise(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second one! Third one? Tail without period")
	want := []string{"First one.", "Second one!", "Third one?", "Tail without period"}

	if len(got) != len(want) {
		t.Fatalf("got %d sentences %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
