package indexer

import "testing"

func TestTagger_Infer(t *testing.T) {
	tagger := NewTagger([]string{"gob distributor", "lehr", "forehearth", "swab"}, "")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"case insensitive match", "Clean the GOB Distributor daily.", "gob distributor"},
		{"no keyword", "General maintenance notes.", "general"},
		{"first target in list order wins", "The swab sits next to the lehr.", "lehr"},
		{"substring match", "forehearths need inspection", "forehearth"},
		{"empty text", "", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagger.Infer(tt.text); got != tt.want {
				t.Errorf("Infer(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewTagger_CustomDefaultAndBlankTargets(t *testing.T) {
	tagger := NewTagger([]string{"  ", "Lehr "}, "misc")

	if got := tagger.Infer("nothing"); got != "misc" {
		t.Errorf("Infer() default = %q, want misc", got)
	}
	if got := tagger.Infer("check the LEHR"); got != "Lehr" {
		t.Errorf("Infer() = %q, want configured form Lehr", got)
	}
}
