package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()

	if err := vocab.Validate(); err != nil {
		t.Fatalf("DefaultVocabulary().Validate() error = %v", err)
	}
	if vocab.DefaultTag != "general" {
		t.Errorf("DefaultTag = %q, want general", vocab.DefaultTag)
	}
	if len(vocab.Targets) == 0 || vocab.Targets[0] != "gob distributor" {
		t.Errorf("Targets = %v, want gob distributor first", vocab.Targets)
	}
	found := map[string]bool{}
	for _, p := range vocab.VaguePhrases {
		found[p] = true
	}
	if !found["yes"] || !found["yes please"] {
		t.Errorf("VaguePhrases = %v, want yes and yes please", vocab.VaguePhrases)
	}
}

func TestLoadVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(*Vocabulary) bool
	}{
		{
			name: "full file",
			content: `targets:
  - mould
  - plunger
default_tag: misc
vague_phrases:
  - go on
rewrite_template: "Tell me about the {tag}."
`,
			check: func(v *Vocabulary) bool {
				return len(v.Targets) == 2 && v.Targets[0] == "mould" &&
					v.DefaultTag == "misc" &&
					len(v.VaguePhrases) == 1 && v.VaguePhrases[0] == "go on" &&
					v.RewriteTemplate == "Tell me about the {tag}."
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "targets:\n  - mould\n",
			check: func(v *Vocabulary) bool {
				return len(v.Targets) == 1 &&
					v.DefaultTag == "general" &&
					v.RewriteTemplate == "How do I use the {tag}?" &&
					len(v.VaguePhrases) > 0
			},
		},
		{
			name:    "template without placeholder",
			content: "rewrite_template: \"How do I use it?\"\n",
			wantErr: true,
		},
		{
			name:    "blank target",
			content: "targets:\n  - \"  \"\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: "targets: [unclosed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vocabulary.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write vocabulary: %v", err)
			}

			vocab, err := LoadVocabulary(path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("LoadVocabulary() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadVocabulary() unexpected error: %v", err)
			}
			if !tt.check(vocab) {
				t.Errorf("LoadVocabulary() = %+v, validation failed", vocab)
			}
		})
	}
}

func TestLoadVocabulary_EmptyPathUsesDefaults(t *testing.T) {
	vocab, err := LoadVocabulary("")
	if err != nil {
		t.Fatalf("LoadVocabulary(\"\") error = %v", err)
	}
	if vocab.DefaultTag != "general" {
		t.Errorf("DefaultTag = %q, want general", vocab.DefaultTag)
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("LoadVocabulary() with missing file should return error")
	}
}
