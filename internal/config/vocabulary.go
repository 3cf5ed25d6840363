package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the matching data used by tag inference and query rewriting.
// Keeping it outside the code lets the content change without touching the algorithms.
type Vocabulary struct {
	// Targets are known keyword targets, in priority order. The first one found wins.
	Targets []string `yaml:"targets"`
	// DefaultTag is used when no target matches.
	DefaultTag string `yaml:"default_tag"`
	// VaguePhrases are bare confirmations that get rewritten when a target is supplied.
	VaguePhrases []string `yaml:"vague_phrases"`
	// RewriteTemplate builds the rewritten question. {tag} is replaced by the target.
	RewriteTemplate string `yaml:"rewrite_template"`
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Targets: []string{
			"gob distributor",
			"lehr",
			"forehearth",
			"swab",
		},
		DefaultTag: "general",
		VaguePhrases: []string{
			"yes",
			"yes please",
			"yeah",
			"sure",
			"ok",
			"okay",
			"please",
		},
		RewriteTemplate: "How do I use the {tag}?",
	}
}

// LoadVocabulary reads a YAML vocabulary file. An empty path returns the defaults.
// Fields missing from the file keep their default values.
func LoadVocabulary(path string) (*Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}

	var fromFile Vocabulary
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary %s: %w", path, err)
	}

	if fromFile.Targets != nil {
		vocab.Targets = fromFile.Targets
	}
	if fromFile.DefaultTag != "" {
		vocab.DefaultTag = fromFile.DefaultTag
	}
	if fromFile.VaguePhrases != nil {
		vocab.VaguePhrases = fromFile.VaguePhrases
	}
	if fromFile.RewriteTemplate != "" {
		vocab.RewriteTemplate = fromFile.RewriteTemplate
	}

	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	return vocab, nil
}

// Validate checks that the vocabulary can be used for matching.
func (v *Vocabulary) Validate() error {
	for i, t := range v.Targets {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("vocabulary target %d is empty", i)
		}
	}
	if !strings.Contains(v.RewriteTemplate, "{tag}") {
		return fmt.Errorf("vocabulary rewrite_template must contain {tag}")
	}
	return nil
}
