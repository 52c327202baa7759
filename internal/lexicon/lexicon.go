// internal/lexicon/lexicon.go
// Package lexicon holds the categorized word bank that synthetic puzzles
// draw from: fifteen connection categories, each with labeled subgroups of
// single-token words.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed data/lexicon.json
var defaultBankJSON []byte

// Subgroup is one labeled word list inside a category.
type Subgroup struct {
	Label string   `json:"label"`
	Words []string `json:"words"`
}

// Category is a connection type with its subgroups.
type Category struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Subgroups   []Subgroup `json:"subgroups"`
}

// Bank is the full word bank.
type Bank struct {
	Categories []Category `json:"categories"`
}

// Default returns the embedded word bank.
func Default() (*Bank, error) {
	return parse(defaultBankJSON)
}

// LoadFile reads a word bank from a JSON file, replacing the embedded one.
func LoadFile(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bank, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("lexicon %q: %w", path, err)
	}
	return bank, nil
}

// minCategories is the most categories any single draw needs: a full
// board samples four distinct ones.
const minCategories = 4

func parse(raw []byte) (*Bank, error) {
	var bank Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if len(bank.Categories) < minCategories {
		return nil, fmt.Errorf("lexicon needs at least %d categories, has %d", minCategories, len(bank.Categories))
	}
	for _, cat := range bank.Categories {
		if len(cat.Subgroups) == 0 {
			return nil, fmt.Errorf("lexicon category %q has no subgroups", cat.Name)
		}
		for _, sub := range cat.Subgroups {
			if len(sub.Words) == 0 {
				return nil, fmt.Errorf("lexicon subgroup %q/%q is empty", cat.Name, sub.Label)
			}
		}
	}
	return &bank, nil
}

// Category returns the named category, or nil when absent.
func (b *Bank) Category(name string) *Category {
	for i := range b.Categories {
		if b.Categories[i].Name == name {
			return &b.Categories[i]
		}
	}
	return nil
}

// CategoryNames lists category names in bank order.
func (b *Bank) CategoryNames() []string {
	names := make([]string, len(b.Categories))
	for i, cat := range b.Categories {
		names[i] = cat.Name
	}
	return names
}

// WordCount totals every word in the bank.
func (b *Bank) WordCount() int {
	total := 0
	for _, cat := range b.Categories {
		for _, sub := range cat.Subgroups {
			total += len(sub.Words)
		}
	}
	return total
}

// SubgroupCount totals the subgroups across all categories.
func (b *Bank) SubgroupCount() int {
	total := 0
	for _, cat := range b.Categories {
		total += len(cat.Subgroups)
	}
	return total
}

// connectionType pairs a display name with a short hint, in the order
// solvers are asked to check them.
type connectionType struct {
	name string
	hint string
}

var connectionTypes = []connectionType{
	{"Semantic Taxonomy", "types of X, parts of Y, members of category"},
	{"Semantic Synonymy", "words with similar meanings"},
	{"Semantic Association", "items linked by shared scenario/function"},
	{"Named Entities", "proper names (people, places, brands, titles)"},
	{"Collocational/Idiomatic", "fill slots in phrases (___X, Y___)"},
	{"Lexical Morphology", "shared affixes, compounds, word formation"},
	{"Lexical Orthography", "letter patterns (palindromes, anagrams, etc)"},
	{"Phonological Pattern", "sound patterns (rhymes, homophones)"},
	{"Grammatical/Syntactic", "same part of speech or function"},
	{"Wordplay Double Meaning", "polysemy, multiple senses"},
	{"Temporal/Sequential", "ordered series"},
	{"Numerical/Quantitative", "numbers, counts, measurements"},
	{"Lexical Etymology", "shared language origin"},
	{"Sociolinguistic Register", "slang, dialect, jargon"},
	{"Cross-Linguistic", "translations across languages"},
}

// TypeNames lists the connection-type display names solvers check.
func TypeNames() []string {
	names := make([]string, len(connectionTypes))
	for i, ct := range connectionTypes {
		names[i] = ct.name
	}
	return names
}

// TypeList renders the numbered connection-type block embedded in solver
// prompts.
func TypeList() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for i, ct := range connectionTypes {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, ct.name, ct.hint)
	}
	return sb.String()
}
