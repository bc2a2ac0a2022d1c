package suggest

import "unicode/utf8"

// Category groups candidates by the heuristic that produced them.
type Category string

const (
	CategorySemantic     Category = "semantic"
	CategoryAbbreviation Category = "abbreviation"
	CategoryVowel        Category = "vowel"
	CategoryCombination  Category = "combination"
	CategorySyllable     Category = "syllable"
	CategoryAffix        Category = "affix"
	CategorySingleWord   Category = "single-word"
	CategoryPhonetic     Category = "phonetic"
	CategoryPattern      Category = "pattern"
	CategoryKeyboard     Category = "keyboard"
	CategoryTruncation   Category = "truncation"
	CategoryOther        Category = "other"
)

var categoryWeights = map[Category]int{
	CategorySemantic:     100,
	CategoryAbbreviation: 90,
	CategoryVowel:        80,
	CategoryCombination:  70,
	CategorySyllable:     65,
	CategoryAffix:        60,
	CategorySingleWord:   55,
	CategoryPhonetic:     50,
	CategoryPattern:      45,
	CategoryKeyboard:     40,
	CategoryTruncation:   35,
	CategoryOther:        30,
}

// Weight returns the ranking weight of c. Unknown categories weigh as CategoryOther.
func (c Category) Weight() int {
	if w, ok := categoryWeights[c]; ok {
		return w
	}
	return categoryWeights[CategoryOther]
}

// Candidate is one proposed alias.
// Command is what the alias should expand to; semantic candidates may
// name a canonical form of the input (e.g. "git status" for "git status -s").
type Candidate struct {
	Alias    string   `json:"alias"`
	Command  string   `json:"command"`
	Reason   string   `json:"reason"`
	Category Category `json:"category"`
	Priority int      `json:"priority"`
}

// priority ranks shorter aliases higher within a category.
func priority(c Candidate) int {
	return c.Category.Weight() + 10 - utf8.RuneCountInString(c.Alias)
}
