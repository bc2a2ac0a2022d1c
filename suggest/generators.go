package suggest

import (
	"fmt"
	"strings"
)

// Generator proposes candidates for a command. Generators are pure.
type Generator func(command string) []Candidate

// DefaultGenerators returns the built-in generators in evaluation order.
// Order matters: when two generators propose the same alias, the first wins.
func DefaultGenerators() []Generator {
	return []Generator{
		semanticAliases,
		abbreviationAliases,
		vowelRemovalAliases,
		combinedAliases,
		singleWordAliases,
		truncatedAliases,
		syllableAliases,
		phoneticAliases,
		keyboardAliases,
		affixAliases,
		patternAliases,
	}
}

const vowels = "aeiouAEIOU"

func isVowel(r rune) bool {
	return strings.ContainsRune(vowels, r)
}

// abbreviationAliases takes the first letter of each word.
func abbreviationAliases(command string) []Candidate {
	words := strings.Fields(command)
	if len(words) < 2 {
		return nil
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(firstRune(w))
	}
	abbrev := b.String()
	if n := runeLen(abbrev); n < 2 || n > 4 {
		return nil
	}
	return []Candidate{{Alias: abbrev, Command: command, Reason: "Abbreviation", Category: CategoryAbbreviation}}
}

// combinedAliases joins the tool's first letter with the first and second argument.
func combinedAliases(command string) []Candidate {
	words := strings.Fields(command)
	if len(words) < 2 {
		return nil
	}
	tool, args := words[0], words[1:]

	var out []Candidate
	for i := 0; i < len(args) && i < 2; i++ {
		if runeLen(args[i]) < 2 {
			continue
		}
		out = append(out, Candidate{
			Alias:    firstRune(tool) + args[i],
			Command:  command,
			Reason:   fmt.Sprintf("%s-%s combination", tool, args[i]),
			Category: CategoryCombination,
		})
	}
	return out
}

// singleWordAliases shortens one-word commands.
func singleWordAliases(command string) []Candidate {
	words := strings.Fields(command)
	if len(words) != 1 || isRelativePath(words[0]) {
		return nil
	}
	tool := words[0]
	n := runeLen(tool)

	single := func(alias, reason string) Candidate {
		return Candidate{Alias: alias, Command: command, Reason: reason, Category: CategorySingleWord}
	}

	var out []Candidate
	if n > 3 {
		out = append(out, single(takeRunes(tool, 3), "3-letter abbreviation"))
	}
	if n > 2 {
		out = append(out, single(takeRunes(tool, 2), "2-letter abbreviation"))
		out = append(out, single(firstRune(tool)+lastRune(tool), "First-last character"))
	}

	// Compound names like lazygit or nodemon
	if strings.Contains(tool, "git") {
		out = append(out, single("lg", "Git tool abbreviation"))
	}
	if strings.Contains(tool, "docker") {
		out = append(out, single("dk", "Docker tool abbreviation"))
	}
	if strings.Contains(tool, "node") {
		out = append(out, single("nd", "Node tool abbreviation"))
	}
	return out
}

// vowelRemovalAliases keeps up to three consonants per word, eight in total.
func vowelRemovalAliases(command string) []Candidate {
	words := strings.Fields(command)
	var b strings.Builder
	for _, w := range words {
		var consonants []rune
		for _, r := range w {
			if !isVowel(r) {
				consonants = append(consonants, r)
			}
			if len(consonants) == 3 {
				break
			}
		}
		b.WriteString(string(consonants))
	}
	alias := takeRunes(b.String(), 8)
	if runeLen(alias) < 2 || alias == command {
		return nil
	}
	return []Candidate{{Alias: alias, Command: command, Reason: "Vowel removal", Category: CategoryVowel}}
}

// truncatedAliases proposes 2..5 character prefixes of the tool name.
func truncatedAliases(command string) []Candidate {
	words := strings.Fields(command)
	if len(words) == 0 {
		return nil
	}
	tool := words[0]

	var out []Candidate
	for n := 2; n <= min(runeLen(tool), 5); n++ {
		trunc := takeRunes(tool, n)
		if trunc == tool {
			continue
		}
		out = append(out, Candidate{
			Alias:    trunc,
			Command:  command,
			Reason:   fmt.Sprintf("Truncated to %d chars", n),
			Category: CategoryTruncation,
		})
	}
	return out
}

// syllableAliases takes the first letter of each rough syllable.
func syllableAliases(command string) []Candidate {
	var out []Candidate
	for _, w := range strings.Fields(command) {
		if runeLen(w) <= 3 {
			continue
		}
		syllables := splitSyllables(w)
		if len(syllables) < 2 {
			continue
		}
		var b strings.Builder
		for _, s := range syllables {
			b.WriteString(firstRune(s))
		}
		alias := b.String()
		if n := runeLen(alias); n < 2 || n > 4 {
			continue
		}
		out = append(out, Candidate{Alias: alias, Command: command, Reason: "Syllable initials", Category: CategorySyllable})
	}
	return out
}

// splitSyllables ends a syllable whenever a consonant follows a vowel.
func splitSyllables(word string) []string {
	var syllables []string
	var current []rune
	prevVowel := false
	for _, r := range word {
		if isVowel(r) {
			current = append(current, r)
			prevVowel = true
			continue
		}
		if prevVowel && len(current) > 0 {
			syllables = append(syllables, string(current))
			current = nil
		}
		current = append(current, r)
		prevVowel = false
	}
	if len(current) > 0 {
		syllables = append(syllables, string(current))
	}
	return syllables
}

var phoneticReplacer = []struct{ from, to string }{
	{"ph", "f"},
	{"ck", "k"},
	{"qu", "kw"},
	{"x", "ks"},
	{"ch", "c"},
	{"sh", "s"},
	{"th", "t"},
}

// phoneticAliases applies sound-alike spelling substitutions per word.
func phoneticAliases(command string) []Candidate {
	var out []Candidate
	for _, w := range strings.Fields(command) {
		if runeLen(w) <= 2 {
			continue
		}
		p := w
		for _, r := range phoneticReplacer {
			p = strings.ReplaceAll(p, r.from, r.to)
		}
		if n := runeLen(p); p == w || n < 2 || n > 6 {
			continue
		}
		out = append(out, Candidate{Alias: p, Command: command, Reason: "Phonetic", Category: CategoryPhonetic})
	}
	return out
}

// keyboardAliases keeps every other character of each word.
func keyboardAliases(command string) []Candidate {
	var out []Candidate
	for _, w := range strings.Fields(command) {
		if runeLen(w) <= 2 {
			continue
		}
		var kept []rune
		for i, r := range []rune(w) {
			if i%2 == 0 {
				kept = append(kept, r)
			}
		}
		if n := len(kept); n < 2 || n > 4 {
			continue
		}
		out = append(out, Candidate{Alias: string(kept), Command: command, Reason: "Keyboard skip", Category: CategoryKeyboard})
	}
	return out
}

var (
	stripPrefixes = []string{"un", "re", "pre", "post", "anti", "pro", "sub", "super", "inter"}
	stripSuffixes = []string{"ing", "ed", "er", "est", "ly", "tion", "sion", "ment"}
)

// affixAliases strips common English prefixes and suffixes.
func affixAliases(command string) []Candidate {
	var out []Candidate
	for _, w := range strings.Fields(command) {
		if runeLen(w) <= 3 {
			continue
		}
		for _, p := range stripPrefixes {
			if rest, ok := strings.CutPrefix(w, p); ok && runeLen(rest) >= 2 {
				out = append(out, Candidate{
					Alias:    rest,
					Command:  command,
					Reason:   fmt.Sprintf("Remove prefix '%s'", p),
					Category: CategoryAffix,
				})
			}
		}
		for _, s := range stripSuffixes {
			if rest, ok := strings.CutSuffix(w, s); ok && runeLen(rest) >= 2 {
				out = append(out, Candidate{
					Alias:    rest,
					Command:  command,
					Reason:   fmt.Sprintf("Remove suffix '%s'", s),
					Category: CategoryAffix,
				})
			}
		}
	}
	return out
}

// patternAliases collapses doubled letters and picks leading consonants.
func patternAliases(command string) []Candidate {
	var out []Candidate
	for _, w := range strings.Fields(command) {
		n := runeLen(w)
		if n <= 3 {
			continue
		}

		if d := collapseRepeats(w); d != w && runeLen(d) >= 2 {
			out = append(out, Candidate{Alias: d, Command: command, Reason: "Remove duplicates", Category: CategoryPattern})
		}

		if n > 4 {
			var consonants []rune
			for _, r := range w {
				if !isVowel(r) {
					consonants = append(consonants, r)
				}
			}
			if len(consonants) >= 3 {
				out = append(out, Candidate{Alias: string(consonants[:3]), Command: command, Reason: "Smart consonants", Category: CategoryPattern})
			}
		}
	}
	return out
}

func collapseRepeats(w string) string {
	var b strings.Builder
	var prev rune = -1
	for _, r := range w {
		if r != prev {
			b.WriteRune(r)
			prev = r
		}
	}
	return b.String()
}

func runeLen(s string) int {
	return len([]rune(s))
}

func takeRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// firstRune returns the first character of s, or "x" for an empty string.
func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return "x"
}

func lastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return "x"
	}
	return string(r[len(r)-1])
}
