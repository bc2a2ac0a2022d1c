package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticAliases(t *testing.T) {
	tests := []struct {
		command     string
		wantAlias   string
		wantCommand string
	}{
		{"git status --short", "gs", "git status"},
		{"git add .", "gaa", "git add ."},
		{"git add main.go", "ga", "git add"},
		{"git commit -m wip", "gcm", "git commit -m"},
		{`git commit -m "fix the bug"`, "gcm", "git commit -m"},
		{"git commit --amend", "gc", "git commit"},
		{"git checkout -b feature", "gcb", "git checkout -b feature"},
		{"git checkout -b", "gco", "git checkout"},
		{"git checkout main", "gco", "git checkout"},
		{"git push origin main", "gp", "git push"},
		{"git pull", "gl", "git pull"},
		{"git log --oneline", "glg", "git log"},
		{"git branch -a", "gb", "git branch"},
		{"docker ps -a", "dps", "docker ps"},
		{"docker run nginx", "dr", "docker run"},
		{"docker build .", "db", "docker build"},
		{"docker exec -it web sh", "de", "docker exec"},
		{"docker rm web", "drm", "docker rm"},
		{"docker rmi nginx", "drmi", "docker rmi"},
		{"npm install", "ni", "npm install"},
		{"npm run dev", "nr", "npm run"},
		{"npm start", "ns", "npm start"},
		{"npm test", "nt", "npm test"},
		{"npm publish", "np", "npm publish"},
		{"ssh prod.example.com", "prod", "ssh prod.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cands := semanticAliases(tt.command)
			assert.NotEmpty(t, cands)
			c := cands[0]
			assert.Equal(t, tt.wantAlias, c.Alias)
			assert.Equal(t, tt.wantCommand, c.Command)
			assert.Equal(t, CategorySemantic, c.Category)
		})
	}
}

func TestSemanticAliases_GenericCombination(t *testing.T) {
	cands := semanticAliases("kubectl get pods")
	assert.Equal(t, []Candidate{{
		Alias:    "kget",
		Command:  "kubectl get pods",
		Reason:   "kubectl-get combination",
		Category: CategoryCombination,
	}}, cands)

	assert.Empty(t, semanticAliases("kubectl"))
	for _, c := range semanticAliases("ssh x.example.com") {
		assert.NotEqual(t, CategorySemantic, c.Category, "one-letter host is skipped")
	}
}

func TestSemanticAliases_RelativePath(t *testing.T) {
	cands := semanticAliases("./target/release/server --port 8080")
	assert.Equal(t, []string{"server", "ser", "s--port"}, aliasesOf(cands))
	assert.Equal(t, CategoryOther, cands[0].Category)
	assert.Equal(t, CategorySingleWord, cands[1].Category)
	assert.Equal(t, CategoryCombination, cands[2].Category)

	win := semanticAliases("../bin/tool.exe")
	assert.Equal(t, "tool", win[0].Alias)
}

func TestAbbreviationAliases(t *testing.T) {
	assert.Equal(t, []string{"gcm"}, aliasesOf(abbreviationAliases("git commit main")))
	assert.Empty(t, abbreviationAliases("kubectl"))
	assert.Empty(t, abbreviationAliases("a b c d e"), "longer than four letters")
}

func TestCombinedAliases(t *testing.T) {
	assert.Equal(t, []string{"kget", "kpods"}, aliasesOf(combinedAliases("kubectl get pods -A")))
	assert.Equal(t, []string{"mbuild"}, aliasesOf(combinedAliases("make - build")), "short args are skipped")
	assert.Empty(t, combinedAliases("make"))
}

func TestSingleWordAliases(t *testing.T) {
	assert.Equal(t, []string{"laz", "la", "lt", "lg"}, aliasesOf(singleWordAliases("lazygit")))
	assert.Equal(t, []string{"doc", "do", "dr", "dk"}, aliasesOf(singleWordAliases("docker")))
	assert.Equal(t, []string{"nod", "no", "nn", "nd"}, aliasesOf(singleWordAliases("nodemon")))
	assert.Equal(t, []string{"vi", "vm"}, aliasesOf(singleWordAliases("vim")))
	assert.Empty(t, singleWordAliases("git status"))
	assert.Empty(t, singleWordAliases("./run.sh"))

	for _, c := range singleWordAliases("docker") {
		assert.Equal(t, CategorySingleWord, c.Category)
	}
}

func TestVowelRemovalAliases(t *testing.T) {
	assert.Equal(t, []string{"gtstt"}, aliasesOf(vowelRemovalAliases("git status")))
	assert.Equal(t, []string{"kbcgtpds"}, aliasesOf(vowelRemovalAliases("kubectl get pods")), "capped at eight")
	assert.Empty(t, vowelRemovalAliases("aeiou"))
	assert.Empty(t, vowelRemovalAliases("ls"), "same as the command")
}

func TestTruncatedAliases(t *testing.T) {
	assert.Equal(t, []string{"ku", "kub", "kube", "kubec"}, aliasesOf(truncatedAliases("kubectl get")))
	assert.Equal(t, []string{"gi"}, aliasesOf(truncatedAliases("git status")))
	assert.Empty(t, truncatedAliases("ls"))
}

func TestSplitSyllables(t *testing.T) {
	assert.Equal(t, []string{"sta", "tu", "s"}, splitSyllables("status"))
	assert.Equal(t, []string{"ku", "be", "ctl"}, splitSyllables("kubectl"))
	assert.Equal(t, []string{"a", "pply"}, splitSyllables("apply"))
}

func TestSyllableAliases(t *testing.T) {
	assert.Equal(t, []string{"sts"}, aliasesOf(syllableAliases("git status")))
	assert.Empty(t, syllableAliases("rsync"), "one syllable")
}

func TestPhoneticAliases(t *testing.T) {
	assert.Equal(t, []string{"fp"}, aliasesOf(phoneticAliases("php")))
	assert.Equal(t, []string{"tar", "kwik"}, aliasesOf(phoneticAliases("thar quick xz")))
	assert.Empty(t, phoneticAliases("git log"))
	assert.Empty(t, phoneticAliases("photosynthesis"), "longer than six")
}

func TestKeyboardAliases(t *testing.T) {
	assert.Equal(t, []string{"gt", "sau"}, aliasesOf(keyboardAliases("git status")))
	assert.Empty(t, keyboardAliases("ls"))
	assert.Empty(t, keyboardAliases("abcdefghij"), "longer than four")
}

func TestAffixAliases(t *testing.T) {
	cands := affixAliases("rebuild testing")
	assert.Equal(t, []string{"build", "test"}, aliasesOf(cands))
	assert.Equal(t, "Remove prefix 're'", cands[0].Reason)
	assert.Equal(t, "Remove suffix 'ing'", cands[1].Reason)
	assert.Empty(t, affixAliases("red"), "too short to strip")
}

func TestPatternAliases(t *testing.T) {
	assert.Equal(t, []string{"stt"}, aliasesOf(patternAliases("git status")))
	assert.Equal(t, []string{"aply", "ppl"}, aliasesOf(patternAliases("apply")))
	assert.Equal(t, []string{"cargo"}, aliasesOf(patternAliases("carrgo"))[:1])
}
