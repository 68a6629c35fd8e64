// Package summarizer produces a short extractive digest of an indexed corpus.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultSentences is the digest length used when callers pass zero.
const DefaultSentences = 3

var (
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)
)

// Digester ranks sentences by normalised term frequency, ignoring stopwords.
type Digester struct {
	stopwords map[string]struct{}
}

// New creates a Digester with the built-in English stopword list.
func New() *Digester {
	return &Digester{stopwords: defaultStopwords()}
}

// Digest returns up to maxSentences of the highest scoring sentences of
// text, in their original order. Repeated sentences, such as those in
// overlapping chunks, count once. Text without sentence punctuation is
// returned trimmed.
func (d *Digester) Digest(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	sentences := uniqueSentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}

	freq := d.frequencies(sentences)
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := tokens(sent)
		s := 0.0
		for _, tok := range toks {
			s += freq[tok]
		}
		// long sentences should not win on length alone
		if len(toks) > 0 {
			s /= math.Sqrt(float64(len(toks)))
		}
		ranked[i] = scored{i, s}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}

	picked := make([]int, maxSentences)
	for i := range picked {
		picked[i] = ranked[i].idx
	}
	sort.Ints(picked)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " ")
}

func uniqueSentences(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if _, dup := seen[s]; dup || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (d *Digester) frequencies(sentences []string) map[string]float64 {
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range tokens(sent) {
			if _, stop := d.stopwords[tok]; stop {
				continue
			}
			freq[tok]++
		}
	}
	peak := 0.0
	for _, v := range freq {
		peak = math.Max(peak, v)
	}
	if peak > 0 {
		for k, v := range freq {
			freq[k] = v / peak
		}
	}
	return freq
}

func tokens(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "so", "such", "into", "about", "during", "before",
		"after", "out", "off", "can", "will", "just", "should", "how", "what", "do", "not",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
