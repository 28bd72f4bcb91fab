// Package index fits a TF-IDF model over one domain's searchable text and
// scores queries against it by cosine similarity. The fitted document
// vectors stay aligned 1:1 with the input corpus: vector i belongs to the
// record the text at position i was projected from.
package index

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ErrEmptyCorpus signals that nothing in the corpus survived tokenization.
// Callers fall back to keyword search for the domain.
var ErrEmptyCorpus = errors.New("empty corpus")

// Options controls the vectorizer fit.
type Options struct {
	// MaxVocabulary caps the term vocabulary, keeping the most frequent
	// terms. Default 1000.
	MaxVocabulary int
	// MaxDocRatio excludes terms appearing in more than this fraction of
	// documents (near-universal noise). Only applied when the corpus has
	// more than one document. Default 0.95.
	MaxDocRatio float64
}

func (o Options) withDefaults() Options {
	if o.MaxVocabulary <= 0 {
		o.MaxVocabulary = 1000
	}
	if o.MaxDocRatio <= 0 || o.MaxDocRatio > 1 {
		o.MaxDocRatio = 0.95
	}
	return o
}

// Index is a fitted TF-IDF model over one corpus.
type Index struct {
	vocab map[string]int
	idf   []float64
	docs  []map[int]float64 // l2-normalized sparse vectors, input order
}

// Fit builds an Index over the corpus. Terms are unigrams and bigrams with
// stop-words removed; a term must appear in at least one document.
func Fit(corpus []string, opts Options) (*Index, error) {
	opts = opts.withDefaults()

	tokenized := make([][]string, len(corpus))
	df := map[string]int{}
	total := map[string]int{}
	anyTokens := false
	for i, text := range corpus {
		terms := ngrams(Tokenize(text))
		tokenized[i] = terms
		if len(terms) > 0 {
			anyTokens = true
		}
		seen := map[string]struct{}{}
		for _, t := range terms {
			total[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}
	if !anyTokens {
		return nil, ErrEmptyCorpus
	}

	n := len(corpus)
	maxDF := n
	if n > 1 {
		maxDF = int(float64(n) * opts.MaxDocRatio)
		if maxDF < 1 {
			maxDF = 1
		}
	}

	candidates := make([]string, 0, len(df))
	for term, f := range df {
		if f <= maxDF {
			candidates = append(candidates, term)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCorpus
	}
	// Most frequent terms first; lexicographic tie-break keeps the
	// vocabulary deterministic across fits.
	sort.Slice(candidates, func(i, j int) bool {
		if total[candidates[i]] != total[candidates[j]] {
			return total[candidates[i]] > total[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > opts.MaxVocabulary {
		candidates = candidates[:opts.MaxVocabulary]
	}

	ix := &Index{
		vocab: make(map[string]int, len(candidates)),
		idf:   make([]float64, len(candidates)),
	}
	for i, term := range candidates {
		ix.vocab[term] = i
		// Smoothed idf, never zero.
		ix.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	ix.docs = make([]map[int]float64, n)
	for i, terms := range tokenized {
		ix.docs[i] = ix.vectorize(terms)
	}

	return ix, nil
}

// Len returns the number of fitted document vectors.
func (ix *Index) Len() int { return len(ix.docs) }

// Scores returns the cosine similarity of the query against every document,
// aligned with the corpus order. A query with no vocabulary overlap yields
// all zeros.
func (ix *Index) Scores(query string) []float64 {
	scores := make([]float64, len(ix.docs))
	qv := ix.vectorize(ngrams(Tokenize(query)))
	if len(qv) == 0 {
		return scores
	}
	for i, dv := range ix.docs {
		scores[i] = dot(qv, dv)
	}
	return scores
}

// vectorize builds an l2-normalized tf-idf vector over the fitted vocabulary.
func (ix *Index) vectorize(terms []string) map[int]float64 {
	v := map[int]float64{}
	for _, t := range terms {
		if id, ok := ix.vocab[t]; ok {
			v[id]++
		}
	}
	if len(v) == 0 {
		return v
	}
	var norm float64
	for id := range v {
		v[id] *= ix.idf[id]
		norm += v[id] * v[id]
	}
	norm = math.Sqrt(norm)
	for id := range v {
		v[id] /= norm
	}
	return v
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, av := range a {
		sum += av * b[id]
	}
	return sum
}

// Tokenize lowercases the text and splits it into non-stopword unigrams.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, ok := stopwords[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// ngrams expands unigrams with their adjacent bigrams.
func ngrams(unigrams []string) []string {
	if len(unigrams) < 2 {
		return unigrams
	}
	out := make([]string, 0, 2*len(unigrams)-1)
	out = append(out, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		out = append(out, unigrams[i]+" "+unigrams[i+1])
	}
	return out
}
