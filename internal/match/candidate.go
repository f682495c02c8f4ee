package match

import (
	"path"
	"sort"
)

// Ranking thresholds.
const (
	// DefaultMinScore is the lowest score worth suggesting.
	DefaultMinScore = 0.6
	// DefaultLimit is the number of suggestions attached to a diagnostic.
	DefaultLimit = 3
)

// Candidate is a known type name scored against an unresolved reference.
type Candidate struct {
	Name string // known qualified name

	NameScore      float64 // similarity of the short names (0-1)
	QualifierScore float64 // similarity of the package qualifiers (0-1)
	CombinedScore  float64 // ranking score (higher is better)
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against ref and returns the list
// sorted by combined score (descending), then by name.
//
// Short names dominate the score. When ref is unqualified, the qualifier
// does not count against a candidate.
func RankCandidates(ref string, known []string) CandidateList {
	const (
		nameWeight      = 0.85
		qualifierWeight = 0.15
	)

	refQual, refName := SplitQualified(ref)

	candidates := make(CandidateList, 0, len(known))

	for _, k := range known {
		qual, name := SplitQualified(k)

		c := Candidate{
			Name:           k,
			NameScore:      NameSimilarity(refName, name),
			QualifierScore: 1.0,
		}

		if refQual != "" {
			c.QualifierScore = max(Similarity(refQual, qual), Similarity(path.Base(refQual), path.Base(qual)))
		}

		c.CombinedScore = c.NameScore*nameWeight + c.QualifierScore*qualifierWeight
		candidates = append(candidates, c)
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit known names scoring at least DefaultMinScore
// against ref.
func Suggest(ref string, known []string, limit int) []string {
	ranked := RankCandidates(ref, known).AboveThreshold(DefaultMinScore).Top(limit)
	if len(ranked) == 0 {
		return nil
	}

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
