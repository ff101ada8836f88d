package dedupe

// DefaultAcceptance is the minimum combined score the best search candidate
// must strictly exceed to count as a valid match.
const DefaultAcceptance = 0.5

// Query is one (title, artist) pair read from an import file.
type Query struct {
	Title  string
	Artist string
}

// Candidate is a single search result under consideration for a query.
type Candidate struct {
	VideoID string
	Title   string
	Channel string
}

// Score rates how well a candidate answers a query: the mean of the title
// similarity and the artist-to-channel similarity.
func Score(q Query, c Candidate) float64 {
	return (Similarity(q.Title, c.Title) + Similarity(q.Artist, c.Channel)) / 2
}

// SelectBest picks the candidate with the strictly highest score, keeping the
// first-encountered one on exact ties. The second return is false when
// candidates is empty or when the best score does not strictly exceed
// acceptance.
func SelectBest(q Query, candidates []Candidate, acceptance float64) (Candidate, bool) {
	var best Candidate
	bestScore := 0.0
	found := false

	for _, c := range candidates {
		if s := Score(q, c); s > bestScore {
			bestScore = s
			best = c
			found = true
		}
	}

	if !found || bestScore <= acceptance {
		return Candidate{}, false
	}

	return best, true
}
