package catalog

import "strings"

// Candidate is the outcome of matching one recommended place name.
// An unmatched candidate is shown as unavailable; it is not an error.
type Candidate struct {
	Query   string `json:"query"`
	Matched bool   `json:"matched"`
	Place   *Place `json:"place,omitempty"`
}

// Match resolves a recommended place name against places, first match wins:
// case-insensitive exact name, then the first place (in order) whose name
// contains the query or is contained by it. An empty or blank name matches
// nothing, since every name would contain it.
func Match(name string, places []Place) (Place, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return Place{}, false
	}

	for _, p := range places {
		if strings.ToLower(p.Name) == query {
			return p, true
		}
	}
	for _, p := range places {
		candidate := strings.ToLower(p.Name)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			return p, true
		}
	}
	return Place{}, false
}

func (c *Catalog) Match(name string) (Place, bool) {
	return Match(name, c.places)
}

// MatchAll produces one candidate per name, in input order.
func (c *Catalog) MatchAll(names []string) []Candidate {
	out := make([]Candidate, 0, len(names))
	for _, n := range names {
		cand := Candidate{Query: n}
		if p, ok := c.Match(n); ok {
			place := p
			cand.Matched = true
			cand.Place = &place
		}
		out = append(out, cand)
	}
	return out
}
