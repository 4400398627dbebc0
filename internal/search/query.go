package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string    // User's search query
	Types []DocType // Document types to include (empty = all)

	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:  20,
		Offset: 0,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID          string            `json:"id"`
	Type        DocType           `json:"type"`
	Score       float64           `json:"score"`
	Name        string            `json:"name"`
	Email       string            `json:"email,omitempty"`
	Text        string            `json:"text,omitempty"`
	CandidateID string            `json:"candidate_id,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"id", "type", "name", "email", "text", "candidate_id"}

	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.AddField("name")
	searchRequest.Highlight.AddField("text")

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = DocType(t)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}
		if e, ok := hit.Fields["email"].(string); ok {
			searchHit.Email = e
		}
		if txt, ok := hit.Fields["text"].(string); ok {
			searchHit.Text = txt
		}
		if cid, ok := hit.Fields["candidate_id"].(string); ok {
			searchHit.CandidateID = cid
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildQuery constructs the Bleve query from params.
func buildQuery(params Params) query.Query {
	var textQuery query.Query

	trimmed := strings.TrimSpace(params.Query)
	if trimmed == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		// Match on candidate names, note text, and exact email. Prefix
		// queries keep partially-typed names usable.
		nameMatch := bleve.NewMatchQuery(trimmed)
		nameMatch.SetField("name")
		nameMatch.SetBoost(2.0)

		namePrefix := bleve.NewPrefixQuery(strings.ToLower(trimmed))
		namePrefix.SetField("name")

		textMatch := bleve.NewMatchQuery(trimmed)
		textMatch.SetField("text")

		emailTerm := bleve.NewTermQuery(strings.ToLower(trimmed))
		emailTerm.SetField("email")

		textQuery = bleve.NewDisjunctionQuery(nameMatch, namePrefix, textMatch, emailTerm)
	}

	if len(params.Types) == 0 {
		return textQuery
	}

	typeQueries := make([]query.Query, 0, len(params.Types))
	for _, docType := range params.Types {
		typeQuery := bleve.NewTermQuery(string(docType))
		typeQuery.SetField("type")
		typeQueries = append(typeQueries, typeQuery)
	}

	return bleve.NewConjunctionQuery(textQuery, bleve.NewDisjunctionQuery(typeQueries...))
}
