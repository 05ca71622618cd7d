package service

import (
	"context"
	"time"
)

// Evaluation captures the timing and the intermediate artifacts of one
// retrieval or answer run, for the latency/transparency view.
type Evaluation struct {
	Mode    string
	Latency time.Duration
	Results []string
	Answer  string
	Context string
}

// EvaluateSemantic times a semantic search and returns the retrieved
// descriptions.
func (g *GeoRetriever) EvaluateSemantic(query string, topK int) (Evaluation, error) {
	start := time.Now()
	results, err := g.SemanticSearch(query, topK)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Mode:    "semantic",
		Latency: time.Since(start),
		Results: results,
	}, nil
}

// EvaluateRAG times a full RAG answer. The context echo comes from an
// independent retrieval run after the answer; retrieval is deterministic for
// a fixed query and index, so the duplicate call changes nothing observable.
func (g *GeoRetriever) EvaluateRAG(ctx context.Context, query string, topK int, apiKey string) (Evaluation, error) {
	start := time.Now()
	answer, err := g.RAGAnswer(ctx, query, topK, apiKey)
	if err != nil {
		return Evaluation{}, err
	}
	latency := time.Since(start)

	docs, err := g.SemanticSearch(query, topK)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Mode:    "rag",
		Latency: latency,
		Answer:  answer,
		Context: FormatContext(docs),
	}, nil
}
