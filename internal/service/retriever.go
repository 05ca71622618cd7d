// Package service wires the feature store, embedder, vector store and
// text-generation client into the retrieval-augmented answer pipeline.
package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"

	"georag/internal/domain"
	"georag/internal/embedding"
	"georag/internal/geo"
	"georag/internal/vectorstore"
)

// Generator turns an assembled prompt into an answer. The apiKey argument
// overrides the environment credential when non-empty.
type Generator interface {
	Complete(ctx context.Context, prompt, apiKey string) (string, error)
}

const answerKeyMissing = "OpenAI API key not set. Please set OPENAI_API_KEY environment variable."

const promptTemplate = "You are a geographic information assistant. Use the following context to answer the user's question.\n\nContext:\n%s\n\nQuestion: %s\n\nAnswer:"

// GeoRetriever is the application core. It is built once at startup; all
// methods are read-only afterwards and safe to share.
type GeoRetriever struct {
	store    *geo.Store
	embedder embedding.Embedder
	index    vectorstore.Storage
	gen      Generator
	docs     []string
	indexed  bool
}

// NewGeoRetriever assembles the pipeline from its parts.
func NewGeoRetriever(store *geo.Store, embedder embedding.Embedder, index vectorstore.Storage, gen Generator) *GeoRetriever {
	return &GeoRetriever{store: store, embedder: embedder, index: index, gen: gen}
}

// BuildIndex embeds every feature description and fills the vector store.
// It is a no-op on an empty feature store.
func (g *GeoRetriever) BuildIndex() error {
	features := g.store.Features()
	if len(features) == 0 {
		return nil
	}

	docs := make([]string, len(features))
	entries := make([]domain.Entry, len(features))
	for i, f := range features {
		docs[i] = f.Description()
		entries[i] = domain.Entry{
			ID:       f.ID,
			Document: docs[i],
			Meta: domain.Metadata{
				Name: f.Name,
				Type: f.Type,
				WKT:  wkt.MarshalString(f.Geometry),
			},
		}
	}

	if err := g.embedder.Prepare(docs); err != nil {
		return errors.Wrap(err, "prepare embedder")
	}

	// Embed before Init: remote embedders only learn their dimension from
	// the first response.
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vec, err := g.embedder.Embed(doc)
		if err != nil {
			return errors.Wrapf(err, "embed feature %s", entries[i].ID)
		}
		vectors[i] = vec
	}

	// Clear before Init: clearing a remote store may drop the whole
	// collection, which Init then recreates.
	if err := g.index.Clear(); err != nil {
		return errors.Wrap(err, "clear vector store")
	}
	if err := g.index.Init(len(vectors[0])); err != nil {
		return errors.Wrap(err, "init vector store")
	}
	if err := g.index.Upsert(entries, vectors); err != nil {
		return errors.Wrap(err, "fill vector store")
	}
	g.docs = docs
	g.indexed = true
	sigolo.Infof("Indexed %d feature descriptions with %s embeddings", len(entries), g.embedder.Name())
	return nil
}

// SpatialQuery answers a location-bound question by radius filtering alone.
// The answer is user-facing text listing the nearby features.
func (g *GeoRetriever) SpatialQuery(lat, lon, radiusKm float64) string {
	if g.store.Empty() {
		return "No location provided or no data loaded."
	}
	nearby := g.store.WithinRadius(lat, lon, radiusKm)
	if len(nearby) == 0 {
		return fmt.Sprintf("No features found within %gkm of (%g, %g).", radiusKm, lat, lon)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d features near (%g, %g):", len(nearby), lat, lon)
	for _, f := range nearby {
		fmt.Fprintf(&b, "\n%s (%s)", f.Name, f.Type)
	}
	return b.String()
}

// SemanticSearch embeds the query and returns up to topK feature
// descriptions, closest first. topK is clamped to at least 1. An unindexed
// (empty) store yields an empty result, not an error. Queries with no
// vocabulary overlap fall back to lexical token-overlap ranking instead of
// returning arbitrary order.
func (g *GeoRetriever) SemanticSearch(query string, topK int) ([]string, error) {
	if !g.indexed {
		return nil, nil
	}
	if topK < 1 {
		topK = 1
	}
	vec, err := g.embedder.Embed(query)
	if err != nil {
		return nil, errors.Wrap(err, "embed query")
	}
	if isZeroVector(vec) {
		return g.lexicalSearch(query, topK), nil
	}
	hits, err := g.index.Search(vec, topK)
	if err != nil {
		return nil, errors.Wrap(err, "vector search")
	}
	allZero := true
	for _, h := range hits {
		if h.Score > 1e-9 {
			allZero = false
			break
		}
	}
	if allZero {
		return g.lexicalSearch(query, topK), nil
	}
	docs := make([]string, len(hits))
	for i, h := range hits {
		docs[i] = h.Entry.Document
	}
	return docs, nil
}

func isZeroVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// lexicalSearch ranks indexed descriptions by token overlap with the query
// (Ochiai coefficient). Used when the embedding gives no signal.
func (g *GeoRetriever) lexicalSearch(query string, topK int) []string {
	qset := tokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(g.docs))
	for i, doc := range g.docs {
		scores[i] = pair{i, overlapOchiai(qset, doc)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]string, 0, topK)
	for i := 0; i < topK; i++ {
		out = append(out, g.docs[scores[i].idx])
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai is |A∩B| / sqrt(|A| * |B|) over the token sets.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	seen := tokenSet(text)
	inter := 0
	for t := range seen {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(seen)))
}

// FormatContext joins retrieved descriptions into the prompt context block,
// preserving order. Empty input yields an empty string.
func FormatContext(docs []string) string {
	return strings.Join(docs, "\n")
}

// RAGAnswer runs retrieval, context assembly and generation for the given
// question. Missing credentials and upstream failures come back as
// user-facing answer strings; the error return covers retrieval-layer
// failures only.
func (g *GeoRetriever) RAGAnswer(ctx context.Context, query string, topK int, apiKey string) (string, error) {
	docs, err := g.SemanticSearch(query, topK)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(promptTemplate, FormatContext(docs), query)

	answer, err := g.gen.Complete(ctx, prompt, apiKey)
	if err != nil {
		if errors.Is(err, domain.ErrMissingAPIKey) {
			return answerKeyMissing, nil
		}
		return fmt.Sprintf("Error from OpenAI API: %v", err), nil
	}
	return answer, nil
}

// MapSummary renders a textual overview of the loaded collection: overall
// bounds plus one line per feature.
func (g *GeoRetriever) MapSummary() string {
	if g.store.Empty() {
		return "No geographic data loaded."
	}
	bound := g.store.Bound()
	var b strings.Builder
	fmt.Fprintf(&b, "%d features, bounds (%.4f, %.4f) to (%.4f, %.4f)",
		g.store.Len(), bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon())
	for _, f := range g.store.Features() {
		fmt.Fprintf(&b, "\n  %s (%s) [%s]", f.Name, f.Type, f.Geometry.GeoJSONType())
	}
	return b.String()
}
