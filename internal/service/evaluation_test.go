package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"georag/internal/llm"
)

func TestEvaluateSemantic(t *testing.T) {
	r := newRetriever(t, threeFeatures, &stubGenerator{})

	ev, err := r.EvaluateSemantic("lake park", 2)
	require.NoError(t, err)
	assert.Equal(t, "semantic", ev.Mode)
	assert.GreaterOrEqual(t, ev.Latency.Nanoseconds(), int64(0))
	require.Len(t, ev.Results, 2)
	assert.Contains(t, ev.Results[0], "Lake Park")
	assert.Empty(t, ev.Answer)
}

func TestEvaluateRAGEchoesContext(t *testing.T) {
	gen := &stubGenerator{answer: "A park by the lake."}
	r := newRetriever(t, threeFeatures, gen)

	ev, err := r.EvaluateRAG(context.Background(), "lake park", 2, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "rag", ev.Mode)
	assert.Equal(t, "A park by the lake.", ev.Answer)

	// The context echo is a second, independent retrieval of the same query.
	docs, err := r.SemanticSearch("lake park", 2)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(docs, "\n"), ev.Context)
}

func TestEvaluateRAGWithoutCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	r := newRetriever(t, threeFeatures, llm.NewClient(llm.Config{}))

	ev, err := r.EvaluateRAG(context.Background(), "lake park", 2, "")
	require.NoError(t, err)
	assert.NotEmpty(t, ev.Context)
	assert.Equal(t, "OpenAI API key not set. Please set OPENAI_API_KEY environment variable.", ev.Answer)
}
