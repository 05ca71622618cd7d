package embedding

// Embedder converts free text into a numeric vector representation.
// The same embedder must be used for indexing feature descriptions and for
// embedding queries; mismatched embedders break similarity meaning.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}
