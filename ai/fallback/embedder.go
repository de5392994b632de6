package fallback

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/poiesic/trawl/ai"
)

// windowSize is the rune width of the overlapping n-grams hashed into the
// vector buckets.
const windowSize = 3

// Embedder implements ai.Embedder with a hashed character n-gram scheme.
// Identical text always embeds to the identical vector.
type Embedder struct {
	dims int
}

// NewEmbedder creates a hash-based embedder with the configured vector width.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) ai.Embedder {
	dims := config.Dimensions
	if dims <= 0 {
		dims = ai.DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
func (e *Embedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = e.embed(text)
	}
	return vecs, nil
}

// embed hashes every overlapping windowSize-rune n-gram of the lowercased
// text into a bucket and L2-normalizes the counts. Texts shorter than the
// window hash as a single n-gram; empty text embeds to the zero vector.
func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.dims)
	runes := []rune(strings.ToLower(text))
	if len(runes) == 0 {
		return vec
	}
	if len(runes) < windowSize {
		vec[e.bucket(runes)]++
		return ai.NormalizeVector(vec)
	}
	for i := 0; i+windowSize <= len(runes); i++ {
		vec[e.bucket(runes[i:i+windowSize])]++
	}
	return ai.NormalizeVector(vec)
}

func (e *Embedder) bucket(gram []rune) int {
	h := fnv.New32a()
	h.Write([]byte(string(gram)))
	return int(h.Sum32() % uint32(e.dims))
}
