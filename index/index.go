package index

// Posting records one document's term frequency for a single term.
// Doc is the ordinal of the document in the slice given to Build.
type Posting struct {
	Doc  int
	Freq int
}

// Index is a per-query inverted index over a fixed document set.
// It holds the corpus statistics BM25 needs: document count, per-document
// token lengths, average length, and per-term postings lists.
type Index struct {
	numDocs   int
	avgDocLen float64
	docLens   []int
	postings  map[string][]Posting
}

// Build tokenizes every text and constructs the index in one pass.
// Postings lists are appended in document order, so each list is sorted by
// ordinal and iteration is deterministic.
func Build(texts []string) *Index {
	ix := &Index{
		numDocs:  len(texts),
		docLens:  make([]int, len(texts)),
		postings: make(map[string][]Posting),
	}

	var totalTokens int
	for i, text := range texts {
		terms := Tokenize(text)
		ix.docLens[i] = len(terms)
		totalTokens += len(terms)

		freqs := make(map[string]int, len(terms))
		for _, term := range terms {
			freqs[term]++
		}
		for term, freq := range freqs {
			ix.postings[term] = append(ix.postings[term], Posting{Doc: i, Freq: freq})
		}
	}

	if ix.numDocs > 0 {
		ix.avgDocLen = float64(totalTokens) / float64(ix.numDocs)
	}
	return ix
}

// NumDocs returns the number of indexed documents.
func (ix *Index) NumDocs() int {
	return ix.numDocs
}

// AvgDocLen returns the average token length across all indexed documents.
func (ix *Index) AvgDocLen() float64 {
	return ix.avgDocLen
}

// DocFreq returns the number of documents containing term.
func (ix *Index) DocFreq(term string) int {
	return len(ix.postings[term])
}
