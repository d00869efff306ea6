package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Namespace    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit, ordered by descending similarity.
// Fields holds the stored metadata; values are backend-typed
// (strings for Redis hashes, JSON scalars for Pinecone).
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]any
}
