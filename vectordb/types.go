package vectordb

// Chunk is the atomic retrieval unit: a bounded slice of document text
// with a stable identifier derived from its source and position.
type Chunk struct {
	ID      string
	Source  string
	Ordinal int
	Text    string
}

type SearchResult struct {
	ID         string
	Source     string
	Ordinal    int
	Text       string
	Distance   float64
	Similarity float64
}

type Stats struct {
	TotalDocuments int64  `json:"total_documents"`
	Collection     string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
}
