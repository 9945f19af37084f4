package entity

// Language of a document chunk. The corpus is bilingual: Bangla and English.
type Language string

const (
	LanguageBangla  Language = "bn"
	LanguageEnglish Language = "en"
)

// Flow is one rule-based flow definition as stored in the flow file.
// The order of flows (and of keywords inside a flow) is significant:
// the matcher checks keywords in exactly this order.
type Flow struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
}

// KeywordRule is one flattened (keyword, trigger id) pair derived from a Flow.
type KeywordRule struct {
	Keyword   string
	TriggerID string
}

// TriggerMatch is the result of a successful trigger check.
type TriggerMatch struct {
	TriggerID      string
	MatchedKeyword string
}

// DocumentChunk is one indexed unit of the support corpus. Chunks are
// produced by the offline ingestion job and are read-only at serving time.
type DocumentChunk struct {
	Text     string
	Source   string
	Language Language
}

// RetrievalHit is a chunk returned by the vector index for a query,
// together with its similarity score. Hits are transient per request.
type RetrievalHit struct {
	Chunk DocumentChunk
	Score float64
}

// AnswerResult is the outcome of the generative answering pipeline.
// Sources are deduplicated; their order is not guaranteed to be stable.
type AnswerResult struct {
	Answer  string
	Sources []string
}
