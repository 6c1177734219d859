package model

// Chunk is a unit of ingested document text stored for retrieval
type Chunk struct {
	ID      string `json:"id"`               // Stable identifier (UUID)
	Content string `json:"content"`          // Extracted text
	Source  string `json:"source"`           // Provenance tag (e.g., "prospectus")
	Index   int    `json:"index,omitempty"`  // Position within the source document (0-based)
}

// SourceProspectus is the provenance tag for ingested prospectus documents
const SourceProspectus = "prospectus"
