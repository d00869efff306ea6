package retriever

import "github.com/kailas-cloud/retriever/internal/domain/retrieval/document"

// Document is a retrieved passage, best match first.
type Document struct {
	ID       string
	Score    float64
	Content  string
	Metadata Metadata
}

// Metadata carries the recognized incident keys. A key the index did not return is nil.
type Metadata struct {
	IncidentID   any
	CrashNum     any
	IncidentDate any
}

func documentFromDomain(d *document.Document) Document {
	md := d.Metadata()
	return Document{
		ID:      d.ID(),
		Score:   d.Score(),
		Content: d.Content(),
		Metadata: Metadata{
			IncidentID:   md.IncidentID,
			CrashNum:     md.CrashNum,
			IncidentDate: md.IncidentDate,
		},
	}
}
