// Package document holds retrieved passages with their whitelisted metadata.
package document

// Recognized metadata keys. Any other key returned by the index is dropped.
const (
	KeyIncidentID   = "incident_id"
	KeyCrashNum     = "crash_num"
	KeyIncidentDate = "incident_date"
)

// MetadataKeys lists the recognized metadata keys in response order.
var MetadataKeys = []string{KeyIncidentID, KeyCrashNum, KeyIncidentDate}

// Metadata is the reduced metadata of a retrieved passage.
// A key missing from the provider response is nil.
type Metadata struct {
	IncidentID   any
	CrashNum     any
	IncidentDate any
}

// Document is a passage returned by similarity search.
type Document struct {
	id       string
	score    float64
	content  string
	metadata Metadata
}

// New builds a document, keeping only the recognized metadata keys from fields.
func New(id string, score float64, content string, fields map[string]any) Document {
	return Document{
		id:      id,
		score:   score,
		content: content,
		metadata: Metadata{
			IncidentID:   fields[KeyIncidentID],
			CrashNum:     fields[KeyCrashNum],
			IncidentDate: fields[KeyIncidentDate],
		},
	}
}

// ID returns the provider-side identifier of the passage.
func (d *Document) ID() string { return d.id }

// Score returns the similarity score reported by the index.
func (d *Document) Score() float64 { return d.score }

// Content returns the passage text.
func (d *Document) Content() string { return d.content }

// Metadata returns the whitelisted metadata.
func (d *Document) Metadata() Metadata { return d.metadata }
