package chi

import (
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/document"
	retrievaluc "github.com/kailas-cloud/retriever/internal/usecase/retrieval"
)

// RetrieveResponse is the body of a successful GET /retrieve.
type RetrieveResponse struct {
	Query   string       `json:"query"`
	K       int          `json:"k"`
	Results []ResultItem `json:"results"`
}

// ResultItem is a single retrieved passage.
type ResultItem struct {
	Content  string         `json:"content"`
	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata carries exactly the whitelisted keys. Missing values encode as null.
type ResultMetadata struct {
	IncidentID   any `json:"incident_id"`
	CrashNum     any `json:"crash_num"`
	IncidentDate any `json:"incident_date"`
}

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func retrieveResponseFromDomain(resp retrievaluc.Response) RetrieveResponse {
	items := make([]ResultItem, 0, len(resp.Documents))
	for i := range resp.Documents {
		items = append(items, resultItemFromDomain(&resp.Documents[i]))
	}
	return RetrieveResponse{
		Query:   resp.Query,
		K:       resp.K,
		Results: items,
	}
}

func resultItemFromDomain(d *document.Document) ResultItem {
	md := d.Metadata()
	return ResultItem{
		Content: d.Content(),
		Metadata: ResultMetadata{
			IncidentID:   md.IncidentID,
			CrashNum:     md.CrashNum,
			IncidentDate: md.IncidentDate,
		},
	}
}
