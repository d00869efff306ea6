package chi

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/query"
)

// RetrieveParams are the query parameters of GET /retrieve.
type RetrieveParams struct {
	Q string
	K *int
}

// bindRetrieveParams parses q and k from the URL. Range checks happen in query.New.
func bindRetrieveParams(r *http.Request) (RetrieveParams, error) {
	var params RetrieveParams
	values := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", values, &params.Q); err != nil {
		return params, domain.NewValidationError("Query parameter 'q' is invalid")
	}
	if err := runtime.BindQueryParameter("form", true, false, "k", values, &params.K); err != nil {
		return params, domain.NewValidationError("Query parameter 'k' must be an integer")
	}
	return params, nil
}

// toQuery applies the k default and validates.
func (p RetrieveParams) toQuery() (query.Query, error) {
	k := query.DefaultK
	if p.K != nil {
		k = *p.K
	}
	return query.New(p.Q, k)
}
