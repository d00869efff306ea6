// Package retriever provides an in-process Go client for incident passage
// retrieval: a free-text query is embedded and matched against a hosted
// vector index (Pinecone, or Redis / Valkey with search modules).
//
//	client, _ := retriever.New(ctx,
//	    retriever.WithPinecone(os.Getenv("PINECONE_API_KEY"), os.Getenv("PINECONE_INDEX_NAME")),
//	    retriever.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	)
//	defer client.Close()
//
//	docs, err := client.Retrieve(ctx, "pedestrian struck at night", 5)
//	if errors.Is(err, retriever.ErrInvalidQuery) {
//	    // bad q or k
//	}
//
// The client never retries and keeps no state beyond the provider connections.
package retriever
