// Package marketsearch embeds the campus marketplace product search in-process,
// for batch jobs and back-office tools that should not go through the HTTP API.
//
// It wires the same pipeline as the server: best-effort query embedding, hybrid
// ranking, post-filtering and pagination, plus title autocomplete.
//
//	client, _ := marketsearch.New(ctx,
//	    marketsearch.WithPostgres(os.Getenv("DATABASE_DSN")),
//	    marketsearch.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, marketsearch.SearchParams{Query: "shea butter", Limit: 10})
//	recs, _ := client.Recommend(ctx, "sh", 5)
//
// Interactive callers that search on every keystroke can throttle themselves
// with a Debouncer.
package marketsearch
