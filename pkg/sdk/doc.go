// Package docsearch is an embeddable semantic search over uploaded documents.
//
// Each session holds an ordered set of documents reduced to text (PDF, DOCX,
// XLSX and plain text are extracted; other files are kept with an
// explanatory message). A query re-embeds the whole set and ranks it by
// cosine similarity. Nothing is indexed between queries.
//
//	client, _ := docsearch.New(ctx)
//	defer client.Close()
//
//	docs := client.Documents("alice")
//	_, _ = docs.Replace(ctx,
//	    docsearch.Upload{Name: "notes.txt", Data: []byte("cats purr")},
//	    docsearch.Upload{Name: "report.pdf", Data: pdfBytes},
//	)
//	res, _ := client.Search("alice").Query(ctx, "kittens")
//	for _, hit := range res.Items {
//	    fmt.Println(hit.Rank, hit.ID, hit.Score, hit.Preview)
//	}
//
// By default the client embeds with a deterministic in-process hashing
// model. Use WithEmbedder to plug in a real provider and WithRedisCache or
// WithMemoryCache to reuse document embeddings across queries.
package docsearch
