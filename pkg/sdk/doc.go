// Package sitesearch embeds the site search query engine in a Go program.
// It talks to the Solr core directly, without the HTTP API in between.
//
//	client, _ := sitesearch.New(ctx, sitesearch.WithSolr("http://localhost:8983/solr/site_search"))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, sitesearch.SearchRequest{
//	    SearchText: "kinase",
//	    Pagination: &sitesearch.Pagination{Offset: 0, NumRecords: 20},
//	})
//
//	_ = client.Export(ctx, sitesearch.SearchRequest{
//	    SearchText:         "kinase",
//	    DocumentTypeFilter: &sitesearch.DocumentTypeFilter{DocumentType: "gene"},
//	}, os.Stdout)
package sitesearch
