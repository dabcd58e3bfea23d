// Package searchgate embeds the searchgate query compiler and executor
// in-process, without going through the HTTP API.
//
// An endpoint is described the same way as in the server config:
//
//	client, _ := searchgate.New(ctx, searchgate.WithElastic("http://localhost:9200"))
//	defer client.Close()
//
//	logs, _ := client.Endpoint(searchgate.Endpoint{
//	    Name:        "logs",
//	    Index:       "logstash",
//	    Lucene:      true,
//	    DefaultSort: "@timestamp:desc",
//	})
//	res, _ := logs.Search(ctx, url.Values{"q": {"status:500"}, "history": {"3"}})
//
// Compile returns the backend request for a query string without executing it.
package searchgate
