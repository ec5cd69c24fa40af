// Package search runs the book search pipeline: one volumes API request, field
// extraction, optional sorting, CSV persistence and an optional read back of
// the written file.
//
// # Usage
//
//	client := googlebooks.NewClient(googlebooks.Options{Timeout: 10 * time.Second})
//	service := search.NewService(client, store, search.Config{PriceOrder: book.PriceByAmount})
//
//	result, err := service.Run(ctx, search.Request{
//		Query:      "golang",
//		Sort:       book.SortPageCount,
//		Descending: true,
//		OutputPath: "output.csv",
//		Reload:     true,
//	})
//
// # Failure behaviour
//
// A transport failure or any non-200 response aborts the run before anything
// is written; the returned error matches googlebooks.ErrRemoteRequestFailed.
// A response without items is not an error: the file is written with only the
// header row and Result.Empty reports true.
//
// # History
//
// When a Recorder is supplied every successful run is recorded with the run
// ID, query, sort settings, output path and result count. Failing to record
// is logged and does not fail the run.
package search
