package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rubiojr/gbooks/pkg/book"
	"github.com/rubiojr/gbooks/pkg/googlebooks"
	"github.com/rubiojr/gbooks/pkg/history"
	"github.com/rubiojr/gbooks/pkg/library"
	"github.com/rubiojr/gbooks/pkg/log"
)

// DefaultOutputPath is used when neither the request nor the config names a file.
const DefaultOutputPath = "output.csv"

// Searcher issues one volumes search.
type Searcher interface {
	Search(ctx context.Context, query string) (*googlebooks.SearchResponse, error)
}

// Recorder stores completed runs.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// PromptFunc supplies a query when the request does not carry one.
type PromptFunc func(ctx context.Context) (string, error)

// Config holds settings shared by every run.
type Config struct {
	OutputPath string
	PriceOrder book.PriceOrder
}

// Request describes one run.
type Request struct {
	Query string
	// Prompt is called when Query is empty.
	Prompt PromptFunc
	// Sort is empty to keep the API order.
	Sort       book.SortField
	Descending bool
	OutputPath string
	// Reload reads the written file back into Result.Loaded.
	Reload bool
}

// Result is the outcome of a successful run.
type Result struct {
	ID         string
	Query      string
	Records    []book.Record
	Loaded     []book.Record
	OutputPath string
	Sort       book.SortOptions
}

// Empty reports the "no results" outcome.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Sorted reports whether the records were reordered.
func (r *Result) Sorted() bool {
	return r.Sort.Field != ""
}

// Service runs searches.
type Service struct {
	searcher Searcher
	recorder Recorder
	cfg      Config
}

// NewService creates a service. recorder may be nil to disable history.
func NewService(searcher Searcher, recorder Recorder, cfg Config) *Service {
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.PriceOrder == "" {
		cfg.PriceOrder = book.PriceByAmount
	}
	return &Service{
		searcher: searcher,
		recorder: recorder,
		cfg:      cfg,
	}
}

// Run executes the pipeline for req. Nothing is written when the API call
// fails.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	l := log.ForService("search")

	query, err := s.resolveQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = s.cfg.OutputPath
	}

	result := &Result{
		ID:         uuid.NewString(),
		Query:      query,
		OutputPath: outputPath,
	}
	l.Debugf("Run %s: query=%q output=%s", result.ID, query, outputPath)

	resp, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	records := googlebooks.ExtractAll(resp.Items)
	if req.Sort != "" {
		result.Sort = book.SortOptions{
			Field:      req.Sort,
			Descending: req.Descending,
			PriceOrder: s.cfg.PriceOrder,
		}
		records = book.Sort(records, result.Sort)
		l.Debugf("Sorted %d records by %s (descending=%t)", len(records), req.Sort, req.Descending)
	}
	result.Records = records

	if err := library.Write(outputPath, records); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	l.Infof("Wrote %d records to %s", len(records), outputPath)

	if req.Reload {
		loaded, err := library.Read(outputPath)
		if err != nil {
			return nil, fmt.Errorf("reading back %s: %w", outputPath, err)
		}
		result.Loaded = loaded
	}

	s.record(ctx, result)
	return result, nil
}

func (s *Service) resolveQuery(ctx context.Context, req Request) (string, error) {
	if req.Query != "" || req.Prompt == nil {
		return req.Query, nil
	}
	query, err := req.Prompt(ctx)
	if err != nil {
		return "", fmt.Errorf("reading search query: %w", err)
	}
	return query, nil
}

func (s *Service) record(ctx context.Context, result *Result) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(ctx, history.Entry{
		ID:          result.ID,
		Query:       result.Query,
		SortField:   string(result.Sort.Field),
		Descending:  result.Sort.Descending,
		OutputPath:  result.OutputPath,
		ResultCount: len(result.Records),
	})
	if err != nil {
		log.ForService("search").Warnf("Failed to record search %s: %v", result.ID, err)
	}
}
