package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/rubiojr/gbooks/pkg/book"
	"github.com/rubiojr/gbooks/pkg/googlebooks"
	"github.com/rubiojr/gbooks/pkg/history"
	"github.com/rubiojr/gbooks/pkg/library"
)

const catResponse = `{
	"kind": "books#volumes",
	"totalItems": 3,
	"items": [
		{"volumeInfo": {"title": "Cat A", "authors": ["X"], "pageCount": 50, "publishedDate": "2001"}},
		{"volumeInfo": {"title": "Cat B", "pageCount": 10, "ratingsCount": 4, "averageRating": 3.5},
		 "saleInfo": {"listPrice": {"amount": 4.99, "currencyCode": "USD"}}},
		{"volumeInfo": {"title": "Cat C, the sequel", "pageCount": 30}}
	]
}`

type queryLog struct {
	mu      sync.Mutex
	queries []string
}

func (q *queryLog) add(s string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queries = append(q.queries, s)
}

func (q *queryLog) all() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.queries...)
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *queryLog) {
	t.Helper()
	queries := &queryLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries.add(r.URL.Query().Get("q"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, queries
}

func newTestService(server *httptest.Server, recorder Recorder) *Service {
	client := googlebooks.NewClient(googlebooks.Options{BaseURL: server.URL})
	return NewService(client, recorder, Config{})
}

type fakeRecorder struct {
	entries []history.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e history.Entry) (history.Entry, error) {
	if f.err != nil {
		return history.Entry{}, f.err
	}
	f.entries = append(f.entries, e)
	return e, nil
}

func recordTitles(records []book.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestRunKeepsAPIOrder(t *testing.T) {
	server, queries := newTestServer(t, http.StatusOK, catResponse)
	output := filepath.Join(t.TempDir(), "out.csv")

	result, err := newTestService(server, nil).Run(context.Background(), Request{Query: "cat", OutputPath: output, Reload: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(queries.all(), []string{"cat"}) {
		t.Errorf("expected one request for cat, got %v", queries.all())
	}
	if got, want := recordTitles(result.Records), []string{"Cat A", "Cat B", "Cat C, the sequel"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if result.Sorted() || result.Empty() {
		t.Errorf("unexpected result flags: sorted=%v empty=%v", result.Sorted(), result.Empty())
	}
	if !reflect.DeepEqual(result.Loaded, result.Records) {
		t.Errorf("loaded records differ from written records:\n%+v\n%+v", result.Loaded, result.Records)
	}
	if result.Records[1].Price != "4.99 USD" || result.Records[1].AverageRating != "3.5" {
		t.Errorf("unexpected extraction: %+v", result.Records[1])
	}
}

func TestRunSorts(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, catResponse)
	dir := t.TempDir()

	tests := []struct {
		name       string
		descending bool
		want       []string
	}{
		{"ascending", false, []string{"Cat B", "Cat C, the sequel", "Cat A"}},
		{"descending", true, []string{"Cat A", "Cat C, the sequel", "Cat B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, tt.name+".csv")
			result, err := newTestService(server, nil).Run(context.Background(), Request{
				Query:      "cat",
				Sort:       book.SortPageCount,
				Descending: tt.descending,
				OutputPath: output,
			})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if got := recordTitles(result.Records); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}

			stored, err := library.Read(output)
			if err != nil {
				t.Fatal(err)
			}
			if got := recordTitles(stored); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("file order %v, want %v", got, tt.want)
			}
			if result.Loaded != nil {
				t.Error("Loaded should be nil when Reload is false")
			}
		})
	}
}

func TestRunNoItems(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"kind": "books#volumes", "totalItems": 0}`)
	output := filepath.Join(t.TempDir(), "empty.csv")

	result, err := newTestService(server, nil).Run(context.Background(), Request{Query: "sdfghjrt", OutputPath: output, Reload: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Empty() {
		t.Error("expected an empty result")
	}
	if result.Loaded == nil || len(result.Loaded) != 0 {
		t.Errorf("expected empty loaded records, got %#v", result.Loaded)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	want := "Book Title,Authors,Publisher,Published Date,Page Count,Price,Rating Count,Average Rating\n"
	if string(data) != want {
		t.Errorf("expected header only, got %q", data)
	}
}

func TestRunNon200WritesNothing(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadRequest, `{"error": {"code": 400}}`)
	output := filepath.Join(t.TempDir(), "out.csv")
	recorder := &fakeRecorder{}

	_, err := newTestService(server, recorder).Run(context.Background(), Request{Query: "", OutputPath: output})
	if !errors.Is(err, googlebooks.ErrRemoteRequestFailed) {
		t.Fatalf("expected ErrRemoteRequestFailed, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat returned %v", statErr)
	}
	if len(recorder.entries) != 0 {
		t.Errorf("failed runs must not be recorded: %+v", recorder.entries)
	}
}

func TestRunPromptsForMissingQuery(t *testing.T) {
	server, queries := newTestServer(t, http.StatusOK, `{}`)
	prompted := false

	_, err := newTestService(server, nil).Run(context.Background(), Request{
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
		Prompt: func(context.Context) (string, error) {
			prompted = true
			return "White Elephant", nil
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !prompted {
		t.Error("expected prompt to be called")
	}
	if !reflect.DeepEqual(queries.all(), []string{"White Elephant"}) {
		t.Errorf("unexpected queries %v", queries.all())
	}
}

func TestRunPromptNotCalledWithQuery(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{}`)

	_, err := newTestService(server, nil).Run(context.Background(), Request{
		Query:      "news",
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
		Prompt: func(context.Context) (string, error) {
			t.Error("prompt should not be called")
			return "", nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunPromptError(t *testing.T) {
	server, queries := newTestServer(t, http.StatusOK, `{}`)
	promptErr := errors.New("stdin closed")

	_, err := newTestService(server, nil).Run(context.Background(), Request{
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
		Prompt:     func(context.Context) (string, error) { return "", promptErr },
	})
	if !errors.Is(err, promptErr) {
		t.Fatalf("expected prompt error, got %v", err)
	}
	if len(queries.all()) != 0 {
		t.Error("no request should be sent when the prompt fails")
	}
}

func TestRunRecordsHistory(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, catResponse)
	dir := t.TempDir()

	store, err := history.Open(context.Background(), filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = store.Close()
	}()

	output := filepath.Join(dir, "out.csv")
	result, err := newTestService(server, store).Run(context.Background(), Request{
		Query: "cat", Sort: book.SortRatingCount, Descending: true, OutputPath: output,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entry, err := store.Get(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("history entry missing: %v", err)
	}
	if entry.Query != "cat" || entry.SortField != "Rating Count" || !entry.Descending || entry.ResultCount != 3 || entry.OutputPath != output {
		t.Errorf("unexpected history entry: %+v", entry)
	}
}

func TestRunIgnoresRecorderFailure(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, catResponse)
	recorder := &fakeRecorder{err: errors.New("disk full")}

	if _, err := newTestService(server, recorder).Run(context.Background(), Request{
		Query: "cat", OutputPath: filepath.Join(t.TempDir(), "out.csv"),
	}); err != nil {
		t.Fatalf("recorder failure should not fail the run: %v", err)
	}
}

func TestRunUsesConfiguredOutput(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, catResponse)
	output := filepath.Join(t.TempDir(), "configured.csv.zst")

	client := googlebooks.NewClient(googlebooks.Options{BaseURL: server.URL})
	service := NewService(client, nil, Config{OutputPath: output, PriceOrder: book.PriceLexical})

	result, err := service.Run(context.Background(), Request{Query: "cat", Sort: book.SortPrice})
	if err != nil {
		t.Fatal(err)
	}
	if result.OutputPath != output {
		t.Errorf("expected output %s, got %s", output, result.OutputPath)
	}
	if result.Sort.PriceOrder != book.PriceLexical {
		t.Errorf("expected lexical price order, got %q", result.Sort.PriceOrder)
	}
	if _, err := library.Read(output); err != nil {
		t.Errorf("configured output unreadable: %v", err)
	}
}
