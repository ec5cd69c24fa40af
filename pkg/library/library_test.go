package library

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rubiojr/gbooks/pkg/book"
)

const header = "Book Title,Authors,Publisher,Published Date,Page Count,Price,Rating Count,Average Rating\n"

func sampleRecords() []book.Record {
	return []book.Record{
		{
			Title:         "Cat's Cradle",
			Authors:       "Kurt Vonnegut",
			Publisher:     "Dial Press",
			PublishedDate: "2010-01-20",
			PageCount:     "304",
			Price:         "9.99 USD",
			RatingCount:   "35",
			AverageRating: "4",
		},
		{
			Title:   `The "Quoted" Title`,
			Authors: "A,B,C",
		},
		{},
		{
			Title:     "Multi\nline",
			Publisher: "Comma, Inc.",
		},
	}
}

func TestEncodeHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.String() != header {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestEncodeQuotesFields(t *testing.T) {
	var buf bytes.Buffer
	records := []book.Record{{Title: "Hello, World", Authors: "A,B"}}
	if err := Encode(&buf, records); err != nil {
		t.Fatal(err)
	}
	want := header + `"Hello, World","A,B",,,,,,` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"books.csv", "books.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			records := sampleRecords()

			if err := Write(path, records); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if !reflect.DeepEqual(got, records) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, records)
			}
		})
	}
}

func TestRoundTripNormalizesCRLF(t *testing.T) {
	var buf bytes.Buffer
	records := []book.Record{{Title: "a\r\nb", Publisher: "lone\rreturn"}}
	if err := Encode(&buf, records); err != nil {
		t.Fatal(err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "a\nb" {
		t.Errorf("expected CRLF read back as LF, got %+v", got)
	}
	if got[0].Publisher != "lone\rreturn" {
		t.Errorf("lone carriage return changed: %q", got[0].Publisher)
	}
}

func TestCompressedFileIsNotPlainCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv.zst")
	if err := Write(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.HasPrefix(data, []byte("Book Title")) {
		t.Error("expected compressed content")
	}
}

func TestWriteOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.csv")

	if err := Write(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != header {
		t.Errorf("expected header only, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only output.csv in %s, found %d entries", dir, len(entries))
	}
}

func TestReadHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := Write(path, nil); err != nil {
		t.Fatal(err)
	}

	records, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", records)
	}
}

func TestReadNotFound(t *testing.T) {
	records, err := Read(filepath.Join(t.TempDir(), "nonexistent.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %v", records)
	}
}

func TestDecodeReorderedHeader(t *testing.T) {
	input := "Price,Book Title,Authors,Publisher,Published Date,Page Count,Rating Count,Average Rating\n" +
		"1 USD,Title,Auth,Pub,2001,10,2,3.5\n"

	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := book.Record{
		Title: "Title", Authors: "Auth", Publisher: "Pub", PublishedDate: "2001",
		PageCount: "10", Price: "1 USD", RatingCount: "2", AverageRating: "3.5",
	}
	if len(records) != 1 || records[0] != want {
		t.Errorf("got %+v, want %+v", records, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"empty input", "", 1},
		{"short row", header + "a,b,c\n", 2},
		{"long row", header + "a,b,c,d,e,f,g,h,i\n", 2},
		{"unknown column", "Book Title,Authors,Publisher,Published Date,Page Count,Price,Rating Count,ISBN\n", 1},
		{"missing column", "Book Title,Authors\n", 1},
		{"duplicate column", "Book Title,Book Title,Publisher,Published Date,Page Count,Price,Rating Count,Average Rating\n", 1},
		{"bare quote", header + "a\"b,b,c,d,e,f,g,h\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if de.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d (%v)", tt.wantLine, de.Line, err)
			}
		})
	}
}

func TestReadDecodeErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	if err := os.WriteFile(path, []byte(header+"only,three,fields\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Read(path)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if de.Path != path {
		t.Errorf("expected path %q, got %q", path, de.Path)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should mention path: %v", err)
	}
}

func TestIsCompressed(t *testing.T) {
	for path, want := range map[string]bool{
		"out.csv": false, "out.csv.zst": true, "OUT.CSV.ZST": true, "zst": false,
	} {
		if got := IsCompressed(path); got != want {
			t.Errorf("IsCompressed(%q) = %v, want %v", path, got, want)
		}
	}
}
