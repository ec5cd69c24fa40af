package googlebooks

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rubiojr/gbooks/pkg/book"
)

// Extract flattens one raw search result item into a record. Each field is
// looked up independently; a missing or mistyped path leaves that field empty.
func Extract(item map[string]any) book.Record {
	volume := lookupMap(item, "volumeInfo")

	return book.Record{
		Title:         lookupString(volume, "title"),
		Authors:       strings.Join(lookupStrings(volume, "authors"), ","),
		Publisher:     lookupString(volume, "publisher"),
		PublishedDate: lookupString(volume, "publishedDate"),
		PageCount:     lookupNumber(volume, "pageCount"),
		Price:         extractPrice(lookupMap(item, "saleInfo", "listPrice")),
		RatingCount:   lookupNumber(volume, "ratingsCount"),
		AverageRating: lookupNumber(volume, "averageRating"),
	}
}

// ExtractAll flattens every item, preserving order. Items that are not JSON
// objects produce an all-empty record.
func ExtractAll(items []any) []book.Record {
	records := make([]book.Record, 0, len(items))
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		records = append(records, Extract(item))
	}
	return records
}

// extractPrice joins amount and currency code; both must be present.
func extractPrice(listPrice map[string]any) string {
	amount := lookupNumber(listPrice, "amount")
	currency := lookupString(listPrice, "currencyCode")
	if amount == "" || currency == "" {
		return ""
	}
	if d, err := decimal.NewFromString(amount); err == nil {
		amount = d.String()
	}
	return amount + " " + currency
}

// lookupMap walks a chain of object keys. A nil map is returned when any
// step is absent or not an object.
func lookupMap(m map[string]any, path ...string) map[string]any {
	for _, key := range path {
		next, ok := m[key].(map[string]any)
		if !ok {
			return nil
		}
		m = next
	}
	return m
}

func lookupString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// lookupNumber renders a numeric value with its original JSON text. Values
// decoded without UseNumber are formatted as float64.
func lookupNumber(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	}
	return ""
}

// lookupStrings returns nil unless every element is a string.
func lookupStrings(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
