package book

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var (
	// ErrUnknownSortField is returned for names that match no column.
	ErrUnknownSortField = errors.New("unknown sort field")
	// ErrUnsortableField is returned for Title, Authors and Publisher.
	ErrUnsortableField = errors.New("field is not sortable")
	// ErrUnknownPriceOrder is returned by ParsePriceOrder.
	ErrUnknownPriceOrder = errors.New("unknown price order")
)

// SortField is a column title eligible for ordering.
type SortField string

const (
	SortPublishedDate SortField = ColumnPublishedDate
	SortPageCount     SortField = ColumnPageCount
	SortPrice         SortField = ColumnPrice
	SortRatingCount   SortField = ColumnRatingCount
	SortAverageRating SortField = ColumnAverageRating
)

// SortFields lists the sortable fields in display order.
var SortFields = []SortField{
	SortPublishedDate,
	SortPageCount,
	SortPrice,
	SortRatingCount,
	SortAverageRating,
}

func (f SortField) String() string {
	return string(f)
}

// PriceOrder selects how the composite "<amount> <currency>" price is ordered.
type PriceOrder string

const (
	// PriceByAmount compares the numeric amount, then the currency code.
	PriceByAmount PriceOrder = "amount"
	// PriceLexical compares the stored string as is.
	PriceLexical PriceOrder = "lexical"
)

// ParsePriceOrder parses "amount" or "lexical". An empty string selects
// PriceByAmount.
func ParsePriceOrder(s string) (PriceOrder, error) {
	switch PriceOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriceByAmount:
		return PriceByAmount, nil
	case PriceLexical:
		return PriceLexical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPriceOrder, s)
}

func normalizeFieldName(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, s)
}

// ParseSortField resolves a user supplied field name. Matching ignores case,
// spaces, underscores and dashes, so "page-count" and "PageCount" both
// resolve to SortPageCount.
func ParseSortField(s string) (SortField, error) {
	want := normalizeFieldName(s)
	for _, f := range SortFields {
		if normalizeFieldName(string(f)) == want {
			return f, nil
		}
	}
	for _, c := range []string{ColumnTitle, ColumnAuthors, ColumnPublisher} {
		if normalizeFieldName(c) == want {
			return "", fmt.Errorf("%w: %s", ErrUnsortableField, c)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, s)
}

// SortOptions controls Sort.
type SortOptions struct {
	Field      SortField
	Descending bool
	PriceOrder PriceOrder
}

// Sort returns a stably ordered copy of records. Empty or unparseable values
// are the lowest possible value: they come first in ascending order and last
// in descending order. Records with equal keys keep their input order in
// both directions. A field that is not one of SortFields, such as Book Title,
// leaves the copy in input order; use ParseSortField to reject such names.
func Sort(records []Record, opts SortOptions) []Record {
	out := slices.Clone(records)
	compare := comparatorFor(opts.Field, opts.PriceOrder)
	if compare == nil {
		return out
	}
	column := string(opts.Field)
	slices.SortStableFunc(out, func(a, b Record) int {
		c := compare(a.Get(column), b.Get(column))
		if opts.Descending {
			return -c
		}
		return c
	})
	return out
}

func comparatorFor(field SortField, order PriceOrder) func(a, b string) int {
	switch field {
	case SortPublishedDate:
		return func(a, b string) int { return compareParsed(a, b, parseDate, compareDates) }
	case SortPageCount, SortRatingCount:
		return func(a, b string) int { return compareParsed(a, b, parseInt, compareInts) }
	case SortAverageRating:
		return func(a, b string) int { return compareParsed(a, b, parseDecimal, decimal.Decimal.Cmp) }
	case SortPrice:
		if order == PriceLexical {
			return strings.Compare
		}
		return func(a, b string) int { return compareParsed(a, b, parsePrice, comparePrices) }
	}
	return nil
}

// compareParsed orders values that failed to parse below all others.
func compareParsed[T any](a, b string, parse func(string) (T, bool), cmp func(T, T) int) int {
	av, aok := parse(a)
	bv, bok := parse(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return cmp(av, bv)
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

// parseDate splits year[-month[-day]] on '-' or '.' and keeps the leading
// numeric components.
func parseDate(s string) ([]int, bool) {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '-' || r == '.'
	})
	components := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		components = append(components, n)
	}
	return components, len(components) > 0
}

// compareDates compares component by component; a missing component sorts
// lower than a present one, so "2020" < "2020-01".
func compareDates(a, b []int) int {
	return slices.Compare(a, b)
}

type price struct {
	amount   decimal.Decimal
	currency string
}

func parsePrice(s string) (price, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return price{}, false
	}
	amount, ok := parseDecimal(fields[0])
	if !ok {
		return price{}, false
	}
	return price{amount: amount, currency: strings.Join(fields[1:], " ")}, true
}

func comparePrices(a, b price) int {
	if c := a.amount.Cmp(b.amount); c != 0 {
		return c
	}
	return strings.Compare(a.currency, b.currency)
}
