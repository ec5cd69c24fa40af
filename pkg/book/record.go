// Package book defines the flattened book record produced from a volumes
// search and the ordering rules used to sort a set of records.
package book

// Column titles, in the fixed order used for CSV headers and rows.
const (
	ColumnTitle         = "Book Title"
	ColumnAuthors       = "Authors"
	ColumnPublisher     = "Publisher"
	ColumnPublishedDate = "Published Date"
	ColumnPageCount     = "Page Count"
	ColumnPrice         = "Price"
	ColumnRatingCount   = "Rating Count"
	ColumnAverageRating = "Average Rating"
)

// Columns is the fixed header order.
var Columns = []string{
	ColumnTitle,
	ColumnAuthors,
	ColumnPublisher,
	ColumnPublishedDate,
	ColumnPageCount,
	ColumnPrice,
	ColumnRatingCount,
	ColumnAverageRating,
}

// Record is one flattened search result. Every field is always present and
// defaults to the empty string when the source lacks it.
type Record struct {
	Title         string
	Authors       string
	Publisher     string
	PublishedDate string
	PageCount     string
	Price         string
	RatingCount   string
	AverageRating string
}

// Values returns the record fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Title,
		r.Authors,
		r.Publisher,
		r.PublishedDate,
		r.PageCount,
		r.Price,
		r.RatingCount,
		r.AverageRating,
	}
}

// Get returns the value stored under the given column title. Unknown
// columns return the empty string.
func (r Record) Get(column string) string {
	switch column {
	case ColumnTitle:
		return r.Title
	case ColumnAuthors:
		return r.Authors
	case ColumnPublisher:
		return r.Publisher
	case ColumnPublishedDate:
		return r.PublishedDate
	case ColumnPageCount:
		return r.PageCount
	case ColumnPrice:
		return r.Price
	case ColumnRatingCount:
		return r.RatingCount
	case ColumnAverageRating:
		return r.AverageRating
	}
	return ""
}

// Set stores value under the given column title and reports whether the
// column is known.
func (r *Record) Set(column, value string) bool {
	switch column {
	case ColumnTitle:
		r.Title = value
	case ColumnAuthors:
		r.Authors = value
	case ColumnPublisher:
		r.Publisher = value
	case ColumnPublishedDate:
		r.PublishedDate = value
	case ColumnPageCount:
		r.PageCount = value
	case ColumnPrice:
		r.Price = value
	case ColumnRatingCount:
		r.RatingCount = value
	case ColumnAverageRating:
		r.AverageRating = value
	default:
		return false
	}
	return true
}

// IsColumn reports whether name is one of the eight column titles.
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}
