package directory

import (
	"strings"

	"github.com/BradenHooton/dashboard/internal/models"
)

// SortField names the record attribute the directory is ordered by
type SortField string

const (
	SortByName    SortField = "name"
	SortByEmail   SortField = "email"
	SortByPhone   SortField = "phone"
	SortByCompany SortField = "company"
)

// SortDirection is the ordering direction of the selected sort field
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// DefaultPageSize is the number of rows shown before the viewer picks another size
const DefaultPageSize = 5

// SortFields lists every sortable field in column order
var SortFields = []SortField{SortByName, SortByEmail, SortByPhone, SortByCompany}

// ParseSortField maps a user-supplied value onto a SortField.
// The second return value is false when the value names no known field.
func ParseSortField(value string) (SortField, bool) {
	field := SortField(strings.ToLower(strings.TrimSpace(value)))
	for _, f := range SortFields {
		if f == field {
			return f, true
		}
	}
	return SortByName, false
}

// ParseSortDirection maps "asc"/"desc" onto a SortDirection
func ParseSortDirection(value string) (SortDirection, bool) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(value))) {
	case Ascending:
		return Ascending, true
	case Descending:
		return Descending, true
	}
	return Ascending, false
}

// QueryState is the set of viewing parameters the directory UI controls.
// Mutate it through the setters so the page index is reset when the
// filtered set changes shape.
type QueryState struct {
	Search        string
	SortField     SortField
	SortDirection SortDirection
	PageIndex     int
	PageSize      int
}

// NewQueryState returns the state a fresh directory view starts with
func NewQueryState() QueryState {
	return QueryState{
		SortField:     SortByName,
		SortDirection: Ascending,
		PageIndex:     0,
		PageSize:      DefaultPageSize,
	}
}

// SetSearch replaces the search text. A changed text always returns the view to the first page.
func (s *QueryState) SetSearch(text string) {
	if text == s.Search {
		return
	}
	s.Search = text
	s.PageIndex = 0
}

// ToggleSort behaves like clicking a column header: the active column
// flips direction, any other column becomes active in ascending order.
func (s *QueryState) ToggleSort(field SortField) {
	if s.SortField == field {
		if s.SortDirection == Ascending {
			s.SortDirection = Descending
		} else {
			s.SortDirection = Ascending
		}
		return
	}
	s.SortField = field
	s.SortDirection = Ascending
}

// SetSort selects field and direction explicitly
func (s *QueryState) SetSort(field SortField, direction SortDirection) {
	s.SortField = field
	s.SortDirection = direction
}

// SetPage moves to a zero-based page. Pages past the end are allowed and render empty.
func (s *QueryState) SetPage(index int) error {
	if index < 0 {
		return models.ErrInvalidPageIndex
	}
	s.PageIndex = index
	return nil
}

// SetPageSize changes the rows per page and returns to the first page
func (s *QueryState) SetPageSize(size int) error {
	if size < 1 {
		return models.ErrInvalidPageSize
	}
	s.PageSize = size
	s.PageIndex = 0
	return nil
}
