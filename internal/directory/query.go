// Package directory implements the user directory's filter, sort and
// paginate pipeline. Every function here is pure: inputs are never
// reordered or modified and no state survives between calls.
package directory

import (
	"slices"
	"strings"

	"github.com/BradenHooton/dashboard/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CollationLocale is the locale used to order sort keys
var CollationLocale = language.English

// ResultPage is the visible slice of the directory plus pagination metadata
type ResultPage struct {
	Records      []*models.UserRecord `json:"records"`
	TotalMatched int                  `json:"total_matched"`
	PageIndex    int                  `json:"page_index"`
	PageSize     int                  `json:"page_size"`
	PageCount    int                  `json:"page_count"`
}

// Query runs filter, sort and paginate over records for the given state
func Query(records []*models.UserRecord, state QueryState) ResultPage {
	size := state.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	index := state.PageIndex
	if index < 0 {
		index = 0
	}

	matched := Filter(records, state.Search)
	Sort(matched, state.SortField, state.SortDirection)

	return ResultPage{
		Records:      Paginate(matched, index, size),
		TotalMatched: len(matched),
		PageIndex:    index,
		PageSize:     size,
		PageCount:    PageCount(len(matched), size),
	}
}

// Filter returns a new slice holding the records whose name, email,
// phone or company name contains search, ignoring case.
// An empty search keeps every record.
func Filter(records []*models.UserRecord, search string) []*models.UserRecord {
	fold := cases.Fold()
	needle := fold.String(search)

	matched := make([]*models.UserRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if needle == "" || matches(fold, r, needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matches(fold cases.Caser, r *models.UserRecord, needle string) bool {
	for _, field := range [...]string{r.Name, r.Email, r.Phone, r.Company.Name} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// Sort orders records in place by field using locale-aware collation.
// The sort is stable, so equal keys keep their incoming order in both directions.
func Sort(records []*models.UserRecord, field SortField, direction SortDirection) {
	col := collate.New(CollationLocale)
	desc := direction == Descending

	slices.SortStableFunc(records, func(a, b *models.UserRecord) int {
		c := col.CompareString(sortKey(a, field), sortKey(b, field))
		if desc {
			return -c
		}
		return c
	})
}

// sortKey falls back to the name for an unrecognized field
func sortKey(r *models.UserRecord, field SortField) string {
	switch field {
	case SortByEmail:
		return r.Email
	case SortByPhone:
		return r.Phone
	case SortByCompany:
		return r.Company.Name
	default:
		return r.Name
	}
}

// Paginate returns the window [index*size, index*size+size) clamped to
// the available records. Out-of-range pages yield an empty slice.
func Paginate(records []*models.UserRecord, index, size int) []*models.UserRecord {
	if size < 1 || index < 0 || index > len(records)/size {
		return []*models.UserRecord{}
	}
	start := index * size
	if start >= len(records) {
		return []*models.UserRecord{}
	}
	end := min(start+size, len(records))
	return records[start:end:end]
}

// PageCount is the number of pages needed to show total records
func PageCount(total, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
