package domain

// FilterOperator is a comparison operator supported by the query engine.
type FilterOperator string

const (
	FilterEq          FilterOperator = "eq"
	FilterNeq         FilterOperator = "neq"
	FilterContains    FilterOperator = "contains"     // case-sensitive substring match
	FilterNotContains FilterOperator = "not_contains" // negation of contains
	FilterGt          FilterOperator = "gt"
	FilterGte         FilterOperator = "gte"
	FilterLt          FilterOperator = "lt"
	FilterLte         FilterOperator = "lte"
)

// Filter is a single declarative predicate applied to a listing query.
// Filters combine with logical AND. Field supports one level of relationship
// traversal using a dot path (e.g. "account.account_number").
type Filter struct {
	Field    string
	Operator FilterOperator
	Value    any
}

// OrderDirection is the sort direction for listing queries.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// DefaultOrderBy is the ordering applied when a listing request does not name one.
const DefaultOrderBy = "operation_original_date"

// ListQuery describes a filtered, ordered, paginated transaction listing.
// A nil Limit means unbounded; statistics need the full filtered set.
type ListQuery struct {
	Filters        []Filter
	OrderBy        string
	OrderDirection OrderDirection
	Limit          *int
	Offset         *int
	WithStatistics bool
}
