package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// DefaultPageLimit is applied when a list request does not set limit.
const DefaultPageLimit = 25

// reservedParams are query keys with a meaning of their own; they are never
// treated as field filters.
var reservedParams = map[string]bool{
	"select":     true,
	"sort":       true,
	"page":       true,
	"limit":      true,
	"_sort":      true,
	"_limit":     true,
	"search":     true,
	"q":          true,
	"feeStatus":  true,
	"sortByFees": true,
}

// comparison sub-operators accepted in bracket syntax, e.g. totalAmount[gte]=500.
var filterOps = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"in":  "in",
}

// StudentFilterFields whitelists the student fields clients may filter or
// sort on, mapped to their columns. Unknown keys are dropped, which keeps
// raw request keys out of the SQL.
var StudentFilterFields = map[string]string{
	"class":          "class",
	"section":        "section",
	"gender":         "gender",
	"status":         "status",
	"rollNumber":     "roll_number",
	"city":           "city",
	"state":          "state",
	"admissionDate":  "admission_date",
	"fee.balance":    "fee_balance",
	"fee.totalFee":   "fee_total_fee",
	"fee.paidAmount": "fee_paid_amount",
	"createdAt":      "created_at",
}

// FeeFilterFields is the whitelist for the fee payment collection.
var FeeFilterFields = map[string]string{
	"student":       "fp.student_id",
	"academicYear":  "fp.academic_year",
	"paymentMode":   "fp.payment_mode",
	"receiptNumber": "fp.receipt_number",
	"paymentDate":   "fp.payment_date",
	"totalAmount":   "fp.total_amount",
	"createdAt":     "fp.created_at",
}

// Filter is one whitelisted field condition.
type Filter struct {
	Column string
	Op     string
	Value  string
	Values []string
}

// ListParams is the parsed filter/sort/pagination state of a list request.
type ListParams struct {
	Filters    []Filter
	Search     string
	FeeStatus  string
	SortByFees string
	SortBy     []string
	Page       int
	Limit      int
}

// ParseListParams extracts reserved keys from the raw query map and turns
// the remaining whitelisted keys into typed filters. Bracket syntax selects
// a comparison operator (`admissionDate[gte]=2024-04-01`); `in` takes a
// comma-separated list.
func ParseListParams(query map[string]string, whitelist map[string]string) ListParams {
	params := ListParams{
		Page:  1,
		Limit: DefaultPageLimit,
	}

	for key, value := range query {
		switch key {
		case "page":
			if n := atoi(value); n > 0 {
				params.Page = n
			}
			continue
		case "limit", "_limit":
			if n := atoi(value); n > 0 {
				params.Limit = n
			}
			continue
		case "search", "q":
			if params.Search == "" {
				params.Search = strings.TrimSpace(value)
			}
			continue
		case "feeStatus":
			params.FeeStatus = value
			continue
		case "sortByFees":
			params.SortByFees = strings.ToLower(value)
			continue
		case "sort", "_sort":
			for _, field := range strings.Split(value, ",") {
				if field = strings.TrimSpace(field); field != "" {
					params.SortBy = append(params.SortBy, field)
				}
			}
			continue
		}
		if reservedParams[key] {
			continue
		}

		field, op := splitFilterKey(key)
		column, ok := whitelist[field]
		if !ok {
			continue
		}
		if op == "in" {
			params.Filters = append(params.Filters, Filter{Column: column, Op: op, Values: strings.Split(value, ",")})
		} else {
			params.Filters = append(params.Filters, Filter{Column: column, Op: op, Value: value})
		}
	}

	return params
}

// splitFilterKey splits "field[op]" into field and SQL operator; a bare key
// means equality.
func splitFilterKey(key string) (string, string) {
	open := strings.Index(key, "[")
	if open == -1 || !strings.HasSuffix(key, "]") {
		return key, "="
	}
	field := key[:open]
	if op, ok := filterOps[key[open+1:len(key)-1]]; ok {
		return field, op
	}
	return key, "="
}

// whereClause renders the filters into an AND-joined condition list with
// positional placeholders continuing from argIndex.
func (p ListParams) whereClause(argIndex int) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	for _, f := range p.Filters {
		if f.Op == "in" {
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", f.Column, argIndex))
			args = append(args, pq.Array(f.Values))
		} else {
			conditions = append(conditions, fmt.Sprintf("%s %s $%d", f.Column, f.Op, argIndex))
			args = append(args, f.Value)
		}
		argIndex++
	}

	return conditions, args
}

// orderClause builds the ORDER BY expression. A fee-balance sort wins over
// an explicit sort list, which wins over the newest-first default.
func (p ListParams) orderClause(sortable map[string]string, feeBalanceColumn, defaultOrder string) string {
	if p.SortByFees != "" && feeBalanceColumn != "" {
		dir := "ASC"
		if p.SortByFees == "desc" {
			dir = "DESC"
		}
		return feeBalanceColumn + " " + dir
	}

	var parts []string
	for _, field := range p.SortBy {
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		if column, ok := sortable[field]; ok {
			parts = append(parts, column+" "+dir)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return defaultOrder
}

// Offset returns the row offset for the 1-indexed page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageRef points at an adjacent page in a paginated listing.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination reports whether adjacent pages exist; absent keys mean the
// listing starts or ends here.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// BuildPagination is exact at the boundaries: a page ending precisely at the
// total row count has no next page.
func BuildPagination(page, limit, total int) Pagination {
	var pagination Pagination
	if page*limit < total {
		pagination.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		pagination.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return pagination
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
