package ledger

import (
	"net/url"
	"strconv"
	"time"

	"farmledger/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Query is a resolved list request: a filter plus the page window.
type Query struct {
	Filter Filter
	Limit  int64
	Skip   int64
}

// ValuesToParams flattens query-string values to their first occurrence.
func ValuesToParams(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}

// CropQuery builds the crop listing query. Recognized params: status, season,
// limit, skip.
func CropQuery(owner string, params map[string]string) Query {
	f := OwnedBy(owner)
	if s := params["status"]; s != "" {
		f = f.Where("status", s)
	}
	if s := params["season"]; s != "" {
		f = f.Where("season", s)
	}
	return Query{Filter: f, Limit: parseLimit(params["limit"]), Skip: parseSkip(params["skip"])}
}

// ResourceQuery builds the resource listing query. Recognized params:
// resourceType, cropReference, startDate, endDate, limit, skip.
func ResourceQuery(owner string, params map[string]string) Query {
	f := OwnedBy(owner)
	if s := params["resourceType"]; s != "" {
		f = f.Where("resourceType", s)
	}
	if s := params["cropReference"]; s != "" {
		// A non-hex reference can never match a stored ObjectID; keep it as a
		// string so the result is empty instead of unfiltered.
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			f = f.Where("cropReference", oid)
		} else {
			f = f.Where("cropReference", s)
		}
	}
	f = f.Between("transactionDate", parseBound(params["startDate"]), parseBound(params["endDate"]))
	return Query{Filter: f, Limit: parseLimit(params["limit"]), Skip: parseSkip(params["skip"])}
}

func parseLimit(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	return min(n, MaxLimit)
}

func parseSkip(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseBound(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil
	}
	t := d.Time
	return &t
}
