package helpers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type mongoPaginate struct {
	limit int64
	skip  int64
	sort  bson.D
}

func NewMongoPaginate(page store.Page, sort bson.D) *mongoPaginate {
	if sort == nil {
		sort = bson.D{}
	}
	return &mongoPaginate{
		limit: page.Limit,
		skip:  page.Skip(),
		sort:  sort,
	}
}

func (mp *mongoPaginate) BuildFindOptions() *options.FindOptions {
	opts := options.Find().SetSkip(mp.skip).SetSort(mp.sort)
	if mp.limit > 0 {
		opts.SetLimit(mp.limit)
	}
	return opts
}

// Pagination is the block returned next to paginated data.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
	Total int64 `json:"total"`
}

func NewPagination(page store.Page, total int64) Pagination {
	pages := int64(0)
	if page.Limit > 0 {
		pages = int64(math.Ceil(float64(total) / float64(page.Limit)))
	}
	return Pagination{Page: page.Page, Limit: page.Limit, Pages: pages, Total: total}
}

// PageFromRequest reads page and limit query parameters, falling back to
// page 1 and DefaultLimit and capping limit at MaxLimit.
func PageFromRequest(r *http.Request) store.Page {
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return store.Page{Page: page, Limit: limit}
}
