package databases

import "go.mongodb.org/mongo-driver/mongo/options"

// mongoPaginate turns a zero based page and a page size into find options. A page size
// outside 1..MaxCaseLimit is clamped, negative pages become the first page.
type mongoPaginate struct {
	limit int64
	page  int64
}

func newMongoPaginate(limit, page int) *mongoPaginate {
	if limit <= 0 {
		limit = DefaultCaseLimit
	}
	if limit > MaxCaseLimit {
		limit = MaxCaseLimit
	}
	if page < 0 {
		page = 0
	}
	return &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page * mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}
