package wordpress

import (
	"context"

	perrors "github.com/matzehuels/presspub/pkg/errors"
)

// DefaultPerPage is the page size used for taxonomy searches. It is the
// largest value the REST API accepts.
const DefaultPerPage = 100

// pageSearcher fetches one page of a taxonomy search.
type pageSearcher interface {
	SearchTaxonomyPage(ctx context.Context, name string, kind TaxonomyKind, page, perPage int) (*Result, error)
}

// Fetcher walks every page of a taxonomy search.
type Fetcher struct {
	searcher pageSearcher
	perPage  int
}

// NewFetcher creates a Fetcher. A perPage outside 1..100 falls back to
// [DefaultPerPage].
func NewFetcher(searcher pageSearcher, perPage int) *Fetcher {
	if perPage < 1 || perPage > DefaultPerPage {
		perPage = DefaultPerPage
	}
	return &Fetcher{searcher: searcher, perPage: perPage}
}

// PerPage returns the page size in use.
func (f *Fetcher) PerPage() int { return f.perPage }

// FetchAll requests pages 1, 2, ... until a page shorter than the page size
// arrives, and returns the concatenation as a [List].
//
// A page that comes back as a failure result is returned as-is and the
// pages gathered before it are dropped. A page whose payload is not a list
// yields a MALFORMED_RESPONSE error.
func (f *Fetcher) FetchAll(ctx context.Context, name string, kind TaxonomyKind) (*Result, error) {
	all := List{}
	for page := 1; ; page++ {
		res, err := f.searcher.SearchTaxonomyPage(ctx, name, kind, page, f.perPage)
		if err != nil {
			return nil, err
		}
		if !res.OK {
			return res, nil
		}
		items, ok := res.Payload.(List)
		if !ok {
			return nil, perrors.New(perrors.ErrCodeMalformedResponse,
				"search %s %q page %d: expected a list, got %T", kind, name, page, res.Payload)
		}
		all = append(all, items...)
		if len(items) < f.perPage {
			return &Result{OK: true, Payload: all}, nil
		}
	}
}

// FetchRecords is FetchAll followed by decoding into records. A failure
// result is converted into an error.
func (f *Fetcher) FetchRecords(ctx context.Context, name string, kind TaxonomyKind) ([]TaxonomyRecord, error) {
	res, err := f.FetchAll(ctx, name, kind)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, res.Err()
	}
	return res.Payload.(List).Records()
}
