package wordpress

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/observability"
)

// taxonomyAPI is the remote surface the resolver needs.
type taxonomyAPI interface {
	pageSearcher
	CreateTaxonomy(ctx context.Context, in TaxonomyInput) (*Result, error)
}

// Resolution is the outcome for one name.
type Resolution struct {
	Name    string
	ID      int64
	Created bool  // true when the term was created by this call
	Err     error // RESOLUTION_FAILED when the name could not be resolved
}

// OK reports whether the name was mapped to an id.
func (r Resolution) OK() bool { return r.Err == nil }

// Resolver maps category and tag names to ids, creating missing terms.
//
// Every call searches the remote site again. Nothing is cached between
// calls, so resolving the same name twice issues two searches.
type Resolver struct {
	api     taxonomyAPI
	fetcher *Fetcher
	logger  *log.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(api taxonomyAPI, perPage int, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		api:     api,
		fetcher: NewFetcher(api, perPage),
		logger:  logger,
	}
}

// Find searches all pages for name and returns the best match, or nil.
func (r *Resolver) Find(ctx context.Context, name string, kind TaxonomyKind) (*TaxonomyRecord, error) {
	records, err := r.fetcher.FetchRecords(ctx, name, kind)
	if err != nil {
		return nil, err
	}
	return FindMatch(name, records), nil
}

// Resolve returns the id of the term named in.Name, creating it with the
// remaining fields of in when no match exists.
func (r *Resolver) Resolve(ctx context.Context, in TaxonomyInput) Resolution {
	res := Resolution{Name: in.Name}
	if err := perrors.ValidateTaxonomyName(in.Name); err != nil {
		res.Err = r.fail(ctx, in, err, "invalid %s name", in.Kind)
		return res
	}

	found, err := r.Find(ctx, in.Name, in.Kind)
	if err != nil {
		res.Err = r.fail(ctx, in, err, "search %s %q", in.Kind, in.Name)
		return res
	}
	if found != nil {
		r.logger.Debug("found existing term", "kind", in.Kind, "name", in.Name, "id", found.ID, "matched", found.Name)
		res.ID = found.ID
		observability.Taxonomy().OnResolved(ctx, in.Kind.String(), in.Name, res.ID, false)
		return res
	}

	created, err := r.api.CreateTaxonomy(ctx, in)
	if err == nil {
		err = created.Err()
	}
	if err != nil {
		res.Err = r.fail(ctx, in, err, "create %s %q", in.Kind, in.Name)
		return res
	}
	id, ok := created.ID()
	if !ok {
		res.Err = r.fail(ctx, in, nil, "create %s %q: response has no id", in.Kind, in.Name)
		return res
	}

	r.logger.Debug("created term", "kind", in.Kind, "name", in.Name, "id", id)
	res.ID, res.Created = id, true
	observability.Taxonomy().OnResolved(ctx, in.Kind.String(), in.Name, id, true)
	return res
}

// ResolveToID is Resolve for a bare name.
func (r *Resolver) ResolveToID(ctx context.Context, name string, kind TaxonomyKind) (int64, error) {
	res := r.Resolve(ctx, TaxonomyInput{Kind: kind, Name: name})
	return res.ID, res.Err
}

// ResolveAll resolves names one after another, in order. A failure for one
// name is recorded in its Resolution and does not stop the rest.
func (r *Resolver) ResolveAll(ctx context.Context, names []string, kind TaxonomyKind) []Resolution {
	out := make([]Resolution, 0, len(names))
	for i, name := range names {
		res := r.Resolve(ctx, TaxonomyInput{Kind: kind, Name: name})
		if res.OK() {
			r.logger.Infof("[%d/%d] %s %q -> %d", i+1, len(names), kind, name, res.ID)
		} else {
			r.logger.Errorf("[%d/%d] %s %q: %v", i+1, len(names), kind, name, res.Err)
		}
		out = append(out, res)
	}
	return out
}

// ResolveAllToIDs returns the ids of the names that could be resolved, in
// input order. Names that fail are logged and left out, so the result may
// be shorter than names; use [Resolver.ResolveAll] to keep the alignment.
func (r *Resolver) ResolveAllToIDs(ctx context.Context, names []string, kind TaxonomyKind) []int64 {
	ids := make([]int64, 0, len(names))
	for _, res := range r.ResolveAll(ctx, names, kind) {
		if res.OK() {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

func (r *Resolver) fail(ctx context.Context, in TaxonomyInput, cause error, format string, args ...any) error {
	var err error
	if cause != nil {
		err = perrors.Wrap(perrors.ErrCodeResolutionFailed, cause, format, args...)
	} else {
		err = perrors.New(perrors.ErrCodeResolutionFailed, format, args...)
	}
	observability.Taxonomy().OnFailed(ctx, in.Kind.String(), in.Name, err)
	return err
}
