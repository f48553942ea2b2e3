package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/observability"
)

// fakeTerms is an in-memory taxonomy API.
type fakeTerms struct {
	terms      map[TaxonomyKind][]TaxonomyRecord
	nextID     int64
	searches   []string
	creates    []TaxonomyInput
	failSearch map[string]int // name -> status
	failCreate map[string]int // name -> status
	createNoID bool
}

func newFakeTerms() *fakeTerms {
	return &fakeTerms{
		terms:      map[TaxonomyKind][]TaxonomyRecord{},
		nextID:     13000,
		failSearch: map[string]int{},
		failCreate: map[string]int{},
	}
}

func (f *fakeTerms) add(kind TaxonomyKind, id int64, name string) {
	f.terms[kind] = append(f.terms[kind], TaxonomyRecord{ID: id, Name: name, Slug: strings.ToLower(name)})
}

func (f *fakeTerms) SearchTaxonomyPage(_ context.Context, name string, kind TaxonomyKind, page, perPage int) (*Result, error) {
	f.searches = append(f.searches, name)
	if status, ok := f.failSearch[name]; ok {
		return failure(status), nil
	}
	var hits List
	for _, t := range f.terms[kind] {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(name)) {
			raw, _ := json.Marshal(t)
			hits = append(hits, raw)
		}
	}
	start := (page - 1) * perPage
	if start >= len(hits) {
		return &Result{OK: true, Payload: List{}}, nil
	}
	end := min(start+perPage, len(hits))
	return &Result{OK: true, Payload: hits[start:end]}, nil
}

func (f *fakeTerms) CreateTaxonomy(_ context.Context, in TaxonomyInput) (*Result, error) {
	f.creates = append(f.creates, in)
	if status, ok := f.failCreate[in.Name]; ok {
		return failure(status), nil
	}
	if f.createNoID {
		return &Result{OK: true, Payload: Generic{"code": "weird"}}, nil
	}
	f.nextID++
	f.add(in.Kind, f.nextID, in.Name)
	return &Result{OK: true, Payload: Taxonomy{Entity: Entity{ID: f.nextID}, Name: in.Name}}, nil
}

type recordedHooks struct {
	resolved []string
	failed   []string
}

func (h *recordedHooks) OnResolved(_ context.Context, kind, name string, _ int64, created bool) {
	if created {
		name += "+"
	}
	h.resolved = append(h.resolved, kind+":"+name)
}

func (h *recordedHooks) OnFailed(_ context.Context, kind, name string, _ error) {
	h.failed = append(h.failed, kind+":"+name)
}

func TestResolveAllToIDsExistingAndMissing(t *testing.T) {
	api := newFakeTerms()
	api.add(Category, 1639, "Cocoa")
	api.add(Category, 1374, "Mac")

	r := NewResolver(api, 100, nil)
	ids := r.ResolveAllToIDs(context.Background(), []string{"Mac", "GPU"}, Category)

	if len(ids) != 2 || ids[0] != 1374 || ids[1] != 13001 {
		t.Fatalf("ids = %v, want [1374 13001]", ids)
	}
	if len(api.creates) != 1 || api.creates[0].Name != "GPU" || api.creates[0].Kind != Category {
		t.Errorf("creates = %+v, want exactly one for GPU", api.creates)
	}
	if strings.Join(api.searches, ",") != "Mac,GPU" {
		t.Errorf("searches = %v, want one per name", api.searches)
	}
}

func TestResolvePrefersExactCase(t *testing.T) {
	api := newFakeTerms()
	api.add(Tag, 1, "mac")
	api.add(Tag, 2, "Mac")

	id, err := NewResolver(api, 100, nil).ResolveToID(context.Background(), "Mac", Tag)
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Errorf("id = %d, want 2", id)
	}
	if len(api.creates) != 0 {
		t.Errorf("creates = %+v, want none", api.creates)
	}
}

func TestResolveCaseInsensitiveFallback(t *testing.T) {
	api := newFakeTerms()
	api.add(Category, 1639, "Cocoa")
	api.add(Category, 1374, "Mac")

	id, err := NewResolver(api, 100, nil).ResolveToID(context.Background(), "mac", Category)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1374 {
		t.Errorf("id = %d, want 1374", id)
	}
}

func TestResolveSearchesEveryPage(t *testing.T) {
	api := newFakeTerms()
	for i := int64(1); i <= 5; i++ {
		api.add(Tag, i, "go-"+strings.Repeat("x", int(i)))
	}
	api.add(Tag, 99, "go")

	id, err := NewResolver(api, 2, nil).ResolveToID(context.Background(), "go", Tag)
	if err != nil {
		t.Fatal(err)
	}
	if id != 99 {
		t.Errorf("id = %d, want 99", id)
	}
	// 6 hits at 2 per page: pages 1..3 full, page 4 empty.
	if len(api.searches) != 4 {
		t.Errorf("search requests = %d, want 4", len(api.searches))
	}
}

func TestResolveSearchFailureSkipsCreate(t *testing.T) {
	api := newFakeTerms()
	api.failSearch["GPU"] = 500

	_, err := NewResolver(api, 100, nil).ResolveToID(context.Background(), "GPU", Tag)
	if !perrors.Is(err, perrors.ErrCodeResolutionFailed) {
		t.Errorf("err = %v, want RESOLUTION_FAILED", err)
	}
	if len(api.creates) != 0 {
		t.Errorf("creates = %+v, want none after failed search", api.creates)
	}
}

func TestResolveCreateFailure(t *testing.T) {
	api := newFakeTerms()
	api.failCreate["GPU"] = 400

	res := NewResolver(api, 100, nil).Resolve(context.Background(), TaxonomyInput{Kind: Tag, Name: "GPU"})
	if res.OK() {
		t.Fatalf("Resolve() = %+v, want failure", res)
	}
	if !strings.Contains(res.Err.Error(), "status 400") {
		t.Errorf("err = %v, want status detail", res.Err)
	}
}

func TestResolveCreateWithoutID(t *testing.T) {
	api := newFakeTerms()
	api.createNoID = true

	_, err := NewResolver(api, 100, nil).ResolveToID(context.Background(), "GPU", Tag)
	if !perrors.Is(err, perrors.ErrCodeResolutionFailed) {
		t.Errorf("err = %v, want RESOLUTION_FAILED", err)
	}
}

func TestResolveInvalidNameMakesNoCalls(t *testing.T) {
	api := newFakeTerms()
	_, err := NewResolver(api, 100, nil).ResolveToID(context.Background(), "   ", Category)
	if !perrors.Is(err, perrors.ErrCodeResolutionFailed) {
		t.Errorf("err = %v, want RESOLUTION_FAILED", err)
	}
	if len(api.searches)+len(api.creates) != 0 {
		t.Error("invalid name should not reach the remote site")
	}
}

func TestResolvePassesCreateFields(t *testing.T) {
	api := newFakeTerms()
	in := TaxonomyInput{Kind: Category, Name: "Cocoa", Slug: "cocoa-mac", Description: "Apple APIs", Parent: 1374}

	res := NewResolver(api, 100, nil).Resolve(context.Background(), in)
	if !res.OK() || !res.Created {
		t.Fatalf("Resolve() = %+v", res)
	}
	if api.creates[0] != in {
		t.Errorf("create input = %+v, want %+v", api.creates[0], in)
	}
}

func TestResolveAllContinuesPastFailures(t *testing.T) {
	api := newFakeTerms()
	api.add(Tag, 7, "Go")
	api.failSearch["broken"] = 503

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	r := NewResolver(api, 100, logger)

	results := r.ResolveAll(context.Background(), []string{"broken", "Go", "Rust"}, Tag)
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].OK() || !results[1].OK() || !results[2].OK() {
		t.Errorf("results = %+v", results)
	}
	if results[1].Created || !results[2].Created {
		t.Errorf("Created flags = %v, %v", results[1].Created, results[2].Created)
	}

	ids := r.ResolveAllToIDs(context.Background(), []string{"broken", "Go"}, Tag)
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("ids = %v, want [7]", ids)
	}

	out := buf.String()
	for _, want := range []string{"[1/3]", "[2/3]", "[3/3]"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveAllEmpty(t *testing.T) {
	api := newFakeTerms()
	ids := NewResolver(api, 100, nil).ResolveAllToIDs(context.Background(), nil, Category)
	if len(ids) != 0 {
		t.Errorf("ids = %v", ids)
	}
	if len(api.searches) != 0 {
		t.Error("empty input should not search")
	}
}

func TestResolveHooks(t *testing.T) {
	hooks := &recordedHooks{}
	observability.SetTaxonomyHooks(hooks)
	defer observability.Reset()

	api := newFakeTerms()
	api.add(Category, 1374, "Mac")
	api.failSearch["bad"] = 500

	NewResolver(api, 100, nil).ResolveAll(context.Background(), []string{"Mac", "GPU", "bad"}, Category)

	if got := strings.Join(hooks.resolved, ","); got != "category:Mac,category:GPU+" {
		t.Errorf("resolved = %s", got)
	}
	if got := strings.Join(hooks.failed, ","); got != "category:bad" {
		t.Errorf("failed = %s", got)
	}
}
