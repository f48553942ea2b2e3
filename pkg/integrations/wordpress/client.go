package wordpress

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/presspub/pkg/buildinfo"
	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations"
)

// DefaultUploadsPath is where WordPress stores uploaded media by default.
const DefaultUploadsPath = "/wp-content/uploads"

// Client publishes to one WordPress site.
//
// Requests are sent one at a time. All methods are safe to call from
// multiple goroutines, but nothing coordinates concurrent resolutions of
// the same name.
type Client struct {
	*integrations.Client
	host        string
	uploadsPath string
	logger      *log.Logger
	resolver    *Resolver
}

// Option configures a Client.
type Option func(*options)

type options struct {
	transport   integrations.Config
	perPage     int
	uploadsPath string
	logger      *log.Logger
}

// WithLogger sets the logger used for resolution progress and warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTransport replaces the default transport settings.
func WithTransport(cfg integrations.Config) Option {
	return func(o *options) { o.transport = cfg }
}

// WithPerPage sets the taxonomy search page size (1..100).
func WithPerPage(n int) Option {
	return func(o *options) { o.perPage = n }
}

// WithUploadsPath sets the site-relative uploads directory used by
// [Client.UploadedMediaURL].
func WithUploadsPath(p string) Option {
	return func(o *options) { o.uploadsPath = p }
}

// NewClient creates a client for host authenticated with a JWT token.
// host is the site root, e.g. "https://www.crifan.org".
func NewClient(host, token string, opts ...Option) (*Client, error) {
	if err := perrors.ValidateURL(host); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid host")
	}
	if strings.TrimSpace(token) == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "token is required")
	}

	o := options{
		transport:   integrations.DefaultConfig(),
		perPage:     DefaultPerPage,
		uploadsPath: DefaultUploadsPath,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        "application/json",
		"User-Agent":    buildinfo.UserAgent(),
	}
	base, err := integrations.NewClient(o.transport, headers)
	if err != nil {
		return nil, err
	}

	c := &Client{
		Client:      base,
		host:        strings.TrimRight(host, "/"),
		uploadsPath: "/" + strings.Trim(o.uploadsPath, "/"),
		logger:      o.logger,
	}
	c.resolver = NewResolver(c, o.perPage, o.logger)
	return c, nil
}

// Host returns the site root the client talks to.
func (c *Client) Host() string { return c.host }

// Resolver returns the client's taxonomy resolver.
func (c *Client) Resolver() *Resolver { return c.resolver }

func (c *Client) endpoint(p string) string {
	return integrations.JoinURL(c.host, p)
}

// ValidateToken asks the jwt-auth plugin whether the token is valid.
//
// It returns true only when the answer is OK and its code is
// [TokenValidCode]. A rejected token yields false with the response
// detail and a nil error.
func (c *Client) ValidateToken(ctx context.Context) (bool, *Result, error) {
	resp, err := c.Post(ctx, c.endpoint(pathValidateToken), nil, nil)
	if err != nil {
		return false, nil, err
	}
	res, err := normalizeResponse(resp)
	if err != nil {
		return false, nil, err
	}
	if !res.OK {
		return false, res, nil
	}
	g, _ := res.Payload.(Generic)
	return g.Code() == TokenValidCode, res, nil
}

// TokenError interprets r as a token validation answer. It returns nil for
// a valid token and a TOKEN_INVALID error otherwise.
func (r *Result) TokenError() error {
	if r == nil {
		return perrors.New(perrors.ErrCodeTokenInvalid, "no validation response")
	}
	if !r.OK {
		if detail, _ := r.Payload.(ErrorDetail); detail.Code() == TokenInvalidCode {
			return perrors.Wrap(perrors.ErrCodeTokenInvalid, r.Err(), "token is invalid or expired")
		}
		return perrors.Wrap(perrors.ErrCodeTokenInvalid, r.Err(), "token rejected")
	}
	g, _ := r.Payload.(Generic)
	if g.Code() != TokenValidCode {
		return perrors.New(perrors.ErrCodeTokenInvalid, "token validation returned code %q", g.Code())
	}
	return nil
}

// CreateMedia uploads data as a media attachment.
//
// An empty filename is replaced by a random UUID plus an extension derived
// from contentType.
func (c *Client) CreateMedia(ctx context.Context, contentType, filename string, data []byte) (*Result, error) {
	if err := perrors.ValidateContentType(contentType); err != nil {
		return nil, err
	}
	if filename == "" {
		filename = uuid.NewString() + extensionFor(contentType)
	}
	if err := perrors.ValidateFilename(filename); err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Content-Type":        contentType,
		"Content-Disposition": "attachment; filename=" + filename,
	}
	resp, err := c.Post(ctx, c.endpoint(pathMedia), headers, data)
	if err != nil {
		return nil, err
	}
	return normalizeResponse(resp)
}

// CreatePost resolves the category and tag names of req to ids and creates
// the post. Names that cannot be resolved are logged and left out.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (*Result, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "post title is required")
	}

	payload := postPayload{
		Title:      req.Title,
		Content:    req.Content,
		Date:       req.Date,
		Slug:       req.Slug,
		Status:     req.Status,
		Format:     req.Format,
		Categories: []int64{},
		Tags:       []int64{},
	}
	if payload.Status == "" {
		payload.Status = DefaultStatus
	}
	if payload.Format == "" {
		payload.Format = DefaultFormat
	}
	if len(req.Categories) > 0 {
		payload.Categories = c.resolver.ResolveAllToIDs(ctx, req.Categories, Category)
	}
	if len(req.Tags) > 0 {
		payload.Tags = c.resolver.ResolveAllToIDs(ctx, req.Tags, Tag)
	}

	resp, err := c.PostJSON(ctx, c.endpoint(pathPosts), nil, payload)
	if err != nil {
		return nil, err
	}
	return normalizeResponse(resp)
}

// CreateTaxonomy creates a category or tag. Parent is sent for categories
// only, and only when non-zero.
func (c *Client) CreateTaxonomy(ctx context.Context, in TaxonomyInput) (*Result, error) {
	if err := perrors.ValidateTaxonomyName(in.Name); err != nil {
		return nil, err
	}

	body := map[string]any{"name": in.Name}
	if in.Slug != "" {
		body["slug"] = in.Slug
	}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if in.Kind == Category && in.Parent != 0 {
		body["parent"] = in.Parent
	}

	resp, err := c.PostJSON(ctx, c.endpoint(in.Kind.path()), nil, body)
	if err != nil {
		return nil, err
	}
	return normalizeResponse(resp)
}

// SearchTaxonomyPage fetches one page of GET /categories or /tags filtered
// by search. page is 1-based.
func (c *Client) SearchTaxonomyPage(ctx context.Context, name string, kind TaxonomyKind, page, perPage int) (*Result, error) {
	query := url.Values{}
	query.Set("search", name)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.Get(ctx, c.endpoint(kind.path()), query, nil)
	if err != nil {
		return nil, err
	}
	return normalizeResponse(resp)
}

// FetchAllTaxonomies returns every search hit for name across all pages.
func (c *Client) FetchAllTaxonomies(ctx context.Context, name string, kind TaxonomyKind) (*Result, error) {
	return c.resolver.fetcher.FetchAll(ctx, name, kind)
}

// SearchTaxonomy returns the term matching name, or nil when none exists.
func (c *Client) SearchTaxonomy(ctx context.Context, name string, kind TaxonomyKind) (*TaxonomyRecord, error) {
	return c.resolver.Find(ctx, name, kind)
}

// ResolveTaxonomyIDs maps names to ids, creating missing terms. Names that
// fail are left out of the result.
func (c *Client) ResolveTaxonomyIDs(ctx context.Context, names []string, kind TaxonomyKind) []int64 {
	return c.resolver.ResolveAllToIDs(ctx, names, kind)
}

// ResolveTaxonomies maps names to per-name results, creating missing terms.
func (c *Client) ResolveTaxonomies(ctx context.Context, names []string, kind TaxonomyKind) []Resolution {
	return c.resolver.ResolveAll(ctx, names, kind)
}

// UploadedMediaURL returns where WordPress stores a file uploaded at t:
// <host><uploads>/YYYY/MM/<filename>.
func (c *Client) UploadedMediaURL(filename string, t time.Time) string {
	return c.host + path.Join(c.uploadsPath, fmt.Sprintf("%04d/%02d", t.Year(), int(t.Month())), filename)
}

// Slug is [GenerateSlug] with a warning when the result has no word
// characters.
func (c *Client) Slug(title string) string {
	return GenerateSlugWithLogger(c.logger, title)
}

var mediaExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"image/bmp":       ".bmp",
	"video/mp4":       ".mp4",
	"audio/mpeg":      ".mp3",
	"application/pdf": ".pdf",
}

func extensionFor(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := mediaExtensions[mt]; ok {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(mt); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
