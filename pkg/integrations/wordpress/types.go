package wordpress

import (
	"strings"
	"time"

	perrors "github.com/matzehuels/presspub/pkg/errors"
)

// REST endpoints relative to the site host.
const (
	pathValidateToken = "/wp-json/jwt-auth/v1/token/validate"
	pathMedia         = "/wp-json/wp/v2/media"
	pathPosts         = "/wp-json/wp/v2/posts"
	pathCategories    = "/wp-json/wp/v2/categories"
	pathTags          = "/wp-json/wp/v2/tags"
)

// JWT validation codes returned by the jwt-auth plugin.
const (
	TokenValidCode   = "jwt_auth_valid_token"
	TokenInvalidCode = "jwt_auth_invalid_token"
)

// Post defaults.
const (
	DefaultStatus = "draft"
	DefaultFormat = "standard"
)

// DateLayout is the local-time layout WordPress accepts for post dates.
const DateLayout = "2006-01-02T15:04:05"

// FormatDate formats t for [PostRequest.Date].
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// TaxonomyKind selects the category or tag collection.
type TaxonomyKind int

const (
	Category TaxonomyKind = iota
	Tag
)

// String returns the WordPress taxonomy name: "category" or "post_tag".
func (k TaxonomyKind) String() string {
	if k == Tag {
		return "post_tag"
	}
	return "category"
}

func (k TaxonomyKind) path() string {
	if k == Tag {
		return pathTags
	}
	return pathCategories
}

// ParseTaxonomyKind accepts "category", "categories", "tag", "tags", or
// "post_tag", case-insensitively.
func ParseTaxonomyKind(s string) (TaxonomyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "categories":
		return Category, nil
	case "tag", "tags", "post_tag":
		return Tag, nil
	}
	return Category, perrors.New(perrors.ErrCodeInvalidInput, "unknown taxonomy %q (want category or tag)", s)
}

// TaxonomyRecord is a category or tag as returned by search or creation.
// Parent is nil for tags.
type TaxonomyRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Parent      *int64 `json:"parent,omitempty"`
	Taxonomy    string `json:"taxonomy,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// TaxonomyInput is the body of a category or tag creation request.
// Parent is sent for categories only, and only when non-zero.
type TaxonomyInput struct {
	Kind        TaxonomyKind
	Name        string
	Slug        string
	Description string
	Parent      int64
}

// PostRequest describes a post to create. Category and tag names are
// resolved to ids before the post is sent; empty lists are not resolved.
type PostRequest struct {
	Title      string
	Content    string // HTML
	Date       string // e.g. "2020-08-17T10:16:34", no timezone suffix required
	Slug       string
	Categories []string
	Tags       []string
	Status     string // default "draft"
	Format     string // default "standard"
}

type postPayload struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Date       string  `json:"date,omitempty"`
	Slug       string  `json:"slug,omitempty"`
	Status     string  `json:"status"`
	Format     string  `json:"format"`
	Categories []int64 `json:"categories"`
	Tags       []int64 `json:"tags"`
}
