// Package wptest provides an in-memory WordPress REST server for tests.
//
// It implements the subset of endpoints the wordpress client uses: JWT
// token validation, media upload, post creation, and category and tag
// search and creation. Terms are kept in insertion order and searched by
// case-insensitive substring, like WordPress does.
//
//	srv := wptest.NewServer()
//	defer srv.Close()
//	srv.AddTerm(wptest.Categories, "Mac", 0)
//	client, _ := wordpress.NewClient(srv.URL, srv.Token)
package wptest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Taxonomy collections.
const (
	Categories = "categories"
	Tags       = "tags"
)

// DefaultToken is the token accepted by a new Server.
const DefaultToken = "test-jwt-token"

const maxPerPage = 100

// Term is a stored category or tag.
type Term struct {
	ID          int64  `json:"id"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Parent      *int64 `json:"parent,omitempty"`
}

// Post is a stored post as sent by the client. Keys lists the JSON keys of
// the request body.
type Post struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Date       string   `json:"date"`
	Slug       string   `json:"slug"`
	Status     string   `json:"status"`
	Format     string   `json:"format"`
	Categories []int64  `json:"categories"`
	Tags       []int64  `json:"tags"`
	Keys       []string `json:"-"`
}

// Upload is a stored media file.
type Upload struct {
	ID          int64
	Filename    string
	ContentType string
	Data        []byte
}

type injected struct {
	status int
	body   string
	times  int
}

// Server is a fake WordPress site.
type Server struct {
	*httptest.Server

	// Token is the bearer token the server accepts.
	Token string

	mu       sync.Mutex
	nextID   int64
	terms    map[string][]Term
	posts    []Post
	uploads  []Upload
	calls    map[string]int
	failures map[string]*injected
	now      func() time.Time
}

// NewServer starts a fake site accepting [DefaultToken].
// The caller must Close it.
func NewServer() *Server {
	s := &Server{
		Token:    DefaultToken,
		nextID:   100,
		terms:    map[string][]Term{Categories: {}, Tags: {}},
		calls:    map[string]int{},
		failures: map[string]*injected{},
		now:      time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.inject)

	r.Post("/wp-json/jwt-auth/v1/token/validate", s.validateToken)
	r.Route("/wp-json/wp/v2", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/media", s.createMedia)
		r.Post("/posts", s.createPost)
		for _, taxonomy := range []string{Categories, Tags} {
			r.Get("/"+taxonomy, s.listTerms(taxonomy))
			r.Post("/"+taxonomy, s.createTerm(taxonomy))
		}
	})
	return r
}

// =============================================================================
// Fixtures and inspection
// =============================================================================

// AddTerm stores a term and returns it. parent is ignored for tags.
func (s *Server) AddTerm(taxonomy, name string, parent int64) Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTermLocked(taxonomy, name, "", "", parent)
}

// AddTerms stores count terms named prefix-1, prefix-2, ...
func (s *Server) AddTerms(taxonomy, prefix string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 1; i <= count; i++ {
		s.addTermLocked(taxonomy, fmt.Sprintf("%s-%d", prefix, i), "", "", 0)
	}
}

// Terms returns a copy of the stored terms of a taxonomy.
func (s *Server) Terms(taxonomy string) []Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Term(nil), s.terms[taxonomy]...)
}

// Posts returns a copy of the created posts.
func (s *Server) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Post(nil), s.posts...)
}

// Uploads returns a copy of the uploaded media.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Calls returns how many requests hit method and path, e.g.
// Calls("GET", "/wp-json/wp/v2/tags").
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// Fail makes the next times requests to method and path answer status
// with body. times <= 0 fails every request.
func (s *Server) Fail(method, path string, status int, body string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = &injected{status: status, body: body, times: times}
}

// SetClock fixes the time used for media upload paths.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		f := s.failures[key]
		if f != nil && f.times > 0 {
			f.times--
			if f.times == 0 {
				delete(s.failures, key)
			}
		}
		s.mu.Unlock()

		if f != nil {
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, r, http.StatusUnauthorized, "rest_not_logged_in", "You are not currently logged in.")
			return
		}
		if auth != "Bearer "+s.Token {
			writeError(w, r, http.StatusForbidden, "jwt_auth_invalid_token", "Signature verification failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) validateToken(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+s.Token {
		writeError(w, r, http.StatusForbidden, "jwt_auth_invalid_token", "Signature verification failed")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"code": "jwt_auth_valid_token",
		"data": map[string]any{"status": http.StatusOK},
	})
}

func (s *Server) listTerms(taxonomy string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveTerms(w, r, taxonomy)
	}
}

func (s *Server) serveTerms(w http.ResponseWriter, r *http.Request, taxonomy string) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil || page < 1 {
		writeError(w, r, http.StatusBadRequest, "rest_invalid_param", "Invalid parameter(s): page")
		return
	}
	perPage, err := intParam(q.Get("per_page"), 10)
	if err != nil || perPage < 1 || perPage > maxPerPage {
		writeError(w, r, http.StatusBadRequest, "rest_invalid_param", "Invalid parameter(s): per_page")
		return
	}
	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	hits := []Term{}
	for _, t := range s.terms[taxonomy] {
		if strings.Contains(strings.ToLower(t.Name), search) {
			hits = append(hits, t)
		}
	}
	s.mu.Unlock()

	start := (page - 1) * perPage
	if start > len(hits) {
		start = len(hits)
	}
	end := min(start+perPage, len(hits))
	writeJSON(w, r, http.StatusOK, hits[start:end])
}

func (s *Server) createTerm(taxonomy string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.storeTerm(w, r, taxonomy)
	}
}

func (s *Server) storeTerm(w http.ResponseWriter, r *http.Request, taxonomy string) {
	var body struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Parent      int64  `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "rest_invalid_json", "Invalid JSON body passed.")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "rest_missing_callback_param", "Missing parameter(s): name")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.terms[taxonomy] {
		if strings.EqualFold(t.Name, body.Name) {
			writeJSON(w, r, http.StatusBadRequest, map[string]any{
				"code":    "term_exists",
				"message": "A term with the name provided already exists with this parent.",
				"data":    map[string]any{"status": http.StatusBadRequest, "term_id": t.ID},
			})
			return
		}
	}
	t := s.addTermLocked(taxonomy, body.Name, body.Slug, body.Description, body.Parent)
	writeJSON(w, r, http.StatusCreated, t)
}

func (s *Server) createMedia(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Disposition"))
	if err != nil || params["filename"] == "" {
		writeError(w, r, http.StatusBadRequest, "rest_upload_no_content_disposition", "No Content-Disposition supplied.")
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		writeError(w, r, http.StatusBadRequest, "rest_upload_no_data", "No data supplied.")
		return
	}
	filename := params["filename"]

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.uploads = append(s.uploads, Upload{
		ID:          id,
		Filename:    filename,
		ContentType: r.Header.Get("Content-Type"),
		Data:        data,
	})
	now := s.now()
	s.mu.Unlock()

	title := strings.TrimSuffix(filename, path.Ext(filename))
	fileURL := fmt.Sprintf("%s/wp-content/uploads/%04d/%02d/%s", s.URL, now.Year(), int(now.Month()), filename)
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"id":     id,
		"guid":   map[string]string{"rendered": fileURL, "raw": fileURL},
		"slug":   strings.ToLower(title),
		"status": "inherit",
		"type":   "attachment",
		"link":   fmt.Sprintf("%s/%s/", s.URL, strings.ToLower(title)),
		"title":  map[string]string{"raw": title, "rendered": title},
	})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "rest_invalid_json", "Invalid JSON body passed.")
		return
	}
	var p Post
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, "rest_invalid_json", "Invalid JSON body passed.")
		return
	}
	_ = json.Unmarshal(raw, &keys)
	for k := range keys {
		p.Keys = append(p.Keys, k)
	}

	s.mu.Lock()
	s.nextID++
	p.ID = s.nextID
	s.posts = append(s.posts, p)
	s.mu.Unlock()

	link := fmt.Sprintf("%s/?p=%d", s.URL, p.ID)
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"id":     p.ID,
		"guid":   map[string]string{"rendered": link, "raw": link},
		"slug":   p.Slug,
		"status": p.Status,
		"type":   "post",
		"link":   link,
		"title":  map[string]string{"raw": p.Title, "rendered": p.Title},
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) addTermLocked(taxonomy, name, slug, description string, parent int64) Term {
	s.nextID++
	if slug == "" {
		slug = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
	}
	t := Term{
		ID:          s.nextID,
		Description: description,
		Name:        name,
		Slug:        slug,
	}
	if taxonomy == Categories {
		t.Taxonomy = "category"
		t.Link = fmt.Sprintf("%s/category/%s/", s.URL, slug)
		t.Parent = &parent
	} else {
		t.Taxonomy = "post_tag"
		t.Link = fmt.Sprintf("%s/tag/%s/", s.URL, slug)
	}
	s.terms[taxonomy] = append(s.terms[taxonomy], t)
	return t
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, map[string]any{
		"code":    code,
		"message": message,
		"data":    map[string]any{"status": status},
	})
}
