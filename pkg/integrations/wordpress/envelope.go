package wordpress

import (
	"bytes"
	"encoding/json"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations"
)

// Result is the uniform outcome of a remote operation.
//
// When OK is false, Payload is always an [ErrorDetail]. When OK is true it is
// one of [Media], [Post], [Taxonomy], [Entity], [Generic], or [List].
type Result struct {
	OK      bool
	Payload Payload
}

// Payload is the closed set of normalized response shapes.
type Payload interface{ isPayload() }

// Entity is the common part of every object carrying an id.
type Entity struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Link string `json:"link"`
}

// Media is an uploaded attachment.
type Media struct {
	Entity
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Post is a created post.
type Post struct {
	Entity
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Taxonomy is a created or fetched category or tag object.
// Parent is set only when the object is a category.
type Taxonomy struct {
	Entity
	Name        string `json:"name"`
	Description string `json:"description"`
	Parent      *int64 `json:"parent,omitempty"`
}

// Generic is an object without an id, such as a token validation answer.
type Generic map[string]any

// Code returns the "code" field, or "" when absent or not a string.
func (g Generic) Code() string {
	s, _ := g["code"].(string)
	return s
}

// List is a JSON array answer, element by element and unmodified.
type List []json.RawMessage

// Records decodes the list as categories or tags.
func (l List) Records() ([]TaxonomyRecord, error) {
	records := make([]TaxonomyRecord, 0, len(l))
	for i, raw := range l {
		var rec TaxonomyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeMalformedResponse, err, "decode taxonomy record %d", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ErrorDetail is the payload of a failed result: the HTTP status and the
// raw response body text.
type ErrorDetail struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Code returns the "code" field of a WordPress JSON error body, or "" when
// the body is not such an object.
func (d ErrorDetail) Code() string {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(d.ErrorMessage), &body); err != nil {
		return ""
	}
	return body.Code
}

func (Entity) isPayload()      {}
func (Media) isPayload()       {}
func (Post) isPayload()        {}
func (Taxonomy) isPayload()    {}
func (Generic) isPayload()     {}
func (List) isPayload()        {}
func (ErrorDetail) isPayload() {}

// ID returns the identifier carried by an object payload.
func (r *Result) ID() (int64, bool) {
	if r == nil || !r.OK {
		return 0, false
	}
	switch p := r.Payload.(type) {
	case Entity:
		return p.ID, true
	case Media:
		return p.ID, true
	case Post:
		return p.ID, true
	case Taxonomy:
		return p.ID, true
	}
	return 0, false
}

// Err converts a failed result into a coded error. It returns nil for
// successful results.
func (r *Result) Err() error {
	if r == nil || r.OK {
		return nil
	}
	detail, _ := r.Payload.(ErrorDetail)
	se := &perrors.StatusError{StatusCode: detail.ErrorCode, Body: detail.ErrorMessage}
	return perrors.Wrap(se.Code(), se, "remote request failed")
}

// Normalize turns an HTTP answer into a [Result].
//
// A non-success answer becomes OK=false with an [ErrorDetail] holding status
// and the raw body. A success answer must be a JSON object or array,
// otherwise a MALFORMED_RESPONSE error is returned. Arrays become [List].
// Objects with an "id" become [Media] or [Post] (by "type"), [Taxonomy]
// (when "taxonomy" is present), or plain [Entity]; objects without an id
// become [Generic].
func Normalize(status int, success bool, body []byte) (*Result, error) {
	if !success {
		return &Result{
			OK:      false,
			Payload: ErrorDetail{ErrorCode: status, ErrorMessage: string(body)},
		}, nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, perrors.New(perrors.ErrCodeMalformedResponse, "status %d: empty response body", status)
	}

	switch trimmed[0] {
	case '[':
		var list List
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, malformed(status, err)
		}
		if list == nil {
			list = List{}
		}
		return &Result{OK: true, Payload: list}, nil
	case '{':
		payload, err := normalizeObject(trimmed)
		if err != nil {
			return nil, malformed(status, err)
		}
		return &Result{OK: true, Payload: payload}, nil
	}
	return nil, perrors.New(perrors.ErrCodeMalformedResponse, "status %d: response is neither a JSON object nor a list", status)
}

func normalizeResponse(resp *integrations.Response) (*Result, error) {
	return Normalize(resp.StatusCode, resp.OK(), resp.Body)
}

func malformed(status int, err error) error {
	return perrors.Wrap(perrors.ErrCodeMalformedResponse, err, "status %d: invalid JSON", status)
}

// rendered accepts both {"rendered": "..."} and a bare string.
type rendered string

func (r *rendered) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = rendered(s)
		return nil
	}
	var obj struct {
		Rendered string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = rendered(obj.Rendered)
	return nil
}

type wireObject struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Link        string   `json:"link"`
	Type        string   `json:"type"`
	GUID        rendered `json:"guid"`
	Title       rendered `json:"title"`
	Taxonomy    *string  `json:"taxonomy"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parent      int64    `json:"parent"`
}

func normalizeObject(data []byte) (Payload, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	if _, ok := keys["id"]; !ok {
		var g Generic
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, err
		}
		return g, nil
	}

	var w wireObject
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	entity := Entity{ID: w.ID, Slug: w.Slug, Link: w.Link}

	if w.Taxonomy != nil {
		t := Taxonomy{Entity: entity, Name: w.Name, Description: w.Description}
		if *w.Taxonomy == Category.String() {
			parent := w.Parent
			t.Parent = &parent
		}
		return t, nil
	}

	switch w.Type {
	case "attachment":
		return Media{Entity: entity, URL: string(w.GUID), Title: string(w.Title)}, nil
	case "post":
		return Post{Entity: entity, URL: string(w.GUID), Title: string(w.Title)}, nil
	}
	return entity, nil
}
