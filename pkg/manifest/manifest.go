// Package manifest reads post descriptions from YAML files.
//
// A manifest names the post's metadata and points at its HTML body:
//
//	title: 给Mac中的PIP更换源以加速下载
//	slug_title: Give the PIP replacement source to the Mac to speed up the download
//	date: "2020-08-17T10:16:34"
//	categories: [Mac, Python]
//	tags: [pip, mirror]
//	content_file: post.html
//
// content_file is resolved relative to the manifest. Inline content may be
// given with content instead.
package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
)

// Manifest is one post.
type Manifest struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug,omitempty"`
	SlugTitle   string   `yaml:"slug_title,omitempty"`
	Date        string   `yaml:"date,omitempty"`
	Status      string   `yaml:"status,omitempty"`
	Format      string   `yaml:"format,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Content     string   `yaml:"content,omitempty"`
	ContentFile string   `yaml:"content_file,omitempty"`
}

// Load parses the manifest at path and reads its content file, if any.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "read manifest")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if m.ContentFile != "" {
		if m.Content != "" {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "manifest sets both content and content_file")
		}
		file := m.ContentFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(filepath.Dir(path), file)
		}
		body, err := os.ReadFile(file)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "read content file")
		}
		m.Content = string(body)
	}
	return m, nil
}

// Parse decodes a manifest without touching the filesystem.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "parse manifest")
	}
	return &m, nil
}

// Validate requires a title and a body. A date must be local time in
// [wordpress.DateLayout] form or RFC 3339.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "manifest: title is required")
	}
	if strings.TrimSpace(m.Content) == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "manifest: content is required")
	}
	if m.Date != "" {
		if _, err := time.Parse(wordpress.DateLayout, m.Date); err != nil {
			if _, err := time.Parse(time.RFC3339, m.Date); err != nil {
				return perrors.New(perrors.ErrCodeInvalidInput, "manifest: date %q is not in %s form", m.Date, wordpress.DateLayout)
			}
		}
	}
	for _, name := range append(append([]string{}, m.Categories...), m.Tags...) {
		if err := perrors.ValidateTaxonomyName(name); err != nil {
			return err
		}
	}
	return nil
}

// PostRequest converts the manifest. An empty slug is generated from
// slug_title, or from title when slug_title is empty.
func (m *Manifest) PostRequest() wordpress.PostRequest {
	slug := m.Slug
	if slug == "" {
		source := m.SlugTitle
		if source == "" {
			source = m.Title
		}
		slug = wordpress.GenerateSlug(source)
	}
	return wordpress.PostRequest{
		Title:      m.Title,
		Content:    m.Content,
		Date:       m.Date,
		Slug:       slug,
		Categories: m.Categories,
		Tags:       m.Tags,
		Status:     m.Status,
		Format:     m.Format,
	}
}
