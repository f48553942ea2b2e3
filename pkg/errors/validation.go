package errors

import (
	"mime"
	"strings"
	"unicode"
)

// maxTaxonomyNameLength mirrors the length of the term name column in WordPress.
const maxTaxonomyNameLength = 200

// ValidateTaxonomyName validates a category or tag name before it is sent
// to the remote site.
//
// Rules:
//   - Not empty or whitespace-only
//   - At most 200 characters
//   - No control characters
func ValidateTaxonomyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "taxonomy name cannot be empty")
	}

	if len([]rune(name)) > maxTaxonomyNameLength {
		return New(ErrCodeInvalidInput, "taxonomy name too long (max %d characters)", maxTaxonomyNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "taxonomy name contains invalid control characters")
		}
	}

	return nil
}

// ValidateFilename validates an attachment filename for the
// Content-Disposition header.
// It must be a simple basename without path components or quotes.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidPath, "filename cannot be %q", filename)
	}

	for _, r := range filename {
		if r == '"' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}

	return nil
}

// ValidateContentType validates a media type such as "image/png".
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return New(ErrCodeInvalidInput, "content type cannot be empty")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid content type %q", contentType)
	}
	if !strings.Contains(mediaType, "/") {
		return New(ErrCodeInvalidInput, "content type must be type/subtype: %q", contentType)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(rawURL, "http://")
	}
	if !ok {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if rest == "" || strings.HasPrefix(rest, "/") {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
