package serializer

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/pkg/middleware"
)

// DefaultMediaURL is the path prefix under which stored media names are served.
const DefaultMediaURL = "/media/"

// RequestContext carries what the mapper needs from the inbound request. A
// nil *RequestContext means no request is available and relative references
// are returned as they are.
type RequestContext struct {
	BaseURL *url.URL
}

// RequestContextFromHTTP derives scheme://host/ from r.
func RequestContextFromHTTP(r *http.Request) *RequestContext {
	return &RequestContext{BaseURL: &url.URL{
		Scheme: middleware.Scheme(r),
		Host:   r.Host,
		Path:   "/",
	}}
}

// ResolveImageURL turns a stored reference into the URL handed to clients.
// References that already start with "http" are returned unchanged; other
// references are joined with the request base URL when one is known.
func ResolveImageURL(ref string, rc *RequestContext) *string {
	if ref == "" {
		return nil
	}
	if domain.IsAbsoluteURL(ref) {
		return &ref
	}
	if rc != nil && rc.BaseURL != nil {
		if u, err := url.Parse(ref); err == nil {
			abs := rc.BaseURL.ResolveReference(u).String()
			return &abs
		}
	}
	return &ref
}

// Mapper converts domain entities into their client representations.
type Mapper struct {
	mediaURL string
}

// NewMapper returns a Mapper serving stored media names under mediaURL.
// An empty mediaURL selects DefaultMediaURL.
func NewMapper(mediaURL string) *Mapper {
	if mediaURL == "" {
		mediaURL = DefaultMediaURL
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return &Mapper{mediaURL: mediaURL}
}

// imageURL maps a stored media name to its served path before resolving it.
func (m *Mapper) imageURL(ref string, rc *RequestContext) *string {
	if ref == "" || domain.IsAbsoluteURL(ref) || strings.HasPrefix(ref, "/") {
		return ResolveImageURL(ref, rc)
	}
	return ResolveImageURL(m.mediaURL+ref, rc)
}
