package resource

import (
	"net/url"
	"strings"

	"github.com/petjeaf/petjeaf-go/errors"
)

// Separator joins the parent and child segments of a composite path,
// e.g. "pages_rewards".
const Separator = "_"

// Path identifies a collection on the API. Paths are lower case.
type Path string

// NewPath normalises s into a Path.
func NewPath(s string) Path {
	return Path(strings.ToLower(strings.TrimSpace(s)))
}

// String returns the path as written.
func (p Path) String() string { return string(p) }

// Composite reports whether the path nests under a parent resource.
func (p Path) Composite() bool {
	return strings.Contains(string(p), Separator)
}

// Segments splits a composite path into its parent and child segments.
// Only the first separator splits; ok is false for a plain path.
func (p Path) Segments() (parent, child string, ok bool) {
	parts := strings.SplitN(string(p), Separator, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Resolve returns the URL path for the collection. A composite path
// requires parentID and resolves to "{parent}/{parentID}/{child}".
func (p Path) Resolve(parentID string) (string, error) {
	parent, child, ok := p.Segments()
	if !ok {
		return string(p), nil
	}
	if parentID == "" {
		return "", errors.MissingParent(string(p), parent)
	}
	return parent + "/" + url.PathEscape(parentID) + "/" + child, nil
}
