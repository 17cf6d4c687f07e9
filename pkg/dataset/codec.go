package dataset

import (
	"regexp"
	"strings"
)

const delimiter = "/"

var (
	// <scheme>://<bucket>/<type>[/<scope>]/datasets/<name>/<location...>
	uriPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^/]+/([^/]+)(?:/([^/]+))?/datasets/([^/]+)/(.*)$`)

	// global datasets carry no scope, so a dataset named "datasets" must not
	// be read as a scope
	globalPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^/]+/global/datasets/([^/]+)/(.*)$`)

	datasetPathPattern = regexp.MustCompile(`/datasets/[^/]+/`)
)

// Components is the result of DecodeComponents. The zero value means the URI
// did not match.
type Components struct {
	Type     Type
	Scope    string
	Name     string
	Location string
	Prefix   string
	Object   string
}

// IsZero reports whether the URI could not be decoded.
func (c Components) IsZero() bool {
	return c == Components{}
}

// Context returns the dataset context carried by the components, or nil.
func (c Components) Context() *Context {
	if c.IsZero() {
		return nil
	}
	return &Context{Type: c.Type, Scope: c.Scope, Name: c.Name, Location: c.Location}
}

// Decode parses a storage URI into a dataset context. It returns nil when the
// URI does not follow the dataset layout. The type segment is not validated.
func Decode(uri string) *Context {
	if m := globalPattern.FindStringSubmatch(uri); m != nil {
		return &Context{Type: TypeGlobal, Name: m[1], Location: m[2]}
	}
	m := uriPattern.FindStringSubmatch(uri)
	if m == nil {
		return nil
	}
	return &Context{
		Type:     Type(m[1]),
		Scope:    m[2],
		Name:     m[3],
		Location: m[4],
	}
}

// DecodeComponents is the strict variant of Decode. The URI must end with a
// slash after the dataset name or a prefix, or with an object name. Empty path
// segments are rejected. Prefix and Object are derived from the location.
func DecodeComponents(uri string) Components {
	ctx := Decode(uri)
	if ctx == nil {
		return Components{}
	}
	if strings.Contains(ctx.Location, "//") || strings.HasPrefix(ctx.Location, delimiter) {
		return Components{}
	}
	return Components{
		Type:     ctx.Type,
		Scope:    ctx.Scope,
		Name:     ctx.Name,
		Location: ctx.Location,
		Prefix:   PrefixForPath(ctx.Location),
		Object:   ResourceForPath(ctx.Location),
	}
}

// Encode builds the storage URI of a dataset context. It is the inverse of
// Decode. A context without name cannot be encoded and yields "".
func Encode(scheme, bucket string, ctx *Context) string {
	if ctx == nil || ctx.Type == "" || ctx.Name == "" {
		return ""
	}
	return scheme + "://" + bucket + delimiter + KeyPrefix(ctx.Type, ctx.Scope, ctx.Name) + ctx.Location
}

// PrefixForPath returns path up to and including its last slash, or "" when
// the path holds no slash.
func PrefixForPath(path string) string {
	i := strings.LastIndex(path, delimiter)
	if i < 0 {
		return ""
	}
	return path[:i+1]
}

// ResourceForPath returns the segment after the last slash.
func ResourceForPath(path string) string {
	return path[strings.LastIndex(path, delimiter)+1:]
}

// LastComponent returns the terminal segment of path, keeping a trailing
// slash: "a/b/" gives "b/" and "a/b/c" gives "c".
func LastComponent(path string) string {
	trimmed := strings.TrimSuffix(path, delimiter)
	last := trimmed[strings.LastIndex(trimmed, delimiter)+1:]
	if len(trimmed) != len(path) {
		return last + delimiter
	}
	return last
}

// StripDatasetPrefix removes everything up to and including the first
// "/datasets/<name>/" of path. Paths without it are returned unchanged.
func StripDatasetPrefix(path string) string {
	loc := datasetPathPattern.FindStringIndex(path)
	if loc == nil {
		return path
	}
	return path[loc[1]:]
}
