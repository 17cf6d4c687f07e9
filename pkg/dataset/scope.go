package dataset

import "slices"

// Principal is who is browsing: the current user, project and groups.
type Principal struct {
	Username string
	Project  string
	Groups   []string
}

// ResolveScope returns the scope a listing request has to be issued with:
// the username for private datasets, the project for project datasets, the
// context scope for group datasets and the type itself for global ones.
func ResolveScope(ctx *Context, p Principal) string {
	if ctx == nil {
		return ""
	}
	switch ctx.Type {
	case TypePrivate:
		return p.Username
	case TypeProject:
		return p.Project
	case TypeGlobal:
		return string(TypeGlobal)
	default:
		if ctx.Scope != "" {
			return ctx.Scope
		}
		return string(ctx.Type)
	}
}

// KeyPrefix is the object key prefix of a dataset root, ending with a slash.
func KeyPrefix(t Type, scope, name string) string {
	if t == TypeGlobal || scope == "" {
		return string(t) + "/datasets/" + name + delimiter
	}
	return string(t) + delimiter + scope + "/datasets/" + name + delimiter
}

// TypePrefix is the object key prefix under which all datasets of a type and
// scope are stored.
func TypePrefix(t Type, scope string) string {
	if t == TypeGlobal || scope == "" {
		return string(t) + "/datasets/"
	}
	return string(t) + delimiter + scope + "/datasets/"
}

// Visible reports whether the principal may see the dataset.
func Visible(ds Dataset, p Principal) bool {
	switch ds.Type {
	case TypeGlobal:
		return true
	case TypePrivate:
		return ds.Scope == p.Username
	case TypeProject:
		return ds.Scope == p.Project
	case TypeGroup:
		return slices.Contains(p.Groups, ds.Scope)
	}
	return false
}

// FilterVisible keeps the datasets visible to the principal.
func FilterVisible(datasets []Dataset, p Principal) []Dataset {
	result := make([]Dataset, 0, len(datasets))
	for _, ds := range datasets {
		if Visible(ds, p) {
			result = append(result, ds)
		}
	}
	return result
}
