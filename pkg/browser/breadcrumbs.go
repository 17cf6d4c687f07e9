package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// RootCrumbText is the label of the top level crumb.
const RootCrumbText = "Scopes"

// TypeLabel returns the display label of a dataset type.
func TypeLabel(t dataset.Type) string {
	// a Caser is stateful, one per call
	return cases.Title(language.English).String(string(t))
}

// BuildBreadcrumbs returns the breadcrumb trail leading to ctx. A pinned
// browser cannot leave its dataset type, so the root and type crumbs are
// omitted.
func BuildBreadcrumbs(ctx *dataset.Context, pinned bool) []Crumb {
	crumbs := []Crumb{{Text: RootCrumbText}}

	if ctx != nil && ctx.Type != "" {
		crumbs = append(crumbs, Crumb{
			Text: TypeLabel(ctx.Type),
			Href: encodeHref(dataset.Context{Type: ctx.Type}),
		})

		if ctx.Name != "" {
			base := dataset.Context{Type: ctx.Type, Scope: ctx.Scope, Name: ctx.Name}
			crumbs = append(crumbs, Crumb{Text: ctx.Name, Href: encodeHref(base)})

			location := ""
			for _, segment := range strings.Split(dataset.PrefixForPath(ctx.Location), "/") {
				if segment == "" {
					continue
				}
				location += segment + "/"
				at := base
				at.Location = location
				crumbs = append(crumbs, Crumb{Text: segment, Href: encodeHref(at)})
			}
		}
	}

	if pinned {
		if len(crumbs) <= 2 {
			return []Crumb{}
		}
		return crumbs[2:]
	}
	return crumbs
}

// ParseHref decodes the href of a crumb. The empty href is the top level and
// yields a nil context.
func ParseHref(href string) (*dataset.Context, error) {
	if href == "" {
		return nil, nil
	}
	var ctx dataset.Context
	if err := json.Unmarshal([]byte(href), &ctx); err != nil {
		return nil, fmt.Errorf("ParseHref: %w", err)
	}
	return ctx.Normalize(), nil
}

// EncodeHref serializes a context into a crumb href.
func EncodeHref(ctx *dataset.Context) string {
	if ctx == nil {
		return ""
	}
	return encodeHref(*ctx)
}

func encodeHref(ctx dataset.Context) string {
	// A struct of strings always marshals.
	b, _ := json.Marshal(ctx)
	return string(b)
}
