// Package dataset describes datasets stored in object storage and the way their
// locations are encoded in storage URIs.
package dataset

import "time"

// Type is the addressing scope of a dataset.
type Type string

const (
	// TypeGlobal datasets are visible to everybody.
	TypeGlobal Type = "global"
	// TypePrivate datasets belong to a single user.
	TypePrivate Type = "private"
	// TypeProject datasets belong to a project.
	TypeProject Type = "project"
	// TypeGroup datasets belong to a group.
	TypeGroup Type = "group"
)

// Types returns every known dataset type in display order.
func Types() []Type {
	return []Type{TypeGlobal, TypePrivate, TypeProject, TypeGroup}
}

// Known reports whether t is one of the known dataset types.
func (t Type) Known() bool {
	switch t {
	case TypeGlobal, TypePrivate, TypeProject, TypeGroup:
		return true
	}
	return false
}

// Context identifies a location within the dataset hierarchy.
// A nil *Context is the top level where a scope has to be chosen.
type Context struct {
	Type     Type   `json:"type,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
}

// Normalize drops fields that cannot be interpreted: a name without a type and
// a location without a name.
func (c *Context) Normalize() *Context {
	if c == nil {
		return nil
	}
	n := *c
	if n.Type == "" {
		n.Name = ""
	}
	if n.Name == "" {
		n.Location = ""
	}
	return &n
}

// Clone returns a copy of the context, nil stays nil.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	n := *c
	return &n
}

// Equal compares two contexts, treating two nil contexts as equal.
func (c *Context) Equal(o *Context) bool {
	if c == nil || o == nil {
		return c == nil && o == nil
	}
	return *c == *o
}

// ResourceType discriminates the two kinds of storage entries.
type ResourceType string

const (
	// ResourceObject is a stored object.
	ResourceObject ResourceType = "object"
	// ResourcePrefix is a common prefix, displayed as a directory.
	ResourcePrefix ResourceType = "prefix"
)

// Resource is one entry of a dataset listing.
type Resource struct {
	Type         ResourceType `json:"type"`
	Key          string       `json:"key,omitempty"`
	Prefix       string       `json:"prefix,omitempty"`
	Size         *int64       `json:"size,omitempty"`
	LastModified *time.Time   `json:"lastModified,omitempty"`
	Name         string       `json:"name,omitempty"`
	Bucket       string       `json:"bucket,omitempty"`
}

// Path returns the key of an object or the prefix of a prefix.
func (r Resource) Path() string {
	if r.Type == ResourcePrefix {
		return r.Prefix
	}
	return r.Key
}

// Dataset is a catalog record.
type Dataset struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Scope       string `json:"scope"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
}
