// Package templates renders the TypeScript sources of every library kind.
//
// Each exported template is a pure function of Context: equal inputs give
// byte-identical output. Library-specific identifiers are written in blocks
// as placeholders and substituted by Context.Expand:
//
//	__Class__    ClassName          __Classes__  plural ClassName
//	__prop__     PropertyName       __props__    plural PropertyName
//	__file__     FileName           __files__    plural FileName
//	__CONST__    ConstantName       __pkg__      package name
//	__Entity__   entity ClassName   __entity__   entity PropertyName
//	__entity-file__ entity FileName
package templates

import (
	"strings"

	"github.com/Skyenought/libstarter/internal/naming"
	"github.com/Skyenought/libstarter/internal/project"
)

// Context is everything a template may read.
type Context struct {
	Kind     project.Kind
	Names    naming.Variants
	Meta     project.Metadata
	Flags    project.Flags
	Entities []naming.Variants
	// Entity is set while rendering a per-entity file.
	Entity naming.Variants
}

// File is one rendered source, relative to the library source root.
type File struct {
	Path    string
	Content string
}

// ForEntity returns a copy of c focused on e.
func (c Context) ForEntity(e naming.Variants) Context {
	c.Entity = e
	return c
}

// Expand substitutes the placeholders documented on the package.
func (c Context) Expand(block string) string {
	pluralClass, pluralFile := naming.Plural(c.Names)
	pairs := []string{
		"__entity-file__", c.Entity.FileName,
		"__Classes__", pluralClass,
		"__props__", lowerFirst(pluralClass),
		"__files__", pluralFile,
		"__Class__", c.Names.ClassName,
		"__prop__", c.Names.PropertyName,
		"__file__", c.Names.FileName,
		"__CONST__", c.Names.ConstantName,
		"__pkg__", c.Meta.PackageName,
		"__Entity__", c.Entity.ClassName,
		"__entity__", c.Entity.PropertyName,
	}
	return strings.NewReplacer(pairs...).Replace(block)
}

// primaryEntity is the first entity, or the library name when none were
// given.
func (c Context) primaryEntity() naming.Variants {
	if len(c.Entities) == 0 {
		return c.Names
	}
	return c.Entities[0]
}

// header opens every generated file with the same banner.
func header(b *Builder, c Context, purpose string) {
	b.Header(
		c.Names.ClassName+" "+string(c.Kind)+": "+purpose,
		"",
		"@package "+c.Meta.PackageName,
		"@generated by libstarter",
	)
}

// render runs fn on a fresh builder with the standard header.
func render(c Context, purpose string, fn func(b *Builder)) string {
	b := NewBuilder()
	header(b, c, purpose)
	fn(b)
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
