package templates

import (
	"fmt"
	"strings"
)

// Builder accumulates the lines of one generated source file.
type Builder struct {
	lines []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Header writes a JSDoc block. Empty detail strings become blank comment
// lines.
func (b *Builder) Header(title string, details ...string) *Builder {
	b.lines = append(b.lines, "/**", " * "+title)
	if len(details) > 0 {
		b.lines = append(b.lines, " *")
		for _, d := range details {
			if d == "" {
				b.lines = append(b.lines, " *")
				continue
			}
			b.lines = append(b.lines, " * "+d)
		}
	}
	b.lines = append(b.lines, " */")
	return b.Blank()
}

// Import writes a named import. Without names it writes a side effect
// import.
func (b *Builder) Import(from string, names ...string) *Builder {
	if len(names) == 0 {
		return b.Linef("import %q;", from)
	}
	return b.Linef("import { %s } from %q;", strings.Join(names, ", "), from)
}

// TypeImport writes an import that is erased at compile time.
func (b *Builder) TypeImport(from string, names ...string) *Builder {
	return b.Linef("import type { %s } from %q;", strings.Join(names, ", "), from)
}

// ExportAll re-exports every symbol of a module.
func (b *Builder) ExportAll(from string) *Builder {
	return b.Linef("export * from %q;", from)
}

// ExportType re-exports type declarations only.
func (b *Builder) ExportType(from string, names ...string) *Builder {
	return b.Linef("export type { %s } from %q;", strings.Join(names, ", "), from)
}

// Section writes a single line comment heading.
func (b *Builder) Section(title string) *Builder {
	b.Blank()
	return b.Line("// " + title)
}

// Blank adds an empty line unless the previous line is already empty.
func (b *Builder) Blank() *Builder {
	if n := len(b.lines); n > 0 && b.lines[n-1] != "" {
		b.lines = append(b.lines, "")
	}
	return b
}

// Line appends one line verbatim.
func (b *Builder) Line(s string) *Builder {
	b.lines = append(b.lines, s)
	return b
}

// Linef appends one formatted line.
func (b *Builder) Linef(format string, args ...any) *Builder {
	return b.Line(fmt.Sprintf(format, args...))
}

// Raw appends a multi-line block with its surrounding newlines trimmed.
func (b *Builder) Raw(block string) *Builder {
	block = strings.Trim(block, "\n")
	if block == "" {
		return b
	}
	b.lines = append(b.lines, strings.Split(block, "\n")...)
	return b
}

// String returns the file content, ending in exactly one newline.
func (b *Builder) String() string {
	end := len(b.lines)
	for end > 0 && b.lines[end-1] == "" {
		end--
	}
	if end == 0 {
		return ""
	}
	return strings.Join(b.lines[:end], "\n") + "\n"
}
