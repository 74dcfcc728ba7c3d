package project

import (
	"fmt"
	"path"
	"strings"

	"github.com/Skyenought/libstarter/internal/naming"
	"github.com/Skyenought/libstarter/internal/workspace"
)

// parentRef is the token repeated once per segment of the project root.
const parentRef = "../"

// Metadata is the computed identity and location of one library.
type Metadata struct {
	ProjectName    string
	ProjectRoot    string
	SourceRoot     string
	PackageName    string
	OffsetFromRoot string
	Description    string
	Tags           []string
}

// Overrides are caller supplied replacements for derived values.
type Overrides struct {
	// Directory replaces the kind subdirectory below the libraries root.
	Directory   string
	Description string
	Tags        []string
}

// ComputeMetadata derives paths and package identity for a library.
func ComputeMetadata(names naming.Variants, kind Kind, ws workspace.Config, ov Overrides) (Metadata, error) {
	if !kind.Valid() {
		return Metadata{}, &UnsupportedKindError{Kind: string(kind)}
	}
	if err := ws.Validate(); err != nil {
		return Metadata{}, err
	}

	dir := kind.Directory()
	if ov.Directory != "" {
		if err := workspace.ValidateRelativeDir("directory", ov.Directory); err != nil {
			return Metadata{}, err
		}
		dir = path.Clean(ov.Directory)
	}

	projectRoot := path.Join(path.Clean(ws.LibrariesRoot), dir, names.FileName)
	projectName := strings.ReplaceAll(dir, "/", "-") + "-" + names.FileName

	packageName := projectName
	if ws.Scope != "" {
		packageName = "@" + ws.Scope + "/" + projectName
	}

	description := ov.Description
	if description == "" {
		description = fmt.Sprintf("%s %s library", names.ClassName, kind)
	}

	defaults := []string{"type:" + string(kind)}
	if ws.Scope != "" {
		defaults = append(defaults, "scope:"+ws.Scope)
	}

	return Metadata{
		ProjectName:    projectName,
		ProjectRoot:    projectRoot,
		SourceRoot:     projectRoot + "/src",
		PackageName:    packageName,
		OffsetFromRoot: OffsetFromRoot(projectRoot),
		Description:    description,
		Tags:           OrderedSet(append(defaults, ov.Tags...)),
	}, nil
}

// OffsetFromRoot returns one "../" per segment of projectRoot.
func OffsetFromRoot(projectRoot string) string {
	return strings.Repeat(parentRef, len(strings.Split(projectRoot, "/")))
}

// OrderedSet drops blanks and duplicates while keeping first occurrence
// order.
func OrderedSet(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
