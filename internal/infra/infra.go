// Package infra writes the per-library build files that sit next to the
// generated sources: the package manifest, compiler configs, and the
// build-graph project descriptor.
package infra

import (
	"context"
	"fmt"
	"path"

	"golang.org/x/mod/semver"

	"github.com/Skyenought/libstarter/internal/storage"
	"github.com/Skyenought/libstarter/internal/workspace"
	"github.com/Skyenought/libstarter/pkg/logger"
)

// DefaultVersion is used when Options.Version is empty.
const DefaultVersion = "0.0.1"

// Export is one entry of the package exports map.
type Export struct {
	Key  string
	Path string
}

// Options describe the library whose build files are written.
type Options struct {
	WorkspaceRoot  string
	ProjectRoot    string
	ProjectName    string
	PackageName    string
	Description    string
	LibraryType    string
	OffsetFromRoot string
	SourceRoot     string
	Version        string
	Tags           []string
	// AdditionalExports follow the "." entry in the given order.
	AdditionalExports []Export
}

// Step writes the build files. The zero value is ready to use.
type Step struct {
	Log logger.Logger
}

// Generate writes package.json, tsconfig.json, tsconfig.lib.json and
// project.json below opts.ProjectRoot and registers the package path in
// tsconfig.base.json when the workspace has one. It returns the written
// paths in order.
func (s Step) Generate(ctx context.Context, adapter storage.Adapter, opts Options) ([]string, error) {
	log := s.Log
	if log == nil {
		log = logger.Nop()
	}

	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	if !semver.IsValid("v" + version) {
		return nil, workspace.NewConfigurationError("version", version, "not a semantic version")
	}
	if err := workspace.ValidateRelativeDir("projectRoot", opts.ProjectRoot); err != nil {
		return nil, err
	}
	sourceRoot := opts.SourceRoot
	if sourceRoot == "" {
		sourceRoot = opts.ProjectRoot + "/src"
	}

	files := []struct {
		name  string
		build func() any
	}{
		{"package.json", func() any { return packageManifest(opts, version) }},
		{"tsconfig.json", func() any { return tsconfig(opts) }},
		{"tsconfig.lib.json", func() any { return tsconfigLib(opts) }},
		{"project.json", func() any { return projectDescriptor(opts, sourceRoot) }},
	}

	written := make([]string, 0, len(files)+1)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		content, err := encode(f.build())
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", f.name, err)
		}
		p := path.Join(opts.ProjectRoot, f.name)
		if err := adapter.WriteFile(p, content); err != nil {
			return written, err
		}
		log.Debugf("wrote %s", p)
		written = append(written, p)
	}

	registered, err := registerPath(adapter, opts.PackageName, sourceRoot+"/index.ts")
	if err != nil {
		return written, err
	}
	if registered {
		log.Debugf("registered %s in %s", opts.PackageName, BaseConfig)
		written = append(written, BaseConfig)
	}
	return written, nil
}

func packageManifest(opts Options, version string) object {
	exports := object{}.set(".", "./src/index.ts")
	for _, e := range opts.AdditionalExports {
		exports = exports.set(e.Key, e.Path)
	}
	return object{}.
		set("name", opts.PackageName).
		set("version", version).
		set("description", opts.Description).
		set("type", "module").
		set("sideEffects", false).
		set("exports", exports).
		set("dependencies", object{}.set("effect", "*"))
}

func tsconfig(opts Options) object {
	return object{}.
		set("extends", opts.OffsetFromRoot+"tsconfig.base.json").
		set("compilerOptions", object{}.set("strict", true)).
		set("files", []string{}).
		set("include", []string{}).
		set("references", []object{object{}.set("path", "./tsconfig.lib.json")})
}

func tsconfigLib(opts Options) object {
	return object{}.
		set("extends", "./tsconfig.json").
		set("compilerOptions", object{}.
			set("outDir", opts.OffsetFromRoot+"dist/out-tsc").
			set("declaration", true).
			set("types", []string{"node"})).
		set("include", []string{"src/**/*.ts"}).
		set("exclude", []string{"src/**/*.spec.ts", "src/**/*.test.ts"})
}

func projectDescriptor(opts Options, sourceRoot string) object {
	root := opts.ProjectRoot
	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	targets := object{}.
		set("build", object{}.
			set("executor", "@nx/js:tsc").
			set("outputs", []string{"{options.outputPath}"}).
			set("options", object{}.
				set("outputPath", "dist/"+root).
				set("main", sourceRoot+"/index.ts").
				set("tsConfig", root+"/tsconfig.lib.json"))).
		set("typecheck", object{}.
			set("executor", "nx:run-commands").
			set("options", object{}.set("command", "tsc --noEmit -p "+root+"/tsconfig.lib.json"))).
		set("lint", object{}.set("executor", "@nx/eslint:lint")).
		set("test", object{}.
			set("executor", "@nx/vite:test").
			set("options", object{}.set("passWithNoTests", true)))

	return object{}.
		set("name", opts.ProjectName).
		set("$schema", opts.OffsetFromRoot+"node_modules/nx/schemas/project-schema.json").
		set("sourceRoot", sourceRoot).
		set("projectType", "library").
		set("tags", tags).
		set("metadata", object{}.set("libraryType", opts.LibraryType)).
		set("targets", targets)
}
