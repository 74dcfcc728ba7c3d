// Package generator turns a library kind and name into the ordered set of
// files that make up a new monorepo library, written through a storage
// adapter.
package generator

import (
	"context"
	"fmt"
	"path"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Skyenought/libstarter/internal/infra"
	"github.com/Skyenought/libstarter/internal/naming"
	"github.com/Skyenought/libstarter/internal/project"
	"github.com/Skyenought/libstarter/internal/storage"
	"github.com/Skyenought/libstarter/internal/templates"
	"github.com/Skyenought/libstarter/internal/workspace"
	"github.com/Skyenought/libstarter/pkg/logger"
)

// InfraStep writes the build files of a library before its sources.
type InfraStep interface {
	Generate(ctx context.Context, adapter storage.Adapter, opts infra.Options) ([]string, error)
}

// Options is the user input of one generation call.
type Options struct {
	Name        string
	Directory   string
	Description string
	Tags        []string
	// Entities names the contract entities. Defaults to Name.
	Entities []string
	// Version of the generated package. Defaults to infra.DefaultVersion.
	Version string

	IncludeCQRS         bool
	IncludeRPC          bool
	IncludeClientServer bool
	IncludeEdge         bool
	Platform            project.Platform
}

// Result describes what a generation call produced.
type Result struct {
	ProjectName string
	ProjectRoot string
	PackageName string
	SourceRoot  string
	// FilesGenerated lists workspace-relative paths in emission order. The
	// barrel index is always last.
	FilesGenerated []string
}

// Generator runs generation calls against one adapter.
type Generator struct {
	adapter     storage.Adapter
	resolver    workspace.Resolver
	infra       InfraStep
	log         logger.Logger
	concurrency int
}

// Option configures a Generator.
type Option func(*Generator)

// WithResolver sets the workspace configuration source. The default
// inspects the workspace through the adapter.
func WithResolver(r workspace.Resolver) Option {
	return func(g *Generator) { g.resolver = r }
}

// WithInfraStep replaces the build file step.
func WithInfraStep(s InfraStep) Option {
	return func(g *Generator) { g.infra = s }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithConcurrency bounds the number of concurrent writes inside a group.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// New creates a Generator writing through adapter.
func New(adapter storage.Adapter, opts ...Option) *Generator {
	g := &Generator{
		adapter:     adapter,
		resolver:    workspace.Detector{Adapter: adapter},
		log:         logger.Nop(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.infra == nil {
		g.infra = infra.Step{Log: g.log}
	}
	return g
}

// Generate emits the library of the given kind. The first error stops the
// call; files already written through a direct adapter are left in place.
func (g *Generator) Generate(ctx context.Context, kind project.Kind, opts Options) (*Result, error) {
	cat, ok := catalogues[kind]
	if !ok {
		return nil, &project.UnsupportedKindError{Kind: string(kind)}
	}

	ws, err := g.resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	names, err := naming.Derive(opts.Name)
	if err != nil {
		return nil, err
	}
	meta, err := project.ComputeMetadata(names, kind, ws, project.Overrides{
		Directory:   opts.Directory,
		Description: opts.Description,
		Tags:        opts.Tags,
	})
	if err != nil {
		return nil, err
	}
	flags := project.ResolveFlags(kind, project.Flags{
		IncludeCQRS:         opts.IncludeCQRS,
		IncludeRPC:          opts.IncludeRPC,
		IncludeClientServer: opts.IncludeClientServer,
		IncludeEdge:         opts.IncludeEdge,
		Platform:            opts.Platform,
	})

	tc := templates.Context{Kind: kind, Names: names, Meta: meta, Flags: flags}
	if kind == project.KindContract {
		if tc.Entities, err = deriveEntities(names, opts.Entities); err != nil {
			return nil, err
		}
	}

	groups := cat.enabled(flags)
	rendered := make([][]templates.File, len(groups))
	for i, grp := range groups {
		rendered[i] = grp.files(tc)
	}
	barrel := []templates.File{{Path: barrelPath, Content: cat.barrel(tc)}}
	if err := checkUnique(append(rendered, barrel)); err != nil {
		return nil, err
	}

	g.log.Infof("generating %s library %s in %s", kind, meta.PackageName, meta.ProjectRoot)

	infraFiles, err := g.infra.Generate(ctx, g.adapter, infra.Options{
		WorkspaceRoot:     ws.WorkspaceRoot,
		ProjectRoot:       meta.ProjectRoot,
		ProjectName:       meta.ProjectName,
		PackageName:       meta.PackageName,
		Description:       meta.Description,
		LibraryType:       string(kind),
		OffsetFromRoot:    meta.OffsetFromRoot,
		SourceRoot:        meta.SourceRoot,
		Version:           opts.Version,
		Tags:              meta.Tags,
		AdditionalExports: cat.exports(tc, groups),
	})
	if err != nil {
		return nil, fmt.Errorf("infrastructure files: %w", err)
	}

	if err := g.adapter.MakeDirectory(meta.SourceRoot); err != nil {
		return nil, err
	}

	result := &Result{
		ProjectName:    meta.ProjectName,
		ProjectRoot:    meta.ProjectRoot,
		PackageName:    meta.PackageName,
		SourceRoot:     meta.SourceRoot,
		FilesGenerated: append([]string(nil), infraFiles...),
	}

	for i, grp := range groups {
		written, err := g.writeGroup(ctx, meta.SourceRoot, rendered[i])
		if err != nil {
			return nil, fmt.Errorf("%s files: %w", grp.name, err)
		}
		result.FilesGenerated = append(result.FilesGenerated, written...)
	}

	written, err := g.writeGroup(ctx, meta.SourceRoot, barrel)
	if err != nil {
		return nil, fmt.Errorf("barrel: %w", err)
	}
	result.FilesGenerated = append(result.FilesGenerated, written...)

	g.log.Infof("generated %d files for %s", len(result.FilesGenerated), meta.PackageName)
	return result, nil
}

// writeGroup writes files concurrently and returns their paths in the
// order given, regardless of completion order.
func (g *Generator) writeGroup(ctx context.Context, sourceRoot string, files []templates.File) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = path.Join(sourceRoot, f.Path)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := g.adapter.WriteFile(paths[i], f.Content); err != nil {
				return err
			}
			g.log.Debugf("wrote %s", paths[i])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// checkUnique fails when two rendered files share a path. Files of one
// group are written concurrently, so a shared path would race.
func checkUnique(groups [][]templates.File) error {
	seen := make(map[string]bool)
	for _, files := range groups {
		for _, f := range files {
			if seen[f.Path] {
				return fmt.Errorf("duplicate generated file %s", f.Path)
			}
			seen[f.Path] = true
		}
	}
	return nil
}

// enabled returns the groups whose predicate holds, in table order.
func (c catalogue) enabled(flags project.Flags) []group {
	out := make([]group, 0, len(c.groups))
	for _, grp := range c.groups {
		if grp.when(flags) {
			out = append(out, grp)
		}
	}
	return out
}

// exports builds the package exports that follow ".": "./types" first,
// then the entries of the enabled groups.
func (c catalogue) exports(tc templates.Context, groups []group) []infra.Export {
	exports := []infra.Export{{Key: "./types", Path: c.types}}
	for _, grp := range groups {
		if grp.exports != nil {
			exports = append(exports, grp.exports(tc)...)
		}
	}
	return exports
}

// reservedEntityFile is the entities barrel. An entity with that file name
// is written to reservedEntityFile + entityFileSuffix instead.
const (
	reservedEntityFile = "index"
	entityFileSuffix   = "-entity"
)

// deriveEntities names the contract entities, dropping duplicates by file
// name. Without explicit entities the library name is the only one.
func deriveEntities(names naming.Variants, raw []string) ([]naming.Variants, error) {
	if len(raw) == 0 {
		return []naming.Variants{entityFile(names)}, nil
	}
	seen := make(map[string]bool, len(raw))
	entities := make([]naming.Variants, 0, len(raw))
	for _, r := range raw {
		v, err := naming.Derive(r)
		if err != nil {
			return nil, err
		}
		v = entityFile(v)
		if seen[v.FileName] {
			continue
		}
		seen[v.FileName] = true
		entities = append(entities, v)
	}
	return entities, nil
}

func entityFile(v naming.Variants) naming.Variants {
	if v.FileName == reservedEntityFile {
		v.FileName += entityFileSuffix
	}
	return v
}
