package generator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skyenought/libstarter/internal/infra"
	"github.com/Skyenought/libstarter/internal/naming"
	"github.com/Skyenought/libstarter/internal/project"
	"github.com/Skyenought/libstarter/internal/storage"
	"github.com/Skyenought/libstarter/internal/templates"
	"github.com/Skyenought/libstarter/internal/workspace"
)

var testWorkspace = workspace.Static{WorkspaceRoot: "/ws", Scope: "acme", LibrariesRoot: "libs"}

func newTestGenerator(a storage.Adapter, opts ...Option) *Generator {
	return New(a, append([]Option{WithResolver(testWorkspace)}, opts...)...)
}

// sourceFiles returns the generated paths below the source root, relative
// to it.
func sourceFiles(res *Result) []string {
	var out []string
	for _, p := range res.FilesGenerated {
		if rel, ok := strings.CutPrefix(p, res.SourceRoot+"/"); ok {
			out = append(out, rel)
		}
	}
	return out
}

func TestGenerate_ContractWithCQRS(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	res, err := newTestGenerator(a).Generate(context.Background(), project.KindContract, Options{
		Name:        "Product",
		IncludeCQRS: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "contract-product", res.ProjectName)
	assert.Equal(t, "libs/contract/product", res.ProjectRoot)
	assert.Equal(t, "@acme/contract-product", res.PackageName)
	assert.Equal(t, "libs/contract/product/src", res.SourceRoot)

	want := []string{
		"lib/errors.ts",
		"lib/entities/product.ts",
		"lib/entities/index.ts",
		"lib/ports.ts",
		"lib/events.ts",
		"types.ts",
		"lib/commands.ts",
		"lib/queries.ts",
		"lib/projections.ts",
		"index.ts",
	}
	if diff := cmp.Diff(want, sourceFiles(res)); diff != "" {
		t.Errorf("source files mismatch (-want +got):\n%s", diff)
	}
	for _, p := range res.FilesGenerated {
		assert.NotContains(t, p, "rpc.ts")
	}

	// Build files come first.
	assert.Equal(t, "libs/contract/product/package.json", res.FilesGenerated[0])
	pkg, err := a.ReadFile("libs/contract/product/package.json")
	require.NoError(t, err)
	assert.Contains(t, pkg, `"./entities/product": "./src/lib/entities/product.ts"`)
	assert.Contains(t, pkg, `"./entities/*": "./src/lib/entities/*.ts"`)
	assert.Contains(t, pkg, `"./types": "./src/types.ts"`)
	assert.NotContains(t, pkg, `"./server"`)
}

func TestGenerate_ContractEntities(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	res, err := newTestGenerator(a).Generate(context.Background(), project.KindContract, Options{
		Name:       "catalog",
		Entities:   []string{"Product", "order-line", "OrderLine"},
		IncludeRPC: true,
	})
	require.NoError(t, err)

	files := sourceFiles(res)
	assert.Contains(t, files, "lib/entities/product.ts")
	assert.Contains(t, files, "lib/entities/order-line.ts")
	assert.NotContains(t, files, "lib/entities/catalog.ts")
	assert.Contains(t, files, "lib/rpc.ts")

	barrel, err := a.ReadFile("libs/contract/catalog/src/lib/entities/index.ts")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(barrel, `export * from "./order-line";`))

	pkg, err := a.ReadFile("libs/contract/catalog/package.json")
	require.NoError(t, err)
	assert.Contains(t, pkg, `"./entities/order-line"`)
	assert.Contains(t, pkg, `"./entities/product"`)
}

func TestGenerate_DataAccessNeverSplitsByPlatform(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	res, err := newTestGenerator(a).Generate(context.Background(), project.KindDataAccess, Options{
		Name:                "User",
		IncludeCQRS:         true,
		IncludeRPC:          true,
		IncludeClientServer: true,
		IncludeEdge:         true,
		Platform:            project.PlatformUniversal,
	})
	require.NoError(t, err)

	for _, p := range sourceFiles(res) {
		assert.NotContains(t, []string{"server.ts", "client.ts", "edge.ts"}, p)
	}
	assert.Len(t, sourceFiles(res), 7)
}

func TestGenerate_ProviderPlatforms(t *testing.T) {
	tests := []struct {
		platform project.Platform
		want     []string
		missing  []string
	}{
		{project.PlatformUniversal, []string{"server.ts", "client.ts"}, []string{"edge.ts"}},
		{project.PlatformNode, []string{"server.ts"}, []string{"client.ts", "edge.ts"}},
		{"", []string{"server.ts"}, []string{"client.ts", "edge.ts"}},
		{project.PlatformEdge, []string{"edge.ts"}, []string{"server.ts", "client.ts"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			a := storage.NewBuffered("/ws", nil)
			res, err := newTestGenerator(a).Generate(context.Background(), project.KindProvider, Options{
				Name:     "Stripe",
				Platform: tt.platform,
			})
			require.NoError(t, err)

			files := sourceFiles(res)
			for _, f := range tt.want {
				assert.Contains(t, files, f)
			}
			for _, f := range tt.missing {
				assert.NotContains(t, files, f)
			}

			pkg, err := a.ReadFile(res.ProjectRoot + "/package.json")
			require.NoError(t, err)
			for _, f := range tt.want {
				entry := strings.TrimSuffix(f, ".ts")
				assert.Contains(t, pkg, `"./`+entry+`": "./src/`+f+`"`)
			}
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	// Writes inside a group run concurrently, so compare content by path.
	run := func() (*Result, map[string]string) {
		a := storage.NewBuffered("/ws", nil)
		res, err := newTestGenerator(a).Generate(context.Background(), project.KindFeature, Options{
			Name:        "checkout-flow",
			IncludeCQRS: true,
			IncludeRPC:  true,
			IncludeEdge: true,
			Tags:        []string{"team:payments"},
		})
		require.NoError(t, err)
		files := make(map[string]string)
		for _, c := range a.Changes() {
			if c.Type == storage.ChangeCreate || c.Type == storage.ChangeUpdate {
				files[c.Path] = c.Content
			}
		}
		return res, files
	}

	firstResult, firstChanges := run()
	secondResult, secondChanges := run()
	if diff := cmp.Diff(firstResult, secondResult); diff != "" {
		t.Errorf("results differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstChanges, secondChanges); diff != "" {
		t.Errorf("written content differs (-first +second):\n%s", diff)
	}
}

func TestGenerate_FeatureWithoutCQRSOrRPC(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	res, err := newTestGenerator(a).Generate(context.Background(), project.KindFeature, Options{
		Name:        "search",
		IncludeEdge: true,
	})
	require.NoError(t, err)

	for _, p := range res.FilesGenerated {
		for _, dir := range []string{"commands/", "queries/", "projections/", "rpc/"} {
			assert.NotContains(t, p, dir)
		}
	}
	files := sourceFiles(res)
	assert.Contains(t, files, "lib/client/hooks/use-search.ts")
	assert.Contains(t, files, "lib/client/atoms/search-atoms.ts")
	assert.Contains(t, files, "lib/edge/middleware.ts")
	assert.Contains(t, files, "edge.ts")
}

func TestGenerate_BarrelIsLast(t *testing.T) {
	all := Options{
		IncludeCQRS:         true,
		IncludeRPC:          true,
		IncludeClientServer: true,
		IncludeEdge:         true,
	}
	for _, kind := range project.Kinds {
		for _, opts := range []Options{{}, all} {
			opts.Name = "widget"
			a := storage.NewBuffered("/ws", nil)
			res, err := newTestGenerator(a).Generate(context.Background(), kind, opts)
			require.NoError(t, err, kind)

			last := res.FilesGenerated[len(res.FilesGenerated)-1]
			assert.Equal(t, res.SourceRoot+"/index.ts", last, kind)
			assert.Equal(t, 1, countSuffix(res.FilesGenerated, "/src/index.ts"), kind)
			assertUnique(t, res.FilesGenerated)
		}
	}
}

func TestGenerate_ContractNamedIndex(t *testing.T) {
	for _, opts := range []Options{
		{Name: "Index"},
		{Name: "catalog", Entities: []string{"index", "Product", "index-entity"}},
	} {
		a := storage.NewBuffered("/ws", nil)
		res, err := newTestGenerator(a).Generate(context.Background(), project.KindContract, opts)
		require.NoError(t, err, opts.Name)
		assertUnique(t, res.FilesGenerated)

		dir := res.SourceRoot + "/lib/entities/"
		entity, err := a.ReadFile(dir + "index-entity.ts")
		require.NoError(t, err)
		assert.Contains(t, entity, "export class Index ")

		barrel, err := a.ReadFile(dir + "index.ts")
		require.NoError(t, err)
		assert.Contains(t, barrel, `export * from "./index-entity";`)
		assert.NotContains(t, barrel, `export * from "./index";`)
		assert.Equal(t, 1, strings.Count(barrel, `"./index-entity"`))
	}
}

func TestCheckUnique(t *testing.T) {
	err := checkUnique([][]templates.File{
		{{Path: "lib/a.ts"}, {Path: "lib/b.ts"}},
		{{Path: "lib/a.ts"}},
	})
	assert.ErrorContains(t, err, "duplicate generated file lib/a.ts")
	assert.NoError(t, checkUnique([][]templates.File{{{Path: "a.ts"}}, {{Path: "b.ts"}}}))
}

func TestGenerate_GroupOrder(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	res, err := newTestGenerator(a, WithConcurrency(8)).Generate(context.Background(), project.KindInfra, Options{
		Name:                "cache",
		IncludeClientServer: true,
		IncludeEdge:         true,
	})
	require.NoError(t, err)

	want := []string{
		"lib/service.ts",
		"lib/config.ts",
		"lib/errors.ts",
		"lib/providers/memory.ts",
		"lib/layers/server-layers.ts",
		"server.ts",
		"lib/layers/client-layers.ts",
		"client.ts",
		"lib/layers/edge-layers.ts",
		"edge.ts",
		"index.ts",
	}
	if diff := cmp.Diff(want, sourceFiles(res)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_UsesDetectedWorkspace(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	require.NoError(t, a.WriteFile(workspace.ConfigFile, "workspace:\n  scope: shop\n  librariesRoot: packages\n"))

	res, err := New(a).Generate(context.Background(), project.KindFeature, Options{Name: "cart"})
	require.NoError(t, err)
	assert.Equal(t, "@shop/feature-cart", res.PackageName)
	assert.Equal(t, "packages/feature/cart", res.ProjectRoot)
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported kind", func(t *testing.T) {
		_, err := newTestGenerator(storage.NewBuffered("/ws", nil)).Generate(ctx, project.Kind("service"), Options{Name: "x"})
		var unsupported *project.UnsupportedKindError
		assert.True(t, errors.As(err, &unsupported))
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := newTestGenerator(storage.NewBuffered("/ws", nil)).Generate(ctx, project.KindInfra, Options{Name: "  "})
		var invalid *naming.InvalidNameError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("invalid entity", func(t *testing.T) {
		_, err := newTestGenerator(storage.NewBuffered("/ws", nil)).Generate(ctx, project.KindContract, Options{
			Name:     "x",
			Entities: []string{"ok", "--"},
		})
		var invalid *naming.InvalidNameError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("malformed workspace", func(t *testing.T) {
		g := New(storage.NewBuffered("/ws", nil), WithResolver(workspace.Static{WorkspaceRoot: "/ws", LibrariesRoot: "/abs"}))
		_, err := g.Generate(ctx, project.KindInfra, Options{Name: "x"})
		assert.ErrorIs(t, err, workspace.ErrConfiguration)
	})

	t.Run("infra failure writes no sources", func(t *testing.T) {
		a := storage.NewBuffered("/ws", nil)
		boom := errors.New("boom")
		_, err := newTestGenerator(a, WithInfraStep(failingStep{err: boom})).Generate(ctx, project.KindProvider, Options{Name: "x"})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, a.Changes())
	})

	t.Run("write failure propagates", func(t *testing.T) {
		a := &failingAdapter{Adapter: storage.NewBuffered("/ws", nil), failOn: "lib/ports.ts"}
		_, err := newTestGenerator(a).Generate(ctx, project.KindContract, Options{Name: "x"})
		assert.ErrorIs(t, err, storage.ErrStorage)
		var writeErr *storage.WriteError
		require.True(t, errors.As(err, &writeErr))
		assert.True(t, strings.HasSuffix(writeErr.Path, "lib/ports.ts"))
		assert.False(t, a.wroteBarrel.Load())
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newTestGenerator(storage.NewBuffered("/ws", nil)).Generate(cancelled, project.KindInfra, Options{Name: "x"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerate_Direct(t *testing.T) {
	dir := t.TempDir()
	a := storage.NewDirect(dir, nil)
	res, err := New(a, WithResolver(workspace.Static{WorkspaceRoot: dir, LibrariesRoot: "libs"})).
		Generate(context.Background(), project.KindDataAccess, Options{Name: "orders"})
	require.NoError(t, err)
	assert.Equal(t, "data-access-orders", res.PackageName)

	for _, p := range res.FilesGenerated {
		ok, err := a.Exists(p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}
}

type failingStep struct{ err error }

func (s failingStep) Generate(context.Context, storage.Adapter, infra.Options) ([]string, error) {
	return nil, s.err
}

// failingAdapter fails writes to paths ending in failOn.
type failingAdapter struct {
	storage.Adapter
	failOn      string
	wroteBarrel atomic.Bool
}

func (f *failingAdapter) WriteFile(p, content string) error {
	if strings.HasSuffix(p, f.failOn) {
		return &storage.WriteError{Op: "write", Path: p, Cause: errors.New("disk full")}
	}
	if strings.HasSuffix(p, "/src/index.ts") {
		f.wroteBarrel.Store(true)
	}
	return f.Adapter.WriteFile(p, content)
}

func countSuffix(paths []string, suffix string) int {
	n := 0
	for _, p := range paths {
		if strings.HasSuffix(p, suffix) {
			n++
		}
	}
	return n
}

func assertUnique(t *testing.T, paths []string) {
	t.Helper()
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		assert.False(t, seen[p], "%s generated twice", p)
		seen[p] = true
	}
}
