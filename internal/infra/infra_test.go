package infra

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tailscale/hujson"

	"github.com/Skyenought/libstarter/internal/storage"
	"github.com/Skyenought/libstarter/internal/workspace"
)

func testOptions() Options {
	return Options{
		WorkspaceRoot:  "/ws",
		ProjectRoot:    "libs/contract/product",
		ProjectName:    "contract-product",
		PackageName:    "@acme/contract-product",
		Description:    "Product contract library",
		LibraryType:    "contract",
		OffsetFromRoot: "../../../",
		Tags:           []string{"type:contract", "scope:acme"},
		AdditionalExports: []Export{
			{Key: "./types", Path: "./src/types.ts"},
			{Key: "./entities", Path: "./src/lib/entities/index.ts"},
			{Key: "./entities/*", Path: "./src/lib/entities/*.ts"},
			{Key: "./entities/product", Path: "./src/lib/entities/product.ts"},
		},
	}
}

func TestGenerate_WritesBuildFiles(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	written, err := Step{}.Generate(context.Background(), a, testOptions())
	require.NoError(t, err)

	want := []string{
		"libs/contract/product/package.json",
		"libs/contract/product/tsconfig.json",
		"libs/contract/product/tsconfig.lib.json",
		"libs/contract/product/project.json",
	}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Errorf("written files mismatch (-want +got):\n%s", diff)
	}

	pkg, err := a.ReadFile("libs/contract/product/package.json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(pkg)))
	assert.Contains(t, pkg, `"version": "0.0.1"`)
	assert.Contains(t, pkg, `"sideEffects": false`)

	// Export keys keep insertion order.
	keys := []string{`"."`, `"./types"`, `"./entities"`, `"./entities/*"`, `"./entities/product"`}
	last := -1
	for _, k := range keys {
		idx := strings.Index(pkg, k+":")
		require.Greater(t, idx, last, k)
		last = idx
	}

	tsconfig, err := a.ReadFile("libs/contract/product/tsconfig.json")
	require.NoError(t, err)
	assert.Contains(t, tsconfig, `"extends": "../../../tsconfig.base.json"`)

	project, err := a.ReadFile("libs/contract/product/project.json")
	require.NoError(t, err)
	var descriptor struct {
		Name        string   `json:"name"`
		Schema      string   `json:"$schema"`
		SourceRoot  string   `json:"sourceRoot"`
		ProjectType string   `json:"projectType"`
		Tags        []string `json:"tags"`
		Targets     map[string]json.RawMessage
	}
	require.NoError(t, json.Unmarshal([]byte(project), &descriptor))
	assert.Equal(t, "contract-product", descriptor.Name)
	assert.Equal(t, "../../../node_modules/nx/schemas/project-schema.json", descriptor.Schema)
	assert.Equal(t, "libs/contract/product/src", descriptor.SourceRoot)
	assert.Equal(t, "library", descriptor.ProjectType)
	assert.Equal(t, []string{"type:contract", "scope:acme"}, descriptor.Tags)
	for _, target := range []string{"build", "typecheck", "lint", "test"} {
		assert.Contains(t, descriptor.Targets, target)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	render := func() []storage.Change {
		a := storage.NewBuffered("/ws", nil)
		_, err := Step{}.Generate(context.Background(), a, testOptions())
		require.NoError(t, err)
		return a.Changes()
	}
	if diff := cmp.Diff(render(), render()); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestGenerate_RejectsInvalidInput(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)

	opts := testOptions()
	opts.Version = "one"
	_, err := Step{}.Generate(context.Background(), a, opts)
	assert.ErrorIs(t, err, workspace.ErrConfiguration)

	opts = testOptions()
	opts.ProjectRoot = "../escape"
	_, err = Step{}.Generate(context.Background(), a, opts)
	assert.ErrorIs(t, err, workspace.ErrConfiguration)

	assert.Empty(t, a.Changes())
}

func TestGenerate_AcceptsPrerelease(t *testing.T) {
	opts := testOptions()
	opts.Version = "1.2.0-beta.1"
	a := storage.NewBuffered("/ws", nil)
	_, err := Step{}.Generate(context.Background(), a, opts)
	require.NoError(t, err)

	pkg, err := a.ReadFile("libs/contract/product/package.json")
	require.NoError(t, err)
	assert.Contains(t, pkg, `"version": "1.2.0-beta.1"`)
}

func TestRegisterPath(t *testing.T) {
	tests := []struct {
		name string
		base string
	}{
		{"existing paths", "{\n  \"compilerOptions\": {\n    \"paths\": {\n      \"@acme/other\": [\"libs/other/src/index.ts\"]\n    }\n  }\n}\n"},
		{"empty paths", "{\n  \"compilerOptions\": {\n    \"paths\": {}\n  }\n}\n"},
		{"no paths", "{\n  \"compilerOptions\": {\n    \"strict\": true\n  }\n}\n"},
		{"empty compiler options", "{\n  \"compilerOptions\": {}\n}\n"},
		{"comments and trailing commas", "{\n  // shared options\n  \"compilerOptions\": {\n    /* aliases */\n    \"paths\": {},\n  },\n}\n"},
		{"commented out paths", "{\n  \"compilerOptions\": {\n    // \"paths\": {\n    \"strict\": true\n  }\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := storage.NewBuffered("/ws", nil)
			require.NoError(t, a.WriteFile(BaseConfig, tt.base))

			written, err := Step{}.Generate(context.Background(), a, testOptions())
			require.NoError(t, err)
			assert.Equal(t, BaseConfig, written[len(written)-1])

			raw, err := a.ReadFile(BaseConfig)
			require.NoError(t, err)
			var parsed struct {
				CompilerOptions struct {
					Paths map[string][]string `json:"paths"`
				} `json:"compilerOptions"`
			}
			std, err := hujson.Standardize([]byte(raw))
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(std, &parsed))
			assert.Equal(t, []string{"libs/contract/product/src/index.ts"}, parsed.CompilerOptions.Paths["@acme/contract-product"])
			if strings.Contains(tt.base, "@acme/other") {
				assert.Equal(t, []string{"libs/other/src/index.ts"}, parsed.CompilerOptions.Paths["@acme/other"])
			}
			for _, comment := range []string{"// shared options", "/* aliases */", "// \"paths\": {"} {
				if strings.Contains(tt.base, comment) {
					assert.Contains(t, raw, comment)
				}
			}

			// A second run leaves the file alone.
			written, err = Step{}.Generate(context.Background(), a, testOptions())
			require.NoError(t, err)
			assert.NotContains(t, written, BaseConfig)
			again, err := a.ReadFile(BaseConfig)
			require.NoError(t, err)
			assert.Equal(t, raw, again)
		})
	}
}

func TestRegisterPath_InvalidBaseConfig(t *testing.T) {
	a := storage.NewBuffered("/ws", nil)
	require.NoError(t, a.WriteFile(BaseConfig, "{ not json"))
	_, err := Step{}.Generate(context.Background(), a, testOptions())
	assert.ErrorIs(t, err, workspace.ErrConfiguration)
}

func TestObjectOrder(t *testing.T) {
	out, err := encode(object{}.set("b", 1).set("a", 2).set("b", 3))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 3,\n  \"a\": 2\n}\n", out)
}
