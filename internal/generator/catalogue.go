package generator

import (
	"github.com/Skyenought/libstarter/internal/infra"
	"github.com/Skyenought/libstarter/internal/project"
	"github.com/Skyenought/libstarter/internal/templates"
)

// entry is one fixed file of a group.
type entry struct {
	path   string
	render func(templates.Context) string
}

// group is a set of files emitted together. Groups are written in table
// order; files inside one group may be written concurrently.
type group struct {
	name    string
	when    func(project.Flags) bool
	files   func(templates.Context) []templates.File
	exports func(templates.Context) []infra.Export
}

// catalogue is the file table of one kind.
type catalogue struct {
	// types is the target of the "./types" export.
	types  string
	groups []group
	barrel func(templates.Context) string
}

const barrelPath = "index.ts"

var catalogues = map[project.Kind]catalogue{
	project.KindContract: {
		types: "./src/types.ts",
		groups: []group{
			{name: "core", when: always, files: contractCore, exports: contractExports},
			{name: "cqrs", when: cqrs, files: fixed(
				entry{"lib/commands.ts", templates.ContractCommands},
				entry{"lib/queries.ts", templates.ContractQueries},
				entry{"lib/projections.ts", templates.ContractProjections},
			)},
			{name: "rpc", when: rpc, files: fixed(
				entry{"lib/rpc.ts", templates.ContractRPC},
			)},
		},
		barrel: templates.ContractIndex,
	},

	project.KindDataAccess: {
		types: "./src/lib/types.ts",
		groups: []group{
			{name: "core", when: always, files: fixed(
				entry{"lib/errors.ts", templates.DataAccessErrors},
				entry{"lib/types.ts", templates.DataAccessTypes},
				entry{"lib/validation.ts", templates.DataAccessValidation},
				entry{"lib/repository.ts", templates.DataAccessRepository},
				entry{"lib/queries.ts", templates.DataAccessQueries},
				entry{"lib/layers.ts", templates.DataAccessLayers},
			)},
		},
		barrel: templates.DataAccessIndex,
	},

	project.KindFeature: {
		types: "./src/lib/shared/types.ts",
		groups: []group{
			{name: "core", when: always, files: fixed(
				entry{"lib/shared/errors.ts", templates.FeatureSharedErrors},
				entry{"lib/shared/types.ts", templates.FeatureSharedTypes},
				entry{"lib/shared/schemas.ts", templates.FeatureSharedSchemas},
				entry{"lib/server/service.ts", templates.FeatureServerService},
				entry{"lib/server/layers.ts", templates.FeatureServerLayers},
			)},
			{name: "cqrs", when: cqrs, files: fixed(
				entry{"lib/server/commands/index.ts", templates.FeatureCommands},
				entry{"lib/server/queries/index.ts", templates.FeatureQueries},
				entry{"lib/server/projections/index.ts", templates.FeatureProjections},
			)},
			{name: "rpc", when: rpc, files: fixed(
				entry{"lib/rpc/errors.ts", templates.FeatureRPCErrors},
				entry{"lib/rpc/rpc.ts", templates.FeatureRPC},
				entry{"lib/rpc/handlers.ts", templates.FeatureRPCHandlers},
			)},
			// The server service is always generated, so is its entry.
			{name: "server", when: always, files: fixed(
				entry{"server.ts", templates.FeatureServerEntry},
			), exports: entryExport(templates.TargetServer)},
			{name: "client", when: project.Flags.Client, files: featureClient,
				exports: entryExport(templates.TargetClient)},
			{name: "edge", when: project.Flags.Edge, files: fixed(
				entry{"lib/edge/middleware.ts", templates.FeatureEdgeMiddleware},
				entry{"edge.ts", templates.FeatureEdgeEntry},
			), exports: entryExport(templates.TargetEdge)},
		},
		barrel: templates.FeatureIndex,
	},

	project.KindInfra: {
		types: "./src/lib/service.ts",
		groups: []group{
			{name: "core", when: always, files: fixed(
				entry{"lib/service.ts", templates.InfraService},
				entry{"lib/config.ts", templates.InfraConfig},
				entry{"lib/errors.ts", templates.InfraErrors},
				entry{"lib/providers/memory.ts", templates.InfraMemoryProvider},
			)},
			infraTarget(templates.TargetServer, project.Flags.Server),
			infraTarget(templates.TargetClient, project.Flags.Client),
			infraTarget(templates.TargetEdge, project.Flags.Edge),
		},
		barrel: templates.InfraIndex,
	},

	project.KindProvider: {
		types: "./src/lib/types.ts",
		groups: []group{
			{name: "core", when: always, files: fixed(
				entry{"lib/errors.ts", templates.ProviderErrors},
				entry{"lib/types.ts", templates.ProviderTypes},
				entry{"lib/validation.ts", templates.ProviderValidation},
				entry{"lib/service.ts", templates.ProviderService},
				entry{"lib/layers.ts", templates.ProviderLayers},
			)},
			providerTarget(templates.TargetServer, project.Flags.Server),
			providerTarget(templates.TargetClient, project.Flags.Client),
			providerTarget(templates.TargetEdge, project.Flags.Edge),
		},
		barrel: templates.ProviderIndex,
	},
}

func always(project.Flags) bool { return true }
func cqrs(f project.Flags) bool { return f.IncludeCQRS }
func rpc(f project.Flags) bool  { return f.IncludeRPC }

// fixed renders a constant list of entries.
func fixed(entries ...entry) func(templates.Context) []templates.File {
	return func(c templates.Context) []templates.File {
		files := make([]templates.File, len(entries))
		for i, e := range entries {
			files[i] = templates.File{Path: e.path, Content: e.render(c)}
		}
		return files
	}
}

// contractCore emits one file per entity between the errors and the
// entities barrel.
func contractCore(c templates.Context) []templates.File {
	files := []templates.File{{Path: "lib/errors.ts", Content: templates.ContractErrors(c)}}
	for _, e := range c.Entities {
		files = append(files, templates.File{
			Path:    "lib/entities/" + e.FileName + ".ts",
			Content: templates.ContractEntity(c.ForEntity(e)),
		})
	}
	return append(files,
		templates.File{Path: "lib/entities/index.ts", Content: templates.ContractEntitiesIndex(c)},
		templates.File{Path: "lib/ports.ts", Content: templates.ContractPorts(c)},
		templates.File{Path: "lib/events.ts", Content: templates.ContractEvents(c)},
		templates.File{Path: "types.ts", Content: templates.ContractTypes(c)},
	)
}

func contractExports(c templates.Context) []infra.Export {
	exports := []infra.Export{
		{Key: "./entities", Path: "./src/lib/entities/index.ts"},
		{Key: "./entities/*", Path: "./src/lib/entities/*.ts"},
	}
	for _, e := range c.Entities {
		exports = append(exports, infra.Export{
			Key:  "./entities/" + e.FileName,
			Path: "./src/lib/entities/" + e.FileName + ".ts",
		})
	}
	return exports
}

func featureClient(c templates.Context) []templates.File {
	file := c.Names.FileName
	return []templates.File{
		{Path: "lib/client/hooks/use-" + file + ".ts", Content: templates.FeatureClientHook(c)},
		{Path: "lib/client/hooks/index.ts", Content: templates.FeatureClientHooksIndex(c)},
		{Path: "lib/client/atoms/" + file + "-atoms.ts", Content: templates.FeatureClientAtoms(c)},
		{Path: "lib/client/atoms/index.ts", Content: templates.FeatureClientAtomsIndex(c)},
		{Path: "client.ts", Content: templates.FeatureClientEntry(c)},
	}
}

func infraTarget(t templates.Target, when func(project.Flags) bool) group {
	return group{
		name: string(t),
		when: when,
		files: fixed(
			entry{"lib/layers/" + string(t) + "-layers.ts", templates.InfraLayers(t)},
			entry{string(t) + ".ts", templates.InfraEntry(t)},
		),
		exports: entryExport(t),
	}
}

func providerTarget(t templates.Target, when func(project.Flags) bool) group {
	return group{
		name:    string(t),
		when:    when,
		files:   fixed(entry{string(t) + ".ts", templates.ProviderEntry(t)}),
		exports: entryExport(t),
	}
}

// entryExport maps "./<t>" to the platform entry file.
func entryExport(t templates.Target) func(templates.Context) []infra.Export {
	return func(templates.Context) []infra.Export {
		return []infra.Export{{Key: "./" + string(t), Path: "./src/" + string(t) + ".ts"}}
	}
}
