package templates

import "strings"

// Target is one of the entry point runtimes: server, client or edge.
type Target string

const (
	TargetServer Target = "server"
	TargetClient Target = "client"
	TargetEdge   Target = "edge"
)

// InfraService renders lib/service.ts.
func InfraService(c Context) string {
	return render(c, "service interface", func(b *Builder) {
		b.Import("effect", "Context", "Effect", "Option")
		b.TypeImport("./errors", c.Expand("__Class__Error"))
		b.Blank()
		b.Raw(c.Expand(`
export interface __Class__ServiceShape {
  readonly get: (key: string) => Effect.Effect<Option.Option<string>, __Class__Error>;
  readonly set: (key: string, value: string) => Effect.Effect<void, __Class__Error>;
  readonly delete: (key: string) => Effect.Effect<void, __Class__Error>;
  readonly health: () => Effect.Effect<boolean>;
}

export class __Class__Service extends Context.Tag("__pkg__/__Class__Service")<
  __Class__Service,
  __Class__ServiceShape
>() {}
`))
	})
}

// InfraConfig renders lib/config.ts.
func InfraConfig(c Context) string {
	return render(c, "configuration", func(b *Builder) {
		b.Import("effect", "Config")
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__Config = Config.all({
  url: Config.option(Config.string("__CONST___URL")),
  timeoutMs: Config.integer("__CONST___TIMEOUT_MS").pipe(Config.withDefault(5000)),
});

export type __Class__Config = Config.Config.Success<typeof __Class__Config>;
`))
	})
}

// InfraErrors renders lib/errors.ts.
func InfraErrors(c Context) string {
	return render(c, "errors", func(b *Builder) {
		b.Import("effect", "Data")
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__ConnectionError extends Data.TaggedError("__Class__ConnectionError")<{
  readonly cause: unknown;
}> {}

export class __Class__OperationError extends Data.TaggedError("__Class__OperationError")<{
  readonly operation: string;
  readonly cause: unknown;
}> {}

export type __Class__Error = __Class__ConnectionError | __Class__OperationError;
`))
	})
}

// InfraMemoryProvider renders lib/providers/memory.ts.
func InfraMemoryProvider(c Context) string {
	return render(c, "in-memory provider", func(b *Builder) {
		b.Import("effect", "Effect", "Layer", "Option")
		b.Import("../service", c.Expand("__Class__Service"))
		b.Blank()
		b.Raw(c.Expand(`
export const makeMemory__Class__ = () => {
  const store = new Map<string, string>();
  return __Class__Service.of({
    get: (key) => Effect.sync(() => Option.fromNullable(store.get(key))),
    set: (key, value) => Effect.sync(() => void store.set(key, value)),
    delete: (key) => Effect.sync(() => void store.delete(key)),
    health: () => Effect.succeed(true),
  });
};

export const __Class__MemoryLayer = Layer.sync(__Class__Service, makeMemory__Class__);
`))
	})
}

// InfraLayers returns the renderer of lib/layers/<t>-layers.ts.
func InfraLayers(t Target) func(Context) string {
	return func(c Context) string {
		title := targetTitle(t)
		return render(c, string(t)+" layers", func(b *Builder) {
			b.Import("effect", "Effect", "Layer", "Option")
			b.Import("../config", c.Expand("__Class__Config"))
			b.Import("../providers/memory", c.Expand("makeMemory__Class__"))
			b.Import("../service", c.Expand("__Class__Service"))
			b.Blank()
			b.Raw(c.Expand(strings.ReplaceAll(`
export const __Class____Target__Live = Layer.effect(
  __Class__Service,
  Effect.gen(function* () {
    const config = yield* __Class__Config;
    if (Option.isNone(config.url)) {
      yield* Effect.logWarning("__CONST___URL is not set, using the in-memory __file__ provider");
    }
    return makeMemory__Class__();
  }),
);
`, "__Target__", title)))
		})
	}
}

// InfraEntry returns the renderer of the <t>.ts entry point.
func InfraEntry(t Target) func(Context) string {
	return func(c Context) string {
		return render(c, string(t)+" entry", func(b *Builder) {
			b.ExportAll("./lib/service")
			b.ExportAll("./lib/layers/" + string(t) + "-layers")
		})
	}
}

// InfraIndex renders the barrel.
func InfraIndex(c Context) string {
	return render(c, "public API", func(b *Builder) {
		b.ExportAll("./lib/service")
		b.ExportAll("./lib/config")
		b.ExportAll("./lib/errors")
		b.ExportAll("./lib/providers/memory")
	})
}

func targetTitle(t Target) string {
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}
