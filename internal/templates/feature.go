package templates

// FeatureSharedErrors renders lib/shared/errors.ts.
func FeatureSharedErrors(c Context) string {
	return render(c, "shared errors", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__NotFoundError extends Schema.TaggedError<__Class__NotFoundError>()(
  "__Class__NotFoundError",
  { id: Schema.String },
) {}

export class __Class__ValidationError extends Schema.TaggedError<__Class__ValidationError>()(
  "__Class__ValidationError",
  { message: Schema.String },
) {}

export type __Class__Error = __Class__NotFoundError | __Class__ValidationError;
`))
	})
}

// FeatureSharedTypes renders lib/shared/types.ts.
func FeatureSharedTypes(c Context) string {
	return render(c, "shared types", func(b *Builder) {
		b.TypeImport("./schemas", c.Expand("__Class__Schema"), c.Expand("Create__Class__Schema"))
		b.Blank()
		b.Raw(c.Expand(`
export type __Class__ = typeof __Class__Schema.Type;
export type Create__Class__Input = typeof Create__Class__Schema.Type;

export interface __Class__State {
  readonly items: ReadonlyArray<__Class__>;
  readonly selectedId: string | null;
}
`))
	})
}

// FeatureSharedSchemas renders lib/shared/schemas.ts.
func FeatureSharedSchemas(c Context) string {
	return render(c, "shared schemas", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__Schema = Schema.Struct({
  id: Schema.String,
  name: Schema.String,
  createdAt: Schema.DateFromString,
});

export const Create__Class__Schema = Schema.Struct({
  name: Schema.NonEmptyTrimmedString,
});
`))
	})
}

// FeatureServerService renders lib/server/service.ts.
func FeatureServerService(c Context) string {
	return render(c, "server service", func(b *Builder) {
		b.Import("effect", "Context", "Effect")
		b.TypeImport("../shared/errors", c.Expand("__Class__NotFoundError"), c.Expand("__Class__ValidationError"))
		b.TypeImport("../shared/types", c.Expand("__Class__"), c.Expand("Create__Class__Input"))
		b.Blank()
		b.Raw(c.Expand(`
export interface __Class__ServiceShape {
  readonly get: (id: string) => Effect.Effect<__Class__, __Class__NotFoundError>;
  readonly list: () => Effect.Effect<ReadonlyArray<__Class__>>;
  readonly create: (input: Create__Class__Input) => Effect.Effect<__Class__, __Class__ValidationError>;
}

export class __Class__Service extends Context.Tag("__pkg__/__Class__Service")<
  __Class__Service,
  __Class__ServiceShape
>() {}
`))
	})
}

// FeatureServerLayers renders lib/server/layers.ts.
func FeatureServerLayers(c Context) string {
	return render(c, "server layers", func(b *Builder) {
		b.Import("effect", "Effect", "Layer", "Ref")
		b.Import("../shared/errors", c.Expand("__Class__NotFoundError"))
		b.Import("./service", c.Expand("__Class__Service"))
		b.TypeImport("../shared/types", c.Expand("__Class__"))
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__ServiceLive = Layer.effect(
  __Class__Service,
  Effect.gen(function* () {
    const store = yield* Ref.make(new Map<string, __Class__>());
    return __Class__Service.of({
      get: (id) =>
        Ref.get(store).pipe(
          Effect.flatMap((items) => {
            const item = items.get(id);
            return item ? Effect.succeed(item) : Effect.fail(new __Class__NotFoundError({ id }));
          }),
        ),
      list: () => Ref.get(store).pipe(Effect.map((items) => [...items.values()])),
      create: (input) =>
        Effect.sync(() => ({ id: crypto.randomUUID(), name: input.name, createdAt: new Date() })).pipe(
          Effect.tap((item) => Ref.update(store, (items) => new Map(items).set(item.id, item))),
        ),
    });
  }),
);
`))
	})
}

// FeatureServerEntry renders server.ts.
func FeatureServerEntry(c Context) string {
	return render(c, "server entry", func(b *Builder) {
		b.ExportAll("./lib/server/service")
		b.ExportAll("./lib/server/layers")
		if c.Flags.IncludeCQRS {
			b.ExportAll("./lib/server/commands")
			b.ExportAll("./lib/server/queries")
			b.ExportAll("./lib/server/projections")
		}
		if c.Flags.IncludeRPC {
			b.ExportAll("./lib/rpc/handlers")
		}
	})
}

// FeatureCommands renders lib/server/commands/index.ts.
func FeatureCommands(c Context) string {
	return render(c, "command handlers", func(b *Builder) {
		b.Import("effect", "Effect")
		b.Import("../service", c.Expand("__Class__Service"))
		b.TypeImport("../../shared/types", c.Expand("Create__Class__Input"))
		b.Blank()
		b.Raw(c.Expand(`
export const create__Class__ = (input: Create__Class__Input) =>
  Effect.flatMap(__Class__Service, (service) => service.create(input));
`))
	})
}

// FeatureQueries renders lib/server/queries/index.ts.
func FeatureQueries(c Context) string {
	return render(c, "query handlers", func(b *Builder) {
		b.Import("effect", "Effect")
		b.Import("../service", c.Expand("__Class__Service"))
		b.Blank()
		b.Raw(c.Expand(`
export const get__Class__ = (id: string) => Effect.flatMap(__Class__Service, (service) => service.get(id));

export const list__Classes__ = () => Effect.flatMap(__Class__Service, (service) => service.list());
`))
	})
}

// FeatureProjections renders lib/server/projections/index.ts.
func FeatureProjections(c Context) string {
	return render(c, "projections", func(b *Builder) {
		b.TypeImport("../../shared/types", c.Expand("__Class__"))
		b.Blank()
		b.Raw(c.Expand(`
export interface __Class__CountProjection {
  readonly total: number;
}

export const count__Classes__ = (items: ReadonlyArray<__Class__>): __Class__CountProjection => ({
  total: items.length,
});
`))
	})
}

// FeatureRPCErrors renders lib/rpc/errors.ts.
func FeatureRPCErrors(c Context) string {
	return render(c, "RPC errors", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Import("../shared/errors", c.Expand("__Class__NotFoundError"), c.Expand("__Class__ValidationError"))
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__RpcError = Schema.Union(__Class__NotFoundError, __Class__ValidationError);
export type __Class__RpcError = typeof __Class__RpcError.Type;
`))
	})
}

// FeatureRPC renders lib/rpc/rpc.ts.
func FeatureRPC(c Context) string {
	return render(c, "RPC group", func(b *Builder) {
		b.Import("@effect/rpc", "Rpc", "RpcGroup")
		b.Import("effect", "Schema")
		b.Import("../shared/errors", c.Expand("__Class__NotFoundError"))
		b.Import("../shared/schemas", c.Expand("__Class__Schema"), c.Expand("Create__Class__Schema"))
		b.Import("./errors", c.Expand("__Class__RpcError"))
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__Rpcs extends RpcGroup.make(
  Rpc.make("__Class__Get", {
    payload: { id: Schema.String },
    success: __Class__Schema,
    error: __Class__NotFoundError,
  }),
  Rpc.make("__Class__List", {
    success: Schema.Array(__Class__Schema),
  }),
  Rpc.make("__Class__Create", {
    payload: Create__Class__Schema,
    success: __Class__Schema,
    error: __Class__RpcError,
  }),
) {}
`))
	})
}

// FeatureRPCHandlers renders lib/rpc/handlers.ts.
func FeatureRPCHandlers(c Context) string {
	return render(c, "RPC handlers", func(b *Builder) {
		b.Import("effect", "Effect")
		b.Import("../server/service", c.Expand("__Class__Service"))
		b.Import("./rpc", c.Expand("__Class__Rpcs"))
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__HandlersLive = __Class__Rpcs.toLayer(
  Effect.gen(function* () {
    const service = yield* __Class__Service;
    return {
      __Class__Get: ({ id }) => service.get(id),
      __Class__List: () => service.list(),
      __Class__Create: (input) => service.create(input),
    };
  }),
);
`))
	})
}

// FeatureClientHook renders lib/client/hooks/use-<file>.ts.
func FeatureClientHook(c Context) string {
	return render(c, "React hook", func(b *Builder) {
		b.Import("jotai", "useAtom", "useAtomValue")
		b.Import("../atoms", c.Expand("__prop__ListAtom"), c.Expand("selected__Class__IdAtom"), c.Expand("selected__Class__Atom"))
		b.Blank()
		b.Raw(c.Expand(`
export const use__Class__ = () => {
  const items = useAtomValue(__prop__ListAtom);
  const selected = useAtomValue(selected__Class__Atom);
  const [selectedId, select] = useAtom(selected__Class__IdAtom);
  return { items, selected, selectedId, select } as const;
};
`))
	})
}

// FeatureClientHooksIndex renders lib/client/hooks/index.ts.
func FeatureClientHooksIndex(c Context) string {
	return render(c, "hooks barrel", func(b *Builder) {
		b.ExportAll(c.Expand("./use-__file__"))
	})
}

// FeatureClientAtoms renders lib/client/atoms/<file>-atoms.ts.
func FeatureClientAtoms(c Context) string {
	return render(c, "state atoms", func(b *Builder) {
		b.Import("jotai", "atom")
		b.TypeImport("../../shared/types", c.Expand("__Class__"))
		b.Blank()
		b.Raw(c.Expand(`
export const __prop__ListAtom = atom<ReadonlyArray<__Class__>>([]);

export const selected__Class__IdAtom = atom<string | null>(null);

export const selected__Class__Atom = atom((get) => {
  const id = get(selected__Class__IdAtom);
  return get(__prop__ListAtom).find((item) => item.id === id) ?? null;
});
`))
	})
}

// FeatureClientAtomsIndex renders lib/client/atoms/index.ts.
func FeatureClientAtomsIndex(c Context) string {
	return render(c, "atoms barrel", func(b *Builder) {
		b.ExportAll(c.Expand("./__file__-atoms"))
	})
}

// FeatureClientEntry renders client.ts.
func FeatureClientEntry(c Context) string {
	return render(c, "client entry", func(b *Builder) {
		b.ExportAll("./lib/client/hooks")
		b.ExportAll("./lib/client/atoms")
	})
}

// FeatureEdgeMiddleware renders lib/edge/middleware.ts.
func FeatureEdgeMiddleware(c Context) string {
	return render(c, "edge middleware", func(b *Builder) {
		b.Raw(c.Expand(`
export interface __Class__MiddlewareOptions {
  readonly header?: string;
}

export const with__Class__ =
  (options: __Class__MiddlewareOptions = {}) =>
  async (request: Request, next: (request: Request) => Promise<Response>): Promise<Response> => {
    const response = await next(request);
    const headers = new Headers(response.headers);
    headers.set(options.header ?? "x-__file__", "1");
    return new Response(response.body, { status: response.status, headers });
  };
`))
	})
}

// FeatureEdgeEntry renders edge.ts.
func FeatureEdgeEntry(c Context) string {
	return render(c, "edge entry", func(b *Builder) {
		b.ExportAll("./lib/edge/middleware")
	})
}

// FeatureIndex renders the barrel. Only platform neutral modules are
// re-exported; platform code is reached through its own entry.
func FeatureIndex(c Context) string {
	return render(c, "public API", func(b *Builder) {
		b.ExportAll("./lib/shared/errors")
		b.ExportAll("./lib/shared/types")
		b.ExportAll("./lib/shared/schemas")
		if c.Flags.IncludeRPC {
			b.ExportAll("./lib/rpc/errors")
			b.ExportAll("./lib/rpc/rpc")
		}
	})
}
