package templates

// ContractErrors renders lib/errors.ts.
func ContractErrors(c Context) string {
	return render(c, "domain errors", func(b *Builder) {
		b.Import("effect", "Data")
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__NotFoundError extends Data.TaggedError("__Class__NotFoundError")<{
  readonly id: string;
}> {}

export class __Class__ValidationError extends Data.TaggedError("__Class__ValidationError")<{
  readonly field: string;
  readonly message: string;
}> {}

export class __Class__ConflictError extends Data.TaggedError("__Class__ConflictError")<{
  readonly id: string;
  readonly reason: string;
}> {}

export type __Class__DomainError =
  | __Class__NotFoundError
  | __Class__ValidationError
  | __Class__ConflictError;
`))
	})
}

// ContractEntity renders lib/entities/<entity>.ts for c.Entity.
func ContractEntity(c Context) string {
	return render(c, c.Entity.ClassName+" entity", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
export const __Entity__Id = Schema.String.pipe(Schema.brand("__Entity__Id"));
export type __Entity__Id = typeof __Entity__Id.Type;

export class __Entity__ extends Schema.Class<__Entity__>("__Entity__")({
  id: __Entity__Id,
  createdAt: Schema.DateFromString,
  updatedAt: Schema.DateFromString,
}) {}

export type __Entity__Encoded = typeof __Entity__.Encoded;
`))
	})
}

// ContractEntitiesIndex renders lib/entities/index.ts.
func ContractEntitiesIndex(c Context) string {
	return render(c, "entity barrel", func(b *Builder) {
		for _, e := range c.Entities {
			b.ExportAll("./" + e.FileName)
		}
	})
}

// ContractPorts renders lib/ports.ts: one repository port per entity.
func ContractPorts(c Context) string {
	return render(c, "ports", func(b *Builder) {
		b.Import("effect", "Context", "Effect", "Option")
		b.TypeImport("./errors", c.Expand("__Class__DomainError"))
		b.TypeImport("./entities", entityTypeNames(c)...)
		for _, e := range c.Entities {
			b.Blank()
			b.Raw(c.ForEntity(e).Expand(`
export interface __Entity__RepositoryShape {
  readonly findById: (id: __Entity__Id) => Effect.Effect<Option.Option<__Entity__>, __Class__DomainError>;
  readonly findAll: () => Effect.Effect<ReadonlyArray<__Entity__>, __Class__DomainError>;
  readonly save: (entity: __Entity__) => Effect.Effect<void, __Class__DomainError>;
  readonly delete: (id: __Entity__Id) => Effect.Effect<void, __Class__DomainError>;
}

export class __Entity__Repository extends Context.Tag("__pkg__/__Entity__Repository")<
  __Entity__Repository,
  __Entity__RepositoryShape
>() {}
`))
		}
	})
}

// ContractEvents renders lib/events.ts.
func ContractEvents(c Context) string {
	return render(c, "domain events", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
const EventMeta = {
  id: Schema.String,
  occurredAt: Schema.DateFromString,
};

export const __Class__Created = Schema.TaggedStruct("__Class__Created", EventMeta);
export const __Class__Updated = Schema.TaggedStruct("__Class__Updated", {
  ...EventMeta,
  changes: Schema.Record({ key: Schema.String, value: Schema.Unknown }),
});
export const __Class__Deleted = Schema.TaggedStruct("__Class__Deleted", EventMeta);

export const __Class__Event = Schema.Union(__Class__Created, __Class__Updated, __Class__Deleted);
export type __Class__Event = typeof __Class__Event.Type;
`))
	})
}

// ContractTypes renders types.ts. It contains export type lines only, so
// importing it never pulls runtime code.
func ContractTypes(c Context) string {
	return render(c, "type-only entry", func(b *Builder) {
		for _, e := range c.Entities {
			ce := c.ForEntity(e)
			b.ExportType("./lib/entities/"+e.FileName,
				ce.Expand("__Entity__"), ce.Expand("__Entity__Id"), ce.Expand("__Entity__Encoded"))
		}
		b.ExportType("./lib/errors", c.Expand("__Class__DomainError"))
		b.ExportType("./lib/events", c.Expand("__Class__Event"))
	})
}

// ContractCommands renders lib/commands.ts.
func ContractCommands(c Context) string {
	return render(c, "commands", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
export const Create__Class__ = Schema.TaggedStruct("Create__Class__", {
  payload: Schema.Record({ key: Schema.String, value: Schema.Unknown }),
});

export const Update__Class__ = Schema.TaggedStruct("Update__Class__", {
  id: Schema.String,
  payload: Schema.Record({ key: Schema.String, value: Schema.Unknown }),
});

export const Delete__Class__ = Schema.TaggedStruct("Delete__Class__", {
  id: Schema.String,
});

export const __Class__Command = Schema.Union(Create__Class__, Update__Class__, Delete__Class__);
export type __Class__Command = typeof __Class__Command.Type;
`))
	})
}

// ContractQueries renders lib/queries.ts.
func ContractQueries(c Context) string {
	return render(c, "queries", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
export const Get__Class__ById = Schema.TaggedStruct("Get__Class__ById", {
  id: Schema.String,
});

export const List__Classes__ = Schema.TaggedStruct("List__Classes__", {
  limit: Schema.optional(Schema.Number),
  cursor: Schema.optional(Schema.String),
});

export const __Class__Query = Schema.Union(Get__Class__ById, List__Classes__);
export type __Class__Query = typeof __Class__Query.Type;
`))
	})
}

// ContractProjections renders lib/projections.ts.
func ContractProjections(c Context) string {
	return render(c, "read model projections", func(b *Builder) {
		b.Import("effect", "Schema")
		b.TypeImport("./events", c.Expand("__Class__Event"))
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__Summary extends Schema.Class<__Class__Summary>("__Class__Summary")({
  id: Schema.String,
  version: Schema.Number,
  deleted: Schema.Boolean,
}) {}

export const project__Class__ = (
  current: __Class__Summary | undefined,
  event: __Class__Event,
): __Class__Summary => {
  switch (event._tag) {
    case "__Class__Created":
      return new __Class__Summary({ id: event.id, version: 1, deleted: false });
    case "__Class__Updated":
      return new __Class__Summary({
        id: event.id,
        version: (current?.version ?? 0) + 1,
        deleted: false,
      });
    case "__Class__Deleted":
      return new __Class__Summary({
        id: event.id,
        version: (current?.version ?? 0) + 1,
        deleted: true,
      });
  }
};
`))
	})
}

// ContractRPC renders lib/rpc.ts.
func ContractRPC(c Context) string {
	primary := c.ForEntity(c.primaryEntity())
	return render(c, "RPC contract", func(b *Builder) {
		b.Import("@effect/rpc", "Rpc", "RpcGroup")
		b.Import("effect", "Schema")
		b.Import("./entities", primary.Expand("__Entity__"))
		b.Import("./errors", c.Expand("__Class__NotFoundError"), c.Expand("__Class__ValidationError"))
		b.Blank()
		b.Raw(primary.Expand(`
export class __Class__Rpcs extends RpcGroup.make(
  Rpc.make("get__Class__", {
    payload: { id: Schema.String },
    success: __Entity__,
    error: __Class__NotFoundError,
  }),
  Rpc.make("list__Classes__", {
    success: Schema.Array(__Entity__),
  }),
  Rpc.make("create__Class__", {
    payload: { data: Schema.Record({ key: Schema.String, value: Schema.Unknown }) },
    success: __Entity__,
    error: __Class__ValidationError,
  }),
) {}
`))
	})
}

// ContractIndex renders the barrel.
func ContractIndex(c Context) string {
	return render(c, "public API", func(b *Builder) {
		b.Section("Domain")
		b.ExportAll("./lib/errors")
		b.ExportAll("./lib/entities")
		b.ExportAll("./lib/ports")
		b.ExportAll("./lib/events")
		if c.Flags.IncludeCQRS {
			b.Section("CQRS")
			b.ExportAll("./lib/commands")
			b.ExportAll("./lib/queries")
			b.ExportAll("./lib/projections")
		}
		if c.Flags.IncludeRPC {
			b.Section("RPC")
			b.ExportAll("./lib/rpc")
		}
	})
}

func entityTypeNames(c Context) []string {
	names := make([]string, 0, 2*len(c.Entities))
	for _, e := range c.Entities {
		names = append(names, e.ClassName, e.ClassName+"Id")
	}
	return names
}
