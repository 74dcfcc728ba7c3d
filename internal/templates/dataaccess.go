package templates

// DataAccessErrors renders lib/errors.ts.
func DataAccessErrors(c Context) string {
	return render(c, "persistence errors", func(b *Builder) {
		b.Import("effect", "Data")
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__DatabaseError extends Data.TaggedError("__Class__DatabaseError")<{
  readonly operation: string;
  readonly cause: unknown;
}> {}

export class __Class__NotFoundError extends Data.TaggedError("__Class__NotFoundError")<{
  readonly id: string;
}> {}

export class __Class__ConflictError extends Data.TaggedError("__Class__ConflictError")<{
  readonly id: string;
}> {}

export type __Class__RepositoryError =
  | __Class__DatabaseError
  | __Class__NotFoundError
  | __Class__ConflictError;
`))
	})
}

// DataAccessTypes renders lib/types.ts.
func DataAccessTypes(c Context) string {
	return render(c, "row and input types", func(b *Builder) {
		b.Raw(c.Expand(`
export interface __Class__Row {
  readonly id: string;
  readonly createdAt: Date;
  readonly updatedAt: Date;
}

export interface Create__Class__Input {
  readonly id?: string;
}

export interface Update__Class__Input {
  readonly id: string;
}

export interface __Class__Filter {
  readonly ids?: ReadonlyArray<string>;
  readonly createdAfter?: Date;
}

export interface Page<T> {
  readonly items: ReadonlyArray<T>;
  readonly nextCursor: string | null;
}
`))
	})
}

// DataAccessValidation renders lib/validation.ts.
func DataAccessValidation(c Context) string {
	return render(c, "input validation", func(b *Builder) {
		b.Import("effect", "Schema")
		b.Blank()
		b.Raw(c.Expand(`
export const Create__Class__InputSchema = Schema.Struct({
  id: Schema.optional(Schema.UUID),
});

export const Update__Class__InputSchema = Schema.Struct({
  id: Schema.UUID,
});

export const validateCreate__Class__Input = Schema.decodeUnknown(Create__Class__InputSchema);
export const validateUpdate__Class__Input = Schema.decodeUnknown(Update__Class__InputSchema);
`))
	})
}

// DataAccessRepository renders lib/repository.ts.
func DataAccessRepository(c Context) string {
	return render(c, "repository", func(b *Builder) {
		b.Import("@effect/sql", "SqlClient")
		b.Import("effect", "Context", "Effect", "Option")
		b.Import("./errors", c.Expand("__Class__DatabaseError"), c.Expand("__Class__NotFoundError"))
		b.Import("./queries", c.Expand("__CONST___TABLE"))
		b.TypeImport("./types", c.Expand("__Class__Row"), c.Expand("Create__Class__Input"), c.Expand("__Class__Filter"))
		b.Blank()
		b.Raw(c.Expand(`
export interface __Class__RepositoryShape {
  readonly findById: (id: string) => Effect.Effect<Option.Option<__Class__Row>, __Class__DatabaseError>;
  readonly getById: (id: string) => Effect.Effect<__Class__Row, __Class__DatabaseError | __Class__NotFoundError>;
  readonly findMany: (filter: __Class__Filter) => Effect.Effect<ReadonlyArray<__Class__Row>, __Class__DatabaseError>;
  readonly create: (input: Create__Class__Input) => Effect.Effect<__Class__Row, __Class__DatabaseError>;
  readonly delete: (id: string) => Effect.Effect<void, __Class__DatabaseError>;
}

export class __Class__Repository extends Context.Tag("__pkg__/__Class__Repository")<
  __Class__Repository,
  __Class__RepositoryShape
>() {}

export const make__Class__Repository = Effect.gen(function* () {
  const sql = yield* SqlClient.SqlClient;
  const table = sql(__CONST___TABLE);
  const fail = (operation: string) => (cause: unknown) =>
    new __Class__DatabaseError({ operation, cause });

  const findById: __Class__RepositoryShape["findById"] = (id) =>
    sql<__Class__Row>` + "`" + `SELECT * FROM ${table} WHERE id = ${id}` + "`" + `.pipe(
      Effect.map((rows) => Option.fromNullable(rows[0])),
      Effect.mapError(fail("findById")),
    );

  return __Class__Repository.of({
    findById,
    getById: (id) =>
      findById(id).pipe(
        Effect.flatMap(
          Option.match({
            onNone: () => Effect.fail(new __Class__NotFoundError({ id })),
            onSome: Effect.succeed,
          }),
        ),
      ),
    findMany: (filter) =>
      sql<__Class__Row>` + "`" + `SELECT * FROM ${table} WHERE ${sql.and(
        filter.ids ? [sql.in("id", filter.ids)] : [],
      )}` + "`" + `.pipe(Effect.mapError(fail("findMany"))),
    create: (input) =>
      sql<__Class__Row>` + "`" + `INSERT INTO ${table} ${sql.insert(input)} RETURNING *` + "`" + `.pipe(
        Effect.map((rows) => rows[0]!),
        Effect.mapError(fail("create")),
      ),
    delete: (id) =>
      sql` + "`" + `DELETE FROM ${table} WHERE id = ${id}` + "`" + `.pipe(
        Effect.asVoid,
        Effect.mapError(fail("delete")),
      ),
  });
});
`))
	})
}

// DataAccessQueries renders lib/queries.ts.
func DataAccessQueries(c Context) string {
	return render(c, "query constants", func(b *Builder) {
		b.Raw(c.Expand(`
export const __CONST___TABLE = "__files__";

export const __CONST___COLUMNS = ["id", "created_at", "updated_at"] as const;

export const DEFAULT___CONST___PAGE_SIZE = 50;
`))
	})
}

// DataAccessLayers renders lib/layers.ts.
func DataAccessLayers(c Context) string {
	return render(c, "layers", func(b *Builder) {
		b.Import("effect", "Effect", "Layer", "Option")
		b.Import("./errors", c.Expand("__Class__NotFoundError"))
		b.Import("./repository", c.Expand("__Class__Repository"), c.Expand("make__Class__Repository"))
		b.TypeImport("./types", c.Expand("__Class__Row"))
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__RepositoryLive = Layer.effect(__Class__Repository, make__Class__Repository);

export const __Class__RepositoryTest = (seed: ReadonlyArray<__Class__Row> = []) =>
  Layer.sync(__Class__Repository, () => {
    const rows = new Map(seed.map((row) => [row.id, row] as const));
    return __Class__Repository.of({
      findById: (id) => Effect.succeed(Option.fromNullable(rows.get(id))),
      getById: (id) => {
        const row = rows.get(id);
        return row ? Effect.succeed(row) : Effect.fail(new __Class__NotFoundError({ id }));
      },
      findMany: () => Effect.succeed([...rows.values()]),
      create: (input) =>
        Effect.sync(() => {
          const now = new Date();
          const row = { id: input.id ?? crypto.randomUUID(), createdAt: now, updatedAt: now };
          rows.set(row.id, row);
          return row;
        }),
      delete: (id) => Effect.sync(() => void rows.delete(id)),
    });
  });
`))
	})
}

// DataAccessIndex renders the barrel.
func DataAccessIndex(c Context) string {
	return render(c, "public API", func(b *Builder) {
		b.ExportAll("./lib/errors")
		b.ExportAll("./lib/types")
		b.ExportAll("./lib/validation")
		b.ExportAll("./lib/repository")
		b.ExportAll("./lib/queries")
		b.ExportAll("./lib/layers")
	})
}
