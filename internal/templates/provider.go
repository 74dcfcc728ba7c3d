package templates

// ProviderErrors renders lib/errors.ts.
func ProviderErrors(c Context) string {
	return render(c, "SDK errors", func(b *Builder) {
		b.Import("effect", "Data")
		b.Blank()
		b.Raw(c.Expand(`
export class __Class__ApiError extends Data.TaggedError("__Class__ApiError")<{
  readonly status: number;
  readonly message: string;
  readonly cause?: unknown;
}> {}

export class __Class__ConfigError extends Data.TaggedError("__Class__ConfigError")<{
  readonly message: string;
}> {}

export type __Class__Error = __Class__ApiError | __Class__ConfigError;
`))
	})
}

// ProviderTypes renders lib/types.ts.
func ProviderTypes(c Context) string {
	return render(c, "SDK types", func(b *Builder) {
		b.Raw(c.Expand(`
export interface __Class__ClientOptions {
  readonly apiKey: string;
  readonly baseUrl?: string;
  readonly timeoutMs?: number;
}

export interface __Class__Resource {
  readonly id: string;
  readonly [key: string]: unknown;
}
`))
	})
}

// ProviderValidation renders lib/validation.ts.
func ProviderValidation(c Context) string {
	return render(c, "option validation", func(b *Builder) {
		b.Import("effect", "Effect", "Schema")
		b.Import("./errors", c.Expand("__Class__ConfigError"))
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__ClientOptionsSchema = Schema.Struct({
  apiKey: Schema.NonEmptyString,
  baseUrl: Schema.optional(Schema.String),
  timeoutMs: Schema.optional(Schema.Positive),
});

export const validate__Class__Options = (input: unknown) =>
  Schema.decodeUnknown(__Class__ClientOptionsSchema)(input).pipe(
    Effect.mapError((error) => new __Class__ConfigError({ message: error.message })),
  );
`))
	})
}

// ProviderService renders lib/service.ts.
func ProviderService(c Context) string {
	return render(c, "SDK service", func(b *Builder) {
		b.Import("effect", "Context", "Effect")
		b.TypeImport("./errors", c.Expand("__Class__Error"))
		b.TypeImport("./types", c.Expand("__Class__Resource"))
		b.Blank()
		b.Raw(c.Expand(`
export interface __Class__ServiceShape {
  readonly retrieve: (id: string) => Effect.Effect<__Class__Resource, __Class__Error>;
  readonly list: () => Effect.Effect<ReadonlyArray<__Class__Resource>, __Class__Error>;
}

export class __Class__Service extends Context.Tag("__pkg__/__Class__Service")<
  __Class__Service,
  __Class__ServiceShape
>() {}
`))
	})
}

// ProviderLayers renders lib/layers.ts.
func ProviderLayers(c Context) string {
	return render(c, "layers", func(b *Builder) {
		b.Import("effect", "Config", "Effect", "Layer", "Redacted")
		b.Import("./errors", c.Expand("__Class__ApiError"))
		b.Import("./service", c.Expand("__Class__Service"))
		b.Import("./validation", c.Expand("validate__Class__Options"))
		b.TypeImport("./types", c.Expand("__Class__Resource"))
		b.Blank()
		b.Raw(c.Expand(`
export const __Class__Live = Layer.effect(
  __Class__Service,
  Effect.gen(function* () {
    const apiKey = yield* Config.redacted("__CONST___API_KEY");
    const options = yield* validate__Class__Options({ apiKey: Redacted.value(apiKey) });
    const request = (path: string) =>
      Effect.tryPromise({
        try: () =>
          fetch(` + "`${options.baseUrl ?? \"\"}${path}`" + `, {
            headers: { authorization: ` + "`Bearer ${options.apiKey}`" + ` },
          }).then((res) => res.json()),
        catch: (cause) => new __Class__ApiError({ status: 0, message: "request failed", cause }),
      });
    return __Class__Service.of({
      retrieve: (id) => request(` + "`/__files__/${id}`" + `) as Effect.Effect<__Class__Resource, __Class__ApiError>,
      list: () => request("/__files__") as Effect.Effect<ReadonlyArray<__Class__Resource>, __Class__ApiError>,
    });
  }),
);

export const __Class__Test = (resources: ReadonlyArray<__Class__Resource> = []) =>
  Layer.succeed(
    __Class__Service,
    __Class__Service.of({
      retrieve: (id) => {
        const found = resources.find((r) => r.id === id);
        return found
          ? Effect.succeed(found)
          : Effect.fail(new __Class__ApiError({ status: 404, message: ` + "`${id} not found`" + ` }));
      },
      list: () => Effect.succeed(resources),
    }),
  );
`))
	})
}

// ProviderEntry returns the renderer of the <t>.ts entry point.
func ProviderEntry(t Target) func(Context) string {
	return func(c Context) string {
		return render(c, string(t)+" entry", func(b *Builder) {
			b.ExportAll("./lib/service")
			b.ExportAll("./lib/layers")
			if t == TargetClient {
				b.ExportType("./lib/types", c.Expand("__Class__Resource"))
			}
		})
	}
}

// ProviderIndex renders the barrel.
func ProviderIndex(c Context) string {
	return render(c, "public API", func(b *Builder) {
		b.ExportAll("./lib/errors")
		b.ExportAll("./lib/types")
		b.ExportAll("./lib/validation")
		b.ExportAll("./lib/service")
	})
}
