package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/Skyenought/libstarter/internal/generator"
	"github.com/Skyenought/libstarter/internal/project"
	"github.com/Skyenought/libstarter/internal/storage"
	"github.com/Skyenought/libstarter/internal/workspace"
	"github.com/Skyenought/libstarter/pkg/logger"
)

var (
	genCQRS         bool
	genRPC          bool
	genClientServer bool
	genEdge         bool
	genPlatform     string
	genDirectory    string
	genDescription  string
	genTags         string
	genEntities     string
	genVersion      string
	genMode         string
	genDryRun       bool
)

var generateCmd = &cobra.Command{
	Use:     "generate [kind] [name]",
	Short:   "Generate a new library",
	Long:    kindsHelp("Generate a library of the given kind.\n\nKinds:\n"),
	Aliases: []string{"gen"},
	Args:    cobra.MaximumNArgs(2),
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.BoolVar(&genCQRS, "cqrs", false, "include command, query and projection files")
	f.BoolVar(&genRPC, "rpc", false, "include RPC schema and handlers")
	f.BoolVar(&genClientServer, "client-server", false, "emit both server and client entry points")
	f.BoolVar(&genEdge, "edge", false, "emit an edge runtime entry point")
	f.StringVar(&genPlatform, "platform", "", "target platform: node, browser, edge or universal (default depends on kind)")
	f.StringVarP(&genDirectory, "directory", "d", "", "directory below the libraries root (default: the kind)")
	f.StringVar(&genDescription, "description", "", "package description")
	f.StringVar(&genTags, "tags", "", "comma separated project tags")
	f.StringVar(&genEntities, "entities", "", "comma separated contract entities (default: the library name)")
	f.StringVar(&genVersion, "version", "", "initial package version (default 0.0.1)")
	f.StringVar(&genMode, "mode", string(storage.ModeBuffered), "write mode: buffered or direct")
	f.BoolVar(&genDryRun, "dry-run", false, "print the files instead of writing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, name, err := resolveKindAndName(cmd, args)
	if err != nil {
		return err
	}
	platform, err := project.ParsePlatform(genPlatform)
	if err != nil {
		return err
	}
	mode := storage.Mode(genMode)
	if mode != storage.ModeBuffered && mode != storage.ModeDirect {
		return fmt.Errorf("unsupported mode %q (want buffered or direct)", genMode)
	}

	root, err := resolveWorkspaceDir()
	if err != nil {
		return err
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	opts := generator.Options{
		Name:                name,
		Directory:           genDirectory,
		Description:         genDescription,
		Tags:                splitList(genTags),
		Entities:            splitList(genEntities),
		Version:             genVersion,
		IncludeCQRS:         genCQRS,
		IncludeRPC:          genRPC,
		IncludeClientServer: genClientServer,
		IncludeEdge:         genEdge,
		Platform:            platform,
	}

	disk := storage.NewDirect(root, log)
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if mode == storage.ModeDirect && !genDryRun {
		res, err := newGenerator(disk, log).Generate(ctx, kind, opts)
		if err != nil {
			return err
		}
		printSummary(out, kind, res)
		return nil
	}

	buffer := storage.NewBuffered(root, disk)
	res, err := newGenerator(buffer, log).Generate(ctx, kind, opts)
	if err != nil {
		buffer.Discard()
		return err
	}
	if genDryRun {
		_, _ = out.Write(buffer.Archive())
		fmt.Fprintf(out, "\n(dry run) %d files for %s were not written.\n", len(res.FilesGenerated), res.PackageName)
		return nil
	}
	if err := buffer.Flush(ctx, disk); err != nil {
		return fmt.Errorf("write files: %w", err)
	}
	printSummary(out, kind, res)
	return nil
}

func newGenerator(a storage.Adapter, log logger.Logger) *generator.Generator {
	return generator.New(a,
		generator.WithResolver(envResolver{base: workspace.Detector{Adapter: a}}),
		generator.WithLogger(log),
	)
}

// resolveKindAndName takes the positional arguments and asks for whatever
// is missing.
func resolveKindAndName(cmd *cobra.Command, args []string) (project.Kind, string, error) {
	var kindArg, name string
	if len(args) > 0 {
		kindArg = args[0]
	}
	if len(args) > 1 {
		name = args[1]
	}

	if kindArg == "" {
		options := make([]string, len(project.Kinds))
		for i, k := range project.Kinds {
			options[i] = string(k)
		}
		prompt := &survey.Select{
			Message:     "Which kind of library?",
			Options:     options,
			Description: func(value string, _ int) string { return project.Kind(value).Description() },
		}
		if err := survey.AskOne(prompt, &kindArg); err != nil {
			return "", "", err
		}
	}
	kind, err := project.ParseKind(kindArg)
	if err != nil {
		return "", "", err
	}

	if name == "" {
		prompt := &survey.Input{Message: "Library name (e.g. user-profile):"}
		if err := survey.AskOne(prompt, &name, survey.WithValidator(survey.Required)); err != nil {
			return "", "", err
		}
		if err := askFlags(cmd, kind); err != nil {
			return "", "", err
		}
	}
	return kind, name, nil
}

// askFlags prompts for the options of kind that were not set on the
// command line. It only runs in interactive mode.
func askFlags(cmd *cobra.Command, kind project.Kind) error {
	changed := cmd.Flags().Changed
	if (kind == project.KindContract || kind == project.KindFeature) && !changed("cqrs") {
		if err := survey.AskOne(&survey.Confirm{Message: "Include CQRS commands, queries and projections?"}, &genCQRS); err != nil {
			return err
		}
	}
	if (kind == project.KindContract || kind == project.KindFeature) && !changed("rpc") {
		if err := survey.AskOne(&survey.Confirm{Message: "Include RPC definitions?"}, &genRPC); err != nil {
			return err
		}
	}
	if kind != project.KindContract && kind != project.KindDataAccess && !changed("platform") {
		prompt := &survey.Select{
			Message: "Target platform:",
			Options: []string{
				string(project.PlatformNode),
				string(project.PlatformBrowser),
				string(project.PlatformEdge),
				string(project.PlatformUniversal),
			},
			Default: string(project.DefaultPlatform(kind)),
		}
		if err := survey.AskOne(prompt, &genPlatform); err != nil {
			return err
		}
	}
	return nil
}

// envResolver applies LIBSTARTER_SCOPE and LIBSTARTER_LIBS_DIR on top of
// the detected workspace.
type envResolver struct {
	base workspace.Resolver
}

func (r envResolver) Resolve(ctx context.Context) (workspace.Config, error) {
	cfg, err := r.base.Resolve(ctx)
	if err != nil {
		return workspace.Config{}, err
	}
	if scope, ok := os.LookupEnv(envScope); ok {
		cfg.Scope = strings.TrimPrefix(strings.TrimSpace(scope), "@")
	}
	if dir := strings.TrimSpace(os.Getenv(envLibsDir)); dir != "" {
		cfg.LibrariesRoot = dir
	}
	return cfg, nil
}

func printSummary(w io.Writer, kind project.Kind, res *generator.Result) {
	fmt.Fprintf(w, "🚀 Generated %s library %s\n", kind, res.PackageName)
	for _, p := range res.FilesGenerated {
		fmt.Fprintf(w, " ✓ %s\n", p)
	}
	fmt.Fprintln(w, "\n👉 Next steps:")
	fmt.Fprintf(w, "   1. Import it with: import { ... } from %q\n", res.PackageName)
	fmt.Fprintf(w, "   2. Build it with:  nx build %s\n", res.ProjectName)
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
