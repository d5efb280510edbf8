package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/permute/cli/cmd"
	"github.com/ardnew/permute/log"
	"github.com/ardnew/permute/pkg"
)

// CLI is the top-level command-line interface for permute.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Path            []string `help:"Directory searched for script files, before those in ${pathEnv} (repeatable)." name:"path" placeholder:"DIR" short:"I" type:"path"`
	MaxCombinations int      `default:"0" help:"Limit the combinations of one for item (0 is unlimited)."          name:"max-combinations"`

	Expand cmd.Expand `cmd:"" default:"withargs" help:"Expand scripts (default)"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format scripts"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
}

// Run executes the permute CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	yamlPath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: yamlPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
		"pathEnv":            pkg.EnvPrefix() + envPath,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolveYAML(yamlPath), yamlPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Stuff additional context values for use by commands.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cmd.Settings{
		SearchPath:      searchPath(os.Getenv, cli.Path...),
		MaxCombinations: cli.MaxCombinations,
		Logger:          log.Default(),
	})

	return ktx.Run()
}
