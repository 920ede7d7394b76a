package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/platinummonkey/pgcascade/pkg/catalog"
	"github.com/platinummonkey/pgcascade/pkg/report"
	"github.com/platinummonkey/pgcascade/pkg/resolver"
)

func newSummaryCommand() *Command {
	cmd := &Command{
		Name:        "summary",
		Description: "Report first-level dependent and foreign key counts for every table and view in a schema",
		Flags:       flag.NewFlagSet("summary", flag.ExitOnError),
		Run:         runSummary,
	}

	addConnectionFlags(cmd.Flags)

	return cmd
}

func runSummary(args []string) error {
	cmd := newSummaryCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	schema := cmd.Flags.Arg(0)
	if schema == "" {
		return fmt.Errorf("schema name is required: pgcascade summary [flags] <schema>")
	}

	cfg, err := loadConfig(cmd.Flags)
	if err != nil {
		return err
	}
	verbose := cmd.Flags.Lookup("verbose").Value.String() == "true"
	log := buildLogger(cfg, verbose)

	if cfg.Connection.Password == "" {
		password, err := promptPassword(cfg.Connection.User)
		if err != nil {
			return err
		}
		cfg.Connection.Password = password
	}

	ctx := context.Background()
	cat, err := catalog.Open(ctx, cfg.CatalogConfig(), log)
	if err != nil {
		return err
	}
	defer cat.Close()

	cached, err := catalog.NewCachingCatalog(cat, cfg.Output.CacheSize)
	if err != nil {
		return err
	}

	res := resolver.New(cached, resolver.WithLogger(log))
	summaries, err := res.Summarize(ctx, schema)
	if err != nil {
		return err
	}

	return report.WriteSummary(os.Stdout, schema, summaries)
}
