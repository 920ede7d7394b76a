package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pgcascade/pkg/config"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command
func NewRootCommand() *Command {
	root := &Command{
		Name:        "pgcascade",
		Description: "pgcascade - PostgreSQL object dependency inspector",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("pgcascade", flag.ExitOnError),
	}

	// Add subcommands
	root.Subcommands["summary"] = newSummaryCommand()
	root.Subcommands["cascade"] = newCascadeCommand()

	return root
}

// Execute runs the command
func (c *Command) Execute() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return c.usage()
	}

	// Check for help flag
	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	// Check for subcommand
	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", c.Name)
	fmt.Printf("Commands:\n")
	for name, cmd := range c.Subcommands {
		fmt.Printf("  %-15s %s\n", name, cmd.Description)
	}
	return nil
}

// addConnectionFlags registers the flags shared by every subcommand that
// talks to the database.
func addConnectionFlags(fs *flag.FlagSet) {
	fs.String("host", "", "Database host address (default from config)")
	fs.Int("port", 0, "Database port (default from config)")
	fs.String("user", "", "Database user name (default from config)")
	fs.String("password", "", "User password; prompted when not set")
	fs.String("database", "", "Database name (default from config)")
	fs.String("sslmode", "", "libpq sslmode (default from config)")
	fs.Bool("verbose", false, "Verbose traversal logging")
}

// loadConfig loads the layered configuration and applies flag overrides.
func loadConfig(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if host := fs.Lookup("host").Value.String(); host != "" {
		cfg.Connection.Host = host
	}
	if port := fs.Lookup("port").Value.String(); port != "" && port != "0" {
		fmt.Sscanf(port, "%d", &cfg.Connection.Port)
	}
	if user := fs.Lookup("user").Value.String(); user != "" {
		cfg.Connection.User = user
	}
	if password := fs.Lookup("password").Value.String(); password != "" {
		cfg.Connection.Password = password
	}
	if database := fs.Lookup("database").Value.String(); database != "" {
		cfg.Connection.Database = database
	}
	if sslMode := fs.Lookup("sslmode").Value.String(); sslMode != "" {
		cfg.Connection.SSLMode = sslMode
	}

	return cfg, nil
}

// buildLogger creates the CLI logger. The verbose flag wins over the
// configured level.
func buildLogger(cfg *config.Config, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return log
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
