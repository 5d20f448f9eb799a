package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mmrzaf/mockgen/internal/app"
	"github.com/mmrzaf/mockgen/internal/config"
	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/generators"
	"github.com/mmrzaf/mockgen/internal/infra/repos/fixtures"
	"github.com/mmrzaf/mockgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/mockgen/internal/logging"
	"github.com/mmrzaf/mockgen/internal/registry"
	"github.com/mmrzaf/mockgen/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	schemasDir   string
	fixturesDB   string
	logLevel     string
	timeWindow   string
	elementCount int
	maxDepth     int
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "mockgen",
		Short:        "Random mock instance generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&schemasDir, "schemas-dir", cfg.SchemasDir, "Schemas directory")
	rootCmd.PersistentFlags().StringVar(&fixturesDB, "fixtures-db", cfg.FixturesDB, "Fixture store (SQLite path or postgres:// DSN)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")
	rootCmd.PersistentFlags().StringVar(&timeWindow, "time-window", cfg.TimeWindow, "Relative start of the timestamp window (e.g. -30d)")
	rootCmd.PersistentFlags().IntVar(&elementCount, "default-elements", cfg.ElementCount, "Container size when neither request nor schema sets one")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", cfg.MaxDepth, "Nesting limit, 0 for unbounded")

	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(fixtureCmd())
	rootCmd.AddCommand(generatorsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRegistry() (*registry.GeneratorRegistry, error) {
	ts, err := generators.NewTimestampGenerator(timeWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid time window: %w", err)
	}
	return registry.NewDefaultGeneratorRegistry(ts), nil
}

// newService opens the fixture store only when withStore is set, so plain
// generation never creates a database file.
func newService(withStore bool) (*app.FixtureService, func(), error) {
	genRegistry, err := newRegistry()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(logLevel)

	closeFn := func() {}
	var fixtureRepo fixtures.Repository
	if withStore {
		repo, err := fixtures.Open(fixturesDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open fixture store %s: %w", fixtures.RedactDSN(fixturesDB), err)
		}
		logger.Debugw("fixture_store.opened", map[string]any{"dsn": fixtures.RedactDSN(fixturesDB)})
		fixtureRepo = repo
		closeFn = func() { _ = repo.Close() }
	}

	svc := app.NewFixtureService(
		schemas.NewFileRepository(schemasDir),
		fixtureRepo,
		genRegistry,
		logger,
		app.Options{ElementCount: elementCount, MaxDepth: maxDepth},
	)
	return svc, closeFn, nil
}

func isPathArg(s string) bool {
	return strings.Contains(s, "/") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml") || strings.HasSuffix(s, ".json")
}

func printValue(v interface{}, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage schemas",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := schemas.NewFileRepository(schemasDir)
			list, err := repo.List()
			if err != nil {
				return err
			}

			if format != "table" {
				return printValue(list, format)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tVERSION\tTYPES\tPRIMITIVES")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", s.ID, s.Name, s.Version, len(s.Types), len(s.Primitives))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|yaml)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show schema details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := schemas.NewFileRepository(schemasDir)
			schema, err := repo.Get(args[0])
			if err != nil {
				return err
			}
			return printValue(schema, "yaml")
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := schemas.NewFileRepository(schemasDir)
			var schema *domain.Schema
			var err error

			if isPathArg(args[0]) {
				schema, err = repo.GetByPath(args[0])
			} else {
				schema, err = repo.Get(args[0])
			}
			if err != nil {
				return err
			}

			genRegistry, err := newRegistry()
			if err != nil {
				return err
			}
			validator := validation.NewValidator(genRegistry)

			if err := validator.ValidateSchema(schema); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}

			fmt.Printf("Schema '%s' is valid\n", schema.Name)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		schemaID   string
		schemaPath string
		typeExpr   string
		elements   int
		seed       int64
		format     string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Populate a random instance of a schema type",
		Example: `  mockgen generate --schema orders --type Order
  mockgen generate --schema orders --type "list<Customer>" --elements 5 --seed 42 --format yaml
  mockgen generate --schema metrics --type "generic<map<uuid,Device>>" --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(save)
			if err != nil {
				return err
			}
			defer closeFn()

			req := &domain.GenerateRequest{Type: typeExpr, Save: save}

			if schemaPath != "" {
				schema, err := schemas.NewFileRepository(schemasDir).GetByPath(schemaPath)
				if err != nil {
					return err
				}
				req.Schema = schema
			} else if schemaID != "" {
				req.SchemaID = schemaID
			} else {
				return fmt.Errorf("either --schema or --schema-path required")
			}

			if cmd.Flags().Changed("elements") {
				req.ElementCount = &elements
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			res, err := svc.Generate(req)
			if err != nil {
				return err
			}

			if res.Saved {
				fmt.Fprintf(os.Stderr, "Fixture saved: %s (seed %d)\n", res.Fixture.ID, res.Fixture.Seed)
			}
			return printValue(res.Value, format)
		},
	}

	cmd.Flags().StringVar(&schemaID, "schema", "", "Schema ID or name")
	cmd.Flags().StringVar(&schemaPath, "schema-path", "", "Schema file path")
	cmd.Flags().StringVarP(&typeExpr, "type", "t", "", "Type expression, e.g. Order or map<string,list<int>>")
	cmd.Flags().IntVarP(&elements, "elements", "n", 0, "Elements per list or map")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|yaml)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the result in the fixture store")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func fixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Manage stored fixtures",
	}

	var (
		limit    int
		schemaID string
		format   string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.ListFixtures(limit, schemaID)
			if err != nil {
				return err
			}

			if format != "table" {
				return printValue(list, format)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCHEMA\tTYPE\tELEMENTS\tSEED\tCREATED")
			for _, f := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					f.ID[:8], f.SchemaID, f.TypeExpr, f.ElementCount, f.Seed, f.CreatedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&schemaID, "schema", "", "Filter by schema ID")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|yaml)")

	var payloadOnly bool
	showCmd := &cobra.Command{
		Use:   "show <fixture_id>",
		Short: "Show fixture details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := svc.GetFixture(args[0])
			if err != nil {
				return err
			}
			if payloadOnly {
				fmt.Println(string(f.Payload))
				return nil
			}
			return printValue(f, "yaml")
		},
	}
	showCmd.Flags().BoolVar(&payloadOnly, "payload", false, "Print only the JSON payload")

	deleteCmd := &cobra.Command{
		Use:   "delete <fixture_id>",
		Short: "Delete a fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(true)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.DeleteFixture(args[0]); err != nil {
				return err
			}
			fmt.Printf("Fixture deleted: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}

func generatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generators",
		Short: "Inspect value producers",
	}

	var format string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List primitives and parameterized generator kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			genRegistry, err := newRegistry()
			if err != nil {
				return err
			}
			info := app.GeneratorInfo{Primitives: genRegistry.List(), Kinds: genRegistry.Kinds()}

			if format != "table" {
				return printValue(info, format)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tROLE")
			for _, name := range info.Primitives {
				fmt.Fprintf(w, "%s\tprimitive\n", name)
			}
			for _, kind := range info.Kinds {
				fmt.Fprintf(w, "%s\tkind\n", kind)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|yaml)")

	cmd.AddCommand(listCmd)
	return cmd
}
