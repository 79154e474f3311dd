package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cinemactl/cinema"
	"github.com/s0up4200/cinemactl/config"
	"github.com/s0up4200/cinemactl/filter"
	"github.com/s0up4200/cinemactl/screen"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *cinema.Client
	filters *filter.Manager
	policy  screen.SyncPolicy

	formatter = screen.NewConsoleFormatter()

	appVersion   = "dev"
	appBuildTime = "unknown"

	// Command flags
	dryRun    bool
	noConfirm bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cinemactl",
	Short: "Manage a cinema reservation backend from the terminal",
	Long: `cinemactl is a CLI and terminal UI for the cinema reservation API.
It lists, creates, edits and deletes catalog entries, shows, reservations
and reservation events, with expression filters and saved presets.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records the build metadata reported by the version command
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	policy, err = screen.ParseSyncPolicy(cfg.Sync.Policy)
	if err != nil {
		return err
	}

	client, err = newClient(cfg.API, logger)
	if err != nil {
		return err
	}

	filters = filter.NewManager(filter.WithCompiler(filter.NewExprCompiler(filter.WithCache(64))))
	if err := filters.RegisterPresets(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("failed to register filter presets: %w", err)
	}

	logger.Debug().
		Str("url", client.BaseURL()).
		Str("policy", string(policy)).
		Bool("dry_run", cfg.Safety.DryRun).
		Msg("Initialized")

	return nil
}

// newClient builds an API client that logs through the given logger
func newClient(api config.APIConfig, logger zerolog.Logger) (*cinema.Client, error) {
	c, err := cinema.NewClient(api.URL, tokenSource(api), logger,
		cinema.WithTimeout(api.Timeout),
		cinema.WithUserAgent(api.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return c, nil
}

// tokenSource picks the credential source; nil means anonymous requests
func tokenSource(api config.APIConfig) cinema.TokenSource {
	switch {
	case api.Token != "":
		return cinema.StaticToken(api.Token)
	case api.TokenFile != "":
		return cinema.FileToken{Path: api.TokenFile}
	default:
		return nil
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Colors only make sense on a terminal
	noColor := !cfg.Color || !(isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// screenOptions returns the options every screen shares
func screenOptions(extra ...screen.Option) []screen.Option {
	opts := []screen.Option{
		screen.WithLogger(logger),
		screen.WithPolicy(policy),
	}
	return append(opts, extra...)
}

// listFlags holds the flags shared by every list subcommand
type listFlags struct {
	filter   string
	preset   string
	search   string
	ordering string
	all      bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().StringVar(&f.search, "search", "", "server-side search term")
	cmd.Flags().StringVar(&f.ordering, "ordering", "", "server-side ordering, e.g. -id")
	cmd.Flags().BoolVar(&f.all, "all", false, "follow pagination and fetch every page")
}

func (f *listFlags) screenOptions() []screen.Option {
	return screenOptions(
		screen.WithListOptions(cinema.ListOptions{Search: f.search, Ordering: f.ordering}),
		screen.WithAllPages(f.all),
	)
}

// resolve compiles the selected preset and expression. The result is nil
// when neither is set.
func (f *listFlags) resolve() (filter.Filter, error) {
	compiled, err := filters.Resolve(f.filter, f.preset)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if compiled == nil {
		return nil, nil
	}
	logger.Debug().Str("filter", compiled.Expression()).Msg("Filtering results")
	return compiled, nil
}

// screenError turns a screen's fixed failure message into a command error
func screenError(msg string) error {
	if msg == "" {
		msg = "operation failed"
	}
	return errors.New(msg)
}

// deletion describes a pending multi-delete
type deletion[K comparable] struct {
	noun   string
	ids    []K
	label  func(K) string
	remove func(context.Context, []K) (int, bool)
	errMsg func() string
}

// run previews the deletion, asks for confirmation and deletes
func (d deletion[K]) run(ctx context.Context) error {
	labels := make([]string, len(d.ids))
	for i, id := range d.ids {
		labels[i] = d.label(id)
	}
	fmt.Print(formatter.FormatDeletion(d.noun, labels))

	if cfg.Safety.DryRun {
		logger.Info().Int("count", len(d.ids)).Msg("Dry run mode - no changes made")
		return nil
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		if !confirm(os.Stdin, os.Stdout, fmt.Sprintf("Delete %d %s?", len(d.ids), d.noun)) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
	}

	removed, ok := d.remove(ctx, d.ids)
	logger.Info().Int("removed", removed).Int("requested", len(d.ids)).Msgf("Deleted %s", d.noun)
	if !ok {
		return screenError(d.errMsg())
	}
	return nil
}

func addDeleteFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

// confirm asks a yes/no question; anything but y or yes declines
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// parseIDs parses numeric ids from positional arguments
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id: %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the cinema API",
	Long:  `Test the connection to the cinema API and report on the configured token.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("Testing connection to %s...\n", client.BaseURL())
	if err := client.TestConnection(ctx); err != nil {
		var apiErr *cinema.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			return fmt.Errorf("connection failed: token rejected: %w", err)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	tokens := tokenSource(cfg.API)
	if tokens == nil {
		fmt.Println("\nAuthentication: anonymous (read-only endpoints only)")
		return nil
	}

	raw, err := tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	claims, err := cinema.InspectToken(raw)
	if err != nil {
		fmt.Println("\nAuthentication: token is not a JWT, skipping inspection")
		return nil
	}

	fmt.Printf("\nAuthentication:\n")
	if claims.Subject != "" {
		fmt.Printf("- Subject: %s\n", claims.Subject)
	}
	if !claims.IssuedAt.IsZero() {
		fmt.Printf("- Issued: %s\n", claims.IssuedAt.Format(time.RFC3339))
	}
	switch {
	case claims.ExpiresAt.IsZero():
		fmt.Println("- Expires: never")
	case claims.Expired(time.Now()):
		fmt.Printf("- Expires: %s (EXPIRED)\n", claims.ExpiresAt.Format(time.RFC3339))
	default:
		fmt.Printf("- Expires: %s (in %s)\n", claims.ExpiresAt.Format(time.RFC3339),
			time.Until(claims.ExpiresAt).Round(time.Minute))
	}

	return nil
}

// first returns at most the first item; after a create it is the new record
func first[T any](items []T) []T {
	return items[:min(1, len(items))]
}
