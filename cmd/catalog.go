package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinemactl/filter"
	"github.com/s0up4200/cinemactl/screen"
)

var (
	catalogList listFlags
	catalogForm = screen.NewCatalogForm()
	catalogOff  bool
)

// catalogCmd groups the movie catalog subcommands
var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"movies"},
	Short:   "Manage the movie catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries matching the filter criteria",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a movie to the catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogAdd,
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete catalog entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogDelete,
}

func init() {
	catalogList.register(catalogListCmd)

	catalogAddCmd.Flags().StringVar(&catalogForm.Title, "title", "", "movie title")
	catalogAddCmd.Flags().StringVar(&catalogForm.Genre, "genre", "", "genre")
	catalogAddCmd.Flags().StringVar(&catalogForm.Duration, "duration", "", "duration in minutes")
	catalogAddCmd.Flags().StringVar(&catalogForm.Rating, "rating", "", "rating, e.g. PG-13")
	catalogAddCmd.Flags().BoolVar(&catalogOff, "inactive", false, "add the entry as inactive")

	addDeleteFlags(catalogDeleteCmd)

	catalogCmd.AddCommand(catalogListCmd, catalogAddCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	f, err := catalogList.resolve()
	if err != nil {
		return err
	}

	s := screen.NewCatalogScreen(client.Catalog(), catalogList.screenOptions()...)
	if !s.Load(cmd.Context()) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatCatalog(filter.Apply(f, s.Items())))
	return nil
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	form := catalogForm
	form.Active = !catalogOff

	if cfg.Safety.DryRun {
		fmt.Printf("Would add %q to the catalog\n", strings.TrimSpace(form.Title))
		return nil
	}

	s := screen.NewCatalogScreen(client.Catalog(), screenOptions()...)
	s.SetForm(form)
	if !s.Create(cmd.Context()) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatCatalog(first(s.Items())))
	return nil
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s := screen.NewCatalogScreen(client.Catalog(), screenOptions(screen.WithAllPages(true))...)
	if !s.Load(ctx) {
		logger.Warn().Str("error", s.Err()).Msg("Could not load catalog, deleting by id only")
	}

	return deletion[string]{
		noun: "catalog entries",
		ids:  args,
		label: func(id string) string {
			if item, ok := s.Find(id); ok {
				return fmt.Sprintf("%s (%s)", item.MovieTitle, id)
			}
			return id
		},
		remove: s.RemoveMany,
		errMsg: s.Err,
	}.run(ctx)
}
