package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cinemactl/cinema"
	"github.com/s0up4200/cinemactl/filter"
	"github.com/s0up4200/cinemactl/screen"
)

var (
	showList listFlags
	showForm screen.ShowForm
)

// showCmd groups the show subcommands
var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"shows"},
	Short:   "Manage scheduled shows",
}

var showListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shows matching the filter criteria",
	Args:  cobra.NoArgs,
	RunE:  runShowList,
}

var showAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a new show",
	Args:  cobra.NoArgs,
	RunE:  runShowAdd,
}

var showEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a show; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowEdit,
}

var showDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete shows",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShowDelete,
}

func init() {
	showList.register(showListCmd)

	for _, c := range []*cobra.Command{showAddCmd, showEditCmd} {
		c.Flags().StringVar(&showForm.Title, "title", "", "movie title")
		c.Flags().StringVar(&showForm.Room, "room", "", "room")
		c.Flags().StringVar(&showForm.Price, "price", "", "ticket price, e.g. 12.50")
		c.Flags().StringVar(&showForm.Seats, "seats", "", "available seats")
	}

	addDeleteFlags(showDeleteCmd)

	showCmd.AddCommand(showListCmd, showAddCmd, showEditCmd, showDeleteCmd)
	rootCmd.AddCommand(showCmd)
}

func runShowList(cmd *cobra.Command, args []string) error {
	f, err := showList.resolve()
	if err != nil {
		return err
	}

	s := screen.NewShowAdminScreen(client.Shows(), showList.screenOptions()...)
	if !s.Load(cmd.Context()) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatShows(filter.Apply(f, s.Items())))
	return nil
}

func runShowAdd(cmd *cobra.Command, args []string) error {
	if cfg.Safety.DryRun {
		fmt.Printf("Would schedule %q in room %q\n", showForm.Title, showForm.Room)
		return nil
	}

	s := screen.NewShowAdminScreen(client.Shows(), screenOptions()...)
	s.SetForm(showForm)
	if !s.Save(cmd.Context()) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatShows(first(s.Items())))
	return nil
}

func runShowEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	id := ids[0]

	s := screen.NewShowAdminScreen(client.Shows(), screenOptions(screen.WithAllPages(true))...)
	if !s.Load(ctx) {
		return screenError(s.Err())
	}
	show, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("show %d not found", id)
	}

	s.StartEdit(show)
	form, _ := s.Form()
	flags := cmd.Flags()
	if flags.Changed("title") {
		form.Title = showForm.Title
	}
	if flags.Changed("room") {
		form.Room = showForm.Room
	}
	if flags.Changed("price") {
		form.Price = showForm.Price
	}
	if flags.Changed("seats") {
		form.Seats = showForm.Seats
	}
	s.SetForm(form)

	if cfg.Safety.DryRun {
		fmt.Printf("Would update show %d\n", id)
		fmt.Print(formatter.FormatShows([]cinema.Show{previewShow(id, form)}))
		return nil
	}

	if !s.Save(ctx) {
		return screenError(s.Err())
	}

	updated, _ := s.Find(id)
	fmt.Print(formatter.FormatShows([]cinema.Show{updated}))
	return nil
}

// previewShow renders form input for dry runs; unparsable numbers show as zero
func previewShow(id int64, form screen.ShowForm) cinema.Show {
	price, _ := decimal.NewFromString(form.Price)
	seats, _ := strconv.Atoi(form.Seats)
	return cinema.Show{
		ID:             id,
		MovieTitle:     form.Title,
		Room:           form.Room,
		Price:          price,
		AvailableSeats: seats,
	}
}

func runShowDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	s := screen.NewShowAdminScreen(client.Shows(), screenOptions(screen.WithAllPages(true))...)
	if !s.Load(ctx) {
		logger.Warn().Str("error", s.Err()).Msg("Could not load shows, deleting by id only")
	}

	return deletion[int64]{
		noun: "shows",
		ids:  ids,
		label: func(id int64) string {
			if show, ok := s.Find(id); ok {
				return fmt.Sprintf("%s (ID: %d)", show.MovieTitle, id)
			}
			return fmt.Sprintf("ID: %d", id)
		},
		remove: s.RemoveMany,
		errMsg: s.Err,
	}.run(ctx)
}
