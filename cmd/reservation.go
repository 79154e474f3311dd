package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinemactl/cinema"
	"github.com/s0up4200/cinemactl/filter"
	"github.com/s0up4200/cinemactl/screen"
)

var (
	reservationList   listFlags
	reservationPublic bool
	reservationShowID int64
	reservationForm   = screen.ReservationForm{Status: string(cinema.StatusReserved)}
)

// reservationCmd groups the reservation subcommands
var reservationCmd = &cobra.Command{
	Use:     "reservation",
	Aliases: []string{"reservations", "res"},
	Short:   "Manage reservations",
}

var reservationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reservations matching the filter criteria",
	Args:  cobra.NoArgs,
	RunE:  runReservationList,
}

var reservationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a reservation",
	Args:  cobra.NoArgs,
	RunE:  runReservationAdd,
}

var reservationEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a reservation; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE:  runReservationEdit,
}

var reservationDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete reservations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReservationDelete,
}

func init() {
	reservationList.register(reservationListCmd)
	reservationListCmd.Flags().BoolVar(&reservationPublic, "public", false, "use the public, read-only listing")
	reservationListCmd.Flags().Int64Var(&reservationShowID, "show-id", 0, "only reservations for this show")

	for _, c := range []*cobra.Command{reservationAddCmd, reservationEditCmd} {
		c.Flags().Int64Var(&reservationForm.ShowID, "show", 0, "show id")
		c.Flags().StringVar(&reservationForm.ShowTitle, "title", "", "movie title (defaults to the show's title)")
		c.Flags().StringVar(&reservationForm.CustomerName, "customer", "", "customer name")
		c.Flags().StringVar(&reservationForm.Seats, "seats", "", "number of seats")
		c.Flags().StringVar(&reservationForm.Status, "status", string(cinema.StatusReserved), "RESERVED, CONFIRMED or CANCELLED")
	}

	addDeleteFlags(reservationDeleteCmd)

	reservationCmd.AddCommand(reservationListCmd, reservationAddCmd, reservationEditCmd, reservationDeleteCmd)
	rootCmd.AddCommand(reservationCmd)
}

func runReservationList(cmd *cobra.Command, args []string) error {
	f, err := reservationList.resolve()
	if err != nil {
		return err
	}

	opts := append(reservationList.screenOptions(), screen.WithListOptions(cinema.ListOptions{
		Search:   reservationList.search,
		Ordering: reservationList.ordering,
		ShowID:   reservationShowID,
	}))

	var items []cinema.Reservation
	if reservationPublic {
		s := screen.NewPublicReservationsScreen(client.Reservations(), opts...)
		if !s.Load(cmd.Context()) {
			return screenError(s.Err())
		}
		items = s.Items()
	} else {
		s := screen.NewReservationAdminScreen(client.Reservations(), nil, opts...)
		if !s.Load(cmd.Context()) {
			return screenError(s.Err())
		}
		items = s.Items()
	}

	fmt.Print(formatter.FormatReservations(filter.Apply(f, items)))
	return nil
}

func runReservationAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if cfg.Safety.DryRun {
		fmt.Printf("Would reserve %s seat(s) for %q on show %d\n",
			reservationForm.Seats, reservationForm.CustomerName, reservationForm.ShowID)
		return nil
	}

	s := screen.NewReservationAdminScreen(client.Reservations(), client.Shows(), screenOptions()...)
	if !s.Load(ctx) {
		logger.Debug().Str("error", s.Err()).Msg("Reservation list unavailable")
	}

	s.SetForm(reservationForm)
	if !s.Save(ctx) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatReservations(first(s.Items())))
	return nil
}

func runReservationEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	id := ids[0]

	s := screen.NewReservationAdminScreen(client.Reservations(), client.Shows(),
		screenOptions(screen.WithAllPages(true))...)
	if !s.Load(ctx) {
		return screenError(s.Err())
	}
	reservation, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("reservation %d not found", id)
	}

	s.StartEdit(reservation)
	flags := cmd.Flags()
	if flags.Changed("show") {
		s.SelectShow(reservationForm.ShowID)
	}
	form, _ := s.Form()
	if flags.Changed("title") {
		form.ShowTitle = reservationForm.ShowTitle
	}
	if flags.Changed("customer") {
		form.CustomerName = reservationForm.CustomerName
	}
	if flags.Changed("seats") {
		form.Seats = reservationForm.Seats
	}
	if flags.Changed("status") {
		form.Status = reservationForm.Status
	}
	s.SetForm(form)

	if cfg.Safety.DryRun {
		fmt.Printf("Would update reservation %d: show %d, %q, %s seat(s), %s\n",
			id, form.ShowID, form.CustomerName, form.Seats, form.Status)
		return nil
	}

	if !s.Save(ctx) {
		return screenError(s.Err())
	}

	updated, _ := s.Find(id)
	fmt.Print(formatter.FormatReservations([]cinema.Reservation{updated}))
	return nil
}

func runReservationDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	s := screen.NewReservationAdminScreen(client.Reservations(), nil, screenOptions(screen.WithAllPages(true))...)
	if !s.Load(ctx) {
		logger.Warn().Str("error", s.Err()).Msg("Could not load reservations, deleting by id only")
	}

	return deletion[int64]{
		noun: "reservations",
		ids:  ids,
		label: func(id int64) string {
			if r, ok := s.Find(id); ok {
				return fmt.Sprintf("%s for %s (ID: %d)", r.ShowMovieTitle, r.CustomerName, id)
			}
			return fmt.Sprintf("ID: %d", id)
		},
		remove: s.RemoveMany,
		errMsg: s.Err,
	}.run(ctx)
}
