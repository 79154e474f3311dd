package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cinemactl/cinema"
	"github.com/s0up4200/cinemactl/filter"
	"github.com/s0up4200/cinemactl/screen"
)

var (
	eventList listFlags
	eventForm screen.EventForm
)

// eventCmd groups the reservation event subcommands
var eventCmd = &cobra.Command{
	Use:     "event",
	Aliases: []string{"events"},
	Short:   "Manage reservation events",
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reservation events matching the filter criteria",
	Args:  cobra.NoArgs,
	RunE:  runEventList,
}

var eventAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a reservation event",
	Args:  cobra.NoArgs,
	RunE:  runEventAdd,
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete reservation events",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEventDelete,
}

func init() {
	eventList.register(eventListCmd)

	eventAddCmd.Flags().Int64Var(&eventForm.ReservationID, "reservation", 0, "reservation id")
	eventAddCmd.Flags().StringVar(&eventForm.EventType, "type", "", eventChoices(cinema.EventTypes))
	eventAddCmd.Flags().StringVar(&eventForm.Source, "source", "", eventChoices(cinema.EventSources))
	eventAddCmd.Flags().StringVar(&eventForm.Note, "note", "", "free-form note")

	addDeleteFlags(eventDeleteCmd)

	eventCmd.AddCommand(eventListCmd, eventAddCmd, eventDeleteCmd)
	rootCmd.AddCommand(eventCmd)
}

func eventChoices[E ~string](values []E) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return "one of " + strings.Join(names, ", ")
}

func newEventsScreen(opts ...screen.Option) *screen.EventsScreen {
	return screen.NewEventsScreen(client.Events(), client.Reservations(), client.Catalog(), opts...)
}

func runEventList(cmd *cobra.Command, args []string) error {
	f, err := eventList.resolve()
	if err != nil {
		return err
	}

	s := newEventsScreen(eventList.screenOptions()...)
	if !s.Load(cmd.Context()) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatEvents(filter.Apply(f, s.Items()), s.Label))
	return nil
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	if cfg.Safety.DryRun {
		fmt.Printf("Would record %s via %s on reservation %d\n",
			eventForm.EventType, eventForm.Source, eventForm.ReservationID)
		return nil
	}

	s := newEventsScreen(screenOptions()...)
	s.SetForm(eventForm)
	if !s.Create(cmd.Context()) {
		return screenError(s.Err())
	}

	fmt.Print(formatter.FormatEvents(first(s.Items()), s.Label))
	return nil
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s := newEventsScreen(screenOptions(screen.WithAllPages(true))...)
	if !s.Load(ctx) {
		logger.Warn().Str("error", s.Err()).Msg("Could not load events, deleting by id only")
	}

	return deletion[string]{
		noun: "events",
		ids:  args,
		label: func(id string) string {
			if e, ok := s.Find(id); ok {
				return fmt.Sprintf("%s %s (%s)", s.Label(e), e.EventType, id)
			}
			return id
		},
		remove: s.RemoveMany,
		errMsg: s.Err,
	}.run(ctx)
}
