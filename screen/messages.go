package screen

// Failure messages per screen and action
var (
	catalogMessages = Messages{
		Load:   "Could not load the movie catalog. Logged in? Token?",
		Create: "Could not create the catalog entry.",
		Delete: "Could not delete the catalog entry.",
	}

	showMessages = Messages{
		Load:   "Could not load shows. Logged in? Admin token?",
		Create: "Could not save the show. Admin token?",
		Update: "Could not save the show. Admin token?",
		Delete: "Could not delete the show. Reservations attached? Admin token?",
	}

	reservationMessages = Messages{
		Load:   "Could not load reservations. Logged in? Admin token?",
		Create: "Could not save the reservation. Admin token?",
		Update: "Could not save the reservation. Admin token?",
		Delete: "Could not delete the reservation. Admin token?",
	}

	publicMessages = Messages{
		Load: "Could not load the public list. Is the backend running?",
	}

	eventMessages = Messages{
		Load:   "Could not load events. Token? Base URL? Is the backend running?",
		Create: "Could not create the reservation event.",
		Delete: "Could not delete the reservation event.",
	}
)

// Local validation messages
const (
	msgTitleRequired     = "Movie title is required"
	msgDurationNumeric   = "Duration must be a whole number of minutes"
	msgPriceNumeric      = "Price must be a number"
	msgSeatsNumeric      = "Seats must be a whole number"
	msgSelectShow        = "Select a show"
	msgCustomerRequired  = "Show and customer name are required"
	msgStatusInvalid     = "Status must be RESERVED, CONFIRMED or CANCELLED"
	msgSelectReservation = "Select a reservation"
	msgEventTypeInvalid  = "Event type must be Created, Confirmed, Cancelled or Checked_In"
	msgSourceInvalid     = "Source must be Web, Mobile or System"
)
