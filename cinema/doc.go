// Package cinema provides a client for the cinema reservation REST API.
//
// The backend exposes four resources under /api/: the movie catalog, shows,
// reservations and reservation events. Each one is reached through a typed
// Resource that maps List, Create, Update and Delete 1:1 onto the REST
// collection and item endpoints. No business logic lives here.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := cinema.NewClient(
//		"http://localhost:8000",
//		cinema.StaticToken("eyJhbGciOi..."),
//		logger,
//		cinema.WithTimeout(15*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Shows().List(ctx, cinema.ListOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	shows := resp.Items()
//
// # Pagination
//
// List endpoints answer either with a bare JSON array or with a DRF envelope
// ({count, next, previous, results}). List returns the response verbatim as a
// ListResponse; Items resolves both shapes to a plain slice, and ListAll walks
// the next links.
//
// # Error Handling
//
// Any non-2xx status is returned as an *APIError. Payloads are validated
// before submission and rejected with ErrInvalidPayload. Nothing is retried.
//
//	var apiErr *cinema.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// token missing or not an admin
//	}
package cinema
