package screen

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinemactl/cinema"
)

// State is the lifecycle of a screen's collection
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SyncPolicy decides how a screen reconciles its collection after a
// successful mutation.
type SyncPolicy string

const (
	// SyncPatch applies the server response locally: prepend on create,
	// replace by id on update, filter on delete.
	SyncPatch SyncPolicy = "patch"
	// SyncRefetch reissues the list request after every mutation.
	SyncRefetch SyncPolicy = "refetch"
)

// ParseSyncPolicy parses a policy name; empty input yields SyncPatch
func ParseSyncPolicy(s string) (SyncPolicy, error) {
	switch SyncPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SyncPatch:
		return SyncPatch, nil
	case SyncRefetch:
		return SyncRefetch, nil
	default:
		return "", fmt.Errorf("unknown sync policy %q (valid: patch, refetch)", s)
	}
}

// Messages are the fixed user-facing texts a screen shows when an action
// fails. Underlying errors only reach the debug log.
type Messages struct {
	Load   string
	Create string
	Update string
	Delete string
}

type options struct {
	logger   zerolog.Logger
	policy   SyncPolicy
	list     cinema.ListOptions
	allPages bool
}

func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
		policy: SyncPatch,
	}
}

// Option configures a screen
type Option func(*options)

// WithLogger sets the logger used for debug output
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPolicy sets the reconciliation policy
func WithPolicy(policy SyncPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithListOptions sets the query parameters used for the primary list
func WithListOptions(opts cinema.ListOptions) Option {
	return func(o *options) {
		o.list = opts
	}
}

// WithAllPages makes the primary list follow pagination links
func WithAllPages(all bool) Option {
	return func(o *options) {
		o.allPages = all
	}
}
