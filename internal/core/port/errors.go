package port

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a use case wraps exactly one of them,
// so callers can branch with errors.Is or KindOf.
var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPersistence         = errors.New("persistence failure")
)

var (
	ErrNotAnInfluencer         = fmt.Errorf("%w: caller is not an influencer", ErrUnauthorized)
	ErrCampaignNotFound        = fmt.Errorf("%w: campaign", ErrNotFound)
	ErrApplicationNotFound     = fmt.Errorf("%w: application", ErrNotFound)
	ErrContentLinkNotFound     = fmt.Errorf("%w: content link", ErrNotFound)
	ErrCampaignNotActive       = fmt.Errorf("%w: campaign is not active", ErrInvalidState)
	ErrDuplicateApplication    = fmt.Errorf("%w: application already exists for campaign", ErrInvalidState)
	ErrInvalidTransition       = fmt.Errorf("%w: transition not allowed", ErrInvalidState)
	ErrConcurrentUpdate        = fmt.Errorf("%w: application was modified concurrently", ErrInvalidState)
	ErrInvalidInput            = fmt.Errorf("%w: invalid input", ErrInvalidState)
	ErrSelectionMismatch       = fmt.Errorf("%w: selected link does not belong to application", ErrInvalidState)
	ErrUnsupportedPaymentModel = fmt.Errorf("%w: unsupported payment model", ErrInvalidState)
	ErrCounterDecreased        = fmt.Errorf("%w: view count lower than tracked", ErrInvalidState)
)

// Kind is the coarse classification of an error crossing the core boundary.
type Kind string

const (
	KindNone                Kind = ""
	KindUnauthenticated     Kind = "unauthenticated"
	KindUnauthorized        Kind = "unauthorized"
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindPersistence         Kind = "persistence_failure"
)

// KindOf returns the kind wrapped by err. Errors that wrap no kind are
// reported as persistence failures.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindPersistence
	}
}

// Persistence wraps a store error so it carries the persistence kind while
// keeping the original cause reachable through errors.Is/As.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
