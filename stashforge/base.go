package stashforge

import (
	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	ErrInternal             = runtime.NewError("internal error occurred", INTERNAL_ERROR_CODE)
	ErrBadInput             = runtime.NewError("bad input", INVALID_ARGUMENT_ERROR_CODE)
	ErrNoSessionUser        = runtime.NewError("no user ID in session", UNAUTHENTICATED_ERROR_CODE)
	ErrPayloadEncode        = runtime.NewError("cannot encode json", INTERNAL_ERROR_CODE)
	ErrPayloadInvalid       = runtime.NewError("payload is invalid", INVALID_ARGUMENT_ERROR_CODE)
	ErrSubmitCooldown       = runtime.NewError("inventory submitted too recently", RESOURCE_EXHAUSTED_ERROR_CODE)
	ErrTemplatesUnavailable = runtime.NewError("item template catalog unavailable", UNAVAILABLE_ERROR_CODE)
	ErrTemplateNotFound     = runtime.NewError("item template not found", NOT_FOUND_ERROR_CODE)
	ErrListingNotFound      = runtime.NewError("listing not found", NOT_FOUND_ERROR_CODE)
	ErrSystemNotAvailable   = runtime.NewError("system not available", INTERNAL_ERROR_CODE)
)

// The SystemType identifies each of the gameplay systems.
type SystemType uint

const (
	SystemTypeUnknown SystemType = iota
	SystemTypeInventory
	SystemTypeProfile
	SystemTypeRaids
	SystemTypeMarket
	SystemTypeShop
)

// A System is a single gameplay system registered with the Stashforge type.
type System interface {
	// GetType provides the runtime type of the gameplay system.
	GetType() SystemType

	// GetConfig returns the configuration of the gameplay system.
	GetConfig() any
}
