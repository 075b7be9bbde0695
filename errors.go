package ecscore

import (
	"errors"
	"fmt"
)

// DebugChecks gates the contract-violation assertions described by the
// spec's error-handling design: double-add, remove-missing,
// operate-on-unknown-type, and similar programmer errors. It defaults
// to true. Turning it off trades the panic for undefined behavior on a
// violated precondition, never a silent recovery.
var DebugChecks = true

// ContractViolation is the value panicked with when DebugChecks is
// enabled and a precondition listed in the spec's error-handling design
// is violated. It is never recovered by this package.
type ContractViolation struct {
	Op     string
	Entity EntityId
	Type   ComponentTypeId
	Detail string
}

func (v ContractViolation) Error() string {
	msg := fmt.Sprintf("ecscore: contract violation in %s", v.Op)
	if v.Entity.IsValid() {
		msg += fmt.Sprintf(" entity=%d", v.Entity)
	}
	if v.Type != InvalidComponentTypeId {
		msg += fmt.Sprintf(" type=%d", v.Type)
	}
	if v.Detail != "" {
		msg += ": " + v.Detail
	}
	return msg
}

// Caller-facing failures: sentinel errors wrapped with fmt.Errorf. The
// registration and configuration errors are returned as ordinary
// errors; ErrEntityIdSpaceExhausted is the exception and is carried by
// a panic (see below).
var (
	// ErrComponentAlreadyRegistered is returned by Store.registerComponent
	// when the same descriptor is registered twice.
	ErrComponentAlreadyRegistered = errors.New("ecscore: component type already registered")

	// ErrEntityIdSpaceExhausted is wrapped into the value CreateEntity
	// panics with when the directory cannot find a free EntityId because
	// every value is currently in use. The spec leaves behavior here
	// unspecified beyond "callers must treat entity limit as
	// unsupported"; this package chooses to fail loudly rather than loop
	// forever.
	ErrEntityIdSpaceExhausted = errors.New("ecscore: entity id space exhausted")

	// ErrInvalidConfig is wrapped by the errors NewStore returns for
	// invalid page sizes or bitmap word widths. (The config subpackage's
	// Config.Validate wraps its own config.ErrInvalid instead.)
	ErrInvalidConfig = errors.New("ecscore: invalid configuration")
)

func assertf(cond bool, v ContractViolation) {
	if !DebugChecks {
		return
	}
	if !cond {
		panic(v)
	}
}
