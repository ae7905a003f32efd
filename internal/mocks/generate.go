// Package mocks provides mock implementations for testing the gateway.
//
// Hand-written doubles live in the federation subpackage; the go:generate
// directives below produce type-safe gomock versions of the ports for tests
// that need call expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for AccountStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=account_store_mock.go github.com/OrderOfTheOverflow/globalsiteselector/internal/ports AccountStore

// Generate mock for SessionStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/OrderOfTheOverflow/globalsiteselector/internal/ports SessionStore

// Generate mock for Authenticator interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=authenticator_mock.go github.com/OrderOfTheOverflow/globalsiteselector/internal/ports Authenticator
