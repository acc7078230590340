// Package ports defines the interfaces between the briefing core and the outside world.
// Adapters implement them; tests use the testify mocks in internal/mocks.
package ports
