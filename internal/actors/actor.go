// Package actors bounds concurrent model calls with per-provider capacity slots.
package actors

// ActorStatus represents the state of an actor slot.
type ActorStatus string

const (
	ActorIdle ActorStatus = "idle"
	ActorBusy ActorStatus = "busy"
)

// Actor is a single capacity slot bound to a provider.
type Actor struct {
	ID           string      `json:"id"`
	ProviderName string      `json:"provider_name"`
	Status       ActorStatus `json:"status"`
	Analysis     string      `json:"analysis,omitempty"`
}
