package service

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources: audio device, terminal screen, inspector listener
//
// Lifecycle:
//  1. Construction (via package constructor)
//  2. Start() - acquire resources, launch goroutines
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Start begins service operation
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}
