package telemetry

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// StatusEvents contains all decision events that were published.
	StatusEvents []StatusEvent

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// PublishError, if set, will be returned by PublishStatus.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishStatus records the decision event.
func (f *FakePublisher) PublishStatus(event StatusEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.StatusEvents = append(f.StatusEvents, event)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.StatusEvents = nil
	f.SystemEvents = nil
	f.Closed = false
	f.PublishError = nil
}
