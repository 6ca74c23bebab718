// Package testing provides test utilities for the room assignment engine.
//
// It follows the net/http/httptest convention: helpers live in a dedicated package
// that production code never imports.
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream
//   - CreateJetStreamKV, CreateStream: JetStream fixtures
//   - FakeClock: Settable clock for schedules and timestamps
//   - NewRoom, NewRequest: Inventory and request fixtures
//   - RecordingDispatcher, FlakyProvider: Collaborator fakes
//   - NewTestLogger: zaptest logger bound to the test
//
// Example usage:
//
//	import (
//	    "testing"
//	    roomtest "github.com/himmu2625/baithkaGhar-sub009/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := roomtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
