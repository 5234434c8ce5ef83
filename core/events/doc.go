// Package events defines the engine events emitted on the event bus.
//
// Available event types:
//   - JobSubmitted: a job entered the queue
//   - JobRejected: a submission failed validation
//   - VehicleAdded: capacity grew by one vehicle
//   - JobPromoted: a queued job started on a vehicle
//   - JobCompleted: an ongoing job finished
//   - Ticked: one simulation step ran
package events
