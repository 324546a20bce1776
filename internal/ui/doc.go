// Package ui contains the Bubble Tea program that lets the user pick images,
// choose a script and look at its result. The Model type focuses on message
// orchestration, while dedicated helpers own input, actions, rendering and
// the frame tick.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Update forwards messages to the active setting form or picker overlay.
//     When neither is open, the message is routed through a typed handler
//     registry so each tea.Msg is handled by a focused function. Frame ticks,
//     resizes, spinner ticks and clipboard results always reach the registry.
//   - A frameMsg arrives every FrameInterval. Its handler (frame.go) takes the
//     newest listing from each script watcher, polls every pending slot
//     through slot.Correlator, and opens the overlay for a queued
//     picker.Bridge prompt. It then schedules the next frame.
//
// State ownership:
//   - Script list state lives in internal/ui/state.List: the latest listing,
//     the filter Query, the chosen script and the scroll window. input.go
//     maps keys onto Query edits and List motions.
//   - Slots belong to a slot.Correlator owned by the model. Key handlers
//     (actions.go) start background work with task.Spawn or runner.Run and
//     attach the handle to a slot; nothing in Update blocks on it.
//   - Short side effects such as the clipboard run through the
//     internal/ui/command bus as ordinary tea.Cmd values.
//
// Tests build the model with a zero FrameInterval and drive it through
// Harness, sending frames explicitly.
package ui
