// Package flow implements the navigation state machine of an onboarding
// flow.
//
// A Controller owns the ordered page list and the active index. It gates
// forward navigation on the active page's continue signal, splices the nested
// pages of a conditional page into the sequence the first time the user
// answers affirmatively, and enters the terminal completed state when the
// user moves forward from the last page. Hooks are normalised to no-ops at
// construction, and lifecycle events are published to an Observer for
// logging and metrics.
//
// The page list only ever grows: spliced pages are never removed, and each
// page instance expands at most once for the lifetime of the controller.
package flow
