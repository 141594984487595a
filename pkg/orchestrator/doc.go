// Package orchestrator composes a running onboarding session: the flow
// controller, one lazily built runtime per page instance, the renderer
// registries, the data sink and the host services.
package orchestrator
