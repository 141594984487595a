// Package openapi builds form entry pages from OpenAPI component schemas, so
// hosts can keep a profile payload and its onboarding page in one document.
package openapi
