// Package authz is the mountable HTTP surface over the entitlement resolver
// and the credential service.
//
// It exposes the effective-features query and the credential management
// endpoints behind a principal middleware that consumes the verified
// identity headers injected by the authentication layer in front of this
// service. External error responses collapse authorization failures,
// crypto failures, and missing rows into generic denial/not-available
// bodies so existence never leaks across tenants; transient store errors
// are surfaced distinctly as retryable.
package authz
