// Package acl keeps Google REST payloads out of the domain.
//
// Provider DTOs stay unexported here, and every failure leaving the package
// is a domain error:
//
//   - 404 / NOT_FOUND → [domain.ErrNotFound]
//   - 400, 422 / INVALID_ARGUMENT → [domain.ErrValidation]
//   - 401, 403 / PERMISSION_DENIED, UNAUTHENTICATED → [domain.ErrForbidden]
//   - 429, 5xx, transport errors / RESOURCE_EXHAUSTED → [domain.ErrUnavailable]
//
// [clients.ErrCircuitOpen] and [clients.ErrMaxRetriesExceeded] also become
// [domain.ErrUnavailable], which the speech service turns into the browser
// fallback.
package acl
