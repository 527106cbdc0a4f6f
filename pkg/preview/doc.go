// Package preview issues short-lived, revocable references to uploaded image
// bytes so views can show thumbnails without exposing durable storage
// addresses. A reference stays resolvable until it is revoked; callers are
// expected to revoke every reference once it has been superseded.
package preview
