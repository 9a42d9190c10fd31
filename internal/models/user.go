package models

// User is a registered principal handle. There are no accounts or
// credentials behind it: a user row exists so that orders, debts, and
// payments reference a known handle, nothing more. Users are registered
// lazily the first time their handle appears on any record.
type User struct {
	// Username is the opaque handle identifying the user.
	Username string

	// CreatedAt is the Unix timestamp when the handle was first seen.
	CreatedAt int64
}
