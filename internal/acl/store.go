// internal/acl/store.go
//
// Small query helpers for role-based session policy.
//
// Context
// -------
// The role model lives inside the tenant database:
//
//	role        (id PK, name, enabled, timeout)   -- timeout in seconds, NULL = default
//	user_role   (user_id, role_id)
//
// The bootstrap needs two answers per interactive request:
//  1. Which *role names* does user X have?          → `UserRoles()`
//  2. How long may user X stay idle before logout?  → `UserTimeout()`
//
// A user with several roles gets the most generous timeout among them.
// Users without a role timeout fall back to the configured default.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package acl

import (
	"context"
	"database/sql"
	"time"
)

// GuestRole is assigned to interactive visitors without a login.
const GuestRole = "Guest"

// AdminRole unlocks the lock toggle and the diagnostic endpoints.
const AdminRole = "Admin"

// UserRoles returns the role *names* bound to userID.  Disabled roles are
// filtered out.
func UserRoles(ctx context.Context, db *sql.DB, userID int64) ([]string, error) {
	const q = `SELECT r.name
                 FROM user_role ur
                 JOIN role r ON r.id = ur.role_id
                WHERE ur.user_id = ? AND r.enabled = TRUE`

	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0, 4)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// UserTimeout returns the largest role timeout for userID.  ok is false when
// no enabled role defines one.
func UserTimeout(ctx context.Context, db *sql.DB, userID int64) (d time.Duration, ok bool, err error) {
	const q = `SELECT MAX(r.timeout)
                 FROM user_role ur
                 JOIN role r ON r.id = ur.role_id
                WHERE ur.user_id = ? AND r.enabled = TRUE`

	var secs sql.NullInt64
	if err := db.QueryRowContext(ctx, q, userID).Scan(&secs); err != nil {
		return 0, false, err
	}
	if !secs.Valid || secs.Int64 <= 0 {
		return 0, false, nil
	}
	return time.Duration(secs.Int64) * time.Second, true, nil
}

// Policy adapts the helpers to the session and bootstrap interfaces.
type Policy struct {
	DB      *sql.DB
	Default time.Duration
}

// Timeout satisfies session.TimeoutPolicy.
func (p Policy) Timeout(ctx context.Context, userID int64) (time.Duration, error) {
	d, ok, err := UserTimeout(ctx, p.DB, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return p.Default, nil
	}
	return d, nil
}

// Roles returns the role names for userID.
func (p Policy) Roles(ctx context.Context, userID int64) ([]string, error) {
	return UserRoles(ctx, p.DB, userID)
}
