// Package authz centralizes the role/permission rules. Every handler goes
// through these functions; the database's row scoping remains the final
// authority, so nothing here is a security boundary on its own.
package authz

import (
	"github.com/LwandleM/SafeSuburb/app/models"
)

// Actor is the subject of an authorization check.
type Actor struct {
	UserID   uint
	Role     string
	Approved bool
}

// ActorFromUser builds an Actor from a loaded user row.
func ActorFromUser(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, Approved: u.Approved}
}

// IsElevated reports whether the role may triage other users' reports.
func IsElevated(role string) bool {
	return role == models.ROLE_MODERATOR || role == models.ROLE_ADMIN
}

// CanFile reports whether the actor may create new alerts/reports.
func CanFile(a Actor) bool {
	return a.UserID != 0 && a.Approved
}

// CanMutate reports whether the actor may edit or delete the record owned
// by ownerID.
func CanMutate(a Actor, ownerID uint) bool {
	if a.UserID == 0 {
		return false
	}
	return a.UserID == ownerID || IsElevated(a.Role)
}

// CanTransition reports whether the actor may move a record from one status
// to another. Owners may close out their own reports (active -> resolved);
// every other transition needs an elevated role.
func CanTransition(a Actor, ownerID uint, from, to string) bool {
	if !models.IsValidStatusTransition(from, to) {
		return false
	}
	if IsElevated(a.Role) {
		return true
	}
	if a.UserID != ownerID {
		return false
	}
	return from == models.STATUS_ACTIVE && to == models.STATUS_RESOLVED
}

// CanManageUsers reports whether the actor may approve, re-role or delete
// accounts.
func CanManageUsers(a Actor) bool {
	return a.Role == models.ROLE_ADMIN
}
