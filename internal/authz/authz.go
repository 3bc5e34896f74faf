// Package authz is the single authorization guard for the API. Every mutating
// operation funnels through these predicates instead of re-deriving role
// checks at each call site. The functions are pure: they look only at the
// actor's superuser flag and membership role, never at storage.
package authz

import "github.com/mtakagi/discussion-board-api/internal/models"

// Op classifies a guarded operation.
type Op int

const (
	// OpTopicUpdate covers changes to topic name/description.
	OpTopicUpdate Op = iota
	// OpTopicDelete covers topic deletion (cascades members and tasks).
	OpTopicDelete
	// OpMemberManage covers adding members, changing roles, and removals.
	OpMemberManage
	// OpTaskManage covers task create, delete, and assignment fan-out.
	OpTaskManage
)

// Allows reports whether an actor with the given superuser flag and topic
// role may perform op. RoleNone means the actor has no membership.
func Allows(superuser bool, role models.TopicRole, op Op) bool {
	if superuser {
		return true
	}
	switch op {
	case OpTopicDelete:
		return role == models.RoleOwner
	case OpTopicUpdate, OpMemberManage, OpTaskManage:
		return role == models.RoleOwner || role == models.RoleAdmin
	default:
		return false
	}
}

// TaskUpdateScope decides task updates, which have a wider set of permitted
// actors than OpTaskManage: the task's current worker may update too, but
// only the status field. Admin-class actors and superusers face no field
// restriction.
func TaskUpdateScope(superuser bool, role models.TopicRole, isWorker bool) (allowed, statusOnly bool) {
	if superuser || role == models.RoleOwner || role == models.RoleAdmin {
		return true, false
	}
	if isWorker {
		return true, true
	}
	return false, false
}

// MemberRemovalAllowed reports whether a membership with the given role may
// be removed at all. Owner rows are never removable regardless of caller
// privilege; only topic deletion destroys them.
func MemberRemovalAllowed(target models.TopicRole) bool {
	return target != models.RoleOwner
}

// CanManageUser reports whether an actor may update or read-modify a user
// record: the user themselves, or a superuser. Changing another user's
// auth_level additionally requires superuser; callers drop the field
// silently otherwise.
func CanManageUser(superuser, self bool) bool {
	return superuser || self
}
