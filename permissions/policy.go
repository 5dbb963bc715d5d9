// Package permissions is the access decision engine. It is pure: decisions
// depend only on the actor, the action, and the target passed in, never on a
// datastore or request context.
package permissions

import "reviewbase-api/models"

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Kind string

const (
	// KindCatalog covers categories, genres and titles.
	KindCatalog Kind = "catalog"
	KindReview  Kind = "review"
	KindComment Kind = "comment"
	// KindProfile is the caller's own record reached through /users/me.
	KindProfile Kind = "profile"
	// KindAccount is arbitrary-user administration (list/create/delete).
	KindAccount Kind = "account"
)

// Actor identifies the requester. The zero value is an anonymous actor.
type Actor struct {
	Authenticated bool
	UserID        uint
	Role          models.UserRole
	Superuser     bool
}

// Anonymous is the actor attached to requests without a valid bearer token.
var Anonymous = Actor{}

// Target names what the action applies to. OwnerID is zero for kinds with no
// ownership (catalog) and for create, where no object exists yet.
type Target struct {
	Kind    Kind
	OwnerID uint
}

func (a Actor) elevated() bool {
	return a.Superuser || a.Role == models.RoleAdmin
}

func (a Actor) staff() bool {
	return a.Superuser || a.Role == models.RoleAdmin || a.Role == models.RoleModerator
}

// CanPerform resolves (actor, action, target) to allow or deny. Rules are
// evaluated in precedence order; the first matching rule wins.
func CanPerform(actor Actor, action Action, target Target) bool {
	switch target.Kind {
	case KindCatalog:
		if action == ActionRead {
			return true
		}
		return actor.Authenticated && actor.elevated()

	case KindReview, KindComment:
		switch action {
		case ActionRead:
			return true
		case ActionCreate:
			return actor.Authenticated
		default:
			if !actor.Authenticated {
				return false
			}
			return actor.UserID == target.OwnerID || actor.staff()
		}

	case KindProfile:
		return actor.Authenticated && actor.UserID == target.OwnerID

	case KindAccount:
		return actor.Authenticated && actor.elevated()
	}

	return false
}
