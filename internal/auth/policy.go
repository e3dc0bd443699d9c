package auth

import (
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Role   model.Role
}

type Action string

const (
	ActionTaskList        Action = "task:list"
	ActionTaskRead        Action = "task:read"
	ActionTaskCreate      Action = "task:create"
	ActionTaskUpdate      Action = "task:update"
	ActionTaskDelete      Action = "task:delete"
	ActionUserList        Action = "user:list"
	ActionUserRead        Action = "user:read"
	ActionUserUpdate      Action = "user:update"
	ActionUserDelete      Action = "user:delete"
	ActionProfileUpdate   Action = "profile:update"
	ActionProfilePassword Action = "profile:password"
)

// Scope says which resources an allowed action may touch.
type Scope int

const (
	// ScopeAll grants the action on any resource.
	ScopeAll Scope = iota + 1
	// ScopeOwn limits the action to tasks the actor created or is assigned.
	ScopeOwn
	// ScopeSelf binds the action to the actor's own user record.
	ScopeSelf
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeOwn:
		return "own"
	case ScopeSelf:
		return "self"
	default:
		return "none"
	}
}

// Policy maps each action to the roles allowed to perform it and the scope
// they get. A role missing from an action's entry is denied.
type Policy map[Action]map[model.Role]Scope

// everyone grants scope to all known roles.
func everyone(scope Scope) map[model.Role]Scope {
	return map[model.Role]Scope{
		model.RoleUser:    scope,
		model.RoleManager: scope,
		model.RoleAdmin:   scope,
	}
}

// DefaultPolicy is the authorization table of the task API.
//
// User read/update by id is open to any authenticated caller; see DESIGN.md.
func DefaultPolicy() Policy {
	return Policy{
		ActionTaskList: {
			model.RoleUser:    ScopeOwn,
			model.RoleManager: ScopeAll,
			model.RoleAdmin:   ScopeAll,
		},
		ActionTaskRead:   everyone(ScopeAll),
		ActionTaskCreate: everyone(ScopeAll),
		ActionTaskUpdate: everyone(ScopeAll),
		ActionTaskDelete: {
			model.RoleManager: ScopeAll,
			model.RoleAdmin:   ScopeAll,
		},
		ActionUserList:   everyone(ScopeAll),
		ActionUserRead:   everyone(ScopeAll),
		ActionUserUpdate: everyone(ScopeAll),
		ActionUserDelete: {
			model.RoleAdmin: ScopeAll,
		},
		ActionProfileUpdate:   everyone(ScopeSelf),
		ActionProfilePassword: everyone(ScopeSelf),
	}
}

// Authorize returns the scope id gets for action, or a Forbidden error.
func (p Policy) Authorize(id Identity, action Action) (Scope, error) {
	scope, ok := p[action][id.Role]
	if !ok {
		return 0, apierror.Forbidden(deniedMessage(action))
	}
	return scope, nil
}

func deniedMessage(action Action) string {
	switch action {
	case ActionTaskDelete:
		return "Access denied. Only admin or manager can delete tasks"
	case ActionUserDelete:
		return "Access denied. Only admin can delete users"
	default:
		return "Access denied"
	}
}
