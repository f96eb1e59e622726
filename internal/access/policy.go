// Package access decides whether a user may perform an action on a board-owned resource.
package access

import "github.com/and161185/travel-kanban/internal/model"

// Action is the kind of operation being authorised.
type Action string

const (
	// ActionRead covers safe operations (listing, reading, reports).
	ActionRead Action = "read"
	// ActionWrite covers mutations of board content (lists, cards, expenses, locations).
	ActionWrite Action = "write"
	// ActionManageMembers covers inviting, re-roling and removing members.
	ActionManageMembers Action = "manage_members"
	// ActionManageShare covers enabling, rotating and disabling the public link.
	ActionManageShare Action = "manage_share"
	// ActionDeleteBoard covers deleting the whole board.
	ActionDeleteBoard Action = "delete_board"
)

// Can reports whether role admits action.
func Can(role model.Role, action Action) bool {
	switch role {
	case model.RoleOwner:
		return true
	case model.RoleEditor:
		return action == ActionRead || action == ActionWrite
	case model.RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}
