// Package policy is the single place authorization decisions are made.
// Handlers resolve the caller and the resource, then ask here, instead of
// re-deriving ownership and membership checks per controller.
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type Action string

const (
	ActionView             Action = "view"
	ActionUpdate           Action = "update"
	ActionDelete           Action = "delete"
	ActionManageMembers    Action = "manage_members"
	ActionCreateChannel    Action = "create_channel"
	ActionCreateTask       Action = "create_task"
	ActionSendMessage      Action = "send_message"
	ActionViewPinned       Action = "view_pinned"
	ActionPostAnnouncement Action = "post_announcement"
)

// AdminRole is the member role that carries owner-like privileges on a
// project, short of deleting it.
const AdminRole = "Admin"

// IsOwner reports whether the caller owns the project.
func IsOwner(callerID primitive.ObjectID, project *models.Project) bool {
	return project.OwnerID == callerID
}

// IsAdmin reports whether the caller is the owner or an Admin-role member.
func IsAdmin(callerID primitive.ObjectID, project *models.Project) bool {
	if IsOwner(callerID, project) {
		return true
	}
	m := project.MemberByID(callerID)
	return m != nil && m.Role == AdminRole
}

// IsMember reports whether the caller belongs to the project at all.
func IsMember(callerID primitive.ObjectID, project *models.Project) bool {
	return IsOwner(callerID, project) || project.MemberByID(callerID) != nil
}

// CanProject evaluates a project-level action for the caller.
func CanProject(callerID primitive.ObjectID, project *models.Project, action Action) bool {
	switch action {
	case ActionDelete:
		return IsOwner(callerID, project)
	case ActionUpdate, ActionManageMembers, ActionCreateChannel, ActionCreateTask:
		return IsAdmin(callerID, project)
	case ActionView:
		return IsMember(callerID, project)
	default:
		return false
	}
}

// CanChannel evaluates a channel-level action. Channel membership is the
// baseline; announcement posting additionally requires admin standing on
// the owning project.
func CanChannel(callerID primitive.ObjectID, project *models.Project, channel *models.Channel, action Action) bool {
	switch action {
	case ActionSendMessage, ActionViewPinned, ActionView:
		if channel.Type == models.ChannelAnnouncement && action == ActionSendMessage {
			return IsAdmin(callerID, project)
		}
		return channel.HasMember(callerID)
	case ActionPostAnnouncement:
		return IsAdmin(callerID, project)
	case ActionDelete:
		return IsAdmin(callerID, project)
	default:
		return false
	}
}
