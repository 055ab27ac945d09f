package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/models"
)

func testProject(owner, admin, member primitive.ObjectID) *models.Project {
	return &models.Project{
		ID:      primitive.NewObjectID(),
		OwnerID: owner,
		Members: []models.Member{
			{UserID: admin, Role: AdminRole},
			{UserID: member, Role: "Developer"},
		},
	}
}

func TestCanProject(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	project := testProject(owner, admin, member)

	assert.True(t, CanProject(owner, project, ActionDelete))
	assert.False(t, CanProject(admin, project, ActionDelete))

	assert.True(t, CanProject(owner, project, ActionManageMembers))
	assert.True(t, CanProject(admin, project, ActionManageMembers))
	assert.False(t, CanProject(member, project, ActionManageMembers))

	assert.True(t, CanProject(member, project, ActionView))
	assert.False(t, CanProject(outsider, project, ActionView))

	assert.False(t, CanProject(owner, project, Action("unknown")))
}

func TestCanChannel(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	project := testProject(owner, admin, member)

	channel := &models.Channel{
		Type:      models.ChannelDefault,
		MemberIDs: []primitive.ObjectID{owner, admin, member},
	}

	assert.True(t, CanChannel(member, project, channel, ActionSendMessage))
	assert.True(t, CanChannel(member, project, channel, ActionViewPinned))
	assert.False(t, CanChannel(primitive.NewObjectID(), project, channel, ActionSendMessage))
}

func TestCanChannelAnnouncement(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	project := testProject(owner, admin, member)

	announcements := &models.Channel{
		Type:      models.ChannelAnnouncement,
		MemberIDs: []primitive.ObjectID{owner, admin, member},
	}

	// Everyone can read the announcement channel, only admins can post.
	assert.True(t, CanChannel(member, project, announcements, ActionView))
	assert.False(t, CanChannel(member, project, announcements, ActionSendMessage))
	assert.True(t, CanChannel(admin, project, announcements, ActionSendMessage))
	assert.True(t, CanChannel(owner, project, announcements, ActionPostAnnouncement))
	assert.False(t, CanChannel(member, project, announcements, ActionPostAnnouncement))
}
