package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemberByID(t *testing.T) {
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	project := &Project{
		Members: []Member{
			{UserID: member, Username: "ana", Role: "Developer"},
		},
	}

	got := project.MemberByID(member)
	assert.NotNil(t, got)
	assert.Equal(t, "Developer", got.Role)

	// A user outside the member set must resolve to nil, so callers like
	// task assignment can refuse ids that never joined the project.
	assert.Nil(t, project.MemberByID(outsider))
	assert.Nil(t, project.MemberByID(primitive.NewObjectID()))
}

func TestHasRequiredRole(t *testing.T) {
	project := &Project{RequiredRoles: []string{"Developer", "Designer"}}

	assert.True(t, project.HasRequiredRole("Developer"))
	assert.True(t, project.HasRequiredRole("Designer"))
	assert.False(t, project.HasRequiredRole("Manager"))
	assert.False(t, project.HasRequiredRole(""))

	// No declared roles means nothing matches; the service skips the
	// check entirely in that case.
	empty := &Project{}
	assert.False(t, empty.HasRequiredRole("Developer"))
}
