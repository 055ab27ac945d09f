package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSirThe1st/collaboration-sub001/gateway"
	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type InvitationService struct {
	InvitationsCollection *mongo.Collection
	UsersCollection       *mongo.Collection
	ProjectService        *ProjectService
	NotificationService   *NotificationService
	Hub                   *gateway.Hub
}

// CreateInvitation invites a user to a project. A second invitation for
// the same (project, recipient) pair is rejected while one is pending.
func (s *InvitationService) CreateInvitation(ctx context.Context, project *models.Project, senderID, recipientID primitive.ObjectID, role string) (*models.Invitation, error) {
	var recipient models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": recipientID}).Decode(&recipient); err != nil {
		return nil, errors.New("recipient not found")
	}

	if project.MemberByID(recipientID) != nil {
		return nil, errors.New("user is already a member of the project")
	}

	count, err := s.InvitationsCollection.CountDocuments(ctx, bson.M{
		"projectId":   project.ID,
		"recipientId": recipientID,
		"status":      models.InvitationPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invitations: %v", err)
	}
	if count > 0 {
		return nil, errors.New("invitation already pending for this user")
	}

	invitation := &models.Invitation{
		ID:                primitive.NewObjectID(),
		ProjectID:         project.ID,
		ProjectName:       project.Name,
		SenderID:          senderID,
		RecipientID:       recipientID,
		RecipientUsername: recipient.Username,
		Role:              role,
		Status:            models.InvitationPending,
		CreatedAt:         time.Now(),
	}

	if _, err := s.InvitationsCollection.InsertOne(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %v", err)
	}

	s.Hub.EmitToUser(recipientID.Hex(), gateway.EventNewInvitation, invitation)

	if s.NotificationService != nil {
		message := fmt.Sprintf("You have been invited to join %s", project.Name)
		if err := s.NotificationService.Notify(recipientID.Hex(), recipient.Username, "invitation", message, "invitation", invitation.ID.Hex()); err != nil {
			// The invitation itself succeeded; the feed entry is secondary.
			return invitation, nil
		}
	}

	return invitation, nil
}

func (s *InvitationService) GetInvitationByID(ctx context.Context, invitationID string) (*models.Invitation, error) {
	objectID, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		return nil, fmt.Errorf("invalid invitation ID format")
	}

	var invitation models.Invitation
	err = s.InvitationsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&invitation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("invitation not found")
		}
		return nil, fmt.Errorf("error fetching invitation: %v", err)
	}

	return &invitation, nil
}

func (s *InvitationService) ListForRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Invitation, error) {
	cursor, err := s.InvitationsCollection.Find(ctx, bson.M{"recipientId": recipientID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.Invitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode invitations: %v", err)
	}

	return invitations, nil
}

// RespondToInvitation accepts or declines. Accepting joins the recipient
// to the project with the invited role and syncs default channels.
func (s *InvitationService) RespondToInvitation(ctx context.Context, invitation *models.Invitation, callerID primitive.ObjectID, accept bool) error {
	if invitation.RecipientID != callerID {
		return errors.New("only the recipient can respond to an invitation")
	}
	if invitation.Status != models.InvitationPending {
		return errors.New("invitation has already been answered")
	}

	status := models.InvitationDeclined
	if accept {
		status = models.InvitationAccepted
	}

	result, err := s.InvitationsCollection.UpdateOne(ctx,
		bson.M{"_id": invitation.ID, "status": models.InvitationPending},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %v", err)
	}
	if result.ModifiedCount == 0 {
		return errors.New("invitation has already been answered")
	}

	if !accept {
		return nil
	}

	var recipient models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": invitation.RecipientID}).Decode(&recipient); err != nil {
		return errors.New("recipient not found")
	}

	return s.ProjectService.AddMemberWithRole(ctx, invitation.ProjectID, recipient, invitation.Role)
}
