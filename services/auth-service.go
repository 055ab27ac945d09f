package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrSirThe1st/collaboration-sub001/logging"
	"github.com/MrSirThe1st/collaboration-sub001/models"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type AuthService struct {
	UserCollection *mongo.Collection
	BlackList      map[string]bool
	EmailBreaker   *gobreaker.CircuitBreaker
}

func NewAuthService(userCollection *mongo.Collection, blackList map[string]bool, emailBreaker *gobreaker.CircuitBreaker) *AuthService {
	return &AuthService{
		UserCollection: userCollection,
		BlackList:      blackList,
		EmailBreaker:   emailBreaker,
	}
}

// RegisterUser stores an inactive user and emails a verification code.
func (s *AuthService) RegisterUser(ctx context.Context, user models.User) error {
	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"username": user.Username}).Decode(&existing); err == nil {
		return fmt.Errorf("user with username already exists")
	}
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing); err == nil {
		return fmt.Errorf("user with email already exists")
	}

	if err := s.ValidatePassword(user.Password); err != nil {
		return err
	}

	user.Username = html.EscapeString(user.Username)
	user.Name = html.EscapeString(user.Name)
	user.LastName = html.EscapeString(user.LastName)
	user.Email = html.EscapeString(user.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	user.Password = string(hashedPassword)

	verificationCode := fmt.Sprintf("%06d", rand.Intn(1000000))
	user.VerificationCode = verificationCode
	user.VerificationExpiry = time.Now().Add(15 * time.Minute)
	user.IsActive = false
	user.ProjectIDs = []primitive.ObjectID{}
	user.GroupIDs = []primitive.ObjectID{}
	user.CreatedAt = time.Now()

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %v", err)
	}

	subject := "Your Verification Code"
	body := fmt.Sprintf("Your verification code is %s. Please enter it within 15 minutes.", verificationCode)
	if err := s.sendEmail(user.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: verification code sent to %s", user.Email)
	return nil
}

// VerifyEmail activates the account if the code matches and has not expired.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return fmt.Errorf("user not found")
	}
	if user.IsActive {
		return fmt.Errorf("user already verified")
	}
	if user.VerificationCode != code {
		return fmt.Errorf("invalid verification code")
	}
	if time.Now().After(user.VerificationExpiry) {
		return fmt.Errorf("verification code expired")
	}

	update := bson.M{
		"$set":   bson.M{"isActive": true},
		"$unset": bson.M{"verificationCode": "", "verificationExpiry": ""},
	}
	if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"email": email}, update); err != nil {
		return fmt.Errorf("failed to activate user: %v", err)
	}
	return nil
}

func (s *AuthService) LoginUser(ctx context.Context, username, password string) (models.User, string, error) {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return models.User{}, "", errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", errors.New("invalid password")
	}

	if !user.IsActive {
		return models.User{}, "", errors.New("user not active")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %v", err)
	}

	user.Password = ""
	return user, token, nil
}

func (s *AuthService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hasUppercase := false
	for _, char := range password {
		if char >= 'A' && char <= 'Z' {
			hasUppercase = true
			break
		}
	}
	if !hasUppercase {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	hasDigit := false
	for _, char := range password {
		if char >= '0' && char <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number")
	}

	specialChars := "!@#$%^&*.,"
	hasSpecial := false
	for _, char := range password {
		if strings.ContainsRune(specialChars, char) {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	if s.BlackList[password] {
		return fmt.Errorf("password is too common. Please choose a stronger one")
	}

	return nil
}

// ChangePassword swaps the password after re-checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return fmt.Errorf("new password and confirmation do not match")
	}

	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("old password is incorrect")
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedNewPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %v", err)
	}

	_, err = s.UserCollection.UpdateOne(
		ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"password": string(hashedNewPassword)}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	return nil
}

// RequestPasswordReset stores a hashed reset token and emails the raw one.
// It never reveals whether the email belongs to a registered user; callers
// get a nil error either way unless the email delivery itself fails.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		// Unknown address. Pretend everything went fine.
		logging.Logger.Infof("Event ID: RESET_UNKNOWN_EMAIL, Description: password reset requested for unregistered email")
		return nil
	}

	raw, hash, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"resetTokenHash":   hash,
		"resetTokenExpiry": time.Now().Add(utils.ResetTokenTTLMinutes * time.Minute),
	}}
	if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return fmt.Errorf("failed to store reset token: %v", err)
	}

	if err := s.sendResetEmail(user.Email, raw); err != nil {
		return fmt.Errorf("failed to send password reset email: %v", err)
	}

	return nil
}

// ResetPassword consumes a raw reset token. The token is single-use.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"resetTokenHash": utils.HashResetToken(rawToken)}).Decode(&user)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}
	if !utils.VerifyResetToken(rawToken, user.ResetTokenHash, user.ResetTokenExpiry, time.Now()) {
		return fmt.Errorf("invalid or expired reset token")
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %v", err)
	}

	update := bson.M{
		"$set":   bson.M{"password": string(hashedPassword)},
		"$unset": bson.M{"resetTokenHash": "", "resetTokenExpiry": ""},
	}
	if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	return nil
}

// DeleteExpiredUnverifiedUsers purges stale registrations.
func (s *AuthService) DeleteExpiredUnverifiedUsers(ctx context.Context) {
	filter := bson.M{
		"isActive":           false,
		"verificationExpiry": bson.M{"$lt": time.Now()},
	}

	result, err := s.UserCollection.DeleteMany(ctx, filter)
	if err != nil {
		logging.Logger.Errorf("Event ID: EXPIRED_USERS_CLEANUP_FAILED, Description: %v", err)
		return
	}
	if result.DeletedCount > 0 {
		logging.Logger.Infof("Event ID: EXPIRED_USERS_CLEANED, Description: deleted %d expired unverified users", result.DeletedCount)
	}
}

func (s *AuthService) sendEmail(to, subject, body string) error {
	_, err := s.EmailBreaker.Execute(func() (interface{}, error) {
		return nil, utils.SendEmail(to, subject, body)
	})
	return err
}

func (s *AuthService) sendResetEmail(to, token string) error {
	_, err := s.EmailBreaker.Execute(func() (interface{}, error) {
		return nil, utils.SendPasswordResetEmail(to, token)
	})
	return err
}
