package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrSirThe1st/collaboration-sub001/gateway"
	"github.com/MrSirThe1st/collaboration-sub001/handlers"
	"github.com/MrSirThe1st/collaboration-sub001/logging"
	"github.com/MrSirThe1st/collaboration-sub001/middleware"
	"github.com/MrSirThe1st/collaboration-sub001/repositories"
	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/storage"
)

func createProjectNameIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on project name: %v", err)
	}
	return nil
}

func newBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	logging.InitLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Database connection failed:", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}
	fmt.Println("Connected to MongoDB!")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "collaboration"
	}
	db := client.Database(dbName)

	usersCollection := db.Collection("users")
	groupsCollection := db.Collection("groups")
	projectsCollection := db.Collection("projects")
	channelsCollection := db.Collection("channels")
	messagesCollection := db.Collection("messages")
	conversationsCollection := db.Collection("conversations")
	directMessagesCollection := db.Collection("direct_messages")
	tasksCollection := db.Collection("tasks")
	milestonesCollection := db.Collection("milestones")
	filesCollection := db.Collection("files")
	foldersCollection := db.Collection("folders")
	invitationsCollection := db.Collection("invitations")

	if err := createProjectNameIndex(projectsCollection); err != nil {
		log.Fatal(err)
	}

	notificationRepo, err := repositories.NewNotificationRepo(logging.Logger)
	if err != nil {
		log.Fatal("Cassandra connection error:", err)
	}
	defer notificationRepo.CloseSession()
	notificationRepo.CreateTable()

	storageClient, err := storage.NewClient()
	if err != nil {
		log.Fatal("Storage configuration error:", err)
	}

	emailBreaker := newBreaker("EmailServiceCB", 5*time.Second)
	storageBreaker := newBreaker("StorageServiceCB", 5*time.Second)

	hub := gateway.NewHub()

	projectService := &services.ProjectService{
		Client:                client,
		ProjectsCollection:    projectsCollection,
		UsersCollection:       usersCollection,
		ChannelsCollection:    channelsCollection,
		MessagesCollection:    messagesCollection,
		TasksCollection:       tasksCollection,
		MilestonesCollection:  milestonesCollection,
		FilesCollection:       filesCollection,
		FoldersCollection:     foldersCollection,
		InvitationsCollection: invitationsCollection,
	}
	blackListPath := os.Getenv("BLACKLIST_FILE")
	if blackListPath == "" {
		blackListPath = "blacklist.txt"
	}
	blackList, err := services.LoadBlackList(blackListPath)
	if err != nil {
		log.Println("Password blacklist not loaded:", err)
		blackList = map[string]bool{}
	}
	authService := services.NewAuthService(usersCollection, blackList, emailBreaker)
	userService := services.NewUserService(usersCollection, tasksCollection, projectService)
	groupService := &services.GroupService{
		Client:             client,
		GroupsCollection:   groupsCollection,
		UsersCollection:    usersCollection,
		ProjectsCollection: projectsCollection,
		ProjectService:     projectService,
	}
	channelService := &services.ChannelService{
		ChannelsCollection: channelsCollection,
		MessagesCollection: messagesCollection,
		ProjectsCollection: projectsCollection,
		Hub:                hub,
	}
	messageService := &services.MessageService{
		MessagesCollection: messagesCollection,
		Hub:                hub,
	}
	conversationService := &services.ConversationService{
		ConversationsCollection:  conversationsCollection,
		DirectMessagesCollection: directMessagesCollection,
		Hub:                      hub,
	}
	milestoneService := &services.MilestoneService{
		MilestonesCollection: milestonesCollection,
		TasksCollection:      tasksCollection,
	}
	taskService := &services.TaskService{
		TasksCollection:  tasksCollection,
		MilestoneService: milestoneService,
	}
	notificationService := services.NewNotificationService(notificationRepo, hub)
	invitationService := &services.InvitationService{
		InvitationsCollection: invitationsCollection,
		UsersCollection:       usersCollection,
		ProjectService:        projectService,
		NotificationService:   notificationService,
		Hub:                   hub,
	}
	fileService := &services.FileService{
		FilesCollection:   filesCollection,
		FoldersCollection: foldersCollection,
		Storage:           storageClient,
		StorageBreaker:    storageBreaker,
	}

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService, userService)
	projectHandler := handlers.NewProjectHandler(projectService, userService)
	channelHandler := handlers.NewChannelHandler(channelService, projectService, userService)
	messageHandler := handlers.NewMessageHandler(messageService, channelService, projectService, userService)
	conversationHandler := handlers.NewConversationHandler(conversationService, userService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService, projectService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, projectService)
	fileHandler := handlers.NewFileHandler(fileService, projectService)

	// Expired unverified accounts are purged in the background.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			authService.DeleteExpiredUnverifiedUsers(context.Background())
		}
	}()

	r := mux.NewRouter()

	// Auth routes are public.
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/verify", authHandler.VerifyEmail).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/request-password-reset", authHandler.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/api/auth/reset-password", authHandler.ResetPassword).Methods("POST")

	// The socket authenticates itself from the token query parameter.
	r.HandleFunc("/ws", gateway.ServeWS(hub))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/auth/change-password", authHandler.ChangePassword).Methods("POST")

	api.HandleFunc("/users/me", userHandler.GetMe).Methods("GET")
	api.HandleFunc("/users/me", userHandler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/users/me", userHandler.DeleteAccount).Methods("DELETE")
	api.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.GetUser).Methods("GET")

	api.HandleFunc("/groups", groupHandler.CreateGroup).Methods("POST")
	api.HandleFunc("/groups", groupHandler.ListGroups).Methods("GET")
	api.HandleFunc("/groups/{id}", groupHandler.GetGroup).Methods("GET")
	api.HandleFunc("/groups/{id}", groupHandler.DeleteGroup).Methods("DELETE")
	api.HandleFunc("/groups/{id}/members", groupHandler.AddMember).Methods("POST")
	api.HandleFunc("/groups/{id}/members/{memberId}", groupHandler.RemoveMember).Methods("DELETE")

	api.HandleFunc("/projects", projectHandler.CreateProject).Methods("POST")
	api.HandleFunc("/projects", projectHandler.ListProjects).Methods("GET")
	api.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/members", projectHandler.AddMember).Methods("POST")
	api.HandleFunc("/projects/{id}/members/{memberId}", projectHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/projects/{id}/requests", projectHandler.CreateJoinRequest).Methods("POST")
	api.HandleFunc("/projects/{id}/requests/{userId}", projectHandler.RespondJoinRequest).Methods("PUT")

	api.HandleFunc("/projects/{projectId}/channels", channelHandler.CreateChannel).Methods("POST")
	api.HandleFunc("/projects/{projectId}/channels", channelHandler.ListChannels).Methods("GET")
	api.HandleFunc("/channels/{id}", channelHandler.GetChannel).Methods("GET")
	api.HandleFunc("/channels/{id}", channelHandler.DeleteChannel).Methods("DELETE")
	api.HandleFunc("/channels/{id}/announcements", channelHandler.PostAnnouncement).Methods("POST")
	api.HandleFunc("/channels/{id}/announcements/{announcementId}", channelHandler.DeleteAnnouncement).Methods("DELETE")

	api.HandleFunc("/channels/{channelId}/messages", messageHandler.SendMessage).Methods("POST")
	api.HandleFunc("/channels/{channelId}/messages", messageHandler.ListMessages).Methods("GET")
	api.HandleFunc("/channels/{channelId}/messages/pinned", messageHandler.ListPinnedMessages).Methods("GET")
	api.HandleFunc("/channels/{channelId}/messages/read", messageHandler.MarkRead).Methods("POST")
	api.HandleFunc("/messages/{id}", messageHandler.EditMessage).Methods("PUT")
	api.HandleFunc("/messages/{id}", messageHandler.DeleteMessage).Methods("DELETE")
	api.HandleFunc("/messages/{id}/pin", messageHandler.PinMessage).Methods("POST")
	api.HandleFunc("/messages/{id}/pin", messageHandler.UnpinMessage).Methods("DELETE")

	api.HandleFunc("/conversations", conversationHandler.StartConversation).Methods("POST")
	api.HandleFunc("/conversations", conversationHandler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations/{id}", conversationHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id}/messages", conversationHandler.SendDirectMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/messages", conversationHandler.ListDirectMessages).Methods("GET")

	api.HandleFunc("/projects/{projectId}/tasks", taskHandler.CreateTask).Methods("POST")
	api.HandleFunc("/projects/{projectId}/tasks", taskHandler.ListTasks).Methods("GET")
	api.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods("DELETE")
	api.HandleFunc("/tasks/{id}/status", taskHandler.ChangeStatus).Methods("PUT")
	api.HandleFunc("/tasks/{id}/milestone", taskHandler.SetMilestone).Methods("PUT")
	api.HandleFunc("/tasks/{id}/assignees/{userId}", taskHandler.AddAssignee).Methods("POST")
	api.HandleFunc("/tasks/{id}/assignees/{userId}", taskHandler.RemoveAssignee).Methods("DELETE")

	api.HandleFunc("/projects/{projectId}/milestones", milestoneHandler.CreateMilestone).Methods("POST")
	api.HandleFunc("/projects/{projectId}/milestones", milestoneHandler.ListMilestones).Methods("GET")
	api.HandleFunc("/milestones/{id}", milestoneHandler.GetMilestone).Methods("GET")
	api.HandleFunc("/milestones/{id}", milestoneHandler.DeleteMilestone).Methods("DELETE")

	api.HandleFunc("/notifications", notificationHandler.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}", notificationHandler.DeleteNotification).Methods("DELETE")

	api.HandleFunc("/projects/{projectId}/invitations", invitationHandler.CreateInvitation).Methods("POST")
	api.HandleFunc("/invitations", invitationHandler.ListInvitations).Methods("GET")
	api.HandleFunc("/invitations/{id}/respond", invitationHandler.RespondToInvitation).Methods("PUT")

	api.HandleFunc("/projects/{projectId}/folders", fileHandler.CreateFolder).Methods("POST")
	api.HandleFunc("/projects/{projectId}/folders", fileHandler.ListFolders).Methods("GET")
	api.HandleFunc("/folders/{id}", fileHandler.DeleteFolder).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/files", fileHandler.UploadFile).Methods("POST")
	api.HandleFunc("/projects/{projectId}/files", fileHandler.ListFiles).Methods("GET")
	api.HandleFunc("/files/{id}", fileHandler.GetFile).Methods("GET")
	api.HandleFunc("/files/{id}", fileHandler.DeleteFile).Methods("DELETE")

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      middleware.EnableCORS(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	fmt.Println("Server is running on port " + port)
	log.Fatal(srv.ListenAndServe())
}
