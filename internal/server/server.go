package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/nandanhq/peerverse/internal/config"
	"github.com/nandanhq/peerverse/internal/handler"
	"github.com/nandanhq/peerverse/internal/middleware"
	"github.com/nandanhq/peerverse/internal/repository"
	"github.com/nandanhq/peerverse/internal/service"
	"github.com/nandanhq/peerverse/pkg/mailer"
	"github.com/nandanhq/peerverse/pkg/storage"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	cron        *cron.Cron
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	postRepo := repository.NewPostRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	upvoteRepo := repository.NewUpvoteRepository(db)
	karmaLogRepo := repository.NewKarmaLogRepository(db)
	chatRepo := repository.NewChatRepository(db)
	mentorRequestRepo := repository.NewMentorRequestRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	mail, err := mailer.NewSMTPMailer()
	if err != nil {
		log.Printf("Mailer disabled: %v", err)
		mail = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	reputationSvc := service.NewReputationService(userRepo, postRepo, upvoteRepo, karmaLogRepo, redisClient)

	authSvc := service.NewAuthService(userRepo, collegeRepo, mail)
	authHandler := handler.NewAuthHandler(authSvc)

	userSvc := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userSvc, reputationSvc)

	collegeSvc := service.NewCollegeService(collegeRepo, userRepo)
	collegeHandler := handler.NewCollegeHandler(collegeSvc)

	postSvc := service.NewPostService(postRepo, collegeRepo, reputationSvc, searchSvc, redisClient, cfg.RateLimitGlobal, cfg.RateLimitPost)
	postHandler := handler.NewPostHandler(postSvc)

	replySvc := service.NewReplyService(replyRepo, postRepo, reputationSvc)
	replyHandler := handler.NewReplyHandler(replySvc)

	upvoteHandler := handler.NewUpvoteHandler(reputationSvc)

	mentorRequestSvc := service.NewMentorRequestService(mentorRequestRepo, userRepo)
	mentorRequestHandler := handler.NewMentorRequestHandler(mentorRequestSvc)

	chatSvc := service.NewChatService(chatRepo, userRepo, redisClient)
	chatHandler := handler.NewChatHandler(chatSvc, redisClient)

	uploadHandler := handler.NewUploadHandler(imageStorage)

	// Counter reconciliation. The ledger is authoritative; this repairs
	// any post whose cached upvote count drifted.
	c := cron.New()
	if _, err := c.AddFunc(cfg.ReconcileSchedule, func() {
		repaired, err := reputationSvc.ReconcilePostUpvotes(context.Background())
		if err != nil {
			log.Printf("Upvote reconciliation failed: %v", err)
			return
		}
		if repaired > 0 {
			log.Printf("Upvote reconciliation repaired %d posts", repaired)
		}
	}); err != nil {
		log.Fatalf("invalid reconcile schedule %q: %v", cfg.ReconcileSchedule, err)
	}
	c.Start()

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/verify-email", authHandler.VerifyEmail)
	}

	api.GET("/colleges", collegeHandler.GetColleges)
	api.GET("/colleges/:college_id", collegeHandler.GetCollege)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/colleges", collegeHandler.CreateCollege)
			adminGroup.PUT("/colleges/:college_id", collegeHandler.UpdateCollege)
			adminGroup.GET("/mentor-requests", mentorRequestHandler.GetPendingRequests)
			adminGroup.PUT("/mentor-requests/:request_id", mentorRequestHandler.ReviewRequest)
			adminGroup.POST("/reconcile/upvotes", upvoteHandler.ReconcileUpvotes)
		}

		// Profile routes
		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me", userHandler.UpdateProfile)
		protected.GET("/users/:user_id", userHandler.GetUser)
		protected.POST("/users/me/mentor/opt-out", userHandler.OptOutMentor)

		// College membership
		protected.POST("/colleges/:college_id/join", collegeHandler.JoinCollege)
		protected.GET("/colleges/:college_id/posts", postHandler.GetPostsByCollege)

		// Post routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts/me", postHandler.GetMyPosts)
		protected.GET("/posts/search", postHandler.SearchPosts)
		protected.GET("/posts/:post_id", postHandler.GetPost)
		protected.PUT("/posts/:post_id", postHandler.UpdatePost)
		protected.DELETE("/posts/:post_id", postHandler.DeletePost)

		// Upvote routes
		protected.POST("/posts/:post_id/upvote", upvoteHandler.CastUpvote)
		protected.DELETE("/posts/:post_id/upvote", upvoteHandler.RetractUpvote)
		protected.GET("/users/me/upvotes", upvoteHandler.GetVotedPosts)

		// Reply routes
		protected.POST("/replies", replyHandler.CreateReply)
		protected.GET("/posts/:post_id/replies", replyHandler.GetReplies)
		protected.PUT("/replies/:reply_id", replyHandler.UpdateReply)
		protected.PUT("/replies/:reply_id/upvotes", replyHandler.UpvoteReply)
		protected.DELETE("/replies/:reply_id", replyHandler.DeleteReply)

		// Mentor routes
		protected.GET("/mentors", userHandler.GetMentors)
		protected.GET("/mentors/:mentor_id", userHandler.GetMentor)
		protected.GET("/leaderboard", userHandler.GetLeaderboard)
		protected.POST("/mentor-requests", mentorRequestHandler.CreateRequest)
		protected.GET("/mentor-requests/me", mentorRequestHandler.GetMyRequests)

		// Chat routes
		protected.GET("/chat/history", chatHandler.GetHistory)
		protected.POST("/chat/messages", chatHandler.SendMessage)
		protected.GET("/chat/ws", chatHandler.HandleWebSocket)

		// Media upload
		protected.POST("/upload", uploadHandler.UploadImage)
		protected.DELETE("/upload", uploadHandler.DeleteImage)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		cron:        c,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := strings.Split(allowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
