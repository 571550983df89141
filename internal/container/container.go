package container

import (
	"log/slog"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taxdir/api/internal/config"
	"github.com/taxdir/api/internal/extractor"
	"github.com/taxdir/api/internal/linkcheck"
	"github.com/taxdir/api/internal/models"
	"github.com/taxdir/api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	UserService    *services.UserService
	EventService   *services.EventService
	JobService     *services.JobService
	MessageService *services.MessageService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey string,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)

	// The extractor and the checker keep separate HTTP clients: extraction
	// follows redirects freely, validation caps hops to classify them.
	ex := extractor.New(&http.Client{Timeout: cfg.ExtractTimeout})
	checker := linkcheck.NewChecker(
		linkcheck.NewHTTPClient(cfg.LinkCheckTimeout, cfg.MaxRedirectHops),
		linkcheck.DefaultWeights(),
	)

	userService := services.NewUserService(supa)
	eventService := services.NewEventService(supa, ex, checker, logger)
	jobService := services.NewJobService(supa)
	messageService := services.NewMessageService(mongo)

	return &Container{
		Logger:         logger,
		Cloudinary:     cloudinary,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		UserService:    userService,
		EventService:   eventService,
		JobService:     jobService,
		MessageService: messageService,
	}
}
