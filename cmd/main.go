package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/iAmmar7/api-audit-rail/internal/app"
	"github.com/iAmmar7/api-audit-rail/internal/config"
	"github.com/iAmmar7/api-audit-rail/internal/controllers"
	"github.com/iAmmar7/api-audit-rail/internal/middleware"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/routes"
	"github.com/iAmmar7/api-audit-rail/internal/services"
	"github.com/iAmmar7/api-audit-rail/internal/storage"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.AppName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize app")
	}
	defer application.Close()

	issueRepo := repositories.NewIssueRepository(application.DB)
	iniRepo := repositories.NewInitiativeRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)

	blobs, err := newBlobStore(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize blob store")
	}

	if cfg.SeedTestData {
		if err := app.SeedTestData(context.Background(), userRepo, issueRepo); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	issueService := services.NewIssueService(issueRepo, userRepo)
	lifecycleService := services.NewIssueLifecycleService(issueRepo, blobs)
	evidenceService := services.NewEvidenceService(issueRepo, blobs)
	listingService := services.NewIssueListingService(issueRepo)
	exportService := services.NewIssueExportService(issueRepo)
	statsService := services.NewIssueStatsService(issueRepo)
	initiativeService := services.NewInitiativeService(iniRepo, blobs)
	initiativeExportService := services.NewInitiativeExportService(iniRepo)
	userService := services.NewUserService(userRepo, cfg.JWTSecret)
	escalationService := services.NewEscalationService(issueRepo)

	scheduler := services.NewSchedulerService(escalationService, cfg.EscalationSchedule)
	if err := scheduler.Start(); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to start escalation scheduler")
	}
	defer scheduler.Stop()

	authController := controllers.NewAuthController(userService)
	issuesController := controllers.NewIssuesController(issueService, lifecycleService, evidenceService)
	reportsController := controllers.NewReportsController(listingService, exportService, statsService)
	initiativesController := controllers.NewInitiativesController(initiativeService, initiativeExportService)
	usersController := controllers.NewUsersController(userService)
	healthController := controllers.NewHealthController(application)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthSignup, authController.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	secured.HandleFunc(routes.AuthMe, authController.MeHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.Issues, issuesController.CreateIssueHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.IssueByID, issuesController.GetIssueHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AuditorIssueByID, issuesController.AuditorUpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.SMIssueByID, issuesController.ResolveHandler).Methods(http.MethodPut)

	secured.HandleFunc(routes.EvidenceUpload, issuesController.UploadEvidenceHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.IssueEvidence, issuesController.AttachEvidenceHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.IssueEvidence, issuesController.DetachEvidenceHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Initiatives, initiativesController.CreateInitiativeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.InitiativeByID, initiativesController.UpdateInitiativeHandler).Methods(http.MethodPut)

	secured.HandleFunc(routes.ReportsIssues, reportsController.ListIssuesHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReportsIssuesExport, reportsController.ExportIssuesHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReportsIssuesExportCSV, reportsController.ExportIssuesCSVHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReportsInitiatives, initiativesController.ListInitiativesHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReportsInitiativesExport, initiativesController.ExportInitiativesHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReportsInitiativesExportCSV, initiativesController.ExportInitiativesCSVHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReportsStats, reportsController.StatsHandler).Methods(http.MethodPost)

	// Admin-only surface. Services still run their own permission
	// checks; this just rejects obvious trespassers early.
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRoles(models.RoleAdmin))

	admin.HandleFunc(routes.AdminIssueByID, issuesController.AdminCorrectHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminIssueByID, issuesController.DeleteIssueHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminIssueCancel, issuesController.ToggleCancelHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminInitiativeByID, initiativesController.DeleteInitiativeHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminUsersSearch, usersController.ListUsersHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminUserByID, usersController.UpdateUserHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminUserByID, usersController.DeleteUserHandler).Methods(http.MethodDelete)

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl, "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("audit-rail failed to start:", err)
	}
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.BlobDriver == "s3" {
		return storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Prefix)
	}
	return storage.NewDiskStore(cfg.BlobRoot, cfg.BlobPublicBase)
}
