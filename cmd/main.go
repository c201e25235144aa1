package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/campuskey/housing-service/internal/app"
	"github.com/campuskey/housing-service/internal/config"
	"github.com/campuskey/housing-service/internal/constants"
	"github.com/campuskey/housing-service/internal/controllers"
	"github.com/campuskey/housing-service/internal/middleware"
	"github.com/campuskey/housing-service/internal/repositories"
	"github.com/campuskey/housing-service/internal/repositories/memory"
	"github.com/campuskey/housing-service/internal/routes"
	"github.com/campuskey/housing-service/internal/services"
	"github.com/campuskey/housing-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize housing-service:", err)
	}
	defer application.Close()

	var (
		propRepo  repositories.PropertyRepository
		unitRepo  repositories.UnitRepository
		roomRepo  repositories.RoomRepository
		bedRepo   repositories.BedRepository
		appRepo   repositories.ApplicationRepository
		leaseRepo repositories.LeaseRepository
		occRepo   repositories.OccupantRepository
	)
	if cfg.DemoMode {
		store := memory.NewStore()
		propRepo = store.Properties()
		unitRepo = store.Units()
		roomRepo = store.Rooms()
		bedRepo = store.Beds()
		appRepo = store.Applications()
		leaseRepo = store.Leases()
		occRepo = store.Occupants()
	} else {
		propRepo = repositories.NewPropertyRepository(application.DB)
		unitRepo = repositories.NewUnitRepository(application.DB)
		roomRepo = repositories.NewRoomRepository(application.DB)
		bedRepo = repositories.NewBedRepository(application.DB)
		appRepo = repositories.NewApplicationRepository(application.DB)
		leaseRepo = repositories.NewLeaseRepository(application.DB)
		occRepo = repositories.NewOccupantRepository(application.DB)
	}

	if cfg.SeedDemoData {
		if err := app.SeedDemoData(context.Background(), propRepo, unitRepo, roomRepo, bedRepo); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	var sgClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}

	notificationService := services.NewNotificationService(
		sgClient, twClient,
		cfg.SendGridFromEmail, cfg.TwilioFromPhone, cfg.OrganizationName,
		cfg.SendGridSandbox,
	)
	inventoryService := services.NewInventoryService(propRepo, unitRepo, roomRepo, bedRepo)
	availabilityService := services.NewAvailabilityService(inventoryService, unitRepo, roomRepo, bedRepo, leaseRepo)
	applicationService := services.NewApplicationService(appRepo, leaseRepo, occRepo, inventoryService, notificationService)
	leaseService := services.NewLeaseService(leaseRepo, appRepo, inventoryService)
	occupancyService := services.NewOccupancyService(occRepo, leaseRepo)
	leaseScheduler := services.NewLeaseSchedulerService(leaseRepo)

	healthController := controllers.NewHealthController(application)
	propertiesController := controllers.NewPropertiesController(inventoryService, availabilityService)
	applicationsController := controllers.NewApplicationsController(applicationService)
	leasesController := controllers.NewLeasesController(leaseService, applicationService)
	occupantsController := controllers.NewOccupantsController(occupancyService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	// Inventory + availability
	secured.HandleFunc(routes.Properties, propertiesController.ListPropertiesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Property, propertiesController.GetPropertyHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PropertyUnits, propertiesController.ListUnitsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UnitRooms, propertiesController.ListRoomsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.RoomBeds, propertiesController.ListBedsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PropertyAvailable, propertiesController.ListAvailabilityHandler).Methods(http.MethodGet)

	// Applications (resident)
	secured.HandleFunc(routes.Applications, applicationsController.SubmitApplicationHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApplicationsMy, applicationsController.ListMyApplicationsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Application, applicationsController.GetApplicationHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ApplicationAccept, applicationsController.AcceptInviteHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ApplicationDecline, applicationsController.DeclineInviteHandler).Methods(http.MethodPost)

	// Leases (resident)
	secured.HandleFunc(routes.LeasesMy, leasesController.ListMyLeasesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Lease, leasesController.GetLeaseHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.LeaseSign, leasesController.SignLeaseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.LeaseInvite, leasesController.InviteOccupantHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.LeaseOccupants, occupantsController.ListOccupantsHandler).Methods(http.MethodGet)

	// Housing office endpoints
	staff := router.NewRoute().Subrouter()
	staff.Use(middleware.AuthMiddleware(cfg.RSAPublicKey), middleware.StaffOnly)

	staff.HandleFunc(routes.Applications, applicationsController.ListApplicationsHandler).Methods(http.MethodGet)
	staff.HandleFunc(routes.ApplicationStatus, applicationsController.SetApplicationStatusHandler).Methods(http.MethodPatch, http.MethodPut)
	staff.HandleFunc(routes.Leases, leasesController.AllocateLeaseHandler).Methods(http.MethodPost)
	staff.HandleFunc(routes.Leases, leasesController.ListLeasesHandler).Methods(http.MethodGet)
	staff.HandleFunc(routes.LeaseStatus, leasesController.SetLeaseStatusHandler).Methods(http.MethodPatch, http.MethodPut)
	staff.HandleFunc(routes.LeaseOccupants, occupantsController.AddOccupantHandler).Methods(http.MethodPost)
	staff.HandleFunc(routes.LeaseOccupant, occupantsController.RemoveOccupantHandler).Methods(http.MethodDelete)

	c := cron.New()
	_, cronErr := c.AddFunc(constants.LeaseMaintenanceCronSpec, func() {
		leaseScheduler.RunDailyLeaseMaintenance(context.Background())
	})
	if cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule daily lease maintenance cron")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000")
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("housing-service failed to start:", err)
	}
}
