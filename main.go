package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chroniclehq/chroniclebackend/config"
	"github.com/chroniclehq/chroniclebackend/database"
	"github.com/chroniclehq/chroniclebackend/handlers"
	"github.com/chroniclehq/chroniclebackend/media"
	"github.com/chroniclehq/chroniclebackend/permissions"
	"github.com/chroniclehq/chroniclebackend/realtime"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/chroniclehq/chroniclebackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.PortraitsPath, cfg.ThumbnailsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePortrait:  filepath.Base(cfg.PortraitsPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	hub := realtime.NewHub()
	go hub.Run()
	dispatcher := workers.NewNotificationDispatcher(hub, cfg.NotificationQueueSize, cfg.NumNotificationWorkers)
	defer dispatcher.Stop()

	userRepo := repository.NewGormUserRepository(gormDB)
	roleRepo := repository.NewGormRoleRepository(gormDB)
	inviteCodeRepo := repository.NewGormInviteCodeRepository(gormDB)
	personRepo := repository.NewPersonRepository(gormDB, dispatcher)
	editRepo := repository.NewPersonEditRepository(gormDB, dispatcher)
	achievementRepo := repository.NewAchievementRepository(gormDB)

	if err := handlers.SyncSuperAdminRole(roleRepo); err != nil {
		log.Fatalf("FATAL: Failed to sync Super Administrator role: %v", err)
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing portraits in: %s", cfg.PortraitsPath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := handlers.NewAuthHandler(userRepo, inviteCodeRepo, cfg)
	setupHandler := handlers.NewSetupHandler(gormDB, userRepo, roleRepo)
	personHandler := handlers.NewPersonHandler(personRepo)
	reviewHandler := handlers.NewReviewHandler(personRepo, achievementRepo)
	editHandler := handlers.NewEditHandler(editRepo)
	achievementHandler := handlers.NewAchievementHandler(achievementRepo)
	browseHandler := handlers.NewBrowseHandler(sqlDB, personRepo, cfg)
	portraitHandler := handlers.NewPortraitHandler(personRepo, mediaProcessor, cfg)
	adminUserHandler := handlers.NewAdminUserHandler(userRepo, roleRepo)
	adminRoleHandler := handlers.NewAdminRoleHandler(roleRepo, userRepo)
	adminInviteCodeHandler := handlers.NewAdminInviteCodeHandler(inviteCodeRepo)
	permissionsHandler := handlers.NewPermissionsHandler()

	jwtSecret := []byte(cfg.JWTSecret)
	authed := func(h http.HandlerFunc) http.Handler {
		return handlers.AuthMiddleware(userRepo, jwtSecret, h)
	}
	moderator := func(perm string, h http.HandlerFunc) http.Handler {
		return handlers.AuthMiddleware(userRepo, jwtSecret,
			handlers.RequireAnyGlobalPermission([]string{perm, permissions.SystemAdmin}, h))
	}

	r.Route("/api", func(r chi.Router) {
		// first-run setup and authentication
		r.Post("/setup/first-admin", setupHandler.CreateFirstAdmin)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/logout", authHandler.Logout)
		r.Method("GET", "/auth/me", authed(authHandler.CurrentUser))

		// public approved-only catalogue
		r.Route("/browse", func(r chi.Router) {
			r.Get("/people", browseHandler.ListPeople)
			r.Get("/people/{person_id}", browseHandler.GetPerson)
			r.Get("/achievements", browseHandler.ListAchievements)
			r.Get("/categories", browseHandler.Categories)
		})

		// contributor lifecycle endpoints
		r.Route("/people", func(r chi.Router) {
			r.Method("POST", "/", authed(personHandler.CreatePerson))
			r.Method("GET", "/mine", authed(personHandler.ListMine))
			r.Route("/{person_id}", func(r chi.Router) {
				r.Method("GET", "/", authed(personHandler.GetPerson))
				r.Method("PUT", "/", authed(personHandler.UpdatePerson))
				r.Method("DELETE", "/", authed(personHandler.DeletePerson))
				r.Method("POST", "/submit", authed(personHandler.SubmitPerson))
				r.Method("POST", "/revert", authed(personHandler.RevertPerson))
				r.Method("PUT", "/periods", authed(personHandler.ReplaceLifePeriods))
				r.Method("PUT", "/portrait", authed(portraitHandler.UploadPortrait))
				r.Method("POST", "/edits", authed(editHandler.ProposeEdit))
				r.Method("GET", "/achievements", authed(achievementHandler.ListByPerson))
			})
		})

		// achievements
		r.Route("/achievements", func(r chi.Router) {
			r.Method("POST", "/", authed(achievementHandler.CreateAchievement))
			r.Route("/{achievement_id}", func(r chi.Router) {
				r.Method("GET", "/", authed(achievementHandler.GetAchievement))
				r.Method("PUT", "/", authed(achievementHandler.UpdateAchievement))
				r.Method("DELETE", "/", authed(achievementHandler.DeleteAchievement))
				r.Method("POST", "/submit", authed(achievementHandler.SubmitAchievement))
				r.Method("POST", "/revert", authed(achievementHandler.RevertAchievement))
			})
		})

		// edit proposals
		r.Route("/edits", func(r chi.Router) {
			r.Method("GET", "/mine", authed(editHandler.ListMyEdits))
			r.Method("GET", "/{edit_id}", authed(editHandler.GetEdit))
		})

		// moderation queues and verdicts
		r.Route("/review", func(r chi.Router) {
			r.Method("GET", "/people", moderator(permissions.PersonReview, reviewHandler.ListPendingPeople))
			r.Method("POST", "/people/{person_id}", moderator(permissions.PersonReview, reviewHandler.ReviewPerson))
			r.Method("GET", "/achievements", moderator(permissions.AchievementReview, reviewHandler.ListPendingAchievements))
			r.Method("POST", "/achievements/{achievement_id}", moderator(permissions.AchievementReview, reviewHandler.ReviewAchievement))
			r.Method("GET", "/edits", moderator(permissions.EditReview, editHandler.ListPendingEdits))
			r.Method("POST", "/edits/{edit_id}", moderator(permissions.EditReview, editHandler.ReviewEdit))
		})

		// admin management
		r.Route("/admin", func(r chi.Router) {
			r.Route("/users", func(r chi.Router) {
				r.Method("GET", "/", moderator("user.list", adminUserHandler.ListUsers))
				r.Method("POST", "/", moderator("user.create", adminUserHandler.CreateUser))
				r.Method("GET", "/{id}", moderator("user.list", adminUserHandler.GetUser))
				r.Method("PUT", "/{id}", moderator("user.edit", adminUserHandler.UpdateUser))
				r.Method("DELETE", "/{id}", moderator("user.delete", adminUserHandler.DeleteUser))
			})
			r.Route("/roles", func(r chi.Router) {
				r.Method("GET", "/", moderator("role.list", adminRoleHandler.ListRoles))
				r.Method("POST", "/", moderator("role.create", adminRoleHandler.CreateRole))
				r.Method("GET", "/{roleID}", moderator("role.list", adminRoleHandler.GetRole))
				r.Method("PUT", "/{roleID}", moderator("role.edit", adminRoleHandler.UpdateRole))
				r.Method("DELETE", "/{roleID}", moderator("role.delete", adminRoleHandler.DeleteRole))
				r.Method("GET", "/{roleID}/users", moderator("role.list", adminRoleHandler.GetRoleUsers))
				r.Method("POST", "/{roleID}/users", moderator("role.edit", adminRoleHandler.AddUserToRole))
				r.Method("DELETE", "/{roleID}/users/{userID}", moderator("role.edit", adminRoleHandler.RemoveUserFromRole))
			})
			r.Route("/invite-codes", func(r chi.Router) {
				r.Method("GET", "/", moderator("invite.list", adminInviteCodeHandler.ListInviteCodes))
				r.Method("POST", "/", moderator("invite.create", adminInviteCodeHandler.CreateInviteCode))
				r.Method("GET", "/{id}", moderator("invite.list", adminInviteCodeHandler.GetInviteCode))
				r.Method("PUT", "/{id}", moderator("invite.edit", adminInviteCodeHandler.UpdateInviteCode))
				r.Method("DELETE", "/{id}", moderator("invite.delete", adminInviteCodeHandler.DeleteInviteCode))
			})
			r.Method("GET", "/permissions", moderator(permissions.SystemAdmin, permissionsHandler.ListDefinedPermissions))
			r.Method("GET", "/permissions/keys", moderator(permissions.SystemAdmin, permissionsHandler.ListDefinedPermissionKeys))
		})

		// moderation event stream
		r.Get("/events", hub.ServeWS)

		portraitSubDir := filepath.Base(cfg.PortraitsPath)
		r.Get(fmt.Sprintf("/%s/*", portraitSubDir), handlers.AssetServer(cfg.MediaStoragePath, portraitSubDir))
		log.Printf("Registered portrait server at /%s/*", portraitSubDir)

		thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get(fmt.Sprintf("/%s/*", thumbnailSubDir), handlers.AssetServer(cfg.MediaStoragePath, thumbnailSubDir))
		log.Printf("Registered thumbnail server at /%s/*", thumbnailSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
