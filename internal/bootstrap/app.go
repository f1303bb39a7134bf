package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/llm"
	"legaldocs-backend/internal/search"
	"legaldocs-backend/internal/shared/config"
	"legaldocs-backend/internal/shared/server"
	"legaldocs-backend/internal/shared/storage/db"
	"legaldocs-backend/internal/shared/storage/object"
	localstore "legaldocs-backend/internal/shared/storage/object/local"
	"legaldocs-backend/internal/workerproc"
)

// App holds shared dependencies wired from configuration.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DocumentsRepo documents.Repo
	SearchStore   search.Store
	SavedSearches search.SavedSearchStore
	SearchService *search.Service
	SearchHandler *search.Handler

	LLM       llm.Client
	Costs     *llm.CostRecorder
	Extractor *workerproc.Processor
}

// Build prepares the HTTP application: database (or in-memory fallback in
// dev), object store, search service, and the router.
func Build(cfg config.Config) (*App, error) {
	return build(cfg, db.OptionsFromEnv(db.DefaultServerOptions()), true)
}

// BuildWorker prepares the extraction worker's dependencies. No router is
// wired and the connection pool is sized for background work.
func BuildWorker(cfg config.Config) (*App, error) {
	return build(cfg, db.OptionsFromEnv(db.DefaultWorkerOptions()), false)
}

func build(cfg config.Config, dbOpts db.Options, withRouter bool) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg, dbOpts)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  localstore.New(cfg.LocalStoreDir),
		Costs:  llm.NewCostRecorder(),
		LLM:    llm.PlaceholderClient{},
	}

	if sqlDB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: sqlDB}
		app.SearchStore = &search.PGStore{DB: sqlDB}
		app.SavedSearches = &search.PGSavedSearches{DB: sqlDB}
	} else {
		memRepo := documents.NewMemoryRepo()
		app.DocumentsRepo = memRepo
		app.SearchStore = search.NewMemoryStore(memRepo)
		app.SavedSearches = search.NewMemorySavedSearches()
	}

	app.SearchService = search.NewService(app.SearchStore, app.SavedSearches)
	app.SearchHandler = search.NewHandler(app.SearchService)
	app.Extractor = workerproc.NewProcessor(app.DocumentsRepo, app.Store)

	if withRouter {
		app.Router = server.NewRouter(server.RouterDeps{
			Config:        app.Config,
			SearchHandler: app.SearchHandler,
			Costs:         app.Costs,
		})
	}

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	search.EnsureIndexes(ctx, sqlDB)

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
