package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"quel-photoshoot-server/modules/common/config"
	"quel-photoshoot-server/modules/common/credit"
	"quel-photoshoot-server/modules/common/gemini"
	"quel-photoshoot-server/modules/common/logging"
	redisutil "quel-photoshoot-server/modules/common/redis"
	"quel-photoshoot-server/modules/common/storage"
	"quel-photoshoot-server/modules/library"
	"quel-photoshoot-server/modules/photoshoot"
)

func newImageStore(cfg *config.Config) (storage.ImageStore, error) {
	if cfg.StorageBackend == config.BackendMinio {
		return storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	}
	return storage.NewSupabaseStore(
		cfg.SupabaseURL,
		cfg.SupabaseServiceKey,
		cfg.SupabaseStorageBucket,
		cfg.SupabaseStorageBaseURL,
		&http.Client{Timeout: 60 * time.Second},
	), nil
}

func newLedger(cfg *config.Config) (credit.Ledger, error) {
	pricing := credit.NewPricing(cfg.ImagePerPrice)
	if cfg.CreditBackend == config.BackendMemory {
		log.Warn().Int("balance", cfg.MemoryCreditBalance).Msg("⚠️  Using in-memory credit ledger")
		return credit.NewMemoryLedger(pricing, cfg.MemoryCreditBalance), nil
	}
	return credit.NewSupabaseLedger(cfg.SupabaseURL, cfg.SupabaseServiceKey, pricing)
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := newImageStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to init image storage")
	}

	ledger, err := newLedger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to init credit ledger")
	}

	opts := photoshoot.Options{
		Client:             gemini.NewImageClient(cfg.GeminiAPIKeys, cfg.GeminiModel, store, cfg.GeminiTimeout),
		Ledger:             ledger,
		MaxBatches:         cfg.MaxBatches,
		PlanTTL:            cfg.PlanTTL,
		DefaultAspectRatio: cfg.DefaultAspectRatio,
		DefaultResolution:  cfg.DefaultResolution,
	}

	// Redis 없이도 동작 (로컬 취소만)
	if rdb, err := redisutil.Connect(context.Background(), cfg); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis unavailable, stop requests only reach batches on this instance")
	} else {
		opts.Flags = redisutil.NewCancelFlags(rdb)
	}

	if cfg.HasSupabase() {
		loader, err := library.NewSupabaseLoader(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to init library loader")
		}
		opts.Library = library.New(loader, 0, cfg.LibraryCacheTTL)

		history, err := photoshoot.NewSupabaseHistory(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to init batch history")
		}
		opts.History = history
	}

	svc, err := photoshoot.NewService(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to init photoshoot service")
	}

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(photoshoot.CORS)

	r.HandleFunc("/", photoshoot.HealthCheck).Methods("GET")
	r.HandleFunc("/health", photoshoot.HealthCheck).Methods("GET")
	photoshoot.NewHandler(svc).RegisterRoutes(r)

	log.Info().Str("port", cfg.Port).Msg("🚀 Quel Photoshoot Server starting")
	log.Info().Msgf("📡 WebSocket endpoint: ws://localhost:%s/ws/photoshoot/{batchId}", cfg.Port)
	log.Info().Msgf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
