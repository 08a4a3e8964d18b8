package main

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/ai"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

func main() {
	// .envは無くても良い（本番は環境変数で渡す）
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Favorite{},
		&model.FavoriteProduct{},
		&model.Review{},
		&model.Chat{},
		&model.ChatMessage{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	chatRepo := infraRepo.NewChatGormRepository(gormDB)

	idGen := &uuidGenerator{}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, idGen)
	userUC := usecase.NewUserUsecase(userRepo)
	productUC := usecase.NewProductUsecase(productRepo, idGen)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	favoritesUC := usecase.NewFavoritesUsecase(favoriteRepo, productRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, userRepo, idGen)
	chatUC := usecase.NewChatUsecase(chatRepo)

	//Server生成とルート登録
	e := server.New(cfg, logger)

	handler.NewAuthHandler(authUC).RegisterRoutes(e)
	handler.NewUserHandler(userUC).RegisterRoutes(e, cfg)
	handler.NewProductHandler(productUC).RegisterRoutes(e, cfg)
	handler.NewCartHandler(cartUC).RegisterRoutes(e)
	handler.NewFavoritesHandler(favoritesUC).RegisterRoutes(e)
	handler.NewReviewHandler(reviewUC).RegisterRoutes(e)
	handler.NewChatHandler(chatUC).RegisterRoutes(e)

	//GEMINI_API_KEYがあるときだけアシスタントを有効化
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, "")
		if err != nil {
			logger.Fatal("gemini client init failed", zap.Error(err))
		}
		assistantUC := usecase.NewAssistantUsecase(productRepo, gemini)
		handler.NewAssistantHandler(assistantUC).RegisterRoutes(e)
	} else {
		logger.Info("assistant disabled (GEMINI_API_KEY not set)")
	}

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
