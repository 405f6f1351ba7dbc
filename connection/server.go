package connection

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cloudaccounts/config"
	backgroundcontroller "cloudaccounts/controller/background"
	usercontroller "cloudaccounts/controller/user"
	userscontroller "cloudaccounts/controller/users"
	"cloudaccounts/logger"
)

func StartServer() {
	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	fb, err := FBConnection(context.Background(), cfg)
	if err != nil {
		log.Fatal("failed to initialize Firebase clients", zap.Error(err))
	}

	router := NewRouter(cfg, fb, log)

	log.Info("api is running", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// NewRouter assembles the HTTP surface: the account CRUD routes, the
// paginated listing route and the event-push routes the platform's
// triggers deliver to.
func NewRouter(cfg *config.Config, fb *Firebase, log *zap.Logger) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	usercontroller.UserController(router, cfg, fb.Auth, fb.Firestore)
	userscontroller.UsersController(router, cfg, fb.Auth, fb.Firestore)
	backgroundcontroller.BackgroundController(router, cfg, fb.Auth, fb.Firestore, fb.Bucket, log)

	return router
}
