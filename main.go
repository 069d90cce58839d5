package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"therapyhub-menus/auth"
	"therapyhub-menus/config"
	"therapyhub-menus/controllers"
	"therapyhub-menus/database"
	grpcserver "therapyhub-menus/grpc_server"
	"therapyhub-menus/interceptors"
	"therapyhub-menus/registry"
	"therapyhub-menus/repositories"
	"therapyhub-menus/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

func main() {
	// Initialize configs
	config.InitConfig()
	cfg := &config.AppConfig

	var logger *zap.Logger
	switch cfg.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	auth.SetSigningKey([]byte(cfg.JwtSecret))
	if cfg.InsecureJwtSecret() {
		logger.Warn("Using the built-in JWT secret; set THERAPYHUB_JWT_SECRET outside development")
	}

	db, err := database.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	uow := repositories.NewUnitOfWork(db)
	menuService := services.NewMenuService(uow, logger)
	userTypeService := services.NewUserTypeService(uow, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           newContainer(db, menuService, userTypeService, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcServer, healthServer := newGRPCServer(menuService, logger)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		logger.Fatal("Failed to listen for gRPC", zap.Int("port", cfg.GRPCPort), zap.Error(err))
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	go func() {
		logger.Info("gRPC server listening", zap.Int("port", cfg.GRPCPort))
		if err := grpcServer.Serve(grpcListener); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	var (
		reg        registry.ServiceRegistry
		serviceIDs []string
	)
	if cfg.Consul.Enabled {
		reg, serviceIDs = registerWithConsul(cfg, logger)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down", zap.String("signal", sig.String()))

	for _, id := range serviceIDs {
		_ = reg.Deregister(id)
	}
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}
	grpcServer.GracefulStop()
}

// newContainer wires the REST controllers, the health probe and the OpenAPI document.
func newContainer(db *gorm.DB, menuService services.MenuService, userTypeService services.UserTypeService, logger *zap.Logger) *restful.Container {
	container := restful.NewContainer()
	container.DoNotRecover(false)
	container.RecoverHandler(controllers.RecoverHandler(logger))
	container.Filter(controllers.RequestLogger(logger))

	menuWS := new(restful.WebService)
	controllers.NewMenuController(menuService, logger).RegisterRoutes(menuWS)
	container.Add(menuWS)

	userTypeWS := new(restful.WebService)
	controllers.NewUserTypeController(userTypeService, logger).RegisterRoutes(userTypeWS)
	container.Add(userTypeWS)

	healthWS := new(restful.WebService)
	controllers.NewHealthController(func() error { return database.Ping(db) }, logger).RegisterRoutes(healthWS)
	container.Add(healthWS)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}))
	return container
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "TherapyHub Menus API",
			Description: "Navigation menus and their assignment to user types",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "menus", Description: "Menu tree management"}},
		{TagProps: spec.TagProps{Name: "user-types", Description: "User types menus are granted to"}},
		{TagProps: spec.TagProps{Name: "health", Description: "Liveness probe"}},
	}
	swo.SecurityDefinitions = spec.SecurityDefinitions{
		"bearer": spec.APIKeyAuth("Authorization", "header"),
	}
}

func newGRPCServer(menuService services.MenuService, logger *zap.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptors.ZapLoggingInterceptor(logger),
		interceptors.AuthInterceptor(grpcserver.PublicMethods...),
	))
	grpcserver.RegisterMenuServiceServer(server, grpcserver.NewMenuServiceServer(menuService, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcserver.MenuServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)
	return server, healthServer
}

// registerWithConsul registers the gRPC and HTTP endpoints and returns the ids to deregister on
// shutdown. Failures are logged and the service keeps running unregistered.
func registerWithConsul(cfg *config.Config, logger *zap.Logger) (registry.ServiceRegistry, []string) {
	sugar := logger.Sugar()
	reg, err := registry.NewConsulRegistry(cfg.Consul.Address, sugar)
	if err != nil {
		sugar.Warnw("Consul unavailable, continuing without registration", "error", err)
		return nil, nil
	}

	host := cfg.Consul.ServiceHost
	var ids []string

	grpcID := registry.ServiceID(cfg.ServiceName, host, cfg.GRPCPort)
	grpcCheck := registry.CreateGRPCCheck(grpcID, fmt.Sprintf("%s:%d", host, cfg.GRPCPort), "10s", "2s", false)
	if err := reg.Register(grpcID, cfg.ServiceName, host, cfg.GRPCPort, []string{"grpc", "menus"}, grpcCheck); err == nil {
		ids = append(ids, grpcID)
	}

	httpName := cfg.ServiceName + "-http"
	httpID := registry.ServiceID(httpName, host, cfg.HTTPPort)
	httpCheck := registry.CreateHTTPCheck(httpID, host, cfg.HTTPPort, "/health", "10s", "2s")
	if err := reg.Register(httpID, httpName, host, cfg.HTTPPort, []string{"http", "menus"}, httpCheck); err == nil {
		ids = append(ids, httpID)
	}
	return reg, ids
}
