package router

import (
	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/health"
	"taskboard/internal/app/list"
	"taskboard/internal/app/notification"
	"taskboard/internal/app/session"
	"taskboard/internal/gateways/websocket"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterSessionRoutes(handler session.Handler) {
	session.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterListRoutes(handler list.Handler) {
	list.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterCardRoutes(handler card.Handler) {
	card.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterActivityRoutes(handler activity.Handler) {
	activity.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterNotificationRoutes(handler notification.Handler) {
	notification.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterSwaggerRoutes() {
	r.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
