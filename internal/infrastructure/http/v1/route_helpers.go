// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"assettrack/internal/infrastructure/http/v1/middleware"
)

// RecordRouteHandler defines the interface for CRUD handlers. All
// entity handlers implement these methods.
type RecordRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterRecordRoutes registers standard CRUD routes for an entity,
// each gated by the matching policy action on the resource.
//
// Usage:
//
//	RegisterRecordRoutes(api.Group("/countries"), handler, authz, "country")
func RegisterRecordRoutes(group *gin.RouterGroup, handler RecordRouteHandler, authz *middleware.Authorizer, resource string) {
	group.GET("", authz.Require(resource, "list"), handler.List)
	group.POST("", authz.Require(resource, "create"), handler.Create)
	group.GET("/:id", authz.Require(resource, "get"), handler.Get)
	group.PUT("/:id", authz.Require(resource, "update"), handler.Update)
	group.DELETE("/:id", authz.Require(resource, "delete"), handler.Delete)
}
