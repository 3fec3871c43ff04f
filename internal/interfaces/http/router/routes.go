package router

import (
	"github.com/gin-gonic/gin"

	"github.com/docvault/backend/internal/interfaces/http/handler"
)

// AuthRoutes builds the route group for registration and session management.
// The register, login and refresh endpoints are reachable without a token;
// the global JWT middleware skips them by path.
func AuthRoutes(h *handler.AuthHandler, registrationLimit gin.HandlerFunc) *DomainGroup {
	dg := NewDomainGroup("auth", "/auth")

	if registrationLimit != nil {
		dg.POST("/register", registrationLimit, h.Register)
	} else {
		dg.POST("/register", h.Register)
	}

	dg.POST("/login", h.Login).
		POST("/refresh", h.RefreshToken).
		POST("/logout", h.Logout).
		GET("/session", h.GetSession)

	return dg
}

// PortalRoutes builds the tenant-scoped client portal group. Every route
// requires an authenticated session with a resolved tenant.
func PortalRoutes(h *handler.PortalHandler, middleware ...gin.HandlerFunc) *DomainGroup {
	dg := NewDomainGroup("portal", "/portal")
	dg.Use(middleware...)

	dg.GET("/companies", h.GetCompanies).
		GET("/projects", h.GetProjects).
		GET("/documents", h.GetDocuments).
		GET("/stats", h.GetStats).
		GET("/context", h.GetContext).
		PUT("/projects/:id/name", h.RenameProject)

	return dg
}

// SystemRoutes builds the system information group. The db-stats
// endpoint is not in the public skip list, so it requires a session.
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping).
		GET("/db-stats", h.GetDBStats)
}
