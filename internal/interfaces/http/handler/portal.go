package handler

import (
	"github.com/docvault/backend/internal/application/portal"
	"github.com/gin-gonic/gin"
)

// PortalHandler serves the tenant-scoped client portal reads
type PortalHandler struct {
	BaseHandler
	data  *portal.ClientDataService
	guard *portal.AccessGuard
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(data *portal.ClientDataService, guard *portal.AccessGuard) *PortalHandler {
	return &PortalHandler{
		data:  data,
		guard: guard,
	}
}

// RenameProjectRequest represents the request body for renaming a project
type RenameProjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// GetCompanies godoc
// @Summary      List companies
// @Description  List the companies belonging to the authenticated tenant
// @Tags         portal
// @Produce      json
// @Success      200 {object} dto.Response{data=[]portal.CompanyView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/companies [get]
func (h *PortalHandler) GetCompanies(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, h.data.GetCompanies(c.Request.Context(), tenantID))
}

// GetProjects godoc
// @Summary      List projects
// @Description  List the projects belonging to the authenticated tenant
// @Tags         portal
// @Produce      json
// @Success      200 {object} dto.Response{data=[]portal.ProjectView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/projects [get]
func (h *PortalHandler) GetProjects(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, h.data.GetProjects(c.Request.Context(), tenantID))
}

// GetDocuments godoc
// @Summary      List documents
// @Description  List the documents belonging to the authenticated tenant
// @Tags         portal
// @Produce      json
// @Success      200 {object} dto.Response{data=[]portal.DocumentView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/documents [get]
func (h *PortalHandler) GetDocuments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, h.data.GetDocuments(c.Request.Context(), tenantID))
}

// GetStats godoc
// @Summary      Portal usage stats
// @Description  Usage statistics recomputed from the tenant's own collections
// @Tags         portal
// @Produce      json
// @Success      200 {object} dto.Response{data=portal.StatsView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/stats [get]
func (h *PortalHandler) GetStats(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	identityID, err := getIdentityID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, h.data.GetStats(c.Request.Context(), tenantID, identityID))
}

// GetContext godoc
// @Summary      Portal dashboard context
// @Description  The full dashboard payload: companies, projects, documents and stats in one response
// @Tags         portal
// @Produce      json
// @Success      200 {object} dto.Response{data=portal.ClientDataContext}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/context [get]
func (h *PortalHandler) GetContext(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	identityID, err := getIdentityID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, h.data.GetClientDataContext(c.Request.Context(), tenantID, identityID))
}

// RenameProject godoc
// @Summary      Rename a project
// @Description  Rename a project after verifying it belongs to the authenticated tenant
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body RenameProjectRequest true "New project name"
// @Success      200 {object} dto.Response{data=portal.ProjectView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/projects/{id} [put]
func (h *PortalHandler) RenameProject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	identityID, err := getIdentityID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri struct {
		ID string `uri:"id" binding:"required,uuid"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}
	projectID, err := parseUUID(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var req RenameProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.guard.RenameProject(c.Request.Context(), tenantID, identityID, projectID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, view)
}
