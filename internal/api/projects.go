// projects.go implements CRUD endpoints for projects, the logical grouping
// for assets. Project names are unique.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// ProjectHandlers handles project endpoints
type ProjectHandlers struct {
	projectRepo *repositories.ProjectRepository
	recorder    AuditRecorder
}

func NewProjectHandlers(projectRepo *repositories.ProjectRepository, recorder AuditRecorder) *ProjectHandlers {
	return &ProjectHandlers{
		projectRepo: projectRepo,
		recorder:    recorder,
	}
}

// ProjectRequest represents a project create or update request
type ProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ProjectView is the API representation of a project
type ProjectView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func projectView(p *models.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// @Summary      List projects
// @Tags         Projects
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "projects, pagination"
// @Router       /api/projects [get]
// ListProjectsHandler returns projects with pagination
// GET /api/projects
func (h *ProjectHandlers) ListProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := paginationParams(c)

		projects, total, err := h.projectRepo.ListProjects(c.Request.Context(), perPage, (page-1)*perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list projects",
			})
			return
		}

		views := make([]ProjectView, 0, len(projects))
		for _, p := range projects {
			views = append(views, projectView(p))
		}

		c.JSON(http.StatusOK, gin.H{
			"projects": views,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// @Summary      Get project
// @Tags         Projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  map[string]interface{}  "project"
// @Failure      404  {object}  map[string]interface{}  "Project not found"
// @Router       /api/projects/{id} [get]
// GetProjectHandler returns a single project
// GET /api/projects/:id
func (h *ProjectHandlers) GetProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")

		project, err := h.projectRepo.GetProjectByID(c.Request.Context(), projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get project",
			})
			return
		}
		if project == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"project": projectView(project),
		})
	}
}

// @Summary      Create project
// @Tags         Projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  ProjectRequest  true  "Project"
// @Success      201  {object}  map[string]interface{}  "project"
// @Failure      409  {object}  map[string]interface{}  "Project name already exists"
// @Router       /api/projects [post]
// CreateProjectHandler creates a project
// POST /api/projects
func (h *ProjectHandlers) CreateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		existing, err := h.projectRepo.GetProjectByName(c.Request.Context(), req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check project name",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Project name already exists",
			})
			return
		}

		project := &models.Project{
			Name:        req.Name,
			Description: req.Description,
		}

		if err := h.projectRepo.CreateProject(c.Request.Context(), project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create project",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionCreate, "project", &project.ID, map[string]interface{}{
			"name": project.Name,
		})

		c.JSON(http.StatusCreated, gin.H{
			"project": projectView(project),
		})
	}
}

// @Summary      Update project
// @Tags         Projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Project ID"
// @Param        body  body  ProjectRequest  true  "Project"
// @Success      200  {object}  map[string]interface{}  "project"
// @Failure      404  {object}  map[string]interface{}  "Project not found"
// @Failure      409  {object}  map[string]interface{}  "Project name already exists"
// @Router       /api/projects/{id} [put]
// UpdateProjectHandler updates a project
// PUT /api/projects/:id
func (h *ProjectHandlers) UpdateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")

		var req ProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		project, err := h.projectRepo.GetProjectByID(c.Request.Context(), projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get project",
			})
			return
		}
		if project == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			return
		}

		if req.Name != project.Name {
			existing, err := h.projectRepo.GetProjectByName(c.Request.Context(), req.Name)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to check project name",
				})
				return
			}
			if existing != nil {
				c.JSON(http.StatusConflict, gin.H{
					"error": "Project name already exists",
				})
				return
			}
		}

		before := map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		}
		project.Name = req.Name
		project.Description = req.Description

		if err := h.projectRepo.UpdateProject(c.Request.Context(), project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update project",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionUpdate, "project", &project.ID, updateDetails(map[string]interface{}{
			"name": project.Name,
		}, before, map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		}))

		c.JSON(http.StatusOK, gin.H{
			"project": projectView(project),
		})
	}
}

// @Summary      Delete project
// @Description  Deletes a project. Assets in the project keep existing with no project.
// @Tags         Projects
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      404  {object}  map[string]interface{}  "Project not found"
// @Router       /api/projects/{id} [delete]
// DeleteProjectHandler deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandlers) DeleteProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")

		project, err := h.projectRepo.GetProjectByID(c.Request.Context(), projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get project",
			})
			return
		}
		if project == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			return
		}

		if err := h.projectRepo.DeleteProject(c.Request.Context(), projectID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete project",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionDelete, "project", &projectID, map[string]interface{}{
			"name": project.Name,
		})

		c.JSON(http.StatusOK, gin.H{
			"message": "Project deleted",
		})
	}
}
