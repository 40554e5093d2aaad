package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/orchestrator"
	"github.com/zeadev/zeacontrol/internal/repository"
	"github.com/zeadev/zeacontrol/internal/tasks"
	"github.com/zeadev/zeacontrol/internal/usecase"
)

func RegisterRestAPI(injector *do.Injector, e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	registerProjects(injector, g)
	registerActions(injector, g)
	registerServers(injector, g)
	registerBilling(injector, g)
}

func registerProjects(injector *do.Injector, g *echo.Group) {
	g.POST("/projects", func(c echo.Context) error {
		type request struct {
			Name        string  `json:"name"`
			Slug        string  `json:"slug"`
			Description string  `json:"description"`
			RepoURL     string  `json:"repo_url"`
			Branch      string  `json:"branch"`
			ServerID    string  `json:"server_id"`
			Domain      string  `json:"domain"`
			RemotePath  string  `json:"remote_path"`
			ComposeFile string  `json:"compose_file"`
			EnvVars     string  `json:"env_vars"`
			PricePerMo  float64 `json:"price_per_month"`
		}
		var req request
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		uc := do.MustInvoke[usecase.CreateProjectUsecase](injector)
		project, err := uc.Execute(c.Request().Context(), &entity.Project{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			RepoURL:     req.RepoURL,
			Branch:      req.Branch,
			ServerID:    entity.ID(req.ServerID),
			Domain:      req.Domain,
			RemotePath:  req.RemotePath,
			ComposeFile: req.ComposeFile,
			EnvVars:     req.EnvVars,
			PricePerMo:  req.PricePerMo,
		})
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, projectResponse(project))
	})

	g.GET("/projects", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.ListProjectsUsecase](injector)
		projects, err := uc.Execute(c.Request().Context())
		if err != nil {
			return errorResponse(c, err)
		}
		result := make([]map[string]any, len(projects))
		for i, p := range projects {
			result[i] = projectResponse(p)
		}
		return c.JSON(http.StatusOK, map[string]any{"projects": result})
	})

	g.GET("/projects/:slug", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.GetProjectUsecase](injector)
		project, err := uc.Execute(c.Request().Context(), c.Param("slug"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, projectResponse(project))
	})

	g.GET("/projects/:slug/deployments", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.ListDeploymentsUsecase](injector)
		deployments, err := uc.Execute(c.Request().Context(), c.Param("slug"), 20)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"deployments": deployments})
	})

	g.POST("/projects/:slug/paid", func(c echo.Context) error {
		type request struct {
			PaidUntil string `json:"paid_until"`
		}
		var req request
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		paidUntil, err := time.Parse("2006-01-02", req.PaidUntil)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "paid_until must be YYYY-MM-DD"})
		}
		uc := do.MustInvoke[usecase.MarkPaidUsecase](injector)
		project, err := uc.Execute(c.Request().Context(), c.Param("slug"), paidUntil)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, projectResponse(project))
	})
}

func registerActions(injector *do.Injector, g *echo.Group) {
	dispatch := func(c echo.Context, action entity.DeploymentAction) error {
		uc := do.MustInvoke[usecase.GetProjectUsecase](injector)
		project, err := uc.Execute(c.Request().Context(), c.Param("slug"))
		if err != nil {
			return errorResponse(c, err)
		}
		if action == entity.ActionDeploy && project.Status == entity.ProjectStatusDeploying {
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "deployment already in progress",
			})
		}

		orch := do.MustInvoke[*orchestrator.Orchestrator](injector)
		dispatcher := do.MustInvoke[*tasks.Dispatcher](injector)
		logger := zerolog.Ctx(c.Request().Context())
		projectID := project.ID
		dispatcher.Dispatch(string(action)+":"+project.Slug, func(ctx context.Context) {
			var err error
			switch action {
			case entity.ActionDeploy:
				_, err = orch.Deploy(ctx, projectID)
			case entity.ActionSuspend:
				_, err = orch.Suspend(ctx, projectID)
			case entity.ActionResume:
				_, err = orch.Resume(ctx, projectID)
			}
			if err != nil && !errors.Is(err, entity.ErrAlreadyInProgress) {
				logger.Error().Err(err).
					Str("action", string(action)).
					Str("slug", project.Slug).
					Msg("orchestration failed")
			}
		})

		return c.JSON(http.StatusAccepted, map[string]string{
			"status": "dispatched",
			"action": string(action),
			"slug":   project.Slug,
		})
	}

	g.POST("/projects/:slug/deploy", func(c echo.Context) error {
		return dispatch(c, entity.ActionDeploy)
	})
	g.POST("/projects/:slug/suspend", func(c echo.Context) error {
		return dispatch(c, entity.ActionSuspend)
	})
	g.POST("/projects/:slug/resume", func(c echo.Context) error {
		return dispatch(c, entity.ActionResume)
	})
}

func registerServers(injector *do.Injector, g *echo.Group) {
	g.POST("/servers", func(c echo.Context) error {
		type request struct {
			Name      string `json:"name"`
			IPAddress string `json:"ip_address"`
			SSHUser   string `json:"ssh_user"`
			SSHPort   int    `json:"ssh_port"`
			BasePath  string `json:"base_path"`
		}
		var req request
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		if req.Name == "" || req.IPAddress == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and ip_address are required"})
		}
		server := &entity.Server{
			Name:      req.Name,
			IPAddress: req.IPAddress,
			SSHUser:   req.SSHUser,
			SSHPort:   req.SSHPort,
			BasePath:  req.BasePath,
		}
		server.FillDefaults()

		repo := do.MustInvoke[repository.ServerRepository](injector)
		created, err := repo.Create(c.Request().Context(), server)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	})

	g.GET("/servers", func(c echo.Context) error {
		repo := do.MustInvoke[repository.ServerRepository](injector)
		servers, err := repo.List(c.Request().Context())
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"servers": servers})
	})

	g.DELETE("/servers/:id", func(c echo.Context) error {
		repo := do.MustInvoke[repository.ServerRepository](injector)
		if err := repo.Delete(c.Request().Context(), entity.ID(c.Param("id"))); err != nil {
			return errorResponse(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func registerBilling(injector *do.Injector, g *echo.Group) {
	g.GET("/billing", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.ListProjectsUsecase](injector)
		projects, err := uc.Execute(c.Request().Context())
		if err != nil {
			return errorResponse(c, err)
		}

		now := time.Now()
		var totalRevenue float64
		paid, unpaid := 0, 0
		for _, p := range projects {
			totalRevenue += p.PricePerMo
			switch {
			case p.IsPaid(now):
				paid++
			case p.PaidUntil != nil:
				unpaid++
			}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"total_revenue": totalRevenue,
			"paid_count":    paid,
			"unpaid_count":  unpaid,
			"projects":      len(projects),
		})
	})
}

func projectResponse(p *entity.Project) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"slug":            p.Slug,
		"description":     p.Description,
		"repo_url":        p.RepoURL,
		"branch":          p.Branch,
		"server_id":       p.ServerID,
		"domain":          p.Domain,
		"compose_file":    p.ComposeFile,
		"internal_port":   p.InternalPort,
		"price_per_month": p.PricePerMo,
		"paid_until":      p.PaidUntil,
		"grace_until":     p.GraceUntil,
		"status":          p.Status,
		"last_deploy_at":  p.LastDeployAt,
		"created_at":      p.CreatedAt,
	}
}

func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return c.NoContent(http.StatusNotFound)
	case errors.Is(err, entity.ErrInvalid):
		return c.NoContent(http.StatusBadRequest)
	case errors.Is(err, entity.ErrConflict), errors.Is(err, entity.ErrServerInUse):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrPoolExhausted):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusInternalServerError)
}
