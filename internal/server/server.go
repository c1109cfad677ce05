package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PurpleChirp/HealthWatcher/internal/chart"
	"github.com/PurpleChirp/HealthWatcher/internal/dashboard"
	"github.com/PurpleChirp/HealthWatcher/internal/session"
)

// Server 仪表盘 HTTP 接口
// 暴露当前视图、图表 PNG、会话控制和只读历史代理
type Server struct {
	controller *dashboard.Controller
	poller     *dashboard.Poller
	backend    dashboard.Backend
	logger     *zap.Logger
	engine     *gin.Engine
}

// New 创建 HTTP 服务并注册路由
func New(controller *dashboard.Controller, poller *dashboard.Poller, backend dashboard.Backend, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		controller: controller,
		poller:     poller,
		backend:    backend,
		logger:     logger,
		engine:     engine,
	}
	s.registerRoutes()
	return s
}

// Router 返回底层路由（http.Server 挂载用）
func (s *Server) Router() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.healthz)

	api := s.engine.Group("/api")
	{
		api.GET("/dashboard", s.getDashboard)
		api.GET("/dashboard/chart", s.getChart)
		api.POST("/dashboard/alert/dismiss", s.dismissAlert)
		api.POST("/visibility", s.postVisibility)

		controls := api.Group("/controls")
		{
			controls.POST("/normal-scan", s.control(s.controller.StartNormalScan))
			controls.POST("/emergency-scan", s.control(s.controller.StartEmergencyScan))
			controls.POST("/stop", s.control(s.controller.StopScan))
			controls.POST("/retrain", s.control(s.controller.Retrain))
		}

		api.GET("/history/health", s.getHealthHistory)
		api.GET("/history/scans", s.getScanHistory)
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.View())
}

func (s *Server) getChart(c *gin.Context) {
	var buf bytes.Buffer
	err := chart.RenderPNG(s.controller.ChartPoints(), &buf)
	if err != nil {
		if errors.Is(err, chart.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no chart data yet"})
			return
		}
		s.logger.Error("Chart render failed",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) dismissAlert(c *gin.Context) {
	s.controller.DismissAlert()
	c.JSON(http.StatusOK, gin.H{"dismissed": true})
}

type visibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// postVisibility 页面可见性信号：隐藏时暂停轮询，可见时恢复并立即拉取
func (s *Server) postVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visible field required"})
		return
	}

	if *req.Visible {
		s.poller.Resume()
	} else {
		s.poller.Pause()
	}
	c.JSON(http.StatusOK, gin.H{"paused": s.poller.Paused()})
}

// control 会话控制端点的统一包装
// 409：该控制已有请求在途或当前模式不允许；502：后端失败
func (s *Server) control(action func(ctx context.Context) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		message, err := action(c.Request.Context())
		if err != nil {
			switch {
			case errors.Is(err, session.ErrRequestPending),
				errors.Is(err, session.ErrInvalidTransition):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

func (s *Server) getHealthHistory(c *gin.Context) {
	history, err := s.backend.HealthHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) getScanHistory(c *gin.Context) {
	history, err := s.backend.ScanHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
