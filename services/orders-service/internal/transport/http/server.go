package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gabrielg4rrido/desafio-prog-web-2/pkg/db"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/domain"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/service"
)

type Server struct {
	svc *service.OrderSvc
	gdb *gorm.DB
}

func NewServer(svc *service.OrderSvc, gdb *gorm.DB) *Server {
	return &Server{svc: svc, gdb: gdb}
}

func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", s.Health)
	r.GET("/", s.List)
	r.POST("/", s.Create)
	r.GET("/:id", s.GetByID)
	r.POST("/:id/cancel", s.Cancel)
}

func (s *Server) Health(c *gin.Context) {
	if err := db.Ping(s.gdb); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "service": "orders", "db": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": "orders", "db": "ok"})
}

func (s *Server) Create(c *gin.Context) {
	var in struct {
		UserID string        `json:"userId"`
		Items  []domain.Item `json:"items"`
		Total  float64       `json:"total"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId, items[] and total are required"})
		return
	}
	o, err := s.svc.Create(c.Request.Context(), in.UserID, in.Items, in.Total)
	switch {
	case errors.Is(err, service.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserUnverifiable):
		// 503, not 400: the caller may retry once the users service is back.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		c.JSON(http.StatusCreated, o)
	}
}

func (s *Server) Cancel(c *gin.Context) {
	o, err := s.svc.Cancel(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrAlreadyCancelled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		c.JSON(http.StatusOK, o)
	}
}

func (s *Server) GetByID(c *gin.Context) {
	o, err := s.svc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		c.JSON(http.StatusOK, o)
	}
}

func (s *Server) List(c *gin.Context) {
	orders, err := s.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
