package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gabrielg4rrido/desafio-prog-web-2/pkg/db"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/users-service/internal/repository"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/users-service/internal/service"
)

type Server struct {
	svc *service.UserSvc
	gdb *gorm.DB
}

func NewServer(svc *service.UserSvc, gdb *gorm.DB) *Server {
	return &Server{svc: svc, gdb: gdb}
}

func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", s.Health)
	r.GET("/", s.List)
	r.POST("/", s.Create)
	r.GET("/:id", s.GetByID)
	r.PUT("/:id", s.Update)
}

func (s *Server) Health(c *gin.Context) {
	if err := db.Ping(s.gdb); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "service": "users", "db": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": "users", "db": "ok"})
}

func (s *Server) Create(c *gin.Context) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}
	u, err := s.svc.Create(c.Request.Context(), in.Name, in.Email)
	switch {
	case errors.Is(err, service.ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		c.JSON(http.StatusCreated, u)
	}
}

func (s *Server) GetByID(c *gin.Context) {
	u, err := s.svc.GetByID(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		c.JSON(http.StatusOK, u)
	}
}

func (s *Server) List(c *gin.Context) {
	users, err := s.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) Update(c *gin.Context) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	u, err := s.svc.Update(c.Request.Context(), c.Param("id"), in.Name, in.Email)
	switch {
	case errors.Is(err, service.ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	default:
		c.JSON(http.StatusOK, u)
	}
}
