package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gabrielg4rrido/desafio-prog-web-2/services/users-service/internal/repository"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/users-service/internal/service"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{})
	require.NoError(t, err)
	repo := repository.NewUserRepo(gdb)
	require.NoError(t, repo.Migrate())
	svc := service.NewUserSvc(repo, nil, zap.NewNop())

	r := gin.New()
	NewServer(svc, gdb).Register(r)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserEndpoints(t *testing.T) {
	r := testRouter(t)

	w := do(r, http.MethodPost, "/", `{"name":"Ana","email":"ana@x.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)
	require.NotEmpty(t, id)

	t.Run("duplicate email is 400", func(t *testing.T) {
		w := do(r, http.MethodPost, "/", `{"name":"Other","email":"ana@x.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "email already exists")
	})

	t.Run("missing fields is 400", func(t *testing.T) {
		w := do(r, http.MethodPost, "/", `{"name":"NoMail"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		w := do(r, http.MethodGet, "/"+id, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = do(r, http.MethodGet, "/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := do(r, http.MethodPut, "/"+id, `{"name":"Ana Maria"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ana Maria")

		w = do(r, http.MethodPut, "/missing", `{"name":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := do(r, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, w.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})
}
