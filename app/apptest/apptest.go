// Package apptest поднимает полноценный backend на httptest для интеграционных тестов
package apptest

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"socialbook/app"
	"socialbook/config"
	"socialbook/db"
	"socialbook/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Backend struct {
	App    *app.App
	Server *httptest.Server
	Redis  *miniredis.Miniredis
}

// URL is the API base URL, e.g. http://127.0.0.1:PORT/api.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// New starts a backend on a private in-memory sqlite database with sessions in miniredis.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := config.Default()
	conf.Databases.Driver = db.DriverSQLite
	conf.Databases.Path = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conf.Backend.MediaDir = t.TempDir()
	conf.Backend.Gzip = true

	manager, err := db.Connect(conf)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	a, err := app.Build(conf, app.Deps{
		DB:       manager,
		Redis:    client,
		Sessions: services.NewRedisSessionStore(client),
		Bus:      services.NewLocalEventBus(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(a.Engine)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return &Backend{App: a, Server: srv, Redis: mr}
}
