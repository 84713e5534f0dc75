package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// HealthHandler reports the liveness of every backing store
type HealthHandler struct {
	localDB     *gorm.DB
	hisDB       *gorm.DB
	mongoClient *mongo.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(localDB, hisDB *gorm.DB, mongoClient *mongo.Client) *HealthHandler {
	return &HealthHandler{
		localDB:     localDB,
		hisDB:       hisDB,
		mongoClient: mongoClient,
	}
}

// Healthz pings both SQL databases and the run-log store
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	check := func(ping func() error) string {
		if err := ping(); err != nil {
			status = http.StatusServiceUnavailable
			return err.Error()
		}
		return "ok"
	}

	local := check(func() error {
		sqlDB, err := h.localDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	his := check(func() error {
		sqlDB, err := h.hisDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	runlog := check(func() error {
		return h.mongoClient.Ping(ctx, nil)
	})

	c.JSON(status, gin.H{
		"status":   statusWord(status),
		"local_db": local,
		"his_db":   his,
		"run_log":  runlog,
		"time":     time.Now().Format(time.RFC3339),
	})
}

func statusWord(code int) string {
	if code == http.StatusOK {
		return "running"
	}
	return "degraded"
}
