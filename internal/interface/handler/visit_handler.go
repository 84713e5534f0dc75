package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"
	"visitsync-service/internal/usecase"
	"visitsync-service/pkg/logger"
	"visitsync-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// VisitHandler exposes the sync, reconciliation and listing operations
type VisitHandler struct {
	syncer     *usecase.VisitSyncer
	reconciler *usecase.EligibilityReconciler
	recordRepo repository.VisitRecordRepository
	runRepo    repository.SyncRunRepository
	logger     logger.Logger
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(
	syncer *usecase.VisitSyncer,
	reconciler *usecase.EligibilityReconciler,
	recordRepo repository.VisitRecordRepository,
	runRepo repository.SyncRunRepository,
	logger logger.Logger,
) *VisitHandler {
	return &VisitHandler{
		syncer:     syncer,
		reconciler: reconciler,
		recordRepo: recordRepo,
		runRepo:    runRepo,
		logger:     logger,
	}
}

// RegisterRoutes attaches all visit routes to the engine
func (h *VisitHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/visits", h.ListVisits)
	r.POST("/sync/visits", h.SyncVisits)
	r.POST("/sync/nhso", h.SyncNHSO)
	r.GET("/runs", h.ListRuns)
}

// Root reports that the service is up, with the Thai server time
func (h *VisitHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "API Service is running (UTC+7)",
		"server_time": utils.BangkokNow().Format("2006-01-02 15:04:05"),
	})
}

// ListVisits returns the synced records for a date range, defaulting both
// bounds to today's Thai date
func (h *VisitHandler) ListVisits(c *gin.Context) {
	startDate, endDate, ok := h.dateRange(c)
	if !ok {
		return
	}

	visits, err := h.recordRepo.ListByDateRange(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.logger.Error("List visits failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visits)
}

// SyncVisits runs one synchronization batch over the requested range
func (h *VisitHandler) SyncVisits(c *gin.Context) {
	startDate, endDate, ok := h.dateRange(c)
	if !ok {
		return
	}

	run := &entity.SyncRun{
		Kind:      entity.RunKindVisits,
		StartDate: startDate,
		EndDate:   endDate,
		StartedAt: time.Now(),
	}

	count, err := h.syncer.SyncRange(c.Request.Context(), startDate, endDate)
	if err != nil {
		run.Status = entity.RunStatusError
		run.Message = err.Error()
		h.recordRun(c, run)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	run.Status = entity.RunStatusSuccess
	run.SyncedCount = count
	run.Message = fmt.Sprintf("Synced %s to %s", startDate, endDate)
	h.recordRun(c, run)

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"synced_count": count,
		"message":      run.Message,
	})
}

// SyncNHSO runs one eligibility reconciliation pass for a single date
func (h *VisitHandler) SyncNHSO(c *gin.Context) {
	checkDate := c.Query("check_date")
	if checkDate == "" {
		checkDate = utils.TodayString()
	} else if _, err := utils.ParseDate(checkDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	run := &entity.SyncRun{
		Kind:      entity.RunKindNHSO,
		StartDate: checkDate,
		EndDate:   checkDate,
		StartedAt: time.Now(),
	}

	report, err := h.reconciler.Reconcile(c.Request.Context(), checkDate)
	if err != nil {
		run.Status = entity.RunStatusError
		run.Message = err.Error()
		h.recordRun(c, run)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	run.Status = entity.RunStatusSuccess
	run.TotalChecked = report.TotalChecked
	run.UpdatedCount = report.UpdatedCount
	run.Errors = report.Errors
	h.recordRun(c, run)

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"total_checked": report.TotalChecked,
		"updated_count": report.UpdatedCount,
		"errors":        report.Errors,
	})
}

// ListRuns returns the recent run history from the run log
func (h *VisitHandler) ListRuns(c *gin.Context) {
	kind := c.Query("kind")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	runs, err := h.runRepo.List(c.Request.Context(), kind, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if runs == nil {
		runs = []entity.SyncRun{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(runs), "runs": runs})
}

// dateRange reads start_date/end_date, both defaulting to today's Thai date
func (h *VisitHandler) dateRange(c *gin.Context) (string, string, bool) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" {
		startDate = utils.TodayString()
	}
	if endDate == "" {
		endDate = utils.TodayString()
	}

	for _, d := range []string{startDate, endDate} {
		if _, err := utils.ParseDate(d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return "", "", false
		}
	}
	return startDate, endDate, true
}

// recordRun stores the run in the history log; failures are logged only,
// they never fail the request
func (h *VisitHandler) recordRun(c *gin.Context, run *entity.SyncRun) {
	run.FinishedAt = time.Now()
	if err := h.runRepo.Record(c.Request.Context(), run); err != nil {
		h.logger.Warn("Failed to record run", "kind", run.Kind, "error", err)
	}
}
