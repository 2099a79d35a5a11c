package handler

import (
	"net/http"
	"strconv"

	"supportmatch-go/internal/service"
	"supportmatch-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// RecordHandler exposes the ingested record inventory.
type RecordHandler struct {
	recordService service.RecordService
}

// NewRecordHandler creates a new RecordHandler instance.
func NewRecordHandler(recordService service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// List returns one page of ingested records.
func (h *RecordHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}

	records, total, err := h.recordService.List(page, pageSize)
	if err != nil {
		log.Errorf("[RecordHandler] failed to list records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"records": records,
		"total":   total,
		"page":    page,
	}, "message": "success"})
}

// Get returns one record by conversation ID.
func (h *RecordHandler) Get(c *gin.Context) {
	conversationID := c.Param("conversationId")
	record, err := h.recordService.Get(conversationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": record, "message": "success"})
}

// Reingest queues the conversation for another pass through the ingest
// pipeline.
func (h *RecordHandler) Reingest(c *gin.Context) {
	conversationID := c.Param("conversationId")
	if err := h.recordService.Reingest(conversationID, "manual-reindex"); err != nil {
		log.Errorf("[RecordHandler] failed to queue reingest for %s: %v", conversationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue reingest"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": nil, "message": "queued"})
}
