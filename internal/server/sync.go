package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SyncGPC runs a full category sync inline and returns its summary. Runs can
// take a while on large categories; callers are expected to be operators or
// schedulers, not interactive clients.
func (s *Server) SyncGPC(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	page := strings.TrimSpace(c.Query("page"))

	summary, err := s.ingestSvc.SyncGPC(c.Request.Context(), code, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// GetGTIN proxies a single catalog lookup without persisting anything.
func (s *Server) GetGTIN(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.catalog.GetGTIN(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

type importRequest struct {
	Path string `json:"path"`
}

// ImportOpenFoodFacts runs the dump import inline and returns its summary.
func (s *Server) ImportOpenFoodFacts(c *gin.Context) {
	var req importRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	summary, err := s.ingestSvc.ImportFile(c.Request.Context(), strings.TrimSpace(req.Path))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
