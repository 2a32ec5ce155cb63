package emulator

import (
	"net/http"
	"path/filepath"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listBills handles GET /bills
func (s *Server) listBills(c *gin.Context) {
	bills, err := s.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bills"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// createBill handles POST /bills: the receipt upload staging a draft record.
// The multipart body carries the file and the owner's email; the response is
// the remote reference the client retains for the final submit.
func (s *Server) createBill(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing email"})
		return
	}
	if err := utils.ValidateEmail(email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	id, err := newID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage receipt"})
		return
	}

	fileName := filepath.Base(file.Filename)
	storedName := id + "-" + fileName
	if err := c.SaveUploadedFile(file, filepath.Join(s.uploadDir, storedName)); err != nil {
		s.logger.Error("Failed to save receipt",
			zap.String("file_name", fileName),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save receipt"})
		return
	}

	fileURL := s.publicURL + "/receipts/" + storedName
	draft := bill.Bill{
		ID:       id,
		Email:    email,
		FileURL:  &fileURL,
		FileName: &fileName,
		Status:   bill.StatusPending,
	}
	if err := s.repo.Create(c.Request.Context(), &draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bill"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"fileUrl": fileURL,
		"key":     draft.ID,
	})
}

// updateBill handles PUT /bills/:id: the completed record submission
func (s *Server) updateBill(c *gin.Context) {
	var record bill.Bill
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill payload"})
		return
	}

	updated, err := s.repo.Update(c.Request.Context(), c.Param("id"), record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update bill"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bill not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
