package controllers

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/signage_backend/internal/backup"
	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/ws"
)

const maxBackupSize = 32 << 20

type BackupController struct {
	Store database.Store
	Hubs  *ws.Hubs
}

func (bc *BackupController) Export(c *gin.Context) {
	kind, err := backup.ParseKind(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	file, err := backup.Export(c.Request.Context(), bc.Store, kind)
	if err != nil {
		serverError(c, "backup", "failed to export data", err)
		return
	}
	c.Header("ETag", file.ETag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == file.ETag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, "application/json", file.Body)
}

func (bc *BackupController) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupSize)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no file uploaded"})
		return
	}
	kindParam := c.PostForm("type")
	if kindParam == "" {
		kindParam = c.Query("type")
	}
	kind, err := backup.ParseKind(kindParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid file type, only .json is allowed"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		serverError(c, "backup", "failed to import data", err)
		return
	}
	defer f.Close()
	body, err := io.ReadAll(f)
	if err != nil {
		serverError(c, "backup", "failed to import data", err)
		return
	}

	if err := backup.Import(c.Request.Context(), bc.Store, kind, body); err != nil {
		if backup.IsInvalid(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		serverError(c, "backup", "failed to import data", err)
		return
	}
	if kind == backup.KindContent {
		NotifyAll(bc.Hubs)
	}
	c.JSON(http.StatusOK, gin.H{"message": "backup imported"})
}
