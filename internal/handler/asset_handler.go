package handler

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/creativityhunt/creahunt/internal/filestore"
	"github.com/creativityhunt/creahunt/internal/pkg/response"
)

const maxAssetSize = 5 * 1024 * 1024

type AssetHandler struct {
	store filestore.Store
}

func NewAssetHandler(store filestore.Store) *AssetHandler {
	return &AssetHandler{store: store}
}

// Upload stores a logo/avatar image and returns its serving URL.
func (h *AssetHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.FailValidation(c, "file is required")
		return
	}
	if file.Size > maxAssetSize {
		response.FailValidation(c, "file too large")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.FailValidation(c, "failed to open file")
		return
	}
	reader, err := ensureSeekable(opened)
	if err != nil {
		handleError(c, err)
		return
	}
	defer reader.Close()

	key := buildAssetKey(file.Filename)
	if err := h.store.Save(c.Request.Context(), key, reader, file.Size); err != nil {
		handleError(c, err)
		return
	}
	baseURL := requestBaseURL(c)
	response.Success(c, gin.H{
		"key":  key,
		"url":  h.store.URL(key, baseURL),
		"name": file.Filename,
	})
}

// Get serves assets directly only for the local store; the s3 store exposes
// bucket urls instead.
func (h *AssetHandler) Get(c *gin.Context) {
	if h.store.Type() != "local" {
		c.Status(http.StatusNotFound)
		return
	}
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") {
		c.Status(http.StatusBadRequest)
		return
	}
	file, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	_, _ = file.Seek(0, io.SeekStart)
	_, _ = io.Copy(c.Writer, file)
}

func ensureSeekable(f io.ReadCloser) (filestore.ReadSeekCloser, error) {
	if rsc, ok := f.(filestore.ReadSeekCloser); ok {
		return rsc, nil
	}
	defer f.Close()
	tmp, err := os.CreateTemp("", "creahunt-asset-*")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, f); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &tempFile{File: tmp}, nil
}

type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	if removeErr := os.Remove(t.File.Name()); removeErr != nil && err == nil {
		err = removeErr
	}
	return err
}

func buildAssetKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
	default:
		ext = ".bin"
	}
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf) + ext
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
