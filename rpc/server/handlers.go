package server

import (
	"errors"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"io"
	"net/http"
)

// statusFor maps the kind of a failed store operation to a http status code
func statusFor(kind store.ErrorKind) int {
	switch kind {
	case store.KindNotRunning:
		return http.StatusServiceUnavailable
	case store.KindSizeTooLarge:
		return http.StatusRequestEntityTooLarge
	case store.KindSizeTooSmall:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// storeFailed writes the last error of the store as response
func (s *ConfigServer) storeFailed(c *gin.Context) {
	kind := s.store.LastError()
	Logger.Debugf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, s.store.Err())
	c.JSON(statusFor(kind), gin.H{
		"error":   kind.String(),
		"message": kind.Message(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

func (s *ConfigServer) getAll(c *gin.Context) {
	all := s.store.GetAll("")
	if s.store.LastError() != store.KindNone {
		s.storeFailed(c)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(all))
}

func (s *ConfigServer) get(c *gin.Context) {
	key := c.Param("key")
	fallback, hasFallback := c.GetQuery("fallback")

	typeName := c.Query("type")
	if typeName == "" {
		doc := s.store.GetAllDocument()
		if s.store.LastError() != store.KindNone {
			s.storeFailed(c)
			return
		}
		v, ok := doc.Get(key)
		if !ok {
			if hasFallback {
				c.JSON(http.StatusOK, gin.H{"key": key, "value": fallback, "type": document.KindText.String()})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "key not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "value": v.Interface(), "type": v.Kind().String()})
		return
	}

	kind, err := document.ParseKind(typeName)
	if err != nil {
		badRequest(c, err)
		return
	}

	if !hasFallback {
		doc := s.store.GetAllDocument()
		if s.store.LastError() != store.KindNone {
			s.storeFailed(c)
			return
		}
		if !doc.Has(key) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "key not found"})
			return
		}
	}

	var value any
	switch kind {
	case document.KindInt:
		fb, err := document.ParseInt(fallbackOr(fallback, "0"))
		if err != nil {
			badRequest(c, err)
			return
		}
		value = s.store.GetInt(key, fb)
	case document.KindFloat:
		fb, err := cast.ToFloat64E(fallbackOr(fallback, "0"))
		if err != nil {
			badRequest(c, err)
			return
		}
		value = s.store.GetFloat(key, fb)
	default:
		value = s.store.GetString(key, fallback)
	}
	if s.store.LastError() != store.KindNone {
		s.storeFailed(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value, "type": kind.String()})
}

func (s *ConfigServer) set(c *gin.Context) {
	key := c.Param("key")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}
	// the body is a one-key document, so values follow the same rules as the persisted form
	doc, err := s.codec.Parse(body)
	if err != nil {
		badRequest(c, err)
		return
	}
	value, ok := doc.Get("value")
	if !ok {
		badRequest(c, errors.New(`body must contain "value"`))
		return
	}

	if !s.store.Set(key, value) {
		s.storeFailed(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value.Interface(), "type": value.Kind().String()})
}

func (s *ConfigServer) deleteKey(c *gin.Context) {
	deleted := s.store.DeleteKey(c.Param("key"))
	if s.store.LastError() != store.KindNone {
		s.storeFailed(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *ConfigServer) deleteKeys(c *gin.Context) {
	var input struct {
		Keys []string `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	deleted := s.store.DeleteKeys(input.Keys...)
	if s.store.LastError() != store.KindNone {
		s.storeFailed(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *ConfigServer) reset(c *gin.Context) {
	if !s.store.Reset() {
		s.storeFailed(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *ConfigServer) getMaxSize(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bytes": s.store.MaxDocumentBytes()})
}

func (s *ConfigServer) setMaxSize(c *gin.Context) {
	var input struct {
		Bytes *int `json:"bytes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if !s.store.SetMaxDocumentBytes(*input.Bytes) {
		s.storeFailed(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bytes": s.store.MaxDocumentBytes()})
}

func (s *ConfigServer) metrics(c *gin.Context) {
	c.Header("Content-Type", "text/plain; version=0.0.4")
	c.Status(http.StatusOK)
	s.stats.WritePrometheus(c.Writer)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func fallbackOr(fallback, def string) string {
	if fallback == "" {
		return def
	}
	return fallback
}
