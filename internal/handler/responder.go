package handler

import (
	"sync"

	"ytinfo/internal/model"
	"ytinfo/internal/service"
	"ytinfo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// responder is the only writer for a request: the first send wins and every
// later send is dropped and logged.
type responder struct {
	c    *gin.Context
	log  *zap.Logger
	once sync.Once
}

func newResponder(c *gin.Context, log *zap.Logger) *responder {
	return &responder{c: c, log: log}
}

// send writes status and body as JSON and reports whether this call produced the response
func (r *responder) send(status int, body any) bool {
	sent := false
	r.once.Do(func() {
		if r.c.Writer.Written() {
			return
		}
		r.c.JSON(status, body)
		sent = true
	})
	if !sent {
		r.log.Warn("Response already sent, discarding", zap.Int("status", status))
	}
	return sent
}

func (r *responder) ok(info *model.VideoInfo) {
	if r.send(200, info) {
		metrics.IncResponse("ok")
	}
}

func (r *responder) fail(status int, kind service.ErrorKind, message string) {
	if r.send(status, model.ErrorResponse{Error: message}) {
		metrics.IncResponse(string(kind))
	}
}
