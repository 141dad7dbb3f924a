package handler_test

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/presence-socket/internal/domain"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// recordingConn is an in-memory realtime.Conn.
type recordingConn struct {
	id string

	mu     sync.Mutex
	closed bool
	sent   [][]byte
}

func newRecordingConn(id string) *recordingConn {
	return &recordingConn{id: id}
}

func (r *recordingConn) ID() string { return r.id }

func (r *recordingConn) Send(msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrConnectionClosed
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingConn) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed
}

func (r *recordingConn) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *recordingConn) Sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, b := range r.sent {
		out[i] = string(b)
	}
	return out
}
