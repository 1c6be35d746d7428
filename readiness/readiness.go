package readiness

import (
	"context"
	"os"
	"sync"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
)

// Readiness is signalled to the platform with a file, and to the HTTP API through IsReady.
type Readiness struct {
	FilePath string

	mu    sync.RWMutex
	ready bool
}

func New(ctx context.Context, filePath string) *Readiness {
	readiness := &Readiness{FilePath: filePath}
	go readiness.removeReadyWhenDone(ctx)
	return readiness
}

func (r *Readiness) IsReady() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

func (r *Readiness) Ready() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := os.Stat(r.FilePath); err == nil {
		logger.Logger.Warnw("Readiness file already existed", "readinessFilePath", r.FilePath)
	}
	file, err := os.Create(r.FilePath)
	if err != nil {
		return err
	}
	r.ready = true
	return file.Close()
}

func (r *Readiness) Unready() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = false
	if err := os.Remove(r.FilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *Readiness) removeReadyWhenDone(ctx context.Context) {
	<-ctx.Done()
	logger.Logger.Info("Removing readiness file")
	if err := r.Unready(); err != nil {
		logger.Logger.Errorw("Error removing readiness file", "readinessFilePath", r.FilePath, "error", err)
	}
}
