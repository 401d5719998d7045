package httpServer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tony1908/pear2pear/pkg/metrics"
	"github.com/tony1908/pear2pear/pkg/performer/worker"
	"go.uber.org/zap"
)

const maxTaskBodyBytes = 10 * 1024 * 1024

type OracleHttpPerformerConfig struct {
	Port    int
	Timeout time.Duration
}

type OracleHttpPerformer struct {
	config     *OracleHttpPerformerConfig
	taskWorker worker.IWorker
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewOracleHttpPerformer(
	cfg *OracleHttpPerformerConfig,
	worker worker.IWorker,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OracleHttpPerformer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OracleHttpPerformer{
		config:     cfg,
		taskWorker: worker,
		metrics:    m,
		logger:     logger,
	}
}

func (op *OracleHttpPerformer) WriteJsonError(w http.ResponseWriter, err error, errorCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); err != nil {
		op.logger.Sugar().Errorw("Failed to write JSON error response",
			zap.Error(err),
		)
	}
}

func (op *OracleHttpPerformer) WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		op.logger.Sugar().Errorw("Failed to write JSON response",
			zap.Error(err),
		)
	}
}

func (op *OracleHttpPerformer) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op.logger.Sugar().Debugw("Received HTTP request",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
		)
		next.ServeHTTP(w, r)
	})
}

func (op *OracleHttpPerformer) handleHealth(w http.ResponseWriter, r *http.Request) {
	op.WriteJsonResponse(w, struct {
		Status string `json:"status"`
	}{
		Status: "running",
	})
}

func (op *OracleHttpPerformer) handleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		op.WriteJsonError(w, fmt.Errorf("invalid request method"), http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxTaskBodyBytes))
	if err != nil {
		op.WriteJsonError(w, fmt.Errorf("failed to read request body - %v", err), http.StatusBadRequest)
		return
	}

	var task *Task
	if err := json.Unmarshal(body, &task); err != nil || task == nil {
		op.WriteJsonError(w, fmt.Errorf("failed to parse task json from body - %v", err), http.StatusBadRequest)
		return
	}

	req, err := task.ToTaskRequest()
	if err != nil {
		op.WriteJsonError(w, fmt.Errorf("failed to decode task payload - %v", err), http.StatusBadRequest)
		return
	}

	if err := op.taskWorker.ValidateTask(req); err != nil {
		op.logger.Sugar().Errorw("Task is invalid",
			zap.String("taskId", task.TaskID),
			zap.Error(err),
		)
		op.WriteJsonError(w, fmt.Errorf("task is invalid - %v", err), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), op.config.Timeout)
	defer cancel()

	res, err := op.taskWorker.HandleTask(ctx, req)
	if err != nil {
		op.logger.Sugar().Errorw("Failed to handle task",
			zap.String("taskId", task.TaskID),
			zap.Error(err),
		)
		op.WriteJsonError(w, fmt.Errorf("failed to handle task - %v", err), http.StatusUnprocessableEntity)
		return
	}

	op.WriteJsonResponse(w, NewTaskResult(task.TaskID, res.Result))
}

// Handler returns the routes served by the performer.
func (op *OracleHttpPerformer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/tasks", op.handleTask)
	mux.HandleFunc("/health", op.handleHealth)
	if op.metrics != nil {
		mux.Handle("/metrics", op.metrics.Handler())
	}

	return op.loggerMiddleware(mux)
}

func (op *OracleHttpPerformer) StartHttpServer(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", op.config.Port),
		Handler:      op.Handler(),
		ReadTimeout:  op.config.Timeout,
		WriteTimeout: op.config.Timeout,
		IdleTimeout:  op.config.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		op.logger.Sugar().Infow("Starting HTTP server", zap.Int("port", op.config.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	op.logger.Sugar().Infow("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
