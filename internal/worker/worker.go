package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/roomloop/roomloop-backend/internal/lifecycle"
	"github.com/roomloop/roomloop-backend/internal/tasks"
)

// Server runs the asynq worker that executes periodic tasks, plus the
// scheduler that enqueues them. The only registered task today is the room
// status sweep.
type Server struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	engine    *lifecycle.Engine
	cronSpec  string
	log       *logrus.Entry
}

func New(redisOpt asynq.RedisClientOpt, engine *lifecycle.Engine, cronSpec string, logger *logrus.Logger) *Server {
	logEntry := logger.WithField("component", "worker")

	srv := asynq.NewServer(redisOpt, asynq.Config{
		// One concurrent sweep is enough; the sweep is idempotent anyway.
		Concurrency: 1,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logEntry.WithField("task_type", task.Type()).Errorf("task failed: %v", err)
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	return &Server{
		srv:       srv,
		scheduler: scheduler,
		engine:    engine,
		cronSpec:  cronSpec,
		log:       logEntry,
	}
}

// Start registers handlers and runs the worker. It blocks until Shutdown and
// should be called from its own goroutine.
func (s *Server) Start() error {
	if _, err := s.scheduler.Register(s.cronSpec, tasks.NewRoomsAdvanceTask()); err != nil {
		return err
	}
	if err := s.scheduler.Start(); err != nil {
		return err
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRoomsAdvance, s.handleRoomsAdvance)

	s.log.WithField("cron", s.cronSpec).Info("worker starting")
	if err := s.srv.Run(mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRoomsAdvance(ctx context.Context, t *asynq.Task) error {
	return s.engine.Advance(ctx, time.Now().UTC())
}

func (s *Server) Shutdown() {
	s.scheduler.Shutdown()
	s.srv.Shutdown()
}
