package tasks

import (
	"context"
	"encoding/json"
	"time"

	"bookwise/core/config"
	"bookwise/core/logger"
	"bookwise/core/utils"

	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeEmailSend = "email:send"
)

// EmailPayload is the body of an email:send task.
type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	IsHTML  bool     `json:"is_html"`
}

// Client enqueues background tasks. Enqueue failures are logged, never
// returned to the booking path: notification delivery is fire-and-forget
// relative to the booking result.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// EnqueueEmail schedules an email for delivery by the worker.
func (c *Client) EnqueueEmail(payload EmailPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Tasks:EnqueueEmail:Marshal:Error", "error", err)
		return
	}

	task := asynq.NewTask(TypeEmailSend, data)
	info, err := c.client.Enqueue(task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		logger.Error("Tasks:EnqueueEmail:Error", "error", err, "subject", payload.Subject)
		return
	}
	logger.Info("Tasks:EnqueueEmail:Queued", "task_id", info.ID, "queue", info.Queue)
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Worker consumes tasks. Run blocks; Shutdown stops it.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 4,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, handleEmailSend)

	return &Worker{server: server, mux: mux}
}

func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func handleEmailSend(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Tasks:HandleEmailSend:Unmarshal:Error", "error", err)
		// Malformed payload will never succeed; don't retry.
		return nil
	}

	cfg, ok := config.GetSafe()
	if !ok {
		logger.Error("Tasks:HandleEmailSend:ConfigNotInitialized")
		return nil
	}

	if err := utils.SendEmailTLS(cfg.SMTP, utils.EmailMessage{
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
		IsHTML:  payload.IsHTML,
	}); err != nil {
		logger.Error("Tasks:HandleEmailSend:Send:Error", "error", err, "to", payload.To)
		return err
	}

	logger.Info("Tasks:HandleEmailSend:Sent", "to", payload.To, "subject", payload.Subject)
	return nil
}
