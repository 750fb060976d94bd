package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	_ "github.com/lib/pq"
)

// PostgresConfig holds connection parameters for the assistant's postgres
// store, following the same field set the teacher's cockroach store uses.
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultPostgresConfig returns sane defaults for local development.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Database:        "assistant",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

// OpenPostgres opens and pings a connection pool configured per cfg. If cfg
// is nil, DefaultPostgresConfig is used.
func OpenPostgres(cfg *PostgresConfig) (*sql.DB, error) {
	if cfg == nil {
		cfg = DefaultPostgresConfig()
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, int(cfg.ConnectTimeout.Seconds()),
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// PostgresChatSessionRepository is the postgres-backed ChatSessionRepository.
type PostgresChatSessionRepository struct {
	db *sql.DB
}

// NewPostgresChatSessionRepository wraps db.
func NewPostgresChatSessionRepository(db *sql.DB) *PostgresChatSessionRepository {
	return &PostgresChatSessionRepository{db: db}
}

var _ ChatSessionRepository = (*PostgresChatSessionRepository)(nil)

func (r *PostgresChatSessionRepository) FindByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	var (
		threadID, userID, channelID string
		createdAt, updatedAt        time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT thread_id, user_id, channel_id, created_at, updated_at
		FROM chat_sessions WHERE id = $1
	`, id).Scan(&threadID, &userID, &channelID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &RepositoryFetchError{Entity: "chat session", Cause: err}
	}

	messages, err := r.findMessages(ctx, id)
	if err != nil {
		return nil, &RepositoryFetchError{Entity: "chat session messages", Cause: err}
	}
	plans, err := r.findTaskPlans(ctx, id)
	if err != nil {
		return nil, &RepositoryFetchError{Entity: "chat session task plans", Cause: err}
	}

	return domain.ReconstructChatSession(id, threadID, userID, channelID, messages, plans, createdAt, updatedAt), nil
}

func (r *PostgresChatSessionRepository) findMessages(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, role, content, created_at
		FROM messages WHERE chat_session_id = $1
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var id, role, content string
		var createdAt time.Time
		if err := rows.Scan(&id, &role, &content, &createdAt); err != nil {
			return nil, err
		}
		messages = append(messages, domain.ReconstructMessage(id, domain.Role(role), content, createdAt))
	}
	return messages, rows.Err()
}

func (r *PostgresChatSessionRepository) findTaskPlans(ctx context.Context, sessionID string) ([]*domain.TaskPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id FROM task_plans WHERE chat_session_id = $1 ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	var planRows []struct{ id, messageID string }
	for rows.Next() {
		var id, messageID string
		if err := rows.Scan(&id, &messageID); err != nil {
			rows.Close()
			return nil, err
		}
		planRows = append(planRows, struct{ id, messageID string }{id, messageID})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plans := make([]*domain.TaskPlan, 0, len(planRows))
	for _, p := range planRows {
		tasks, err := r.findTasks(ctx, p.id)
		if err != nil {
			return nil, err
		}
		plan, err := domain.ReconstructTaskPlan(p.id, p.messageID, tasks)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *PostgresChatSessionRepository) findTasks(ctx context.Context, planID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, agent_name, status, result, task_log_json, created_at, completed_at
		FROM tasks WHERE task_plan_id = $1 ORDER BY created_at ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var (
			id, description, agentName, status, result string
			taskLogJSON                                []byte
			createdAt                                   time.Time
			completedAt                                 sql.NullTime
		)
		if err := rows.Scan(&id, &description, &agentName, &status, &result, &taskLogJSON, &createdAt, &completedAt); err != nil {
			return nil, err
		}
		agent, err := domain.ParseAgentName(agentName)
		if err != nil {
			return nil, err
		}
		log, err := decodeTaskLog(agent, taskLogJSON)
		if err != nil {
			return nil, err
		}
		var completedAtPtr *time.Time
		if completedAt.Valid {
			completedAtPtr = &completedAt.Time
		}
		task, err := domain.ReconstructTask(id, description, agent, domain.TaskStatus(status), result, log, createdAt, completedAtPtr)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// The task_log_json column's shape is discriminated by agent_name rather
// than by a kind field inside the JSON itself.
type searchAttemptJSON struct {
	Query   string              `json:"query"`
	Results []domain.SearchResult `json:"results"`
}

type generationAttemptJSON struct {
	Response string `json:"response"`
}

type webSearchLogJSON struct {
	Attempts []searchAttemptJSON `json:"attempts"`
}

type generalAnswerLogJSON struct {
	Attempts []generationAttemptJSON `json:"attempts"`
}

func decodeTaskLog(agent domain.AgentName, raw []byte) (*domain.TaskLog, error) {
	switch agent {
	case domain.AgentWebSearch:
		var decoded webSearchLogJSON
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return nil, err
			}
		}
		log := domain.NewWebSearchTaskLog()
		for _, a := range decoded.Attempts {
			if err := log.AddSearchAttempt(a.Query, a.Results); err != nil {
				return nil, err
			}
		}
		return log, nil
	case domain.AgentGeneralAnswer:
		var decoded generalAnswerLogJSON
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return nil, err
			}
		}
		log := domain.NewGeneralAnswerTaskLog()
		for _, a := range decoded.Attempts {
			if err := log.AddGenerationAttempt(a.Response); err != nil {
				return nil, err
			}
		}
		return log, nil
	default:
		return nil, domain.ErrUnknownAgent
	}
}

func encodeTaskLog(log *domain.TaskLog) ([]byte, error) {
	switch log.Kind {
	case domain.AgentWebSearch:
		out := webSearchLogJSON{Attempts: make([]searchAttemptJSON, 0, len(log.WebSearch.Attempts))}
		for _, a := range log.WebSearch.Attempts {
			out.Attempts = append(out.Attempts, searchAttemptJSON{Query: a.Query, Results: a.Results})
		}
		return json.Marshal(out)
	case domain.AgentGeneralAnswer:
		out := generalAnswerLogJSON{Attempts: make([]generationAttemptJSON, 0, len(log.GeneralAnswer.Attempts))}
		for _, a := range log.GeneralAnswer.Attempts {
			out.Attempts = append(out.Attempts, generationAttemptJSON{Response: a.Response})
		}
		return json.Marshal(out)
	default:
		return nil, domain.ErrUnknownAgent
	}
}

func (r *PostgresChatSessionRepository) Save(ctx context.Context, session *domain.ChatSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &RepositorySaveError{Entity: "chat session", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, thread_id, user_id, channel_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, session.ID, session.ThreadID, session.UserID, session.ChannelID, session.CreatedAt, session.UpdatedAt); err != nil {
		return &RepositorySaveError{Entity: "chat session", Cause: err}
	}

	for _, msg := range session.Messages {
		if msg.Role == domain.RoleSystem {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, chat_session_id, role, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role, content = EXCLUDED.content
		`, msg.ID, session.ID, string(msg.Role), msg.Content, msg.CreatedAt); err != nil {
			return &RepositorySaveError{Entity: "message", Cause: err}
		}
	}

	for _, plan := range session.TaskPlans {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_plans (id, chat_session_id, message_id, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (id) DO NOTHING
		`, plan.ID, session.ID, plan.UserMessageID); err != nil {
			return &RepositorySaveError{Entity: "task plan", Cause: err}
		}

		for _, task := range plan.Tasks {
			logJSON, err := encodeTaskLog(task.Log)
			if err != nil {
				return &RepositorySaveError{Entity: "task", Cause: err}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (id, task_plan_id, description, agent_name, status, result, task_log_json, created_at, completed_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					status = EXCLUDED.status,
					result = EXCLUDED.result,
					task_log_json = EXCLUDED.task_log_json,
					completed_at = EXCLUDED.completed_at
			`, task.ID, plan.ID, task.Description, string(task.AgentName), string(task.Status), task.Result, logJSON, task.CreatedAt, task.CompletedAt); err != nil {
				return &RepositorySaveError{Entity: "task", Cause: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &RepositorySaveError{Entity: "chat session", Cause: err}
	}
	return nil
}
