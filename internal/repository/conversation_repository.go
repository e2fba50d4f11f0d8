package repository

import (
	"context"
	"time"

	"market-timer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// ConversationRepository stores advisor chat transcripts. Scope is an opaque
// conversation key, e.g. "telegram:<chat-id>" or "web:<session-id>", so the
// bot and the HTTP chat endpoint share one table.
type ConversationRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewConversationRepository(pool PgxPool, tracer trace.Tracer) *ConversationRepository {
	return &ConversationRepository{pool: pool, tracer: tracer}
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, scope, role, content string) error {
	_, span := r.tracer.Start(ctx, "conversation-repo.append-message")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversation_messages (scope, role, content) VALUES ($1, $2, $3)`,
		scope, role, content,
	)
	return err
}

func (r *ConversationRepository) RecentMessages(ctx context.Context, scope string, limit int) ([]domain.ConversationMessage, error) {
	_, span := r.tracer.Start(ctx, "conversation-repo.recent-messages")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT role, content, created_at
		 FROM conversation_messages
		 WHERE scope = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		scope, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ConversationMessage
	for rows.Next() {
		var m domain.ConversationMessage
		var ts time.Time
		if err := rows.Scan(&m.Role, &m.Content, &ts); err != nil {
			return nil, err
		}
		m.CreatedAt = ts.UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse: DB returns newest-first, we need oldest-first for prompt building
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// PruneOlderThan discards stale transcript rows across all scopes.
func (r *ConversationRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "conversation-repo.prune-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM conversation_messages WHERE created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
