package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// ChatRepository handles chat message persistence.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Create persists a chat message.
func (r *ChatRepository) Create(ctx context.Context, m *model.ChatMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (section_id, account_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.SectionID, m.AccountID, m.Body,
	).Scan(&m.ID, &m.CreatedAt)
}

// ListBySection retrieves a section's message history with pagination,
// newest page first but each page in chronological order.
func (r *ChatRepository) ListBySection(ctx context.Context, sectionID uuid.UUID, limit, offset int) ([]model.ChatMessage, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE section_id = $1`, sectionID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT * FROM (
			SELECT cm.id, cm.section_id, cm.account_id, cm.body, cm.created_at,
			       COALESCE(st.full_name, lc.full_name, a.email) AS sender_name
			FROM chat_messages cm
			JOIN accounts a ON a.id = cm.account_id
			LEFT JOIN students st ON a.role = 'student' AND st.id = a.role_id
			LEFT JOIN lecturers lc ON a.role = 'lecturer' AND lc.id = a.role_id
			WHERE cm.section_id = $1
			ORDER BY cm.created_at DESC LIMIT $2 OFFSET $3
		 ) page ORDER BY created_at ASC`,
		sectionID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SectionID, &m.AccountID, &m.Body, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}
