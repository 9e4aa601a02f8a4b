package cache

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

// Cache - локальный SQLite-кэш снапшотов, чтобы перезапущенный клиент
// рисовал список мгновенно, пока летит REST-seed. Кэш никогда не
// авторитетен: seed с сервера заменяет его содержимое целиком,
// по той же replace-all семантике, что и у store.
type Cache struct {
	db *sqlx.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		position    INTEGER NOT NULL,
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		time        TEXT NOT NULL DEFAULT '',
		read        INTEGER NOT NULL DEFAULT 0,
		link        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		position     INTEGER NOT NULL,
		id           TEXT NOT NULL,
		partner_id   TEXT NOT NULL,
		sender_id    TEXT NOT NULL DEFAULT '',
		recipient_id TEXT NOT NULL DEFAULT '',
		text         TEXT NOT NULL DEFAULT '',
		time         TEXT NOT NULL DEFAULT '',
		job_id       TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (partner_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_partner ON chat_messages(partner_id)`,
}

// Open открывает (или создает) кэш по указанному пути.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite cache: %w", err)
	}

	// WAL для конкурентного чтения
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("running cache migration: %w", err)
		}
	}

	return &Cache{db: db}, nil
}

// SaveNotifications заменяет кэшированный снапшот уведомлений целиком,
// сохраняя порядок списка.
func (c *Cache) SaveNotifications(items []models.Notification) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notifications"); err != nil {
		return err
	}
	for i, n := range items {
		_, err := tx.Exec(
			`INSERT INTO notifications (position, id, type, title, description, time, read, link)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, n.ID, string(n.Type), n.Title, n.Description, n.Time, boolToInt(n.Read), n.Link,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadNotifications отдает кэшированный снапшот в исходном порядке.
// Пустой кэш - пустой срез, не ошибка.
func (c *Cache) LoadNotifications() ([]models.Notification, error) {
	rows, err := c.db.Queryx("SELECT id, type, title, description, time, read, link FROM notifications ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var (
			n    models.Notification
			typ  string
			read int
		)
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Description, &n.Time, &read, &n.Link); err != nil {
			return nil, err
		}
		n.Type = models.NotificationType(typ)
		n.Read = read != 0
		items = append(items, n)
	}
	return items, rows.Err()
}

// SaveMessages заменяет кэшированную историю одного диалога.
func (c *Cache) SaveMessages(partnerID string, msgs []models.ChatMessage) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chat_messages WHERE partner_id = ?", partnerID); err != nil {
		return err
	}
	for i, m := range msgs {
		_, err := tx.Exec(
			`INSERT INTO chat_messages (position, id, partner_id, sender_id, recipient_id, text, time, job_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, m.ID, partnerID, m.SenderID, m.RecipientID, m.Text, m.Time, m.JobID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadMessages отдает кэшированную историю диалога в порядке вставки.
func (c *Cache) LoadMessages(partnerID string) ([]models.ChatMessage, error) {
	rows, err := c.db.Queryx(
		"SELECT id, sender_id, recipient_id, text, time, job_id FROM chat_messages WHERE partner_id = ? ORDER BY position",
		partnerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.Time, &m.JobID); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Close закрывает базу.
func (c *Cache) Close() error {
	return c.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
