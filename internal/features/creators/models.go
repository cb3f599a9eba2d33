// Package creators хранит участников чата креаторов.
// Членство в CREATORS_CHAT_ID — единственный пропуск к боту в личке.
package creators

import "time"

// Creator — участник чата креаторов в базе данных.
type Creator struct {
	ID        int64     `db:"id"`         // Автоинкрементный ID записи
	UserID    int64     `db:"user_id"`    // Telegram user ID (уникальный)
	Username  string    `db:"username"`   // @username (может быть пустым)
	FirstName string    `db:"first_name"` // Имя
	LastName  string    `db:"last_name"`  // Фамилия (может быть пустой)
	JoinedAt  time.Time `db:"joined_at"`  // Когда вступил в чат
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Profile — данные из Telegram, которые мы храним о креаторе.
type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName возвращает @username или «Имя Фамилия».
func (c *Creator) DisplayName() string {
	if c.Username != "" {
		return "@" + c.Username
	}
	name := c.FirstName
	if c.LastName != "" {
		name += " " + c.LastName
	}
	return name
}
