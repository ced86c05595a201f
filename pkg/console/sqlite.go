package console

import (
	"fmt"
	"net/url"
)

// Регистрация консоли SQLite
func init() {
	register(sqliteBuilder{}, "sqlite", "sqlite3")
}

// sqliteBuilder собирает команду sqlite3
type sqliteBuilder struct{}

// Command возвращает строку запуска sqlite3
// У SQLite нет пароля, окружение всегда пустое
func (sqliteBuilder) Command(u *url.URL) Command {
	path := u.Host + u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	if path == "" {
		path = ":memory:"
	}

	return Command{
		Line: fmt.Sprintf("sqlite3 %s", path),
		Env:  map[string]string{},
	}
}
