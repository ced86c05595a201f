package console

import (
	"fmt"
	"net/url"
	"strings"
)

// Регистрация консоли PostgreSQL
func init() {
	register(postgresBuilder{}, "postgres", "postgresql")
}

// postgresBuilder собирает команду psql
type postgresBuilder struct{}

// Command возвращает строку запуска psql и пароль в PGPASSWORD
// Пароль не попадает в строку команды, psql берет его из окружения
func (postgresBuilder) Command(u *url.URL) Command {
	cmd := Command{
		Line: fmt.Sprintf("psql -h %s -d %s -p %s -U %s",
			u.Hostname(),
			strings.TrimPrefix(u.Path, "/"),
			u.Port(),
			username(u)),
		Env: map[string]string{},
	}

	if pass, ok := password(u); ok {
		cmd.Env["PGPASSWORD"] = pass
	}
	return cmd
}
