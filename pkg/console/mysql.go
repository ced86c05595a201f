package console

import (
	"fmt"
	"net/url"
	"strings"
)

// Регистрация консоли MySQL
func init() {
	register(mysqlBuilder{}, "mysql", "mysql2")
}

// mysqlBuilder собирает команду mysql
type mysqlBuilder struct{}

// Command возвращает строку запуска mysql и пароль в MYSQL_PWD
func (mysqlBuilder) Command(u *url.URL) Command {
	cmd := Command{
		Line: fmt.Sprintf("mysql -h %s -D %s -P %s -u %s",
			u.Hostname(),
			strings.TrimPrefix(u.Path, "/"),
			u.Port(),
			username(u)),
		Env: map[string]string{},
	}

	if pass, ok := password(u); ok {
		cmd.Env["MYSQL_PWD"] = pass
	}
	return cmd
}
