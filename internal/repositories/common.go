package repositories

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// SELECT ... FOR UPDATE для read-modify-write списков в строке пользователя
func lockingUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// likePattern экранирует спецсимволы LIKE
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}

// validID - первичные ключи хранятся как uuid; иное значение заведомо не найдется
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
