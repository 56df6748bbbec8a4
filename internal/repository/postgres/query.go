package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// mapError переводит ошибки ограничений PostgreSQL в ошибки репозитория
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repository.ErrDuplicate
		case pgForeignKeyViolation, pgCheckViolation, pgNumericOutOfRange:
			return repository.ErrInvalidData
		}
	}
	return err
}

// whereBuilder собирает условия WHERE, объединенные через AND
type whereBuilder struct {
	conds []string
	args  []any
}

// add добавляет условие. cond содержит один плейсхолдер %d под номер аргумента.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderAndPage дописывает ORDER BY, LIMIT и OFFSET.
// columns сопоставляет имена полей API с колонками.
func (w *whereBuilder) orderAndPage(page domain.Page, columns map[string]string, defaultOrder string) string {
	var sb strings.Builder

	field, desc, _ := page.SortField(keys(columns)...)
	if field == "" {
		sb.WriteString(" ORDER BY " + defaultOrder)
	} else {
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", columns[field], dir))
	}

	if page.Limit > 0 {
		w.args = append(w.args, page.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(w.args)))
	}
	if page.Offset > 0 {
		w.args = append(w.args, page.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(w.args)))
	}
	return sb.String()
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// likePattern экранирует спецсимволы LIKE и оборачивает значение в %...%
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// prefixPattern экранирует спецсимволы LIKE и добавляет % в конец
func prefixPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s) + "%"
}
