package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool     { return hasCode(err, codeUniqueViolation) }
func isForeignKeyViolation(err error) bool { return hasCode(err, codeForeignKeyViolation) }

// setClause accumulates "column = $n" pairs for a partial UPDATE. Column
// names always come from code, never from input.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, val any) {
	s.args = append(s.args, val)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setClause) empty() bool { return len(s.cols) == 0 }

// update renders "UPDATE table SET ..., updated_at = now() WHERE id = $n".
func (s *setClause) update(table string, id int64) (string, []any) {
	args := append(s.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = now() WHERE id = $%d",
		table, strings.Join(s.cols, ", "), len(args))
	return query, args
}
