package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/jmoiron/sqlx"
)

// whereClause collects named conditions for a list query
type whereClause struct {
	conditions []string
	params     map[string]any
}

func newWhereClause(params map[string]any) *whereClause {
	return &whereClause{params: params}
}

func (w *whereClause) add(condition string, name string, value any) {
	w.conditions = append(w.conditions, condition)
	if name != "" {
		w.params[name] = value
	}
}

func (w *whereClause) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " AND " + strings.Join(w.conditions, " AND ")
}

// pagination renders ORDER BY, LIMIT and OFFSET for alias. The sort column
// comes from a closed list so it can be interpolated.
func pagination(alias string, f types.BaseFilter) string {
	sort := f.GetSort()
	if !types.IsSortableColumn(sort) {
		sort = types.FILTER_DEFAULT_SORT
	}
	order := "DESC"
	if f.GetOrder() == types.OrderAsc {
		order = "ASC"
	}

	clause := fmt.Sprintf(" ORDER BY %s.%s %s, %s.id %s", alias, sort, order, alias, order)
	if !f.IsUnlimited() {
		clause += " LIMIT :limit OFFSET :offset"
	}
	return clause
}

// scanAll struct-scans every row and closes rows
func scanAll[T any](rows *sqlx.Rows) ([]*T, error) {
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		var item T
		if err := rows.StructScan(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// scanOne struct-scans the first row into dest and closes rows
func scanOne(rows *sqlx.Rows, dest any) error {
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}

func countRows(rows *sqlx.Rows) (int, error) {
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

// getError maps a failed single-row read to not found or database error
func getError(err error, entity string, id string) error {
	if ierr.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s with ID %s was not found", entity, id).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return ierr.WithError(err).
		WithHintf("Failed to get %s", strings.ToLower(entity)).
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrDatabase)
}

func dbError(err error, hint string, details map[string]any) error {
	b := ierr.WithError(err).WithHint(hint)
	if details != nil {
		b = b.WithReportableDetails(details)
	}
	return b.Mark(ierr.ErrDatabase)
}

// checkAffected turns an update that touched no row into a not found error
func checkAffected(result sql.Result, entity string, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return dbError(err, "Failed to read affected rows", nil)
	}
	if n == 0 {
		return ierr.NewErrorf("%s %s not found", strings.ToLower(entity), id).
			WithHintf("%s with ID %s was not found", entity, id).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
