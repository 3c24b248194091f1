package harness

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/roach88/mfsm/internal/store"
)

// Table and column names are interpolated into SQL, so they must be plain
// identifiers. Values are always bound.
var sqlIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// assertStoreRow checks that exactly one row of the table matches the where
// filters and that it carries every expected column value. Columns not named
// in Expect are ignored.
func assertStoreRow(ctx context.Context, st *store.Store, assertion Assertion) error {
	if assertion.Table == "" {
		return fmt.Errorf("store_row assertion requires table name")
	}
	if !sqlIdent.MatchString(assertion.Table) {
		return fmt.Errorf("invalid table name %q", assertion.Table)
	}

	cond, args, err := whereClause(assertion.Where)
	if err != nil {
		return err
	}
	query := "SELECT * FROM " + assertion.Table
	if cond != "" {
		query += " WHERE " + cond
	}

	fail := func(expected, actual string) error {
		return &AssertionError{Type: AssertStoreRow, Expected: expected, Actual: actual}
	}
	target := fmt.Sprintf("row in %s where %s", assertion.Table, describeWhere(assertion.Where))

	rows, err := st.Query(ctx, query, args...)
	if err != nil {
		return fail("query table "+assertion.Table, fmt.Sprintf("query error: %v", err))
	}
	defer rows.Close()

	row, found, err := scanOneRow(rows)
	switch {
	case err != nil:
		return err
	case !found:
		return fail(target, "row not found")
	case rows.Next():
		return fail("exactly one "+target, "multiple rows matched (assertion is ambiguous)")
	}

	for _, col := range slices.Sorted(maps.Keys(assertion.Expect)) {
		want := assertion.Expect[col]
		got, ok := row[col]
		if !ok {
			return fail(fmt.Sprintf("field %q to exist", col), fmt.Sprintf("columns are %v", slices.Sorted(maps.Keys(row))))
		}
		if !columnEqual(want, got) {
			return fail(fmt.Sprintf("field %q = %v", col, want), fmt.Sprintf("field %q = %v (%T)", col, got, got))
		}
	}
	return nil
}

// scanOneRow reads the next row into a column map.
func scanOneRow(rows *sql.Rows) (map[string]any, bool, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, false, fmt.Errorf("get columns: %w", err)
	}
	if !rows.Next() {
		return nil, false, rows.Err()
	}

	vals := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, false, fmt.Errorf("scan row: %w", err)
	}

	row := make(map[string]any, len(cols))
	for i, c := range cols {
		row[c] = vals[i]
	}
	return row, true, nil
}

// whereClause renders filters as "a = ? AND b = ?" in column order.
func whereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	var conds []string
	var args []any
	for _, col := range slices.Sorted(maps.Keys(where)) {
		if !sqlIdent.MatchString(col) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause", col)
		}
		conds = append(conds, col+" = ?")
		switch v := where[col].(type) {
		case string, int, int64, bool:
			args = append(args, v)
		default:
			args = append(args, fmt.Sprint(v))
		}
	}
	return strings.Join(conds, " AND "), args, nil
}

func describeWhere(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}
	parts := make([]string, 0, len(where))
	for _, col := range slices.Sorted(maps.Keys(where)) {
		parts = append(parts, fmt.Sprintf("%s=%v", col, where[col]))
	}
	return strings.Join(parts, " AND ")
}

// columnEqual compares a YAML value with what the SQLite driver scanned.
// Text may come back as []byte, and booleans are stored as INTEGER.
func columnEqual(want, got any) bool {
	if want == nil || got == nil {
		return want == got
	}

	switch w := want.(type) {
	case string:
		switch g := got.(type) {
		case string:
			return w == g
		case []byte:
			return w == string(g)
		}
		return false
	case int:
		g, ok := got.(int64)
		return ok && int64(w) == g
	case int64:
		g, ok := got.(int64)
		return ok && w == g
	case bool:
		switch g := got.(type) {
		case bool:
			return w == g
		case int64:
			return w == (g != 0)
		}
		return false
	}
	return reflect.DeepEqual(want, got)
}
