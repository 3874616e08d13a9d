package datastore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var comparisonPattern = regexp.MustCompile(`^([<>=!]+)(\d+)$`)

var comparisonOps = map[string]string{
	"<":  "<",
	">":  ">",
	"<=": "<=",
	">=": ">=",
	"!":  "<>",
}

// buildWhere turns the match list of column into a WHERE body. String
// arguments shaped like "<n", ">n", "<=n", ">=n" or "!n" become comparisons;
// everything else joins an equality (one value) or IN (several values) test.
// All clauses are ANDed.
func buildWhere(column string, args []any) (string, []any, error) {
	if column == "" || len(args) == 0 {
		return "", nil, nil
	}

	var (
		clauses []string
		params  []any
		in      []any
	)
	for _, arg := range args {
		op, n, ok, err := unpackComparison(arg)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			in = append(in, arg)
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s %s ?", column, op))
		params = append(params, n)
	}

	switch len(in) {
	case 0:
	case 1:
		clauses = append(clauses, column+" = ?")
		params = append(params, in[0])
	default:
		marks := strings.TrimSuffix(strings.Repeat("?,", len(in)), ",")
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", column, marks))
		params = append(params, in...)
	}
	return strings.Join(clauses, " AND "), params, nil
}

func unpackComparison(arg any) (op string, n int64, ok bool, err error) {
	s, isString := arg.(string)
	if !isString {
		return "", 0, false, nil
	}
	m := comparisonPattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false, nil
	}
	op, known := comparisonOps[m[1]]
	if !known {
		return "", 0, false, fmt.Errorf("%w: %s", ErrBadArgument, m[1])
	}
	n, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: %s", ErrBadArgument, s)
	}
	return op, n, true, nil
}

// label renders "table.field[column=a,b]" for logs and errors.
func label(table, field, column string, args []any) string {
	base := table + "." + field
	if column == "" || len(args) == 0 {
		return base
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s[%s=%s]", base, column, strings.Join(parts, ","))
}
