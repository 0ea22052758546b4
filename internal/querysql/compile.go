// Package querysql renders query IR as parameterized SQLite over the store's
// objects table.
package querysql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// DefaultTable is the objects table created by internal/store.
const DefaultTable = "objects"

// identifier restricts property segments that are spliced into JSON paths.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLCompiler compiles query IR to parameterized SQL for SQLite.
//
// Every query ends in an ORDER BY with serial as the final tiebreaker, so
// the row order is deterministic and matches in-memory evaluation over
// candidates in serial order. Literal values are always parameters.
type SQLCompiler struct {
	// Table holds serial, type and props columns.
	Table string
}

// NewSQLCompiler creates a compiler for the default objects table.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Table: DefaultTable}
}

// Compile converts a query to SQL selecting serial, type and props.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileSelect renders
//
//	SELECT serial, type, props FROM <table> WHERE <filter>
//	ORDER BY <sort keys>, serial ASC LIMIT ?
//
// With Distinct keys the filtered rows are first reduced to the lowest
// serial of each key group with ROW_NUMBER(), and the keys join the
// ordering between the sort keys and serial.
func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	var (
		sb     strings.Builder
		params []any
	)

	whereClause := ""
	if q.Filter != nil {
		filterSQL, filterParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = append(params, filterParams...)
	}

	var order []string
	for _, k := range q.OrderBy {
		expr, err := pathExpr(k.Path)
		if err != nil {
			return "", nil, fmt.Errorf("compile sort key: %w", err)
		}
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		order = append(order, fmt.Sprintf("%s COLLATE BINARY %s", expr, dir))
	}

	if len(q.Distinct) > 0 {
		keys := make([]string, len(q.Distinct))
		for i, p := range q.Distinct {
			expr, err := pathExpr(p)
			if err != nil {
				return "", nil, fmt.Errorf("compile distinct key: %w", err)
			}
			keys[i] = expr
			order = append(order, expr+" COLLATE BINARY ASC")
		}
		fmt.Fprintf(&sb,
			"SELECT serial, type, props FROM (SELECT serial, type, props, ROW_NUMBER() OVER (PARTITION BY %s ORDER BY serial ASC) AS rn FROM %s%s) WHERE rn = 1",
			strings.Join(keys, ", "), c.table(), whereClause)
	} else {
		fmt.Fprintf(&sb, "SELECT serial, type, props FROM %s%s", c.table(), whereClause)
	}

	order = append(order, "serial ASC")
	sb.WriteString(" ORDER BY " + strings.Join(order, ", "))

	if q.Limit != queryir.NoLimit {
		if q.Limit < 0 {
			return "", nil, fmt.Errorf("invalid limit %d", q.Limit)
		}
		sb.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}

	return sb.String(), params, nil
}

func (c *SQLCompiler) table() string {
	if c.Table == "" {
		return DefaultTable
	}
	return c.Table
}

// compilePredicate compiles a predicate to a SQL WHERE clause fragment.
// Every fragment evaluates to true or false, never NULL, so NOT composes
// the same way it does in memory.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case queryir.Compare:
		return c.compileCompare(pred)
	case *queryir.Compare:
		return c.compileCompare(*pred)
	case queryir.And:
		return c.compileJunction(pred.Predicates, " AND ", "1 = 1")
	case *queryir.And:
		return c.compileJunction(pred.Predicates, " AND ", "1 = 1")
	case queryir.Or:
		return c.compileJunction(pred.Predicates, " OR ", "1 = 0")
	case *queryir.Or:
		return c.compileJunction(pred.Predicates, " OR ", "1 = 0")
	case queryir.Not:
		return c.compileNot(pred)
	case *queryir.Not:
		return c.compileNot(*pred)
	case queryir.TypeIn:
		return compileTypeIn(pred)
	case *queryir.TypeIn:
		return compileTypeIn(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileJunction(preds []queryir.Predicate, sep, empty string) (string, []any, error) {
	if len(preds) == 0 {
		return empty, nil, nil
	}

	var (
		parts  []string
		params []any
	)
	for _, pred := range preds {
		sql, p, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, p...)
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, sep) + ")", params, nil
}

func (c *SQLCompiler) compileNot(n queryir.Not) (string, []any, error) {
	sql, params, err := c.compilePredicate(n.Predicate)
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", params, nil
}

func compileTypeIn(t queryir.TypeIn) (string, []any, error) {
	if len(t.Types) == 0 {
		return "1 = 0", nil, nil
	}
	params := make([]any, len(t.Types))
	for i, name := range t.Types {
		params[i] = name
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Types)), ", ")
	return "type IN (" + placeholders + ")", params, nil
}

// compileCompare renders one comparison. Equality is null-safe (IS / IS
// NOT); ordering and string operators require a non-null value.
// Case-insensitive comparisons wrap both sides in casefold(), a function
// the connection must provide; internal/store registers it.
func (c *SQLCompiler) compileCompare(cmp queryir.Compare) (string, []any, error) {
	expr, err := pathExpr(cmp.Path)
	if err != nil {
		return "", nil, err
	}
	param, err := irValueToParam(cmp.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %s: %w", cmp.Path, err)
	}

	lhs, rhs := expr, "?"
	if cmp.Fold {
		lhs, rhs = "casefold("+expr+")", "casefold(?)"
	}

	switch cmp.Op {
	case queryir.OpEq:
		return fmt.Sprintf("%s IS %s", lhs, rhs), []any{param}, nil
	case queryir.OpNe:
		return fmt.Sprintf("%s IS NOT %s", lhs, rhs), []any{param}, nil
	case queryir.OpLt, queryir.OpLe, queryir.OpGt, queryir.OpGe:
		return fmt.Sprintf("(%s IS NOT NULL AND %s %s %s)", expr, lhs, cmp.Op, rhs), []any{param}, nil
	case queryir.OpContains:
		return fmt.Sprintf("(%s IS NOT NULL AND instr(%s, %s) > 0)", expr, lhs, rhs), []any{param}, nil
	case queryir.OpStarts:
		return fmt.Sprintf("(%s IS NOT NULL AND instr(%s, %s) = 1)", expr, lhs, rhs), []any{param}, nil
	case queryir.OpEnds:
		return fmt.Sprintf("(%s IS NOT NULL AND substr(%s, length(%s) - length(%s) + 1) = %s)", expr, lhs, lhs, rhs, rhs),
			[]any{param, param}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %q", cmp.Op)
	}
}

// pathExpr maps a property path to a column or a json_extract over props.
func pathExpr(p queryir.Path) (string, error) {
	if len(p.Segments) == 0 {
		return "", fmt.Errorf("empty property path")
	}
	if len(p.Segments) == 1 {
		switch p.Segments[0] {
		case "serial", "type":
			return p.Segments[0], nil
		}
	}
	for _, seg := range p.Segments {
		if !identifier.MatchString(seg) {
			return "", fmt.Errorf("property segment %q cannot be rendered in a JSON path", seg)
		}
	}
	return fmt.Sprintf("json_extract(props, '$.%s')", strings.Join(p.Segments, ".")), nil
}

// irValueToParam converts an ir.IRValue to a Go native type for SQL parameter.
// Arrays and objects are not supported as SQL parameters.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		return bool(val), nil
	case nil, ir.IRNull:
		return nil, nil
	case ir.IRArray:
		return nil, fmt.Errorf("IRArray cannot be used as SQL parameter directly")
	case ir.IRObject:
		return nil, fmt.Errorf("IRObject cannot be used as SQL parameter directly")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
