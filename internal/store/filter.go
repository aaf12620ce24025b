package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ordenes-pago-api/internal/domain"
)

// operator tokens accepted in FilterClause.Condicion, resolved to the
// store's expression grammar.
var operatorTokens = map[string]string{
	"[a]":   "and",
	"[o]":   "or",
	"[b]":   "between",
	"[eq]":  "=",
	"[lt]":  "<",
	"[lte]": "<=",
	"[gt]":  ">",
	"[gte]": ">=",
	"[ne]":  "!=",
	"[nin]": "not in",
}

var tokenReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(operatorTokens)*2)
	for token, op := range operatorTokens {
		pairs = append(pairs, token, op)
	}
	return strings.NewReplacer(pairs...)
}()

// FilterError marks a malformed caller-supplied filter; the boundary maps it
// to a 400 before any store call happens.
type FilterError struct {
	Clause  int
	Message string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filtro %d: %s", e.Clause, e.Message)
}

// CompiledFilter is a parameterized filter expression plus its bound values,
// ready to attach to a QuerySpec. The reserved :id bind carries the
// partition key value.
type CompiledFilter struct {
	Expression string
	Values     map[string]any
}

// CompileFilters translates an ordered clause list into one filter
// expression. Clauses are re-sorted by Orden first; caller order is not
// trusted. Each clause binds its value as :<nombre>_<i>, BETWEEN consuming
// :<nombre>_<i> and :<nombre>_<i+1> from a value encoded "lo@hi". Pure, no
// I/O.
func CompileFilters(clauses []domain.FilterClause, idResumen string) (*CompiledFilter, error) {
	sorted := make([]domain.FilterClause, len(clauses))
	copy(sorted, clauses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Orden < sorted[j].Orden })

	var expr strings.Builder
	values := make(map[string]any, len(sorted)+1)

	for i, c := range sorted {
		if _, ok := operatorTokens[c.Condicion]; !ok {
			return nil, &FilterError{Clause: i, Message: fmt.Sprintf("condicion desconocida %q", c.Condicion)}
		}

		name := fmt.Sprintf(":%s_%d", c.Nombre, i)
		expr.WriteString(c.Prefijo)
		expr.WriteString(" ")
		expr.WriteString(c.Nombre)
		expr.WriteString(" ")
		expr.WriteString(c.Condicion)
		expr.WriteString(" ")
		expr.WriteString(name)

		if c.Condicion == "[b]" {
			rango := strings.Split(c.Valor, "@")
			if len(rango) != 2 {
				return nil, &FilterError{Clause: i, Message: "between requiere dos valores separados por @"}
			}
			nameHi := fmt.Sprintf(":%s_%d", c.Nombre, i+1)
			expr.WriteString(" and ")
			expr.WriteString(nameHi)

			lo, err := bindValue(rango[0], c.Tipo)
			if err != nil {
				return nil, &FilterError{Clause: i, Message: err.Error()}
			}
			hi, err := bindValue(rango[1], c.Tipo)
			if err != nil {
				return nil, &FilterError{Clause: i, Message: err.Error()}
			}
			values[name] = lo
			values[nameHi] = hi
		} else {
			v, err := bindValue(c.Valor, c.Tipo)
			if err != nil {
				return nil, &FilterError{Clause: i, Message: err.Error()}
			}
			values[name] = v
		}

		expr.WriteString(" ")
		expr.WriteString(c.Sufijo)
		expr.WriteString(" ")
	}

	values[":id"] = idResumen

	return &CompiledFilter{
		Expression: tokenReplacer.Replace(expr.String()),
		Values:     values,
	}, nil
}

func bindValue(raw, tipo string) (any, error) {
	if tipo == "number" {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("valor %q no es numerico", raw)
		}
		return n, nil
	}
	return raw, nil
}
