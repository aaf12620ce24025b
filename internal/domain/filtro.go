package domain

// FilterClause is one caller-declared filter condition. Condicion carries an
// operator token ([eq], [gte], [b], ...); Prefijo/Sufijo are free-form join
// tokens and parentheses; Orden fixes compilation order regardless of the
// order clauses arrive in.
type FilterClause struct {
	Nombre    string `json:"nombre"`
	Condicion string `json:"condicion"`
	Valor     string `json:"valor"`
	Tipo      string `json:"tipo"`
	Prefijo   string `json:"prefijo"`
	Sufijo    string `json:"sufijo"`
	Orden     int    `json:"orden"`
}
