package sql

import (
	"github.com/acronis/perfkit/dbopt-bench/db"
)

// Explain runs the query through EXPLAIN QUERY PLAN and logs the plan rows.
// It does nothing when no explain logger is configured.
func (g *sqlGateway) Explain(query string, args ...interface{}) error {
	if g.explainLogger == nil {
		return nil
	}

	var explainQuery = g.dialect.explain(query)

	rows, err := g.rw.queryContext(g.ctx, explainQuery, args...)
	if err != nil {
		return db.NewStorageError("explain", explainQuery, err)
	}
	defer rows.Close()

	if len(args) > 0 {
		g.explainLogger.Log("%s -- %s", query, db.DumpValues(args...))
	} else {
		g.explainLogger.Log("%s", query)
	}

	for rows.Next() {
		var id, parent, notUsed int
		var detail string
		if err = rows.Scan(&id, &parent, &notUsed, &detail); err != nil {
			return db.NewStorageError("explain", explainQuery, err)
		}
		g.explainLogger.Log("ID: %d, Parent: %d, Not Used: %d, Detail: %s", id, parent, notUsed, detail)
	}

	return db.NewStorageError("explain", explainQuery, rows.Err())
}
