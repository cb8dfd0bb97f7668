package database

// NextSequence atomically increments and returns the named counter. The
// single upsert-returning statement guarantees unique, strictly increasing
// values even under concurrent callers, and the value survives restarts
// because it lives in the counters table.
func NextSequence(q Queryer, name string) (int64, error) {
	var value int64
	query := `INSERT INTO counters (name, value) VALUES ($1, 1)
			  ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
			  RETURNING value`
	if err := q.QueryRow(query, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
