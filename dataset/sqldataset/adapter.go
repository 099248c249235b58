package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

/*
Adapter is an interface providing the methods
needed to store frames on a database backend.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateDiscreteValuesTable(context.Context) error
	CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error

	AddDiscreteValues(context.Context, []string) (int, error)
	ListDiscreteValues(context.Context) (map[int]string, error)

	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error)
	IterateOnSamples(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	CountSamples(context.Context) (int, error)

	Close() error
}

/*
Dialect holds what changes from one SQL database to another
for an Adapter built with NewAdapter.
*/
type Dialect struct {
	// Init holds statements run before creating the samples table
	Init []string
	// DiscreteValuesTable is the statement creating the
	// discreteValues table if it does not exist
	DiscreteValuesTable string
	// IDColumn is the type of the samples id column
	IDColumn string
	// DiscreteColumn is the type of categorical feature columns
	DiscreteColumn string
	// ContinuousColumn is the type of numeric feature columns
	ContinuousColumn string
	// Placeholder returns the placeholder for the i-th (from 1)
	// argument of a statement
	Placeholder func(i int) string
}

const (
	/*
		MaxDiscreteValueInsertionsPerStatement is the maximum number
		of discrete values that are allowed to be added with a single
		insert command with the AddDiscreteValues method of the adapter.
		Trying to add more will result in making more insertion commands
	*/
	MaxDiscreteValueInsertionsPerStatement = 10
	/*
		MaxSampleInsertionsPerStatement is the maximum number
		of samples that are allowed to be added with a single
		insert command with the AddSamples method of the adapter.
		Trying to add more will result in making more insertion commands
	*/
	MaxSampleInsertionsPerStatement = 10
)

type adapter struct {
	db *sql.DB
	d  Dialect
}

// NewAdapter takes a database handle and a dialect and returns an Adapter
// that works on the database.
func NewAdapter(db *sql.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateDiscreteValuesTable(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, a.d.DiscreteValuesTable)
	if err != nil {
		return fmt.Errorf("running discreteValues creation statement: %v", err)
	}
	return nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error {
	for _, stmt := range a.d.Init {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range discreteFeatureColumns {
		fmt.Fprintf(&createStmtBuf, `"%s" %s, `, c, a.d.DiscreteColumn)
	}
	for _, c := range continuousFeatureColumns {
		fmt.Fprintf(&createStmtBuf, `"%s" %s, `, c, a.d.ContinuousColumn)
	}
	fmt.Fprintf(&createStmtBuf, `"id" %s)`, a.d.IDColumn)
	_, err := a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddDiscreteValues(ctx context.Context, values []string) (int, error) {
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{v}
	}
	return a.insert(ctx, "discreteValues", []string{"value"}, rows, MaxDiscreteValueInsertionsPerStatement)
}

func (a *adapter) ListDiscreteValues(ctx context.Context) (map[int]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, value FROM discreteValues`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int]string)
	for rows.Next() {
		var id int
		var value string
		err = rows.Scan(&id, &value)
		if err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, rows.Err()
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error) {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	rows := make([][]interface{}, len(rawSamples))
	for i, rs := range rawSamples {
		rows[i] = make([]interface{}, len(columns))
		for j, c := range columns {
			rows[i][j] = rs[c]
		}
	}
	return a.insert(ctx, "samples", columns, rows, MaxSampleInsertionsPerStatement)
}

// insert adds the rows to the table, up to perStatement rows with each
// INSERT. It returns the number of rows inserted.
func (a *adapter) insert(ctx context.Context, table string, columns []string, rows [][]interface{}, perStatement int) (int, error) {
	for start := 0; start < len(rows); start += perStatement {
		end := start + perStatement
		if end > len(rows) {
			end = len(rows)
		}
		var stmtBuf bytes.Buffer
		fmt.Fprintf(&stmtBuf, `INSERT INTO %s ("%s") VALUES `, table, strings.Join(columns, `", "`))
		args := make([]interface{}, 0, (end-start)*len(columns))
		for i, row := range rows[start:end] {
			if i > 0 {
				stmtBuf.WriteString(", ")
			}
			stmtBuf.WriteString("(")
			for j, v := range row {
				if j > 0 {
					stmtBuf.WriteString(", ")
				}
				args = append(args, v)
				stmtBuf.WriteString(a.d.Placeholder(len(args)))
			}
			stmtBuf.WriteString(")")
		}
		if _, err := a.db.ExecContext(ctx, stmtBuf.String(), args...); err != nil {
			return start, fmt.Errorf("inserting %d rows into %s: %v", end-start, table, err)
		}
	}
	return len(rows), nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	query := fmt.Sprintf(`SELECT "%s" FROM samples ORDER BY "id"`, strings.Join(columns, `", "`))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		discreteValues := make([]sql.NullInt64, len(discreteFeatureColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousFeatureColumns))
		values := make([]interface{}, 0, len(columns))
		for i := range discreteValues {
			values = append(values, &discreteValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		if err = rows.Scan(values...); err != nil {
			return err
		}
		rawSample := make(map[string]interface{})
		for i, v := range discreteValues {
			if v.Valid {
				rawSample[discreteFeatureColumns[i]] = int(v.Int64)
			}
		}
		for i, v := range continuousValues {
			if v.Valid {
				rawSample[continuousFeatureColumns[i]] = v.Float64
			}
		}
		ok, err := lambda(j, rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&count)
	return count, err
}

func (a *adapter) Close() error {
	return a.db.Close()
}
