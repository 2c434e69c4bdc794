package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/dirtree/pkg/loader"
	"github.com/vanderheijden86/dirtree/pkg/model"
)

// NodesTable is the table a SQLite dataset stores its hierarchy in:
//
//	CREATE TABLE nodes (
//	    id        TEXT PRIMARY KEY,
//	    parent_id TEXT,
//	    name      TEXT NOT NULL,
//	    kind      TEXT,
//	    position  INTEGER
//	);
const NodesTable = "nodes"

// SQLiteReader provides read access to a SQLite dataset
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords reads every row of the nodes table.
func (r *SQLiteReader) LoadRecords() ([]loader.Record, error) {
	rows, err := r.db.Query(`
		SELECT id, parent_id, name, kind, position
		FROM ` + NodesTable + `
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []loader.Record
	for rows.Next() {
		var rec loader.Record
		var parentID, kind sql.NullString
		var position sql.NullInt64
		if err := rows.Scan(&rec.ID, &parentID, &rec.Name, &kind, &position); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		if parentID.Valid {
			rec.ParentID = parentID.String
		}
		if kind.Valid {
			rec.Kind = model.Kind(kind.String)
		}
		if position.Valid {
			rec.Position = int(position.Int64)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return records, nil
}

// LoadNodes reads the nodes table and assembles it into a forest.
func (r *SQLiteReader) LoadNodes() ([]model.Node, error) {
	records, err := r.LoadRecords()
	if err != nil {
		return nil, err
	}
	nodes, err := loader.BuildForest(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return nodes, nil
}

// CountNodes returns the number of rows in the nodes table.
func (r *SQLiteReader) CountNodes() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM " + NodesTable).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
