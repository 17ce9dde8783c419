package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// Table names for the archive store.
const (
	metaTable            = "peloton_meta"
	racesTable           = "peloton_races"
	stagesTable          = "peloton_stages"
	checkpointsTable     = "peloton_checkpoints"
	teamsTable           = "peloton_teams"
	ridersTable          = "peloton_riders"
	resultsTable         = "peloton_results"
	resultTimesTable     = "peloton_result_times"
	pointsSnapshotsTable = "peloton_points_snapshots"
	pointsEntriesTable   = "peloton_points_entries"
)

// archiveTables lists every archive table, children before parents.
var archiveTables = []string{
	pointsEntriesTable, pointsSnapshotsTable,
	resultTimesTable, resultsTable,
	ridersTable, teamsTable,
	checkpointsTable, stagesTable, racesTable,
	metaTable,
}

// kindTables maps entity kinds to the table holding them.
var kindTables = map[string]string{
	schema.RaceKind:       racesTable,
	schema.StageKind:      stagesTable,
	schema.CheckpointKind: checkpointsTable,
	schema.TeamKind:       teamsTable,
	schema.RiderKind:      ridersTable,
	schema.ResultKind:     resultsTable,
	"points":              pointsSnapshotsTable,
}

// Keys of the meta table. Id counters are stored as counterKeyPrefix + kind.
const (
	versionKey       = "snapshot_version"
	pushedAtKey      = "pushed_at"
	counterKeyPrefix = "next_"
)

// ArchiveStoreImpl handles archive storage using various database backends.
type ArchiveStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	now     func() time.Time
}

var _ contract.ArchiveStore = &ArchiveStoreImpl{} // Compile-time check

// NewArchiveStore connects to the backend and migrates the archive tables to the latest version.
func NewArchiveStore(backend schema.DatabaseBackend, connStr string) (contract.ArchiveStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled archiving
		return &ArchiveStoreImpl{backend: backend, connStr: connStr, now: time.Now}, nil
	}
	for _, table := range archiveTables {
		if err := validateTableName(table); err != nil {
			return nil, err
		}
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &ArchiveStoreImpl{db: db, backend: backend, connStr: connStr, now: time.Now}, nil
}

// Save replaces the archived graph with snap in one transaction.
func (as *ArchiveStoreImpl) Save(ctx context.Context, snap *schema.Snapshot) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}
	if snap == nil {
		return fmt.Errorf("%w: snapshot is nil", contract.ErrInvalidArgument)
	}

	tx, err := as.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range archiveTables {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, as.backend))
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := as.saveMeta(ctx, tx, snap); err != nil {
		return err
	}
	if err := as.saveRaces(ctx, tx, snap); err != nil {
		return err
	}
	if err := as.saveTeams(ctx, tx, snap); err != nil {
		return err
	}
	if err := as.saveResults(ctx, tx, snap); err != nil {
		return err
	}
	if err := as.savePoints(ctx, tx, snap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return nil
}

// prepareInsert prepares an INSERT of the given columns into table.
func (as *ArchiveStoreImpl) prepareInsert(ctx context.Context, tx *sql.Tx, table string, columns ...string) (*sql.Stmt, error) {
	marks := make([]string, len(columns))
	for i := range marks {
		marks[i] = placeholder(as.backend, i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(table, as.backend), strings.Join(columns, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	return stmt, nil
}

// insertAll runs fn with a prepared insert and closes it afterwards.
func (as *ArchiveStoreImpl) insertAll(ctx context.Context, tx *sql.Tx, table string, columns []string, fn func(stmt *sql.Stmt) error) error {
	stmt, err := as.prepareInsert(ctx, tx, table, columns...)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	if err := fn(stmt); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (as *ArchiveStoreImpl) saveMeta(ctx context.Context, tx *sql.Tx, snap *schema.Snapshot) error {
	return as.insertAll(ctx, tx, metaTable, []string{"meta_key", "meta_value"}, func(stmt *sql.Stmt) error {
		if _, err := stmt.ExecContext(ctx, versionKey, int64(snap.Version)); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, pushedAtKey, as.now().UnixNano()); err != nil {
			return err
		}
		for _, kind := range schema.AllKinds {
			next, ok := snap.Counters[kind]
			if !ok {
				continue
			}
			if _, err := stmt.ExecContext(ctx, counterKeyPrefix+kind, int64(next)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (as *ArchiveStoreImpl) saveRaces(ctx context.Context, tx *sql.Tx, snap *schema.Snapshot) error {
	err := as.insertAll(ctx, tx, racesTable, []string{"id", "name", "description"}, func(stmt *sql.Stmt) error {
		for _, r := range snap.Races {
			if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	stageSeq := make(map[int]int)
	for _, r := range snap.Races {
		for i, id := range r.StageIDs {
			stageSeq[id] = i
		}
	}
	columns := []string{"id", "race_id", "seq", "name", "description", "length_km", "start_time", "stage_type", "status"}
	err = as.insertAll(ctx, tx, stagesTable, columns, func(stmt *sql.Stmt) error {
		for _, st := range snap.Stages {
			if _, err := stmt.ExecContext(ctx, st.ID, st.RaceID, stageSeq[st.ID], st.Name, st.Description,
				st.Length, st.StartTime.UnixNano(), string(st.Type), string(st.Status)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	checkpointSeq := make(map[int]int)
	for _, st := range snap.Stages {
		for i, id := range st.CheckpointIDs {
			checkpointSeq[id] = i
		}
	}
	columns = []string{"id", "stage_id", "seq", "location_km", "checkpoint_type", "average_gradient", "length_km"}
	return as.insertAll(ctx, tx, checkpointsTable, columns, func(stmt *sql.Stmt) error {
		for _, cp := range snap.Checkpoints {
			if _, err := stmt.ExecContext(ctx, cp.ID, cp.StageID, checkpointSeq[cp.ID], cp.Location, string(cp.Type),
				nullFloat(cp.AverageGradient), nullFloat(cp.Length)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (as *ArchiveStoreImpl) saveTeams(ctx context.Context, tx *sql.Tx, snap *schema.Snapshot) error {
	err := as.insertAll(ctx, tx, teamsTable, []string{"id", "name", "description"}, func(stmt *sql.Stmt) error {
		for _, t := range snap.Teams {
			if _, err := stmt.ExecContext(ctx, t.ID, t.Name, t.Description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	riderSeq := make(map[int]int)
	for _, t := range snap.Teams {
		for i, id := range t.RiderIDs {
			riderSeq[id] = i
		}
	}
	columns := []string{"id", "team_id", "seq", "name", "year_of_birth"}
	return as.insertAll(ctx, tx, ridersTable, columns, func(stmt *sql.Stmt) error {
		for _, r := range snap.Riders {
			if _, err := stmt.ExecContext(ctx, r.ID, r.TeamID, riderSeq[r.ID], r.Name, r.YearOfBirth); err != nil {
				return err
			}
		}
		return nil
	})
}

func (as *ArchiveStoreImpl) saveResults(ctx context.Context, tx *sql.Tx, snap *schema.Snapshot) error {
	err := as.insertAll(ctx, tx, resultsTable, []string{"id", "stage_id", "rider_id"}, func(stmt *sql.Stmt) error {
		for _, r := range snap.Results {
			if _, err := stmt.ExecContext(ctx, r.ID, r.StageID, r.RiderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return as.insertAll(ctx, tx, resultTimesTable, []string{"result_id", "seq", "recorded_at"}, func(stmt *sql.Stmt) error {
		for _, r := range snap.Results {
			for i, ts := range r.Times {
				if _, err := stmt.ExecContext(ctx, r.ID, i, ts.UnixNano()); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (as *ArchiveStoreImpl) savePoints(ctx context.Context, tx *sql.Tx, snap *schema.Snapshot) error {
	columns := []string{"id", "seq", "stage_id", "recorded_at"}
	err := as.insertAll(ctx, tx, pointsSnapshotsTable, columns, func(stmt *sql.Stmt) error {
		for i, p := range snap.Points {
			if _, err := stmt.ExecContext(ctx, p.ID, i, p.StageID, p.RecordedAt.UnixNano()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	columns = []string{"snapshot_id", "seq", "rider_id", "sprint_points", "mountain_points"}
	return as.insertAll(ctx, tx, pointsEntriesTable, columns, func(stmt *sql.Stmt) error {
		for _, p := range snap.Points {
			for i, e := range p.Entries {
				if _, err := stmt.ExecContext(ctx, p.ID, i, e.RiderID, e.Sprint, e.Mountain); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Load returns the archived graph, or an empty snapshot when nothing was saved.
func (as *ArchiveStoreImpl) Load(ctx context.Context) (*schema.Snapshot, error) {
	snap := &schema.Snapshot{Version: schema.SnapshotVersion}
	if as.backend == schema.NoneBackend || as.db == nil {
		return snap, nil
	}

	meta, err := as.loadMeta(ctx)
	if err != nil {
		return nil, err
	}
	if len(meta) == 0 {
		return snap, nil
	}
	snap.Version = int(meta[versionKey])
	snap.Counters = make(map[string]int, len(schema.AllKinds))
	for _, kind := range schema.AllKinds {
		if next, ok := meta[counterKeyPrefix+kind]; ok {
			snap.Counters[kind] = int(next)
		}
	}

	loaders := []func(context.Context, *schema.Snapshot) error{
		as.loadRaces, as.loadStages, as.loadCheckpoints,
		as.loadTeams, as.loadRiders, as.loadResults, as.loadPoints,
	}
	for _, load := range loaders {
		if err := load(ctx, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// query runs a SELECT over table and hands every row to scan.
func (as *ArchiveStoreImpl) query(ctx context.Context, table, columns, orderBy string, scan func(rows *sql.Rows) error) error {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", columns, quoteTableName(table, as.backend), orderBy)
	rows, err := as.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	return nil
}

func (as *ArchiveStoreImpl) loadMeta(ctx context.Context) (map[string]int64, error) {
	meta := make(map[string]int64)
	err := as.query(ctx, metaTable, "meta_key, meta_value", "meta_key", func(rows *sql.Rows) error {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		meta[key] = value
		return nil
	})
	return meta, err
}

func (as *ArchiveStoreImpl) loadRaces(ctx context.Context, snap *schema.Snapshot) error {
	return as.query(ctx, racesTable, "id, name, description", "id", func(rows *sql.Rows) error {
		var r schema.Race
		if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
			return err
		}
		snap.Races = append(snap.Races, r)
		return nil
	})
}

// loadStages reads stages in race order so each race gets its stage list back.
// The snapshot itself lists stages by id.
func (as *ArchiveStoreImpl) loadStages(ctx context.Context, snap *schema.Snapshot) error {
	races := indexByID(snap.Races, func(r schema.Race) int { return r.ID })
	columns := "id, race_id, name, description, length_km, start_time, stage_type, status"
	err := as.query(ctx, stagesTable, columns, "race_id, seq", func(rows *sql.Rows) error {
		var st schema.Stage
		var start int64
		var stageType, status string
		if err := rows.Scan(&st.ID, &st.RaceID, &st.Name, &st.Description, &st.Length, &start, &stageType, &status); err != nil {
			return err
		}
		st.StartTime = time.Unix(0, start).UTC()
		st.Type = schema.StageType(stageType)
		st.Status = schema.StageStatus(status)
		if i, ok := races[st.RaceID]; ok {
			snap.Races[i].StageIDs = append(snap.Races[i].StageIDs, st.ID)
		}
		snap.Stages = append(snap.Stages, st)
		return nil
	})
	sortByID(snap.Stages, func(st schema.Stage) int { return st.ID })
	return err
}

func (as *ArchiveStoreImpl) loadCheckpoints(ctx context.Context, snap *schema.Snapshot) error {
	stages := indexByID(snap.Stages, func(st schema.Stage) int { return st.ID })
	columns := "id, stage_id, location_km, checkpoint_type, average_gradient, length_km"
	err := as.query(ctx, checkpointsTable, columns, "stage_id, seq", func(rows *sql.Rows) error {
		var cp schema.Checkpoint
		var cpType string
		var gradient, length sql.NullFloat64
		if err := rows.Scan(&cp.ID, &cp.StageID, &cp.Location, &cpType, &gradient, &length); err != nil {
			return err
		}
		cp.Type = schema.CheckpointType(cpType)
		cp.AverageGradient = floatPtr(gradient)
		cp.Length = floatPtr(length)
		if i, ok := stages[cp.StageID]; ok {
			snap.Stages[i].CheckpointIDs = append(snap.Stages[i].CheckpointIDs, cp.ID)
		}
		snap.Checkpoints = append(snap.Checkpoints, cp)
		return nil
	})
	sortByID(snap.Checkpoints, func(cp schema.Checkpoint) int { return cp.ID })
	return err
}

func (as *ArchiveStoreImpl) loadTeams(ctx context.Context, snap *schema.Snapshot) error {
	return as.query(ctx, teamsTable, "id, name, description", "id", func(rows *sql.Rows) error {
		var t schema.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return err
		}
		snap.Teams = append(snap.Teams, t)
		return nil
	})
}

func (as *ArchiveStoreImpl) loadRiders(ctx context.Context, snap *schema.Snapshot) error {
	teams := indexByID(snap.Teams, func(t schema.Team) int { return t.ID })
	err := as.query(ctx, ridersTable, "id, team_id, name, year_of_birth", "team_id, seq", func(rows *sql.Rows) error {
		var r schema.Rider
		if err := rows.Scan(&r.ID, &r.TeamID, &r.Name, &r.YearOfBirth); err != nil {
			return err
		}
		if i, ok := teams[r.TeamID]; ok {
			snap.Teams[i].RiderIDs = append(snap.Teams[i].RiderIDs, r.ID)
		}
		snap.Riders = append(snap.Riders, r)
		return nil
	})
	sortByID(snap.Riders, func(r schema.Rider) int { return r.ID })
	return err
}

func (as *ArchiveStoreImpl) loadResults(ctx context.Context, snap *schema.Snapshot) error {
	err := as.query(ctx, resultsTable, "id, stage_id, rider_id", "id", func(rows *sql.Rows) error {
		var r schema.Result
		if err := rows.Scan(&r.ID, &r.StageID, &r.RiderID); err != nil {
			return err
		}
		snap.Results = append(snap.Results, r)
		return nil
	})
	if err != nil {
		return err
	}

	results := indexByID(snap.Results, func(r schema.Result) int { return r.ID })
	return as.query(ctx, resultTimesTable, "result_id, recorded_at", "result_id, seq", func(rows *sql.Rows) error {
		var resultID int
		var ts int64
		if err := rows.Scan(&resultID, &ts); err != nil {
			return err
		}
		if i, ok := results[resultID]; ok {
			snap.Results[i].Times = append(snap.Results[i].Times, time.Unix(0, ts).UTC())
		}
		return nil
	})
}

func (as *ArchiveStoreImpl) loadPoints(ctx context.Context, snap *schema.Snapshot) error {
	positions := make(map[string]int)
	err := as.query(ctx, pointsSnapshotsTable, "id, stage_id, recorded_at", "seq", func(rows *sql.Rows) error {
		var p schema.PointsSnapshot
		var recordedAt int64
		if err := rows.Scan(&p.ID, &p.StageID, &recordedAt); err != nil {
			return err
		}
		p.RecordedAt = time.Unix(0, recordedAt).UTC()
		positions[p.ID] = len(snap.Points)
		snap.Points = append(snap.Points, p)
		return nil
	})
	if err != nil {
		return err
	}

	columns := "snapshot_id, rider_id, sprint_points, mountain_points"
	return as.query(ctx, pointsEntriesTable, columns, "snapshot_id, seq", func(rows *sql.Rows) error {
		var id string
		var e schema.RiderPoints
		if err := rows.Scan(&id, &e.RiderID, &e.Sprint, &e.Mountain); err != nil {
			return err
		}
		if i, ok := positions[id]; ok {
			snap.Points[i].Entries = append(snap.Points[i].Entries, e)
		}
		return nil
	})
}

// Close closes the underlying DB connection.
func (as *ArchiveStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the archive store.
func (as *ArchiveStoreImpl) GetStatus() (schema.ArchiveStatus, error) {
	status := schema.ArchiveStatus{
		Backend:        string(as.backend),
		Connected:      as.db != nil,
		EntityCounts:   make(map[string]int, len(kindTables)),
		TableSizeBytes: make(map[string]int64),
	}
	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	row := as.db.QueryRow(fmt.Sprintf("SELECT MAX(version) FROM %s", migrationsTable))
	var version sql.NullInt64
	if err := row.Scan(&version); err != nil {
		return status, fmt.Errorf("failed to get schema version: %w", err)
	}
	status.SchemaVersion = int(version.Int64)

	for kind, table := range kindTables {
		var count int
		row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.EntityCounts[kind] = count
	}

	query := fmt.Sprintf("SELECT meta_value FROM %s WHERE meta_key = %s", quoteTableName(metaTable, as.backend), placeholder(as.backend, 1))
	var pushedAt int64
	switch err := as.db.QueryRow(query, pushedAtKey).Scan(&pushedAt); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return status, fmt.Errorf("failed to get last push time: %w", err)
	default:
		status.LastPushTime = time.Unix(0, pushedAt).UTC()
	}

	as.collectSizes(&status)
	return status, nil
}

// collectSizes fills TableSizeBytes. Size queries are best effort; tables the
// backend cannot measure are left out.
func (as *ArchiveStoreImpl) collectSizes(status *schema.ArchiveStatus) {
	switch as.backend {
	case schema.SQLiteBackend:
		// SQLite reports the whole database file
		var size int64
		row := as.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err == nil {
			status.TableSizeBytes["database"] = size
		}

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(as.connStr)
		if err != nil || cfg.DBName == "" {
			return
		}
		for _, table := range archiveTables {
			var size int64
			row := as.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, table)
			if err := row.Scan(&size); err == nil {
				status.TableSizeBytes[table] = size
			}
		}

	case schema.PostgreSQLBackend:
		for _, table := range archiveTables {
			var size int64
			row := as.db.QueryRow("SELECT pg_total_relation_size($1)", table)
			if err := row.Scan(&size); err == nil {
				status.TableSizeBytes[table] = size
			}
		}
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// indexByID maps ids to their position in items.
func indexByID[T any](items []T, id func(T) int) map[int]int {
	out := make(map[int]int, len(items))
	for i, item := range items {
		out[id(item)] = i
	}
	return out
}

func sortByID[T any](items []T, id func(T) int) {
	slices.SortFunc(items, func(a, b T) int { return id(a) - id(b) })
}
