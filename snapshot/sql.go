package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	core "github.com/AndrewSinukov/service-bus/data/db"
)

// SQLStore 是 Store[ID] 的 SQL 实现，每个聚合只保留一条最新快照行。
//
// 与 eventing/store/snapshot/snapshot_sql.go 同构（UPDATE 优先、未命中
// 再 INSERT 的幂等写入），泛化到任意 comparable ID：聚合 id 以其
// fmt.Sprint 形式存成字符串列，因为底层 SQL 列类型不能对泛型参数化。
type SQLStore[ID comparable] struct {
	db        core.IDatabase
	tableName string
}

// NewSQLStore 创建一个绑定到给定表名的 SQL 快照存储。
func NewSQLStore[ID comparable](db core.IDatabase, tableName string) *SQLStore[ID] {
	if db == nil {
		panic("snapshot.NewSQLStore: db cannot be nil")
	}
	if tableName == "" {
		tableName = "aggregate_snapshot"
	}
	return &SQLStore[ID]{db: db, tableName: tableName}
}

// EnsureSchema 创建快照表（若不存在）。仅用于测试/单机引导。
func (s *SQLStore[ID]) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		aggregate_id TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		data BLOB NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`, s.tableName)
	_, err := s.db.Exec(ctx, ddl)
	return err
}

func (s *SQLStore[ID]) Save(ctx context.Context, snapshot Snapshot[ID]) error {
	key := fmt.Sprint(snapshot.AggregateID)
	ts := snapshot.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	updateQuery := fmt.Sprintf("UPDATE %s SET version = ?, data = ?, timestamp = ? WHERE aggregate_id = ?", s.tableName)
	result, err := s.db.Exec(ctx, updateQuery, snapshot.Version, snapshot.Data, ts, key)
	if err != nil {
		return fmt.Errorf("snapshot: update failed: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (aggregate_id, version, data, timestamp) VALUES (?, ?, ?, ?)", s.tableName)
	if _, err := s.db.Exec(ctx, insertQuery, key, snapshot.Version, snapshot.Data, ts); err != nil {
		return fmt.Errorf("snapshot: insert failed: %w", err)
	}
	return nil
}

func (s *SQLStore[ID]) Load(ctx context.Context, id ID) (*Snapshot[ID], error) {
	key := fmt.Sprint(id)
	query := fmt.Sprintf("SELECT version, data, timestamp FROM %s WHERE aggregate_id = ?", s.tableName)
	row := s.db.QueryRow(ctx, query, key)

	var (
		version int64
		data    []byte
		ts      time.Time
	)
	if err := row.Scan(&version, &data, &ts); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: query failed: %w", err)
	}

	return &Snapshot[ID]{AggregateID: id, Version: uint64(version), Data: data, Timestamp: ts}, nil
}

func (s *SQLStore[ID]) Remove(ctx context.Context, id ID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE aggregate_id = ?", s.tableName)
	_, err := s.db.Exec(ctx, query, fmt.Sprint(id))
	if err != nil {
		return fmt.Errorf("snapshot: delete failed: %w", err)
	}
	return nil
}
