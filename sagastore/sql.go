package sagastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	core "github.com/AndrewSinukov/service-bus/data/db"
	"github.com/AndrewSinukov/service-bus/data/db/dialect"
	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/saga"
)

// SQLStore 是 saga.Store 的 SQL 实现，一行对应一个 saga 实例的最新快照。
//
// 与 eventing/store/sql/store_core.go 同构：围绕通用 core.IDatabase 写
// 参数化 SQL，不引入额外的 ORM。唯一键冲突、连接失败、超时等底层错误
// 被归一到 errors/storage_errors.go 定义的四类存储错误，供
// saga.Provider 判断是否可重试。
type SQLStore struct {
	db        core.IDatabase
	tableName string
	dialect   dialect.Dialect
}

// NewSQLStore 创建一个绑定到给定表名的 SQL saga 存储。
func NewSQLStore(db core.IDatabase, tableName string) *SQLStore {
	if db == nil {
		panic("sagastore.NewSQLStore: db cannot be nil")
	}
	if tableName == "" {
		tableName = "saga_instance"
	}
	dialectName := ""
	if provider, ok := db.(core.IDialectNameProvider); ok {
		dialectName = provider.GetDialectName()
	}
	return &SQLStore{db: db, tableName: tableName, dialect: dialect.New(dialectName)}
}

// EnsureSchema 创建存储表（若不存在）。仅用于测试/单机引导；生产环境
// 建议走迁移工具。
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		saga_class TEXT NOT NULL,
		saga_value TEXT NOT NULL,
		status TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL,
		expire_date TIMESTAMP NOT NULL,
		closed_at TIMESTAMP,
		PRIMARY KEY (saga_class, saga_value)
	)`, s.dialect.QuoteIdentifier(s.tableName))
	_, err := s.db.Exec(ctx, ddl)
	return err
}

func (s *SQLStore) Save(ctx context.Context, stored saga.StoredSaga) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (saga_class, saga_value, status, payload, created_at, expire_date, closed_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.dialect.QuoteIdentifier(s.tableName))
	_, err := s.db.Exec(ctx, query,
		stored.ID.Class, stored.ID.Value, string(stored.Status), stored.Payload,
		stored.CreatedAt, stored.ExpireDate, stored.ClosedAt)
	if err != nil {
		return s.translateError(err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, stored saga.StoredSaga) error {
	query := fmt.Sprintf(
		"UPDATE %s SET status = ?, payload = ?, expire_date = ?, closed_at = ? WHERE saga_class = ? AND saga_value = ?",
		s.dialect.QuoteIdentifier(s.tableName))
	result, err := s.db.Exec(ctx, query,
		string(stored.Status), stored.Payload, stored.ExpireDate, stored.ClosedAt,
		stored.ID.Class, stored.ID.Value)
	if err != nil {
		return s.translateError(err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return apperrors.NewNotFoundError("saga not found: " + stored.ID.String())
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, id saga.ID) (*saga.StoredSaga, error) {
	query := fmt.Sprintf(
		"SELECT saga_class, saga_value, status, payload, created_at, expire_date, closed_at FROM %s WHERE saga_class = ? AND saga_value = ?",
		s.dialect.QuoteIdentifier(s.tableName))
	row := s.db.QueryRow(ctx, query, id.Class, id.Value)

	var (
		class, value, status string
		payload               []byte
		createdAt, expireDate  time.Time
		closedAt               sql.NullTime
	)
	if err := row.Scan(&class, &value, &status, &payload, &createdAt, &expireDate, &closedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, s.translateError(err)
	}

	stored := &saga.StoredSaga{
		ID:         saga.ID{Value: value, Class: class},
		Status:     saga.Status(status),
		Payload:    payload,
		CreatedAt:  createdAt,
		ExpireDate: expireDate,
	}
	if closedAt.Valid {
		t := closedAt.Time
		stored.ClosedAt = &t
	}
	return stored, nil
}

func (s *SQLStore) Remove(ctx context.Context, id saga.ID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE saga_class = ? AND saga_value = ?", s.dialect.QuoteIdentifier(s.tableName))
	_, err := s.db.Exec(ctx, query, id.Class, id.Value)
	if err != nil {
		return s.translateError(err)
	}
	return nil
}

// translateError 把底层驱动错误归一到存储契约允许的四类错误。
func (s *SQLStore) translateError(err error) error {
	if s.dialect.IsUniqueViolation(err) {
		return apperrors.NewUniqueConstraintViolationError(err.Error())
	}
	return apperrors.NewStorageInteractingFailedError("saga storage operation failed", err)
}
