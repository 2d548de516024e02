package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mcashchain/core/types"
	"mcashchain/crypto"
	nativecommon "mcashchain/native/common"
)

// Receipt is the indexed outcome of one operation.
type Receipt struct {
	Block     uint64 `gorm:"primaryKey;autoIncrement:false"`
	Index     int    `gorm:"primaryKey;autoIncrement:false"`
	Operation string `gorm:"index"`
	Owner     string `gorm:"index"`
	Code      string `gorm:"index"`
	Message   string
	Fee       int64
	// Outputs is the JSON encoded result including operation specific fields.
	Outputs   string
	CreatedAt time.Time
}

// EventRecord is one committed chain event.
type EventRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Block      uint64    `gorm:"index"`
	Seq        int
	Type       string `gorm:"index"`
	Attributes string
	CreatedAt  time.Time
}

// Store persists receipts in a sqlite database.
type Store struct {
	db *gorm.DB
}

// IsDSN reports whether target names a postgres server rather than a
// sqlite file.
func IsDSN(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

func dialector(target string) (gorm.Dialector, error) {
	if IsDSN(target) {
		return postgres.Open(target), nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("receipts: %w", err)
	}
	return sqlite.Open(target), nil
}

// Open connects to the receipt index. A postgres:// DSN selects postgres;
// anything else is a sqlite file path created on demand.
func Open(target string) (*Store, error) {
	d, err := dialector(target)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("receipts: open %s: %w", d.Name(), err)
	}
	return New(db)
}

// New wraps an existing gorm handle and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("receipts: nil database")
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// AutoMigrate performs all schema migrations for the receipt index.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Receipt{}, &EventRecord{})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores the receipts and events of one block in a single
// transaction. Re-recording a block replaces its previous rows.
func (s *Store) Record(ctx context.Context, height uint64, ops []*types.Operation, results []*types.Result, events []*types.Event) error {
	if len(ops) != len(results) {
		return fmt.Errorf("receipts: %d operations but %d results", len(ops), len(results))
	}
	now := time.Now().UTC()
	rows := make([]Receipt, 0, len(results))
	for i, res := range results {
		outputs, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("receipts: encode result %d: %w", i, err)
		}
		rows = append(rows, Receipt{
			Block:     height,
			Index:     i,
			Operation: operationName(ops[i]),
			Owner:     ownerString(ops[i]),
			Code:      res.Code.String(),
			Message:   res.Message,
			Fee:       res.Fee,
			Outputs:   string(outputs),
			CreatedAt: now,
		})
	}
	eventRows := make([]EventRecord, 0, len(events))
	for i, evt := range events {
		attrs, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("receipts: encode event %d: %w", i, err)
		}
		eventRows = append(eventRows, EventRecord{
			ID:         uuid.New(),
			Block:      height,
			Seq:        i,
			Type:       evt.Type,
			Attributes: string(attrs),
			CreatedAt:  now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("block = ?", height).Delete(&Receipt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("block = ?", height).Delete(&EventRecord{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if len(eventRows) > 0 {
			if err := tx.Create(&eventRows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ByBlock returns the receipts of a block in operation order.
func (s *Store) ByBlock(ctx context.Context, height uint64) ([]Receipt, error) {
	var out []Receipt
	err := s.db.WithContext(ctx).Where("block = ?", height).Order("`index` asc").Find(&out).Error
	return out, err
}

// ByOwner returns the most recent receipts of an owner, newest first.
func (s *Store) ByOwner(ctx context.Context, owner string, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []Receipt
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("block desc").Order("`index` desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// EventsByBlock returns the events of a block in emission order.
func (s *Store) EventsByBlock(ctx context.Context, height uint64) ([]EventRecord, error) {
	var out []EventRecord
	err := s.db.WithContext(ctx).Where("block = ?", height).Order("seq asc").Find(&out).Error
	return out, err
}

// Result decodes the stored outputs back into a result.
func (r *Receipt) Result() (*types.Result, error) {
	res := new(types.Result)
	if err := json.Unmarshal([]byte(r.Outputs), res); err != nil {
		return nil, fmt.Errorf("receipts: decode outputs: %w", err)
	}
	return res, nil
}

func operationName(op *types.Operation) string {
	if op == nil || op.Payload == nil {
		return "unknown"
	}
	return op.Payload.OpType().String()
}

func ownerString(op *types.Operation) string {
	if op == nil {
		return ""
	}
	if addr, ok := nativecommon.ParseAddress(op.Owner); ok {
		return crypto.FromCommon(addr).String()
	}
	return fmt.Sprintf("%x", []byte(op.Owner))
}
