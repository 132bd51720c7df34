package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-rank-tracker/internal/domain"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "nope", "ranks.db")

	db, err := OpenSQLite(bad)
	if db != nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("OpenSQLite(%q) = %v, %v; want ErrNotExist", bad, db, err)
	}
}

func openFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ranks.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestOpenSQLite_PragmasAndPool(t *testing.T) {
	db := openFileDB(t)

	var journal string
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journal); err != nil || strings.ToLower(journal) != "wal" {
		t.Fatalf("journal_mode = %q, %v", journal, err)
	}
	for pragma, want := range map[string]int{
		"synchronous":  1, // NORMAL
		"foreign_keys": 1,
		"busy_timeout": 5000,
	} {
		var got int
		if err := db.Raw("PRAGMA " + pragma + ";").Row().Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", pragma, err)
		}
		if got != want {
			t.Errorf("PRAGMA %s = %d; want %d", pragma, got, want)
		}
	}

	sqlDB, _ := db.DB()
	if n := sqlDB.Stats().MaxOpenConnections; n != 10 {
		t.Fatalf("MaxOpenConnections = %d", n)
	}
}

func TestAutoMigrate_SchemaConstraints(t *testing.T) {
	db := openFileDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&domain.Product{}, &domain.Keyword{}, &domain.RankSample{}, &domain.APIConfig{}, &domain.Idempotency{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("missing table for %T", tbl)
		}
	}

	now := time.Now().UTC()
	if err := db.Create(&domain.Product{ID: "p1", UserID: "u1", ExternalID: "8812", Name: "Mug", CreatedAt: now, UpdatedAt: now}).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}
	// (owner, external id) is unique; another owner may track the same item.
	dup := db.Create(&domain.Product{ID: "p2", UserID: "u1", ExternalID: "8812", Name: "Mug", CreatedAt: now, UpdatedAt: now}).Error
	if dup == nil {
		t.Fatalf("duplicate (owner, external id) accepted")
	}
	if err := db.Create(&domain.Product{ID: "p3", UserID: "u2", ExternalID: "8812", Name: "Mug", CreatedAt: now, UpdatedAt: now}).Error; err != nil {
		t.Fatalf("same external id for another owner: %v", err)
	}

	if err := db.Create(&domain.Keyword{ID: "k1", ProductID: "p1", Text: "mug", CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert keyword: %v", err)
	}
	rank := 3
	if err := db.Create(&domain.RankSample{ID: "s1", ProductID: "p1", Keyword: "mug", Rank: &rank, CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert sample: %v", err)
	}
	if err := db.Create(&domain.RankSample{ID: "s2", ProductID: "p1", Keyword: "mug", CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert null-rank sample: %v", err)
	}

	if err := db.Delete(&domain.Product{}, "id = ?", "p1").Error; err != nil {
		t.Fatalf("delete product: %v", err)
	}
	var kws, samples int64
	db.Model(&domain.Keyword{}).Where("product_id = ?", "p1").Count(&kws)
	db.Model(&domain.RankSample{}).Where("product_id = ?", "p1").Count(&samples)
	if kws != 0 || samples != 0 {
		t.Fatalf("cascade left keywords=%d samples=%d", kws, samples)
	}
}

var _ func(string) (*gorm.DB, error) = OpenSQLite
