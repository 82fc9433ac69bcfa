package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vitaspoon/internal/pkg/common"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound 收藏不存在
var ErrNotFound = errors.New("saved recipe not found")

// SQLiteStore 收藏食譜的 SQLite 儲存
// 食譜以 JSON 文件保存，標題、餐別與建立時間另外建索引欄位
type SQLiteStore struct {
	db    *sql.DB
	newID common.IDGenerator
	now   common.Clock
}

// Open 開啟資料庫並執行遷移
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, newID: common.GenerateUUID, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS saved_recipes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			cuisine_type TEXT NOT NULL,
			created_at TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			document TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saved_recipes_title ON saved_recipes(title);`,
		`CREATE INDEX IF NOT EXISTS idx_saved_recipes_cuisine ON saved_recipes(cuisine_type);`,
		`CREATE INDEX IF NOT EXISTS idx_saved_recipes_created_at ON saved_recipes(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Save 標記為已收藏並寫入，相同 ID 會覆蓋
func (s *SQLiteStore) Save(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	if strings.TrimSpace(r.Title) == "" {
		return common.Recipe{}, common.NewValidationError("recipe title is required")
	}
	if r.ID == "" {
		r.ID = s.newID()
	}
	now := common.FormatTimestamp(s.now())
	if r.CreatedAt == "" {
		r.CreatedAt = now
	}
	r.IsSaved = true

	doc, err := common.ToJSON(r)
	if err != nil {
		return common.Recipe{}, fmt.Errorf("encode recipe: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_recipes (id, title, cuisine_type, created_at, saved_at, document)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			cuisine_type = excluded.cuisine_type,
			created_at = excluded.created_at,
			saved_at = excluded.saved_at,
			document = excluded.document`,
		r.ID, r.Title, r.CuisineType, r.CreatedAt, now, doc,
	)
	if err != nil {
		return common.Recipe{}, fmt.Errorf("save recipe: %w", err)
	}
	return r, nil
}

// List 依建立時間由新到舊列出收藏
func (s *SQLiteStore) List(ctx context.Context) ([]common.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM saved_recipes ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []common.Recipe{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var r common.Recipe
		if err := common.ParseJSON(doc, &r); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// Get 取得單一收藏
func (s *SQLiteStore) Get(ctx context.Context, id string) (common.Recipe, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM saved_recipes WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return common.Recipe{}, ErrNotFound
	}
	if err != nil {
		return common.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	var r common.Recipe
	if err := common.ParseJSON(doc, &r); err != nil {
		return common.Recipe{}, fmt.Errorf("decode recipe: %w", err)
	}
	return r, nil
}

// Delete 刪除收藏
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close 關閉資料庫
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
