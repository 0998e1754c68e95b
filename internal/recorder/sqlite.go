package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			last_price   REAL,
			atr_estimate REAL,
			opening_high REAL,
			opening_low  REAL,
			high_fence   REAL,
			low_fence    REAL,
			mode         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trigger_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			kind       TEXT,
			price      REAL,
			high_fence REAL,
			low_fence  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trigger_ts ON trigger_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS settlements (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			mode            TEXT,
			final_price     REAL,
			realized_pl     REAL,
			breakout_price  REAL,
			breakdown_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settle_ts ON settlements(timestamp)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			qty       INTEGER,
			side      TEXT,
			status    TEXT,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(snap *EvaluationSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lv := snap.Levels
	_, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, symbol, last_price, atr_estimate, opening_high, opening_low, high_fence, low_fence, mode)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol, lv.LastPrice, lv.ATREstimate,
		lv.OpeningHigh, lv.OpeningLow, lv.HighFence, lv.LowFence, string(snap.Mode),
	)
	return err
}

func (r *SQLiteRecorder) RecordTrigger(evt *TriggerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trigger_events
		(timestamp, symbol, kind, price, high_fence, low_fence)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, string(evt.Kind), evt.Price,
		evt.HighFence, evt.LowFence,
	)
	return err
}

func (r *SQLiteRecorder) RecordSettlement(evt *SettlementEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO settlements
		(timestamp, symbol, mode, final_price, realized_pl, breakout_price, breakdown_price)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, string(evt.Mode), evt.FinalPrice,
		evt.RealizedPL, evt.BreakoutPrice, evt.BreakdownPrice,
	)
	return err
}

func (r *SQLiteRecorder) RecordOrder(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO orders
		(timestamp, symbol, qty, side, status, note)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Qty, string(evt.Side), evt.Status, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
