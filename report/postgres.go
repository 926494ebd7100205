package report

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"card-arbitrage/models"
)

// PostgresWriter persists scored opportunities to PostgreSQL so runs can be
// compared over time. It is an optional sink: the CSV/JSON artifacts are
// the primary output.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS opportunities (
			id              SERIAL PRIMARY KEY,
			run_id          VARCHAR(64)   NOT NULL,
			japanese_name   TEXT          NOT NULL,
			english_name    TEXT          NOT NULL DEFAULT '',
			card_number     VARCHAR(50)   NOT NULL DEFAULT '',
			card_type       VARCHAR(50)   NOT NULL DEFAULT '',
			buy_price_jpy   NUMERIC(12,2) NOT NULL DEFAULT 0,
			buy_price_usd   NUMERIC(12,2) NOT NULL DEFAULT 0,
			sell_price_usd  NUMERIC(12,2) NOT NULL DEFAULT 0,
			profit_usd      NUMERIC(12,2) NOT NULL DEFAULT 0,
			margin_percent  NUMERIC(8,2)  NOT NULL DEFAULT 0,
			card_url        TEXT          NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, japanese_name, card_number)
		);

		CREATE INDEX IF NOT EXISTS idx_opportunities_margin ON opportunities(margin_percent);
		CREATE INDEX IF NOT EXISTS idx_opportunities_run    ON opportunities(run_id);
	`)
	return err
}

// Write batch-inserts the run's opportunities, skipping rows already stored
// for the same run.
func (pw *PostgresWriter) Write(runID string, opps []*models.ArbitrageOpportunity) error {
	if len(opps) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(opps); i += batchSize {
		end := i + batchSize
		if end > len(opps) {
			end = len(opps)
		}
		if err := pw.insertBatch(runID, opps[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(runID string, batch []*models.ArbitrageOpportunity) error {
	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, o := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for c := 0; c < cols; c++ {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, o.JapaneseName, o.EnglishName, o.CardNumber, o.CardType,
			o.BuyPriceJPY, o.BuyPriceUSD, o.SellPriceUSD, o.ProfitUSD,
			o.MarginPercent, o.CardURL)
	}

	query := fmt.Sprintf(`
		INSERT INTO opportunities (
			run_id, japanese_name, english_name, card_number, card_type,
			buy_price_jpy, buy_price_usd, sell_price_usd, profit_usd,
			margin_percent, card_url
		)
		VALUES %s
		ON CONFLICT (run_id, japanese_name, card_number) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
