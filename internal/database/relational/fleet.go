package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"minerdash/internal/projector"
	"minerdash/internal/snapshot"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS devices (
  seq           BIGINT NOT NULL,
  pdu           BIGINT NOT NULL,
  port          BIGINT NOT NULL,
  hashrate_5s   DOUBLE,
  hashrate_avg  DOUBLE,
  temperature   DOUBLE,
  frequency     DOUBLE,
  power         DOUBLE,
  status        BIGINT,
  eligible      BOOLEAN NOT NULL
);
`

// PDUSummary aggregates one PDU's devices.
type PDUSummary struct {
	PDU            int     `json:"pdu"`
	Devices        int     `json:"devices"`
	Eligible       int     `json:"eligible"`
	HashrateAvgSum float64 `json:"hashrate_avg_sum"`
	PowerSum       float64 `json:"power_sum_w"`
	MaxTemperature float64 `json:"max_temperature_c,omitempty"`
}

// StatusCount is the number of devices on a PDU reporting one status category.
type StatusCount struct {
	PDU    int    `json:"pdu"`
	Code   int    `json:"code"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// FleetRepo keeps the selected entry's devices in a DuckDB table for ad-hoc aggregation.
type FleetRepo struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewFleetRepo(db *sql.DB) *FleetRepo {
	return &FleetRepo{db: db}
}

func (r *FleetRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

// Load replaces the table contents with entry's devices.
func (r *FleetRepo) Load(ctx context.Context, entry *snapshot.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM devices"); err != nil {
		return fmt.Errorf("clear devices: %w", err)
	}

	if entry != nil {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO devices(seq, pdu, port, hashrate_5s, hashrate_avg, temperature, frequency, power, status, eligible)
			VALUES (?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, d := range entry.Values {
			_, err := stmt.ExecContext(ctx,
				i, d.PDU, d.Port,
				nullFloat(d.Hashrate5s), nullFloat(d.HashrateAvg), nullFloat(d.Temperature),
				nullFloat(d.Frequency), nullFloat(d.Power),
				nullStatus(d),
				projector.IsDisplayEligible(d),
			)
			if err != nil {
				return fmt.Errorf("insert device %s: %w", d.Key(), err)
			}
		}
	}

	return tx.Commit()
}

// PDUSummaries aggregates every PDU, ordered by PDU number.
func (r *FleetRepo) PDUSummaries(ctx context.Context) ([]PDUSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			pdu,
			COUNT(*),
			COUNT(CASE WHEN eligible THEN 1 END),
			COALESCE(SUM(hashrate_avg), 0),
			COALESCE(SUM(power), 0),
			MAX(temperature)
		FROM devices
		GROUP BY pdu
		ORDER BY pdu
	`)
	if err != nil {
		return nil, fmt.Errorf("query pdu summaries: %w", err)
	}
	defer rows.Close()

	var out []PDUSummary
	for rows.Next() {
		var s PDUSummary
		var maxTemp sql.NullFloat64
		if err := rows.Scan(&s.PDU, &s.Devices, &s.Eligible, &s.HashrateAvgSum, &s.PowerSum, &maxTemp); err != nil {
			return nil, fmt.Errorf("scan pdu summary: %w", err)
		}
		s.MaxTemperature = maxTemp.Float64
		out = append(out, s)
	}
	return out, rows.Err()
}

// StatusBreakdown counts known statuses per PDU. Unknown codes are left out, as in the histogram.
func (r *FleetRepo) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cats := projector.Categories()
	codes := make([]string, len(cats))
	for i, c := range cats {
		codes[i] = fmt.Sprintf("%d", c.Code)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT pdu, status, COUNT(*)
		FROM devices
		WHERE status IN (`+strings.Join(codes, ",")+`)
		GROUP BY pdu, status
		ORDER BY pdu, status
	`)
	if err != nil {
		return nil, fmt.Errorf("query status breakdown: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.PDU, &sc.Code, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		code := sc.Code
		sc.Status = projector.ClassifyStatus(&code)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// DevicesByStatus lists PDU/port keys reporting code, in snapshot order.
func (r *FleetRepo) DevicesByStatus(ctx context.Context, code int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, "SELECT pdu, port FROM devices WHERE status = ? ORDER BY seq", code)
	if err != nil {
		return nil, fmt.Errorf("query devices by status: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d snapshot.Device
		if err := rows.Scan(&d.PDU, &d.Port); err != nil {
			return nil, err
		}
		out = append(out, d.Key())
	}
	return out, rows.Err()
}

// Null helpers
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// nullStatus stores only codes from the status table; anything else is "no status".
func nullStatus(d snapshot.Device) sql.NullInt64 {
	c, ok := projector.LookupStatus(projector.StatusOf(d))
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(c.Code), Valid: true}
}
