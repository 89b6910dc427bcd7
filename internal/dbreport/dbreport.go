// Package dbreport runs read-only reports against the Artifactory and Xray
// PostgreSQL databases.
package dbreport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const connectTimeout = 30 * time.Second

// DB wraps a pgx connection pool for report queries.
type DB struct {
	pool *pgxpool.Pool
}

// Open connects to the database behind databaseURL and verifies it answers.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("open database: connection string is required")
	}
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: parse connection string: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(timeoutCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(timeoutCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("open database: ping: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EntityCounts holds the Access entity totals from the Artifactory database.
type EntityCounts struct {
	Users       int64
	Groups      int64
	Permissions int64
}

// Total sums all counted entities.
func (c EntityCounts) Total() int64 {
	return c.Users + c.Groups + c.Permissions
}

// AccessEntityCounts counts users, groups, and permissions in the
// Artifactory database.
func (db *DB) AccessEntityCounts(ctx context.Context) (*EntityCounts, error) {
	counts := &EntityCounts{}
	queries := []struct {
		table string
		dest  *int64
	}{
		{"access_users", &counts.Users},
		{"access_groups", &counts.Groups},
		{"access_permissions", &counts.Permissions},
	}
	for _, q := range queries {
		row := db.pool.QueryRow(ctx, "SELECT count(*) FROM "+q.table)
		if err := row.Scan(q.dest); err != nil {
			return nil, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	utils.WithComponent("dbreport").Info("Counted access entities",
		zap.Int64("users", counts.Users),
		zap.Int64("groups", counts.Groups),
		zap.Int64("permissions", counts.Permissions),
		zap.Int64("total", counts.Total()))
	return counts, nil
}

// maliciousComponentsQuery lists components flagged by the malicious-package
// feed in the Xray database.
const maliciousComponentsQuery = `
SELECT pv.id, pv.package_type, pvc.name
FROM public_vulnerabilities pv
JOIN public_vulnerabilities_components pvc ON pv.id = pvc.public_vulns_tbl_id
WHERE pv.summary LIKE 'Malicious package %'`

// WriteMaliciousComponentsCSV writes the malicious component report from the
// Xray database as CSV and returns the number of data rows written.
func (db *DB) WriteMaliciousComponentsCSV(ctx context.Context, w io.Writer) (int, error) {
	rows, err := db.pool.Query(ctx, maliciousComponentsQuery)
	if err != nil {
		return 0, fmt.Errorf("query malicious components: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "package_type", "component_name"}); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	written := 0
	for rows.Next() {
		var (
			id      int64
			pkgType string
			name    string
		)
		if err := rows.Scan(&id, &pkgType, &name); err != nil {
			return written, fmt.Errorf("scan malicious component row: %w", err)
		}
		if err := cw.Write([]string{strconv.FormatInt(id, 10), pkgType, name}); err != nil {
			return written, fmt.Errorf("write csv row: %w", err)
		}
		written++
	}
	if err := rows.Err(); err != nil {
		return written, fmt.Errorf("read malicious components: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("flush csv: %w", err)
	}

	utils.WithComponent("dbreport").Info("Wrote malicious component report",
		zap.Int("rows", written))
	return written, nil
}
