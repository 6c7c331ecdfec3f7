package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"street-name-validation/internal/constants"
	"street-name-validation/internal/models"
	"street-name-validation/pkg/config"
	errs "street-name-validation/pkg/errors"
	"street-name-validation/pkg/utils"

	_ "github.com/go-sql-driver/mysql"
)

// DB wraps the upstream street dataset. Two access patterns matter here:
// the date-delta corpus query used by refresh and the exact-match lookup
// used to build "already exists" messages. Lookups are memoized because the
// engine may re-run them on every keystroke burst.
type DB struct {
	conn        *sql.DB
	stmts       map[string]*sql.Stmt
	readTimeout time.Duration
	lookupCache *gocache.Cache
}

func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{
		conn:        conn,
		stmts:       make(map[string]*sql.Stmt),
		readTimeout: constants.DBReadTimeoutDefault,
		lookupCache: gocache.New(constants.LookupCacheTTL, constants.LookupCacheCleanup),
	}

	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.New", "failed to prepare statements", err)
	}

	return db, nil
}

// NewWithConfig creates a database connection with custom pool settings.
func NewWithConfig(databaseURL string, cfg *config.Config) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	rt := cfg.DBReadTimeout
	if rt == 0 {
		rt = constants.DBReadTimeoutDefault
	}

	db := &DB{
		conn:        conn,
		stmts:       make(map[string]*sql.Stmt),
		readTimeout: rt,
		lookupCache: gocache.New(constants.LookupCacheTTL, constants.LookupCacheCleanup),
	}

	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.NewWithConfig", "failed to prepare statements", err)
	}

	return db, nil
}

func (db *DB) prepareStatements() error {
	statements := map[string]string{
		"namesSince": `SELECT st_name FROM streets
                       WHERE date_st_entered >= ?
                       ORDER BY st_name ASC`,
		"exactLookup": `SELECT dir_prefix, st_name, st_type, plan_juris FROM streets
                        WHERE REPLACE(UPPER(st_name), ' ', '') = ?
                        LIMIT 1`,
	}

	for name, query := range statements {
		stmt, err := db.conn.Prepare(query)
		if err != nil {
			return errs.NewDB("database.prepareStatements", fmt.Sprintf("failed to prepare statement %s", name), err)
		}
		db.stmts[name] = stmt
	}

	return nil
}

// NamesEnteredSince implements corpus.Source: names entered on or after the
// watermark, ascending, names only. The MM/DD/YYYY watermark is converted to
// the SQL date form here.
func (db *DB) NamesEnteredSince(ctx context.Context, watermark string) ([]string, error) {
	since, err := time.Parse(constants.WatermarkLayout, watermark)
	if err != nil {
		return nil, errs.NewValidation("database.NamesEnteredSince", "bad watermark date", err)
	}

	ctx, cancel := context.WithTimeout(ctx, db.readTimeout)
	defer cancel()

	rows, err := db.stmts["namesSince"].QueryContext(ctx, since.Format("2006-01-02"))
	if err != nil {
		return nil, errs.NewDB("database.NamesEnteredSince", "query failed", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, errs.NewDB("database.NamesEnteredSince", "scan failed", err)
		}
		if name.Valid && name.String != "" {
			names = append(names, name.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.NamesEnteredSince", "rows iteration failed", err)
	}
	return names, nil
}

// LookupExact returns the attribute fields of the existing street whose
// normalized name equals the candidate's, or nil when none exists.
func (db *DB) LookupExact(ctx context.Context, name string) (*models.StreetRecord, error) {
	key := utils.NormalizeKey(name)
	if key == "" {
		return nil, nil
	}
	if cached, found := db.lookupCache.Get(key); found {
		return cached.(*models.StreetRecord), nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.readTimeout)
	defer cancel()

	var dir, stName, stType, juris sql.NullString
	err := db.stmts["exactLookup"].QueryRowContext(ctx, key).Scan(&dir, &stName, &stType, &juris)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDB("database.LookupExact", "query failed", err)
	}

	rec := &models.StreetRecord{
		DirPrefix:    dir.String,
		Name:         stName.String,
		Type:         stType.String,
		Jurisdiction: juris.String,
	}
	db.lookupCache.Set(key, rec, gocache.DefaultExpiration)
	return rec, nil
}

// Ping verifies connectivity, used by health checks.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection and prepared statements.
func (db *DB) Close() error {
	for _, stmt := range db.stmts {
		stmt.Close()
	}
	return db.conn.Close()
}
