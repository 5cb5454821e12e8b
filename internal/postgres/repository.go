package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
)

// Repository provides PostgreSQL-based data access for accounts and their
// cached aggregate stats
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			steam_id VARCHAR(32) UNIQUE,
			xbox_id VARCHAR(32) UNIQUE,
			psn_id VARCHAR(64) UNIQUE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS aggregate_stats (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			total_games INT NOT NULL DEFAULT 0,
			total_platinums INT NOT NULL DEFAULT 0,
			recent_games INT NOT NULL DEFAULT 0,
			total_achievements INT NOT NULL DEFAULT 0,
			total_hours INT NOT NULL DEFAULT 0,
			avg_platinum_percent INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// CreateUser inserts an account and its zero-valued stats row in one
// transaction
func (r *Repository) CreateUser(ctx context.Context, user domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, user.ID, user.Username, user.Email, user.PasswordHash, now)
	if err != nil {
		return mapUniqueViolation(err, "creating user")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO aggregate_stats (user_id, updated_at) VALUES ($1, $2)
	`, user.ID, now)
	if err != nil {
		return fmt.Errorf("creating stats row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing user creation: %w", err)
	}
	return nil
}

const userColumns = `id, username, email, password_hash, steam_id, xbox_id, psn_id, created_at, updated_at`

// GetUserByID retrieves an account by its ID
func (r *Repository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetUserByLogin retrieves an account by username or email
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.SteamID,
		&user.XboxID,
		&user.PSNID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &user, nil
}

// UpdatePlatformIDs applies the non-nil fields of the link request. An
// explicit empty string unlinks a platform.
func (r *Repository) UpdatePlatformIDs(ctx context.Context, userID string, req domain.LinkPlatformsRequest) (*domain.User, error) {
	set := []string{"updated_at = $2"}
	args := []any{userID, time.Now()}

	appendField := func(column string, value *string) {
		if value == nil {
			return
		}
		if *value == "" {
			set = append(set, column+" = NULL")
			return
		}
		args = append(args, *value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	appendField("steam_id", req.SteamID)
	appendField("xbox_id", req.XboxID)
	appendField("psn_id", req.PSNID)

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	row := r.pool.QueryRow(ctx, query, args...)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, mapUniqueViolation(err, "linking platform ids")
	}
	return user, nil
}

// GetStats retrieves the cached aggregate stats for an account
func (r *Repository) GetStats(ctx context.Context, userID string) (*domain.AggregateStats, error) {
	var stats domain.AggregateStats
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, total_games, total_platinums, recent_games,
		       total_achievements, total_hours, avg_platinum_percent, updated_at
		FROM aggregate_stats
		WHERE user_id = $1
	`, userID).Scan(
		&stats.UserID,
		&stats.TotalGames,
		&stats.TotalPlatinums,
		&stats.RecentGames,
		&stats.TotalAchievements,
		&stats.TotalHours,
		&stats.AvgPlatinumPercent,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	return &stats, nil
}

// SaveStats overwrites the cached aggregate stats row. Last writer wins.
func (r *Repository) SaveStats(ctx context.Context, userID string, update domain.StatsUpdate) (*domain.AggregateStats, error) {
	var stats domain.AggregateStats
	err := r.pool.QueryRow(ctx, `
		UPDATE aggregate_stats
		SET total_games = $2,
		    total_platinums = $3,
		    recent_games = $4,
		    total_achievements = $5,
		    total_hours = $6,
		    avg_platinum_percent = $7,
		    updated_at = $8
		WHERE user_id = $1
		RETURNING user_id, total_games, total_platinums, recent_games,
		          total_achievements, total_hours, avg_platinum_percent, updated_at
	`, userID,
		update.TotalGames,
		update.TotalPlatinums,
		update.RecentGames,
		update.TotalAchievements,
		update.TotalHours,
		update.AvgPlatinumPercent,
		time.Now(),
	).Scan(
		&stats.UserID,
		&stats.TotalGames,
		&stats.TotalPlatinums,
		&stats.RecentGames,
		&stats.TotalAchievements,
		&stats.TotalHours,
		&stats.AvgPlatinumPercent,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("saving stats: %w", err)
	}
	return &stats, nil
}

// mapUniqueViolation translates unique-constraint violations into the
// matching domain error
func mapUniqueViolation(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return domain.ErrUsernameTaken
		case strings.Contains(pgErr.ConstraintName, "email"):
			return domain.ErrEmailTaken
		case strings.Contains(pgErr.ConstraintName, "steam_id"),
			strings.Contains(pgErr.ConstraintName, "xbox_id"),
			strings.Contains(pgErr.ConstraintName, "psn_id"):
			return domain.ErrPlatformIDTaken
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}
