// Package store persists prompt configurations to SQLite. Configurations are
// versioned per name: saving under an existing name appends a new version
// instead of overwriting, so earlier revisions stay recoverable.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/promptloom/promptloom/composer"
	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/logger"
	"github.com/promptloom/promptloom/stack"
)

// StoredConfig is one persisted configuration version.
type StoredConfig struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Version      int           `json:"version"`
	Mode         composer.Mode `json:"mode"`
	CustomPrompt string        `json:"custom_prompt"`
	PresetName   string        `json:"preset_name,omitempty"`
	Tokens       []*stack.Item `json:"tokens"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Config converts the stored row back to the composer's configuration shape.
func (c *StoredConfig) Config() composer.Config {
	return composer.Config{
		Mode:         c.Mode,
		CustomPrompt: c.CustomPrompt,
		PresetName:   c.PresetName,
		Tokens:       c.Tokens,
	}
}

// ConfigStore reads and writes prompt_configs rows.
type ConfigStore struct {
	db *sql.DB
}

// NewConfigStore creates a store backed by an opened database.
func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// SaveConfig persists a configuration under a name, assigning the next
// version for that name.
func (s *ConfigStore) SaveConfig(name string, cfg composer.Config) (*StoredConfig, error) {
	if name == "" {
		return nil, errors.NewInvalidRequestError("config name is required")
	}

	tokensJSON, err := json.Marshal(cfg.Tokens)
	if err != nil {
		return nil, errors.Wrap(err, "marshal tokens")
	}
	if cfg.Tokens == nil {
		tokensJSON = []byte("[]")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRow(
		"SELECT COALESCE(MAX(version), 0) + 1 FROM prompt_configs WHERE name = ?",
		name,
	).Scan(&version)
	if err != nil {
		return nil, errors.Wrapf(err, "next version for %q", name)
	}

	stored := &StoredConfig{
		ID:           uuid.NewString(),
		Name:         name,
		Version:      version,
		Mode:         cfg.Mode,
		CustomPrompt: cfg.CustomPrompt,
		PresetName:   cfg.PresetName,
		Tokens:       cfg.Tokens,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = tx.Exec(`
		INSERT INTO prompt_configs (id, name, version, mode, custom_prompt, preset_name, tokens_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, stored.Name, stored.Version, string(stored.Mode),
		stored.CustomPrompt, stored.PresetName, string(tokensJSON),
		stored.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrapf(err, "insert config %q", name)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit tx")
	}

	logger.Debugw("Config saved",
		logger.FieldConfigID, stored.ID,
		logger.FieldConfigName, stored.Name,
		logger.FieldVersion, stored.Version,
	)
	return stored, nil
}

const selectColumns = "id, name, version, mode, custom_prompt, preset_name, tokens_json, created_at"

// GetByName returns the latest version saved under a name.
func (s *ConfigStore) GetByName(name string) (*StoredConfig, error) {
	row := s.db.QueryRow(`
		SELECT `+selectColumns+` FROM prompt_configs
		WHERE name = ? ORDER BY version DESC LIMIT 1
	`, name)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("config %q", name)
	}
	return cfg, err
}

// GetByID returns one specific stored version.
func (s *ConfigStore) GetByID(id string) (*StoredConfig, error) {
	row := s.db.QueryRow(`
		SELECT `+selectColumns+` FROM prompt_configs WHERE id = ?
	`, id)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("config id %q", id)
	}
	return cfg, err
}

// List returns the latest version of every named configuration, ordered by
// name.
func (s *ConfigStore) List() ([]*StoredConfig, error) {
	rows, err := s.db.Query(`
		SELECT ` + selectColumns + ` FROM prompt_configs p
		WHERE version = (SELECT MAX(version) FROM prompt_configs WHERE name = p.name)
		ORDER BY name
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list configs")
	}
	defer rows.Close()
	return scanConfigs(rows)
}

// Versions returns every stored version of a name, newest first.
func (s *ConfigStore) Versions(name string) ([]*StoredConfig, error) {
	rows, err := s.db.Query(`
		SELECT `+selectColumns+` FROM prompt_configs
		WHERE name = ? ORDER BY version DESC
	`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "versions of %q", name)
	}
	defer rows.Close()
	return scanConfigs(rows)
}

// DeleteConfig removes every version saved under a name.
func (s *ConfigStore) DeleteConfig(name string) error {
	result, err := s.db.Exec("DELETE FROM prompt_configs WHERE name = ?", name)
	if err != nil {
		return errors.Wrapf(err, "delete config %q", name)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.NewNotFoundError("config %q", name)
	}

	logger.Debugw("Config deleted",
		logger.FieldConfigName, name,
		"versions_removed", affected,
	)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*StoredConfig, error) {
	var (
		cfg        StoredConfig
		mode       string
		tokensJSON string
		createdAt  string
	)
	err := row.Scan(&cfg.ID, &cfg.Name, &cfg.Version, &mode,
		&cfg.CustomPrompt, &cfg.PresetName, &tokensJSON, &createdAt)
	if err != nil {
		return nil, err
	}

	cfg.Mode = composer.Mode(mode)
	if err := json.Unmarshal([]byte(tokensJSON), &cfg.Tokens); err != nil {
		return nil, errors.Wrapf(err, "unmarshal tokens for config %s", cfg.ID)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		cfg.CreatedAt = t
	}
	return &cfg, nil
}

func scanConfigs(rows *sql.Rows) ([]*StoredConfig, error) {
	var out []*StoredConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan config row")
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}
