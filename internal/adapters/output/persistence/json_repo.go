package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"lightbridge/internal/domain/model"
	"os"
	"path/filepath"
	"sync"
)

// JSONCredentialRepository stores the gateway credentials in a settings file.
type JSONCredentialRepository struct {
	filepath string
	mu       sync.RWMutex
}

func NewJSONCredentialRepository(filepath string) *JSONCredentialRepository {
	return &JSONCredentialRepository{filepath: filepath}
}

func (r *JSONCredentialRepository) Path() string {
	return r.filepath
}

// Get loads the settings file. A missing file yields empty credentials so the
// first start goes straight to pairing.
func (r *JSONCredentialRepository) Get(ctx context.Context) (*model.Credentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Credentials{}, nil
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.filepath, err)
	}
	return &creds, nil
}

// Save rewrites the settings file through a temp file and rename, so readers
// see either the old or the new credentials. Keys other than the credential
// fields are kept as found in the file.
func (r *JSONCredentialRepository) Save(ctx context.Context, creds *model.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, err := r.readSettings()
	if err != nil {
		return err
	}

	fields, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	var updates map[string]json.RawMessage
	if err := json.Unmarshal(fields, &updates); err != nil {
		return err
	}
	for k, v := range updates {
		settings[k] = v
	}

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.filepath), "."+filepath.Base(r.filepath)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return err
	}
	return os.Rename(tmpName, r.filepath)
}

func (r *JSONCredentialRepository) readSettings() (map[string]json.RawMessage, error) {
	settings := make(map[string]json.RawMessage)
	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.filepath, err)
	}
	if settings == nil {
		settings = make(map[string]json.RawMessage)
	}
	return settings, nil
}
