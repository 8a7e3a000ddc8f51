package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperifyio/reportfinder/internal/lookup"
)

// Entry is one checkpointed search outcome.
type Entry struct {
	lookup.Outcome
	SavedAt time.Time `json:"saved_at"`
}

// OutcomeCache checkpoints per-domain search outcomes on disk as
// <sha256(domain)>.json so an interrupted run can resume without repeating
// finished searches. No eviction policy is included; see PurgeByAge.
type OutcomeCache struct {
	Dir string
	// StrictPerms, when true, enforces 0700 on the directory and 0600 on files.
	StrictPerms bool
}

func (c *OutcomeCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

func key(domain string) string {
	h := sha256.Sum256([]byte(strings.ToLower(domain)))
	return hex.EncodeToString(h[:])
}

func (c *OutcomeCache) pathFor(domain string) string {
	return filepath.Join(c.Dir, key(domain)+".json")
}

// Load returns the checkpointed outcome for domain. A missing entry is not an
// error and reports ok=false.
func (c *OutcomeCache) Load(_ context.Context, domain string) (lookup.Outcome, bool, error) {
	if err := c.ensureDir(); err != nil {
		return lookup.Outcome{}, false, err
	}
	b, err := os.ReadFile(c.pathFor(domain))
	if errors.Is(err, os.ErrNotExist) {
		return lookup.Outcome{}, false, nil
	}
	if err != nil {
		return lookup.Outcome{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return lookup.Outcome{}, false, fmt.Errorf("decode checkpoint for %s: %w", domain, err)
	}
	if e.Domain != domain {
		return lookup.Outcome{}, false, nil
	}
	return e.Outcome, true, nil
}

// Save writes the outcome atomically (temp file and rename).
func (c *OutcomeCache) Save(_ context.Context, o lookup.Outcome) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	b, err := json.Marshal(Entry{Outcome: o, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	p := c.pathFor(o.Domain)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, mode); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return os.Rename(tmp, p)
}
