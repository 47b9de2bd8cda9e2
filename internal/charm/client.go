// ABOUTME: Charm KV client wrapper for cloud model sync
// ABOUTME: Mirrors the persisted model document under prototype:/model: keys
package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"

	"github.com/malbsmeyer/equivocal/internal/storage"
)

// Key prefixes for synced entities
const (
	PrototypePrefix = "prototype:"
	modelKey        = "model:document"
)

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for the charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "equivocal",
		AutoSync: true,
	}
}

// Client wraps charm KV for model sync operations. The exported surface
// works in whole model documents; raw key access stays internal.
type Client struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// NewClient creates a new charm client with the given config
func NewClient(cfg *Config) (*Client, error) {
	// kv.OpenWithDefaults reads the host from the environment
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{kv: db, config: cfg}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

// Close closes the KV database
func (c *Client) Close() error {
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	return err
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	return c.kv.Sync()
}

// PushModel uploads the model document and its prototypes. Prototype
// keys no longer present in the document are removed so the cloud copy
// matches the local one.
func (c *Client) PushModel(doc *storage.ModelDocument) error {
	if doc == nil {
		return fmt.Errorf("no model document to push")
	}

	if err := c.setJSON(modelKey, doc); err != nil {
		return fmt.Errorf("failed to push model document: %w", err)
	}

	categories := make([]string, 0, len(doc.Categories))
	for name := range doc.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	for _, name := range categories {
		if err := c.setJSON(PrototypePrefix+name, doc.Categories[name]); err != nil {
			return fmt.Errorf("failed to push prototype %q: %w", name, err)
		}
	}

	// Drop cloud prototypes for categories deleted locally.
	existing, err := c.keysWithPrefix(PrototypePrefix)
	if err != nil {
		return err
	}
	for _, key := range existing {
		name := strings.TrimPrefix(key, PrototypePrefix)
		if _, ok := doc.Categories[name]; !ok {
			if err := c.deleteKey(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// PullModel downloads the model document from the cloud copy.
func (c *Client) PullModel() (*storage.ModelDocument, error) {
	if err := c.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync from cloud: %w", err)
	}

	var doc storage.ModelDocument
	if err := c.getJSON(modelKey, &doc); err != nil {
		return nil, fmt.Errorf("failed to pull model: %w", err)
	}
	return &doc, nil
}

// ListPrototypes returns the synced category names, sorted.
func (c *Client) ListPrototypes() ([]string, error) {
	keys, err := c.keysWithPrefix(PrototypePrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, PrototypePrefix))
	}
	sort.Strings(names)
	return names, nil
}

func (c *Client) setJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) getJSON(key string, dest interface{}) error {
	c.mu.Lock()
	data, err := c.kv.Get([]byte(key))
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (c *Client) deleteKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) keysWithPrefix(prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	var result []string
	for _, key := range keys {
		if keyStr := string(key); strings.HasPrefix(keyStr, prefix) {
			result = append(result, keyStr)
		}
	}
	return result, nil
}

// syncIfEnabled syncs to cloud after writes. Callers hold the lock.
func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}
