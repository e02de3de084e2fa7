// Package keystore reads and writes the YAML file holding the application
// keys and the user's access token.
package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kipanshi/odesk-meter/pkg/oauth1"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("keys file not found")

// Keys is the content of the keys file.
type Keys struct {
	Key               string `yaml:"key"`
	Secret            string `yaml:"secret"`
	AccessToken       string `yaml:"access_token,omitempty"`
	AccessTokenSecret string `yaml:"access_token_secret,omitempty"`
}

// Credentials returns the application credentials.
func (k *Keys) Credentials() oauth1.Credentials {
	return oauth1.Credentials{ConsumerKey: k.Key, ConsumerSecret: k.Secret}
}

// Token returns the stored access token, or nil before authorization.
func (k *Keys) Token() *oauth1.Token {
	if !k.Authorized() {
		return nil
	}
	return &oauth1.Token{Key: k.AccessToken, Secret: k.AccessTokenSecret}
}

// Authorized reports whether an access token is stored.
func (k *Keys) Authorized() bool {
	return k.AccessToken != "" && k.AccessTokenSecret != ""
}

// SetToken stores tok, or clears the stored token when tok is nil.
func (k *Keys) SetToken(tok *oauth1.Token) {
	if tok == nil {
		k.AccessToken, k.AccessTokenSecret = "", ""
		return
	}
	k.AccessToken, k.AccessTokenSecret = tok.Key, tok.Secret
}

func (k *Keys) Validate() error {
	if k.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if k.Secret == "" {
		return fmt.Errorf("secret cannot be empty")
	}
	return nil
}

// Load reads and validates the keys file at path.
func Load(path string) (*Keys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read keys file: %w", err)
	}

	var k Keys
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse keys file %s: %w", path, err)
	}
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("keys file %s: %w", path, err)
	}
	return &k, nil
}

// Save writes k to path, readable only by the owner.
func Save(path string, k *Keys) error {
	if err := k.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(k)
	if err != nil {
		return fmt.Errorf("encode keys: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create keys directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write keys file: %w", err)
	}
	return nil
}
