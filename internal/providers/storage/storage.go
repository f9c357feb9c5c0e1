// Package storage writes generated files into the locally served public/
// tree and hands back the relative URL stored on the referencing row.
package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
)

type Provider interface {
	// Save writes data under dir with a generated name and returns the
	// relative URL, e.g. "/receipts/01J....pdf".
	Save(dir, ext string, data []byte) (string, error)
	// Open reads a previously saved file by its relative URL.
	Open(relURL string) ([]byte, error)
}

type LocalProvider struct {
	root string
}

func NewLocal(root string) *LocalProvider {
	return &LocalProvider{root: root}
}

func (p *LocalProvider) Save(dir, ext string, data []byte) (string, error) {
	name := fmt.Sprintf("%s.%s", ulid.Make().String(), strings.TrimPrefix(ext, "."))
	fullDir := filepath.Join(p.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(fullDir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/" + path.Join(dir, name), nil
}

func (p *LocalProvider) Open(relURL string) ([]byte, error) {
	clean := path.Clean("/" + relURL)
	return os.ReadFile(filepath.Join(p.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
}

func NewFromConfig(cfg config.Config) Provider {
	return NewLocal(cfg.PublicDir)
}

var Module = fx.Module("providers.storage",
	fx.Provide(NewFromConfig),
)
