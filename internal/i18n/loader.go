package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Loader reads the translation file of one locale. A missing file is
// reported with an error wrapping fs.ErrNotExist.
type Loader interface {
	Load(locale string) (map[string]string, error)
}

// FSLoader reads "<locale>.yaml" files from an fs.FS.
type FSLoader struct {
	FS fs.FS
}

// EmbeddedLoader reads the translation files shipped with the binary.
func EmbeddedLoader() FSLoader {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		// fs.Sub only fails on an invalid path.
		panic(err)
	}
	return FSLoader{FS: sub}
}

// DirLoader reads translation files from a directory on disk.
func DirLoader(dir string) FSLoader {
	return FSLoader{FS: os.DirFS(dir)}
}

func (l FSLoader) Load(locale string) (map[string]string, error) {
	name := NormalizeLocale(locale) + ".yaml"
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("translation file %s: %w", name, err)
	}
	return out, nil
}

// ChainLoader merges several loaders; earlier loaders win per key.
type ChainLoader []Loader

func (c ChainLoader) Load(locale string) (map[string]string, error) {
	out := make(map[string]string)
	found := false
	for i := len(c) - 1; i >= 0; i-- {
		m, err := c[i].Load(locale)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		found = true
		for k, v := range m {
			out[k] = v
		}
	}
	if !found {
		return nil, fmt.Errorf("translations for %s: %w", locale, fs.ErrNotExist)
	}
	return out, nil
}
