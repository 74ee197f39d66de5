// Package memimg keeps skin tiles in memory, scaled to the block size, and
// reloads them when the files change.
package memimg

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Tile names looked up by the renderer, without extension.
const (
	TileHead = "head"
	TileBody = "body"
	TileFood = "food"
)

var exts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Skins is a name → tile cache.
type Skins struct {
	mu        sync.RWMutex
	tiles     map[string]image.Image
	blockSize int
}

func NewSkins(blockSize int) *Skins {
	return &Skins{tiles: make(map[string]image.Image), blockSize: blockSize}
}

// Load reads every image in directory. A missing directory is not an error.
func (s *Skins) Load(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if err := s.loadFile(path); err != nil {
			// 坏图跳过，不影响其他皮肤
			log.Err(err).Str("path", path).Msg("skip skin")
		}
		return nil
	})
}

func (s *Skins) loadFile(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	img = imaging.Resize(img, s.blockSize, s.blockSize, imaging.Lanczos)
	s.mu.Lock()
	s.tiles[tileName(path)] = img
	s.mu.Unlock()
	return nil
}

func (s *Skins) remove(path string) {
	s.mu.Lock()
	delete(s.tiles, tileName(path))
	s.mu.Unlock()
}

func tileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Get returns a tile by name.
func (s *Skins) Get(name string) (image.Image, bool) {
	s.mu.RLock()
	img, exists := s.tiles[name]
	s.mu.RUnlock()
	return img, exists
}

// Len reports how many tiles are loaded.
func (s *Skins) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}

// Watch keeps the cache in sync with directory until ctx is done.
func (s *Skins) Watch(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !exts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create:
				if err := s.loadFile(event.Name); err != nil {
					log.Err(err).Str("path", event.Name).Msg("reload skin")
				}
			case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
				s.remove(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Err(err).Str("dir", directory).Msg("skin watcher")
		}
	}
}
