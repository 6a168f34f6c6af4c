package cache

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemCache stores each tile in its own file below Root.
// Files are spread over hashed directories: <root>/a/ab/ab5/<server>_<z>_<x>_<y>.<ext>
// where "ab5..." is the hex md5 of the file name.
type FilesystemCache struct {
	Root string
}

var _ TileCache = (*FilesystemCache)(nil)

func NewFilesystemCache(root string) (*FilesystemCache, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &FilesystemCache{Root: root}, nil
}

func (c *FilesystemCache) Get(k TileCacheKey) (TileCacheValue, bool, error) {
	content, err := os.ReadFile(c.Path(k))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return content, true, nil
}

func (c *FilesystemCache) Set(k TileCacheKey, v TileCacheValue) error {
	path := c.Path(k)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tile_*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(v); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Path returns the sharded location of the tile file. The directories are the first one, two
// and three hex digits of the md5 of the file name. Changing them orphans every cached tile.
func (c *FilesystemCache) Path(k TileCacheKey) string {
	name := k.FileName()
	sum := md5.Sum([]byte(name))
	h := hex.EncodeToString(sum[:2])
	return filepath.Join(c.Root, h[:1], h[:2], h[:3], name)
}
