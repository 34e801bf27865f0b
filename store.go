package preview

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// DirPerm is the mode used when the cache directory has to be created.
const DirPerm os.FileMode = 0o775

// Store is the on-disk cache of encoded previews. Files are named
// <fingerprint>.<extension> directly under the cache directory and are never
// rewritten once present.
//
// Store is safe for concurrent use, also across processes sharing the
// directory: files are written under a private temporary name and renamed
// into place, so a reader sees either no file or a complete one.
type Store struct {
	dir    string
	mode   os.FileMode
	flight singleflight.Group
}

// NewStore returns a Store writing into dir and applying mode to new files.
func NewStore(dir string, mode os.FileMode) *Store {
	return &Store{dir: dir, mode: mode}
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the full path of the cache file name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether the cache file name is present.
func (s *Store) Exists(name string) (bool, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(classify(ErrEncode, err), "path", s.Path(name))
	}
	if info.IsDir() {
		return false, zerr.With(classify(ErrEncode, errors.New("cache entry is a directory")), "path", s.Path(name))
	}
	return true, nil
}

// Ensure returns the path of the cache file name, calling produce to create
// it when it does not exist yet. Concurrent Ensure calls for the same name in
// this process share a single produce call and its result. produce is given
// the final path and is expected to call Publish.
//
// The returned bool is true when this call (or the call it joined) ran
// produce.
func (s *Store) Ensure(name string, produce func(path string) error) (string, bool, error) {
	path := s.Path(name)

	ok, err := s.Exists(name)
	if err != nil {
		return "", false, err
	}
	if ok {
		return path, false, nil
	}

	v, err, _ := s.flight.Do(name, func() (any, error) {
		// Another flight may have published between the check above and now.
		ok, err := s.Exists(name)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
		if err := produce(path); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return "", false, err
	}
	return path, v.(bool), nil
}

// Publish writes the cache file name with write, atomically.
//
// The content goes to a temporary file in the cache directory, which is
// synced, given the store's file mode and renamed onto the final name. On any
// failure the temporary file is removed and nothing appears under name.
func (s *Store) Publish(name string, write func(w io.Writer) error) (string, error) {
	path := s.Path(name)

	if err := os.MkdirAll(s.dir, DirPerm); err != nil {
		return "", zerr.With(classify(ErrEncode, err), "dir", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", zerr.With(classify(ErrEncode, err), "dir", s.dir)
	}
	tmpName := tmp.Name()
	published := false
	defer func() {
		if !published {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		return "", zerr.With(classify(ErrEncode, err), "path", path)
	}
	if err := tmp.Sync(); err != nil {
		return "", zerr.With(classify(ErrEncode, err), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(classify(ErrEncode, err), "path", path)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		return "", zerr.With(classify(ErrEncode, err), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", zerr.With(classify(ErrEncode, err), "path", path)
	}

	published = true
	return path, nil
}
