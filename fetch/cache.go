package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// UserCache selects the per-user cache directory.
const UserCache = "user"

// resolveCacheDir turns the configured cache dir into a usable path,
// creating it. An empty dir disables caching.
func resolveCacheDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	if dir != UserCache {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrapf(err, "can't create cache dir %s", dir)
		}
		return dir, nil
	}

	cachedir, err := os.UserCacheDir()
	if err == nil {
		homusFolder := filepath.Join(cachedir, "homus")
		if err = os.MkdirAll(homusFolder, 0700); err == nil {
			return homusFolder, nil
		}
	}

	// fall back to the home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	homusFolder := filepath.Join(home, ".homus-cache")
	if err := os.MkdirAll(homusFolder, 0700); err != nil {
		return "", err
	}
	return homusFolder, nil
}

func fileSHA256(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// verify checks the archive against the size and checksum the dataset
// declares. Unset fields are not checked.
func verify(name string, ds Dataset) error {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}
	if ds.Size > 0 && fi.Size() != ds.Size {
		return errors.Errorf("size mismatch: got %d bytes, expected %d", fi.Size(), ds.Size)
	}
	if ds.SHA256 == "" {
		return nil
	}

	sum, err := fileSHA256(name)
	if err != nil {
		return err
	}
	if !strings.EqualFold(sum, ds.SHA256) {
		return errors.Errorf("checksum mismatch: got %s, expected %s", sum, ds.SHA256)
	}
	return nil
}
