package dirsnap

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSigSuffix is appended to the archive path to locate a
// detached signature when no explicit signature path is given.
const DefaultSigSuffix = ".sig"

// writeConfig holds configuration for writing an archive file.
type writeConfig struct {
	compression Compression
	level       int
	signKey     ed25519.PrivateKey
	sigPath     string
}

// WriteOption configures WriteFile.
type WriteOption func(*writeConfig)

// WriteWithCompression compresses the serialized archive with the
// given algorithm before writing.
func WriteWithCompression(c Compression) WriteOption {
	return func(cfg *writeConfig) {
		cfg.compression = c
	}
}

// WriteWithLevel sets the compression level. Zero is the codec default.
func WriteWithLevel(level int) WriteOption {
	return func(cfg *writeConfig) {
		cfg.level = level
	}
}

// WriteWithSigningKey signs the written bytes (after compression) and
// stores the detached signature next to the archive.
func WriteWithSigningKey(priv ed25519.PrivateKey) WriteOption {
	return func(cfg *writeConfig) {
		cfg.signKey = priv
	}
}

// WriteWithSignaturePath overrides the detached signature location.
func WriteWithSignaturePath(path string) WriteOption {
	return func(cfg *writeConfig) {
		cfg.sigPath = path
	}
}

// readConfig holds configuration for reading an archive file.
type readConfig struct {
	verifyKey ed25519.PublicKey
	sigPath   string
}

// ReadOption configures ReadFile.
type ReadOption func(*readConfig)

// ReadWithVerifyKey verifies the file's detached signature before any
// decompression or parsing happens.
func ReadWithVerifyKey(pub ed25519.PublicKey) ReadOption {
	return func(cfg *readConfig) {
		cfg.verifyKey = pub
	}
}

// ReadWithSignaturePath overrides the detached signature location.
func ReadWithSignaturePath(path string) ReadOption {
	return func(cfg *readConfig) {
		cfg.sigPath = path
	}
}

// WriteFile serializes an archive and writes it to path: marshal,
// optionally compress, optionally sign, then an atomic temp-file +
// rename write. Parent directories are created as needed. The
// signature, when requested, covers exactly the bytes on disk.
func WriteFile(path string, a *Archive, opts ...WriteOption) error {
	cfg := writeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	data, err = Compress(data, cfg.compression, cfg.level)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}

	if cfg.signKey != nil {
		sigPath := cfg.sigPath
		if sigPath == "" {
			sigPath = path + DefaultSigSuffix
		}
		if err := writeFileAtomic(sigPath, Sign(data, cfg.signKey)); err != nil {
			// Clean up the archive on failure
			os.Remove(path)
			return fmt.Errorf("write signature file: %w", err)
		}
	}
	return nil
}

// ReadFile reads an archive file back into memory: read, optionally
// verify the detached signature, decompress (auto-detected), parse.
func ReadFile(path string, opts ...ReadOption) (*Archive, error) {
	cfg := readConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if cfg.verifyKey != nil {
		sigPath := cfg.sigPath
		if sigPath == "" {
			sigPath = path + DefaultSigSuffix
		}
		sig, err := os.ReadFile(sigPath)
		if err != nil {
			return nil, fmt.Errorf("read signature file: %w", err)
		}
		if err := Verify(data, sig, cfg.verifyKey); err != nil {
			return nil, err
		}
	}

	data, err = Decompress(data)
	if err != nil {
		return nil, err
	}
	return UnmarshalArchive(data)
}

// writeFileAtomic writes data to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".dirsnap-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
