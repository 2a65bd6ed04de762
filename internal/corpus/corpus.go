// Package corpus finds and loads the samples a scan runs over.
//
// Samples live in a gocloud blob bucket. A plain local path is opened with
// fileblob, anything carrying a URL scheme (file://, gs://, s3://) is passed
// to blob.OpenBucket.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
	"golang.org/x/exp/slices"

	"github.com/ossf/binpattern/internal/binfile"
	"github.com/ossf/binpattern/internal/scanner"
	"github.com/ossf/binpattern/internal/utils"
)

// DefaultExtension is used by Discover when no extension is given.
const DefaultExtension = "bin"

// ErrNoCode is returned when a sample yields no code section, whatever the
// underlying cause.
var ErrNoCode = errors.New("no code section found")

// Sample is one successfully loaded corpus file.
type Sample struct {
	Key    string
	Blob   scanner.Blob
	SHA256 string
	Info   binfile.Info
}

// Blobs returns the code Blobs of samples, in order.
func Blobs(samples []Sample) scanner.Corpus {
	corpus := make(scanner.Corpus, len(samples))
	for i, s := range samples {
		corpus[i] = s.Blob
	}
	return corpus
}

func hasScheme(location string) bool {
	return strings.Contains(location, "://")
}

// openBucket opens root as a bucket. A local directory that does not exist
// is reported with an error wrapping fs.ErrNotExist.
func openBucket(ctx context.Context, root string) (*blob.Bucket, error) {
	if hasScheme(root) {
		return blob.OpenBucket(ctx, root)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}
	return fileblob.OpenBucket(root, nil)
}

func normalizeExtensions(exts []string) []string {
	var normalized []string
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			normalized = append(normalized, "."+ext)
		}
	}
	if len(normalized) == 0 {
		normalized = []string{"." + DefaultExtension}
	}
	return utils.RemoveDuplicates(normalized)
}

func matchesExtension(key string, exts []string) bool {
	key = strings.ToLower(key)
	for _, ext := range exts {
		if strings.HasSuffix(key, ext) {
			return true
		}
	}
	return false
}

// Discover returns the keys below root, at any depth, whose name ends with
// one of exts. Extensions are compared case-insensitively and may be given
// with or without the leading dot. Keys are sorted lexicographically.
//
// A local root that does not exist has no keys.
func Discover(ctx context.Context, root string, exts []string) ([]string, error) {
	bkt, err := openBucket(ctx, root)
	if errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "Corpus root does not exist", "root", root)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", root, err)
	}
	defer bkt.Close()

	exts = normalizeExtensions(exts)
	var keys []string
	iter := bkt.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list corpus %s: %w", root, err)
		}
		if obj.IsDir || !matchesExtension(obj.Key, exts) {
			continue
		}
		keys = append(keys, obj.Key)
	}
	slices.Sort(keys)

	slog.DebugContext(ctx, "Discovered samples", "root", root, "count", len(keys))
	return keys, nil
}

// Load reads keys from root, in order, and extracts their code sections.
// Keys that cannot be read or hold no code section are skipped.
func Load(ctx context.Context, root string, keys []string) ([]Sample, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	bkt, err := openBucket(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", root, err)
	}
	defer bkt.Close()

	dec, err := newDecoder()
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var samples []Sample
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := loadSample(ctx, bkt, dec, key)
		if err != nil {
			slog.DebugContext(ctx, "Skipping sample", "key", key, "error", err)
			continue
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func readSample(ctx context.Context, bkt *blob.Bucket, dec *decoder, key string) ([]byte, error) {
	raw, err := bkt.ReadAll(ctx, key)
	if err != nil {
		return nil, err
	}
	return dec.decompress(raw)
}

func loadSample(ctx context.Context, bkt *blob.Bucket, dec *decoder, key string) (Sample, error) {
	data, err := readSample(ctx, bkt, dec, key)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrNoCode, err)
	}
	code, err := binfile.ExtractCode(data)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrNoCode, err)
	}
	s := Sample{
		Key:    key,
		Blob:   scanner.Blob(code),
		SHA256: utils.GetSHA256Hash(data),
	}
	if info, err := binfile.Describe(data); err == nil {
		s.Info = info
	}
	return s, nil
}

// Description is the binary information of one discovered file, whether or
// not it has a code section.
type Description struct {
	Key    string
	Size   int
	SHA256 string
	Info   binfile.Info
	// Err is set when the file could not be read or is not a PE image.
	Err error
}

// Inspect describes every key of the corpus at root, in order. Unlike Load it
// keeps files that cannot be scanned; their Description carries the reason.
func Inspect(ctx context.Context, root string, keys []string) ([]Description, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	bkt, err := openBucket(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", root, err)
	}
	defer bkt.Close()

	dec, err := newDecoder()
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	descs := make([]Description, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := Description{Key: key}
		data, err := readSample(ctx, bkt, dec, key)
		if err != nil {
			d.Err = err
			descs = append(descs, d)
			continue
		}
		d.Size = len(data)
		d.SHA256 = utils.GetSHA256Hash(data)
		d.Info, d.Err = binfile.Describe(data)
		descs = append(descs, d)
	}
	return descs, nil
}

// splitLocation turns the location of a single object into the bucket that
// holds it and its key.
func splitLocation(location string) (bucket, key string, err error) {
	if !hasScheme(location) {
		return filepath.Dir(location), filepath.Base(location), nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "file" {
		key = path.Base(u.Path)
		u.Path = path.Dir(u.Path)
	} else {
		key = strings.TrimPrefix(u.Path, "/")
		u.Path = ""
	}
	if key == "" || key == "." || key == "/" {
		return "", "", fmt.Errorf("%s: no object key", location)
	}
	return u.String(), key, nil
}

// LoadReference loads the code section of the single sample at location,
// a local path or an object URL. Every failure wraps ErrNoCode.
func LoadReference(ctx context.Context, location string) (Sample, error) {
	bucket, key, err := splitLocation(location)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrNoCode, err)
	}
	bkt, err := openBucket(ctx, bucket)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrNoCode, err)
	}
	defer bkt.Close()

	dec, err := newDecoder()
	if err != nil {
		return Sample{}, err
	}
	defer dec.Close()

	return loadSample(ctx, bkt, dec, key)
}
