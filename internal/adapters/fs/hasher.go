package fs

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes task signatures from the task definition and input contents.
type Hasher struct {
	limit int
}

// NewHasher creates a new Hasher that hashes up to NumCPU files at once.
func NewHasher() *Hasher {
	return &Hasher{limit: runtime.NumCPU()}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeSignature computes a single hash representing the task definition,
// the content of its input files and the content of its prerequisites.
func (h *Hasher) ComputeSignature(ctx context.Context, task *domain.Task) (string, error) {
	hasher := xxhash.New()
	h.hashTaskDefinition(task, hasher)
	h.hashEnvironment(task.Environment, hasher)

	sums, err := h.hashInputs(ctx, domain.Strings(task.Inputs))
	if err != nil {
		return "", err
	}
	for i, input := range task.Inputs {
		_, _ = hasher.WriteString(input.String())
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, sums[i]); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	if err := h.hashPrerequisites(task.Prerequisites, hasher); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// absentMarker stands in for the content of a prerequisite that does not exist yet.
var absentMarker = []byte{0xff, 'a', 'b', 's', 'e', 'n', 't'}

// hashPrerequisites hashes the path and content of every prerequisite, so a
// rebuilt core library invalidates the artifacts linked against it.
func (h *Hasher) hashPrerequisites(prerequisites []domain.InternedString, hasher *xxhash.Digest) error {
	_, _ = hasher.Write([]byte{0})
	for _, pre := range prerequisites {
		path := pre.String()
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})

		if _, err := os.Stat(path); errors.Is(err, iofs.ErrNotExist) {
			_, _ = hasher.Write(absentMarker)
			continue
		}
		sum, err := h.ComputeFileHash(path)
		if err != nil {
			return err
		}
		if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
			return zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return nil
}

// hashTaskDefinition hashes the task's kind, command line, inputs and outputs.
func (h *Hasher) hashTaskDefinition(task *domain.Task, hasher *xxhash.Digest) {
	_, _ = hasher.WriteString(string(task.Kind))
	_, _ = hasher.Write([]byte{0})

	for _, arg := range task.Command {
		_, _ = hasher.WriteString(arg)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, output := range task.Outputs {
		_, _ = hasher.WriteString(output.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// hashEnvironment hashes environment variables in a deterministic order.
func (h *Hasher) hashEnvironment(env map[string]string, hasher *xxhash.Digest) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// hashInputs hashes every path concurrently and returns the sums in input order.
func (h *Hasher) hashInputs(ctx context.Context, paths []string) ([]uint64, error) {
	sums := make([]uint64, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(h.limit, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := h.ComputeFileHash(path)
			if err != nil {
				return err
			}
			sums[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}
