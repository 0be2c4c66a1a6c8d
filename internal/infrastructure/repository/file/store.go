package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/league-history/internal/domain/owner"
	"github.com/riskibarqy/league-history/internal/domain/season"
	"github.com/valyala/bytebufferpool"
)

const (
	documentVersion = 1
	seasonsFile     = "seasons.json"
	ownersFile      = "owners.json"
)

var ErrUnsupportedVersion = errors.New("unsupported document version")

type seasonDocument struct {
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Seasons   []season.Season `json:"seasons"`
}

type ownerDocument struct {
	Version   int           `json:"version"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Owners    []owner.Owner `json:"owners"`
}

// Store keeps each collection in one JSON document under dir. Writes go to
// a temp file that is renamed over the document, so readers never see a
// partial file.
type Store struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// ListSeasons returns nothing, without error, before the first write.
func (s *Store) ListSeasons(ctx context.Context) ([]season.Season, error) {
	var doc seasonDocument
	found, err := s.read(ctx, seasonsFile, &doc)
	if err != nil || !found {
		return []season.Season{}, err
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("read %s: %w (%d)", seasonsFile, ErrUnsupportedVersion, doc.Version)
	}
	if doc.Seasons == nil {
		doc.Seasons = []season.Season{}
	}
	return doc.Seasons, nil
}

func (s *Store) ReplaceSeasons(ctx context.Context, seasons []season.Season) error {
	ordered := append([]season.Season(nil), seasons...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Year < ordered[j].Year
	})

	return s.write(ctx, seasonsFile, seasonDocument{
		Version:   documentVersion,
		UpdatedAt: s.now().UTC(),
		Seasons:   ordered,
	})
}

func (s *Store) ListOwners(ctx context.Context) ([]owner.Owner, error) {
	var doc ownerDocument
	found, err := s.read(ctx, ownersFile, &doc)
	if err != nil || !found {
		return []owner.Owner{}, err
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("read %s: %w (%d)", ownersFile, ErrUnsupportedVersion, doc.Version)
	}
	if doc.Owners == nil {
		doc.Owners = []owner.Owner{}
	}
	return doc.Owners, nil
}

func (s *Store) ReplaceOwners(ctx context.Context, owners []owner.Owner) error {
	return s.write(ctx, ownersFile, ownerDocument{
		Version:   documentVersion,
		UpdatedAt: s.now().UTC(),
		Owners:    append([]owner.Owner(nil), owners...),
	})
}

func (s *Store) read(ctx context.Context, name string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (s *Store) write(ctx context.Context, name string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigDefault.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
