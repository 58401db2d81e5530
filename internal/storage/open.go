package storage

import "fmt"

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and locates the backing store
type Options struct {
	Backend      string
	GameFile     string
	LedgerFile   string
	DatabasePath string
}

// Stores holds the blobs for both documents
type Stores struct {
	Game   Blob
	Ledger Blob
	repo   *Repository
}

// Open creates the blobs for the configured backend
func Open(opts Options) (*Stores, error) {
	switch opts.Backend {
	case "", BackendFile:
		return &Stores{
			Game:   NewFileBlob(opts.GameFile),
			Ledger: NewFileBlob(opts.LedgerFile),
		}, nil
	case BackendSQLite:
		repo, err := NewRepository(opts.DatabasePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Game:   repo.Blob(GameDocumentName),
			Ledger: repo.Blob(LedgerDocumentName),
			repo:   repo,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}

// Repository returns the SQLite repository, or nil for the file backend
func (s *Stores) Repository() *Repository {
	return s.repo
}

// Close releases the backend
func (s *Stores) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
