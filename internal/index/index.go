package index

// ReactionIndex defines the interface for reaction indexing operations.
// Consumers depend on this interface rather than the concrete *DB type.
type ReactionIndex interface {
	UpsertDataset(d DatasetRow, reactions []ReactionRow) error
	DeleteDataset(name string) error
	GetChecksum(name string) (string, error)
	ListDatasets() ([]DatasetRow, error)
	LocateReaction(id string) (*ReactionRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies ReactionIndex at compile time.
var _ ReactionIndex = (*DB)(nil)
