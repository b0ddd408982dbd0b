package roster

import "context"

// Repository defines the storage interface for the channel directory.
type Repository interface {
	// Load reads the latest persisted directory.
	Load(ctx context.Context) (*Directory, error)

	// Save persists the whole directory, replacing the previous snapshot.
	Save(ctx context.Context, d *Directory) error

	// Close releases any resources held by the repository.
	Close() error
}
