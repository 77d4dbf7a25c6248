package wishlist

import "time"

// Snapshot is a wishlist version used when syncing with an account-scoped copy
type Snapshot struct {
	IDs       []int64   `json:"ids"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Merge is last-write-wins: the later UpdatedAt wins, ties keep local.
func Merge(local, remote Snapshot) Snapshot {
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return remote
	}
	return local
}
