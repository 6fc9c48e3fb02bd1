//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"errors"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IGroupRepository interface {
	Create(group domain.Group) error
	Get(id uuid.UUID) (domain.Group, error)
	Update(group domain.Group) error
	ListByMember(userID string) ([]domain.Group, error)
}

// GroupRepository persists groups under "group:{uuid}". Soft-deleted groups
// keep their record but Get filters them out, so every read path sees a
// deleted group exactly like a missing one.
type GroupRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewGroupRepository(db *badger.DB, log *slog.Logger) GroupRepository {
	return GroupRepository{db: db, log: log}
}

func groupKey(id uuid.UUID) []byte {
	return []byte("group:" + id.String())
}

func (r GroupRepository) Create(group domain.Group) error {
	value, err := cbor.Marshal(group)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupKey(group.ID), value)
	})
}

// Get returns the group if it exists and is active; otherwise
// ErrGroupNotFound, for deleted and missing groups alike.
func (r GroupRepository) Get(id uuid.UUID) (domain.Group, error) {
	var group domain.Group
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &group)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Group{}, apperrors.ErrGroupNotFound
	}
	if err != nil {
		return domain.Group{}, err
	}
	if !group.IsActive {
		return domain.Group{}, apperrors.ErrGroupNotFound
	}
	return group, nil
}

// Update overwrites the stored record, including the IsActive=false write
// that performs a soft delete.
func (r GroupRepository) Update(group domain.Group) error {
	value, err := cbor.Marshal(group)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupKey(group.ID), value)
	})
}

// ListByMember returns the active groups userID belongs to, most recently
// updated first (sidebar ordering).
func (r GroupRepository) ListByMember(userID string) ([]domain.Group, error) {
	var groups []domain.Group
	prefix := []byte("group:")
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var group domain.Group
				if err := cbor.Unmarshal(value, &group); err != nil {
					return err
				}
				if group.IsActive && group.IsMember(userID) {
					groups = append(groups, group)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].UpdatedAt.After(groups[j].UpdatedAt)
	})
	return groups, nil
}
