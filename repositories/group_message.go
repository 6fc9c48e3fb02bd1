//go:generate go run go.uber.org/mock/mockgen -source=group_message.go -destination=../mocks/mock_group_message_repository.go -package=mocks
package repositories

import (
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IGroupMessageRepository interface {
	Store(msg domain.GroupMessage) error
	ListByGroup(groupID uuid.UUID) ([]domain.GroupMessage, error)
	AddSeen(messageID uuid.UUID, userID string, at time.Time) error
	MarkAllSeen(groupID uuid.UUID, userID string, at time.Time) error
	PurgeGroup(groupID uuid.UUID) error
	UnseenCount(groupID uuid.UUID, userID string) (int, error)
}

// GroupMessageRepository persists group messages under
// "gmsg:{group}:{timestamp_padded}:{uuid}" so one group's history is a
// single chronologically ordered prefix, which also makes the bulk purge
// on group deletion a plain prefix walk. "gmsi:{uuid}" -> primary key
// supports seen receipts addressed by message id.
type GroupMessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewGroupMessageRepository(db *badger.DB, log *slog.Logger) GroupMessageRepository {
	return GroupMessageRepository{db: db, log: log}
}

func groupMessageKey(msg domain.GroupMessage) []byte {
	return []byte(fmt.Sprintf("gmsg:%s:%019d:%s",
		msg.GroupID, msg.CreatedAt.UnixNano(), msg.ID))
}

func groupMessageIndexKey(id uuid.UUID) []byte {
	return []byte("gmsi:" + id.String())
}

func groupMessagePrefix(groupID uuid.UUID) []byte {
	return []byte("gmsg:" + groupID.String() + ":")
}

func (r GroupMessageRepository) Store(msg domain.GroupMessage) error {
	value, err := cbor.Marshal(msg)
	if err != nil {
		return err
	}
	key := groupMessageKey(msg)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(groupMessageIndexKey(msg.ID), key)
	})
}

func (r GroupMessageRepository) ListByGroup(groupID uuid.UUID) ([]domain.GroupMessage, error) {
	var messages []domain.GroupMessage
	prefix := groupMessagePrefix(groupID)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var msg domain.GroupMessage
				if err := cbor.Unmarshal(value, &msg); err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

// AddSeen appends a (user, timestamp) receipt unless the user already has
// one. Set semantics are keyed by user id, so the call is idempotent.
func (r GroupMessageRepository) AddSeen(messageID uuid.UUID, userID string, at time.Time) error {
	return r.db.Update(func(txn *badger.Txn) error {
		indexItem, err := txn.Get(groupMessageIndexKey(messageID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return apperrors.ErrMessageNotFound
			}
			return err
		}
		key, err := indexItem.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var msg domain.GroupMessage
		if err := item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &msg)
		}); err != nil {
			return err
		}
		if msg.SeenByUser(userID) {
			return nil
		}
		msg.SeenBy = append(msg.SeenBy, domain.SeenReceipt{UserID: userID, SeenAt: at})
		value, err := cbor.Marshal(msg)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
}

// MarkAllSeen records a receipt for userID on every message of the group
// that does not have one yet, the bulk form used when the group
// conversation is opened.
func (r GroupMessageRepository) MarkAllSeen(groupID uuid.UUID, userID string, at time.Time) error {
	prefix := groupMessagePrefix(groupID)
	return r.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var msg domain.GroupMessage
			if err := item.Value(func(value []byte) error {
				return cbor.Unmarshal(value, &msg)
			}); err != nil {
				return err
			}
			if msg.SeenByUser(userID) {
				continue
			}
			msg.SeenBy = append(msg.SeenBy, domain.SeenReceipt{UserID: userID, SeenAt: at})
			value, err := cbor.Marshal(msg)
			if err != nil {
				return err
			}
			if err := txn.Set(item.KeyCopy(nil), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// PurgeGroup deletes every message of the group, index entries included.
// Called once, when the group transitions to its deleted state.
func (r GroupMessageRepository) PurgeGroup(groupID uuid.UUID) error {
	prefix := groupMessagePrefix(groupID)
	return r.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, Prefix: prefix})
		defer it.Close()
		var keys [][]byte
		var indexKeys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var msg domain.GroupMessage
			if err := item.Value(func(value []byte) error {
				return cbor.Unmarshal(value, &msg)
			}); err != nil {
				return err
			}
			keys = append(keys, item.KeyCopy(nil))
			indexKeys = append(indexKeys, groupMessageIndexKey(msg.ID))
		}
		for i := range keys {
			if err := txn.Delete(keys[i]); err != nil {
				return err
			}
			if err := txn.Delete(indexKeys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// UnseenCount scans the group's prefix and counts messages without a
// receipt from userID. Derived on demand, never cached.
func (r GroupMessageRepository) UnseenCount(groupID uuid.UUID, userID string) (int, error) {
	count := 0
	prefix := groupMessagePrefix(groupID)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var msg domain.GroupMessage
				if err := cbor.Unmarshal(value, &msg); err != nil {
					return err
				}
				if !msg.SeenByUser(userID) {
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return count, err
}
