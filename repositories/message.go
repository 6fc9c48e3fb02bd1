//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Store(msg domain.DirectMessage) error
	Conversation(a, b string) ([]domain.DirectMessage, error)
	MarkSeen(id uuid.UUID) error
	MarkConversationSeen(me, peer string) error
	UnseenCount(me, peer string) (int, error)
	UnseenCounts(me string) (map[string]int, error)
}

// MessageRepository persists direct messages in BadgerDB.
//
// Primary keys are "dm:{conv}:{timestamp_padded}:{uuid}" where conv is the
// ordered pair of participant ids, so a prefix scan over one conversation
// yields chronological order (19-digit zero padding keeps lexicographic
// order aligned with time, the uuid disambiguates same-nanosecond writes).
// A secondary index "dmi:{uuid}" -> primary key supports seen-flag updates
// addressed by message id alone.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// conversationKey is direction-independent: both sides of a one-to-one
// conversation share one prefix.
func conversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "#" + b
}

func directKey(msg domain.DirectMessage) []byte {
	return []byte(fmt.Sprintf("dm:%s:%019d:%s",
		conversationKey(msg.SenderID, msg.ReceiverID),
		msg.CreatedAt.UnixNano(),
		msg.ID,
	))
}

func directIndexKey(id uuid.UUID) []byte {
	return []byte("dmi:" + id.String())
}

func (r MessageRepository) Store(msg domain.DirectMessage) error {
	value, err := cbor.Marshal(msg)
	if err != nil {
		return err
	}
	key := directKey(msg)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(directIndexKey(msg.ID), key)
	})
}

// Conversation returns every message between a and b, oldest first.
func (r MessageRepository) Conversation(a, b string) ([]domain.DirectMessage, error) {
	var messages []domain.DirectMessage
	prefix := []byte("dm:" + conversationKey(a, b) + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var msg domain.DirectMessage
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

// MarkSeen flips the seen flag. Idempotent: marking twice is a no-op.
func (r MessageRepository) MarkSeen(id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		indexItem, err := txn.Get(directIndexKey(id))
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
		var msg domain.DirectMessage
		if err := item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &msg)
		}); err != nil {
			return err
		}
		if msg.Seen {
			return nil
		}
		msg.Seen = true
		value, err := cbor.Marshal(msg)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
}

// MarkConversationSeen marks every message from peer to me as seen, the
// bulk form used when a conversation is opened.
func (r MessageRepository) MarkConversationSeen(me, peer string) error {
	prefix := []byte("dm:" + conversationKey(me, peer) + ":")
	return r.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var msg domain.DirectMessage
			if err := item.Value(func(value []byte) error {
				return cbor.Unmarshal(value, &msg)
			}); err != nil {
				return err
			}
			if msg.ReceiverID != me || msg.Seen {
				continue
			}
			msg.Seen = true
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

// UnseenCount is computed by scanning, never cached: the stored seen flag
// stays the single source of truth.
func (r MessageRepository) UnseenCount(me, peer string) (int, error) {
	counts, err := r.unseenByPrefix("dm:"+conversationKey(me, peer)+":", me)
	if err != nil {
		return 0, err
	}
	return counts[peer], nil
}

// UnseenCounts returns per-peer unseen totals for me, the sidebar badge
// computation. Peers with zero unseen messages are absent from the map.
func (r MessageRepository) UnseenCounts(me string) (map[string]int, error) {
	return r.unseenByPrefix("dm:", me)
}

func (r MessageRepository) unseenByPrefix(prefix, me string) (map[string]int, error) {
	counts := make(map[string]int)
	p := []byte(prefix)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var msg domain.DirectMessage
				if err := cbor.Unmarshal(value, &msg); err != nil {
					return err
				}
				if msg.ReceiverID == me && !msg.Seen {
					counts[msg.SenderID]++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return counts, err
}
