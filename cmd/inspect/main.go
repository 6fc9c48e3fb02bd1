package main

import (
	"chat-engine/domain"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Read-only dump of the engine's BadgerDB. Index keys (dmi:, gmsi:) hold
// raw primary keys, not records, so they are skipped.
func main() {
	dbPath := flag.String("db", "/tmp/badger", "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (dm:, group:, gmsg:); empty scans everything")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(" chat-engine store "))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "From", "To", "Detail", "Seen"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			if strings.HasPrefix(rawKey, "dmi:") || strings.HasPrefix(rawKey, "gmsi:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, err := mapRow(rawKey, v)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func mapRow(rawKey string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(rawKey, "dm:"):
		var msg domain.DirectMessage
		if err := cbor.Unmarshal(value, &msg); err != nil {
			return nil, err
		}
		return []string{
			rawKey,
			"DM",
			msg.CreatedAt.Format("15:04:05"),
			shortID(msg.SenderID),
			shortID(msg.ReceiverID),
			msg.Text,
			fmt.Sprintf("%t", msg.Seen),
		}, nil

	case strings.HasPrefix(rawKey, "gmsg:"):
		var msg domain.GroupMessage
		if err := cbor.Unmarshal(value, &msg); err != nil {
			return nil, err
		}
		return []string{
			rawKey,
			"GROUP_MSG",
			msg.CreatedAt.Format("15:04:05"),
			shortID(msg.SenderID),
			shortID(msg.GroupID.String()),
			msg.Text,
			fmt.Sprintf("%d", len(msg.SeenBy)),
		}, nil

	case strings.HasPrefix(rawKey, "group:"):
		var group domain.Group
		if err := cbor.Unmarshal(value, &group); err != nil {
			return nil, err
		}
		detail := group.Name
		if !group.IsActive {
			detail += " (deleted)"
		}
		return []string{
			rawKey,
			"GROUP",
			group.UpdatedAt.Format("15:04:05"),
			shortID(group.CreatedBy),
			fmt.Sprintf("%d members", len(group.Members)),
			detail,
			"",
		}, nil
	}
	return []string{rawKey, "UNKNOWN", "", "", "", "", ""}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
