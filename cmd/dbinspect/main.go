package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/booklistapp/booklist-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/BookList/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	userCount := 0
	userIndexCount := 0

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("user:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("user:")); it.ValidForPrefix([]byte("user:")); it.Next() {
			item := it.Item()
			key := string(item.Key())

			if strings.HasPrefix(key, "user:idx:") {
				userIndexCount++
				continue
			}

			err := item.Value(func(val []byte) error {
				var user domain.User
				if err := json.Unmarshal(val, &user); err != nil {
					return err
				}

				userCount++
				if userCount <= 5 {
					fmt.Printf("User: %s\n", user.Username)
					fmt.Printf("  ID: %s\n", user.ID)
					fmt.Printf("  Email: %s\n", user.Email)
					fmt.Printf("  About entries: %d\n", len(user.About))
					fmt.Println()
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading user %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating users: %v", err)
	}

	listCount := 0
	listIndexCount := 0
	totalBooks := 0
	totalLikes := 0
	totalComments := 0

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("list:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("list:")); it.ValidForPrefix([]byte("list:")); it.Next() {
			item := it.Item()
			key := string(item.Key())

			if strings.HasPrefix(key, "list:idx:") {
				listIndexCount++
				continue
			}

			err := item.Value(func(val []byte) error {
				var list domain.List
				if err := json.Unmarshal(val, &list); err != nil {
					return err
				}

				listCount++
				totalBooks += len(list.Books)
				totalLikes += len(list.Likes)
				totalComments += len(list.Comments)

				if listCount <= 5 {
					fmt.Printf("List: %s\n", list.Name)
					fmt.Printf("  ID: %s\n", list.ID)
					fmt.Printf("  Owner: %s (%s)\n", list.OwnerName, list.OwnerID)
					fmt.Printf("  Books: %d, Likes: %d, Comments: %d\n",
						len(list.Books), len(list.Likes), len(list.Comments))
					for i, b := range list.Books {
						if i < 5 {
							fmt.Printf("    [%d] %s (by %s)\n", i, b.Title, b.Name)
						}
					}
					if len(list.Books) > 5 {
						fmt.Printf("    ... and %d more books\n", len(list.Books)-5)
					}
					fmt.Println()
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading list %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating lists: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total users: %d (index keys: %d)\n", userCount, userIndexCount)
	fmt.Printf("Total lists: %d (index keys: %d)\n", listCount, listIndexCount)
	fmt.Printf("Total book entries: %d\n", totalBooks)
	fmt.Printf("Total likes: %d\n", totalLikes)
	fmt.Printf("Total comments: %d\n", totalComments)
	if listCount > 0 {
		fmt.Printf("Average books per list: %.1f\n", float64(totalBooks)/float64(listCount))
	}
}
