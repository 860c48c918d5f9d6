// Package main provides a tool to seed the database with demo data.
//
// This creates a handful of users with curated book lists, likes, and
// comments so the API has something to serve during development.
//
// Usage:
//
//	DB_PATH=~/BookList/data/db go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/booklistapp/booklist-server/internal/auth"
	"github.com/booklistapp/booklist-server/internal/domain"
	"github.com/booklistapp/booklist-server/internal/id"
	"github.com/booklistapp/booklist-server/internal/store"
)

var wipe = flag.Bool("wipe", false, "Delete existing lists owned by seed users first")

// seedUsers are the demo accounts. Password for all of them is "testpass123".
var seedUsers = []struct {
	username string
	email    string
	about    []string
}{
	{"ursula", "ursula@example.com", []string{"Anarchist utopias and anthropology", "Rereads The Dispossessed yearly"}},
	{"gene", "gene@example.com", []string{"Unreliable narrators preferred"}},
	{"octavia", "octavia@example.com", []string{"Earthseed", "Patternist completionist"}},
	{"stanislaw", "stanislaw@example.com", nil},
}

// seedLists maps an owner username to list names and their books.
var seedLists = []struct {
	owner string
	name  string
	books []string
}{
	{"ursula", "Ambiguous Utopias", []string{"The Dispossessed", "Always Coming Home", "The Telling"}},
	{"gene", "Long Sun Reread Order", []string{"Nightside the Long Sun", "Lake of the Long Sun"}},
	{"octavia", "First Contact Done Right", []string{"Dawn", "Adulthood Rites", "Imago"}},
	{"stanislaw", "Machines Dreaming", []string{"Solaris", "The Invincible", "The Cyberiad"}},
}

var seedComments = []string{
	"Great picks",
	"Adding all of these to my pile",
	"The middle one is the best of the three",
	"Bold ordering, I respect it",
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/BookList/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := ensureUsers(ctx, s)

	if *wipe {
		for _, u := range users {
			lists, err := s.ListListsByOwner(ctx, u.ID)
			if err != nil {
				log.Printf("Failed to list lists for %s: %v", u.Username, err)
				continue
			}
			for _, l := range lists {
				if err := s.DeleteList(ctx, l.ID); err != nil {
					log.Printf("Failed to delete list %s: %v", l.ID, err)
				}
			}
		}
		fmt.Println("Wiped existing seed lists")
	}

	byName := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	for _, sl := range seedLists {
		owner, ok := byName[sl.owner]
		if !ok {
			continue
		}

		list := &domain.List{
			ID:        id.MustGenerate("list"),
			Name:      sl.name,
			OwnerID:   owner.ID,
			OwnerName: owner.Username,
			CreatedAt: time.Now(),
			Books:     []domain.BookEntry{},
			Likes:     []domain.Like{},
			Comments:  []domain.Comment{},
		}

		if err := s.CreateList(ctx, list); err != nil {
			log.Printf("Failed to create list %q: %v", sl.name, err)
			continue
		}

		for _, title := range sl.books {
			if _, err := s.PrependBook(ctx, list.ID, domain.BookEntry{
				Title:  title,
				Name:   owner.Username,
				UserID: owner.ID,
			}); err != nil {
				log.Printf("Failed to add book %q: %v", title, err)
			}
		}

		// Everyone except the owner likes it, sometimes.
		for _, u := range users {
			if u.ID == owner.ID || rng.Float32() > 0.7 {
				continue
			}
			if _, err := s.AddLike(ctx, list.ID, domain.Like{
				UserID:    u.ID,
				CreatedAt: time.Now(),
			}); err != nil {
				log.Printf("Failed to like list %q: %v", sl.name, err)
			}
		}

		// One random comment from a non-owner.
		commenter := users[rng.Intn(len(users))]
		if commenter.ID != owner.ID {
			if _, err := s.PrependComment(ctx, list.ID, domain.Comment{
				ID:        id.MustGenerate("cmt"),
				Text:      seedComments[rng.Intn(len(seedComments))],
				Name:      commenter.Username,
				UserID:    commenter.ID,
				CreatedAt: time.Now(),
			}); err != nil {
				log.Printf("Failed to comment on %q: %v", sl.name, err)
			}
		}

		fmt.Printf("Created list %q for %s (%d books)\n", sl.name, owner.Username, len(sl.books))
	}

	fmt.Println("\nSeeding complete!")
}

// ensureUsers creates the demo accounts if they don't exist and returns all
// of them.
func ensureUsers(ctx context.Context, s *store.Store) []*domain.User {
	fmt.Println("=== Ensuring Demo Users ===")

	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	users := make([]*domain.User, 0, len(seedUsers))

	for _, su := range seedUsers {
		if existing, err := s.GetUserByEmail(ctx, su.email); err == nil {
			fmt.Printf("  User %s already exists, skipping\n", su.email)
			users = append(users, existing)
			continue
		}

		about := make([]domain.AboutEntry, 0, len(su.about))
		for _, text := range su.about {
			about = append(about, domain.AboutEntry{
				ID:        id.MustGenerate("about"),
				Text:      text,
				CreatedAt: now,
			})
		}

		user := &domain.User{
			ID:           id.MustGenerate("user"),
			Username:     su.username,
			Email:        su.email,
			PasswordHash: passwordHash,
			About:        about,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", su.username, err)
			continue
		}

		fmt.Printf("  Created user: %s (%s)\n", su.username, su.email)
		users = append(users, user)
	}

	return users
}
