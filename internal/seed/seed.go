package seed

import (
	"fmt"
	"log"

	"bondtree/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo users, friendships, moods and posts.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	presets, err := LoadPresets()
	if err != nil {
		return err
	}
	factory := NewFactory(db, presets)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	// A sparse friendship mesh: each user befriends a handful of later users
	friendships := 0
	for i, u := range users {
		for j := i + 1; j < len(users) && j <= i+3; j++ {
			if _, err := factory.CreateFriendship(u, users[j]); err != nil {
				return fmt.Errorf("failed to create friendships: %w", err)
			}
			friendships++
		}
	}
	log.Printf("Created %d friendships", friendships)

	moods := 0
	for _, u := range users {
		n := 2 + factory.rng.Intn(6)
		for i := 0; i < n; i++ {
			if _, err := factory.CreateMoodEntry(u, 30); err != nil {
				return fmt.Errorf("failed to create mood entries: %w", err)
			}
			moods++
		}
	}
	log.Printf("Created %d mood entries", moods)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[factory.rng.Intn(len(users))]
		post, err := factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	// Sprinkle reactions and comments from random users
	for _, p := range posts {
		for i := 0; i < factory.rng.Intn(5); i++ {
			reactor := users[factory.rng.Intn(len(users))]
			if err := factory.CreateReaction(reactor, p); err != nil {
				return fmt.Errorf("failed to create reactions: %w", err)
			}
		}
		if factory.rng.Intn(3) == 0 {
			commenter := users[factory.rng.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, p); err != nil {
				return fmt.Errorf("failed to create comments: %w", err)
			}
		}
	}

	log.Println("Seeding complete")
	return nil
}

// clearData removes seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	tables := []string{
		"comments", "reactions", "post_media", "posts",
		"mood_entries", "custom_moods", "friendships",
		"users", "credentials",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return err
		}
	}
	return nil
}
