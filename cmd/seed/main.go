// Command seed fills the Warbler database with fake data.
package main

import (
	"context"
	"flag"
	"log"

	"warbler/internal/bootstrap"
	"warbler/internal/config"
	"warbler/internal/security"
	"warbler/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numMessages := flag.Int("messages", 300, "Number of messages to create")
	follows := flag.Int("follows", 10, "Follows per user")
	likes := flag.Int("likes", 15, "Likes per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 1, "Random seed for reproducible data")
	flag.Parse()

	log.Printf("Target: %d users, %d messages, clean=%v", *numUsers, *numMessages, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = rt.Close(ctx) }()

	s := seed.NewSeeder(rt.DB, security.NewBcryptHasher(cfg.BcryptCost), *randSeed)
	summary, err := s.Run(ctx, seed.Options{
		NumUsers:       *numUsers,
		NumMessages:    *numMessages,
		FollowsPerUser: *follows,
		LikesPerUser:   *likes,
		ShouldClean:    *shouldClean,
	})
	if err != nil {
		log.Printf("Seeding failed: %v", err)
		return
	}

	log.Printf("Seeded %d users, %d messages, %d follows, %d likes", summary.Users, summary.Messages, summary.Follows, summary.Likes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
