package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"whodidit/backend/internal/claim"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/identity"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/provider"
	"whodidit/backend/internal/storage"

	"github.com/joho/godotenv"
)

const usage = `Usage: admin <command> [args]

Commands:
  grant-admin <principal_id>
  revoke-admin <principal_id>
  list-claims
  approve-claim <claim_id> <admin_id>
  reject-claim <claim_id> <admin_id>
  issue-token <principal_id> [email]`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel).With("admin")
	if err := cfg.Validate(); err != nil {
		log.Fatal(err, "Refusing to run with unsafe configuration")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	command := os.Args[1]
	if command == "issue-token" {
		if len(os.Args) < 3 || len(os.Args) > 4 {
			fmt.Println("Usage: admin issue-token <principal_id> [email]")
			os.Exit(1)
		}
		p := models.Principal{ID: os.Args[2]}
		if len(os.Args) == 4 {
			p.Email = os.Args[3]
		}
		token, err := identity.NewTokens(cfg.JWTSecret, cfg.JWTTTL).Issue(p)
		if err != nil {
			log.Fatal(err, "Error issuing token")
		}
		fmt.Println(token)
		return
	}

	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatal(err, "failed to connect database")
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal(err, "failed to run migrations")
	}
	rdb := storage.NewRedisClient(ctx, cfg, log)
	storageSvc := storage.NewStorageService(db, rdb, log)
	resolver := identity.NewResolver(storageSvc, rdb, cfg.ProfileCacheTTL, log)

	switch command {
	case "grant-admin", "revoke-admin":
		if len(os.Args) != 3 {
			fmt.Printf("Usage: admin %s <principal_id>\n", command)
			os.Exit(1)
		}
		id := os.Args[2]
		if err := setAdmin(ctx, storageSvc, id, command == "grant-admin"); err != nil {
			log.Fatal(err, "Error updating profile")
		}
		resolver.Forget(ctx, id)
		fmt.Printf("Profile %s updated (%s).\n", id, command)
	case "list-claims":
		if err := listClaims(ctx, storageSvc); err != nil {
			log.Fatal(err, "Error listing claims")
		}
	case "approve-claim", "reject-claim":
		if len(os.Args) != 4 {
			fmt.Printf("Usage: admin %s <claim_id> <admin_id>\n", command)
			os.Exit(1)
		}
		svc := claim.NewService(storageSvc, provider.NewRegistry(storageSvc, nil, log), resolver, nil, nil, log)
		admin := &models.Principal{ID: os.Args[3]}
		decide := svc.Approve
		if command == "reject-claim" {
			decide = svc.Reject
		}
		if err := decide(ctx, os.Args[2], admin); err != nil {
			log.Fatal(err, "Error deciding claim")
		}
		fmt.Printf("Claim %s decided (%s).\n", os.Args[2], command)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func setAdmin(ctx context.Context, s storage.Storage, id string, admin bool) error {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &models.Profile{ID: id}
	}
	profile.IsAdmin = &admin
	if admin {
		role := config.AdminRole
		profile.Role = &role
	} else {
		profile.Role = nil
	}
	return s.SaveProfile(ctx, profile)
}

func listClaims(ctx context.Context, s storage.Storage) error {
	claims, err := s.ListPendingClaims(ctx)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		fmt.Println("No pending claims.")
		return nil
	}
	for _, c := range claims {
		name := c.ProviderID
		if c.Provider != nil {
			name = c.Provider.Name
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", c.ID, c.CreatedAt.Format(time.RFC3339), name, c.ClaimantID)
	}
	return nil
}
