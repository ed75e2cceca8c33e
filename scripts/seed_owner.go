package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/khoahotran/devfolio/adapters/persistence"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// Seeds (or resets) a completed demo owner with a few projects so that
// GET /api/profile has something to serve.
func main() {
	fmt.Println("adding demo owner into store...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if cfg.Store.Driver == config.StoreMemory {
		log.Fatalf("seeding the in-memory store has no effect, set STORE_DRIVER")
	}

	email := os.Getenv("OWNER_EMAIL")
	password := os.Getenv("OWNER_PASSWORD")
	if email == "" || password == "" {
		log.Fatalf("OWNER_EMAIL and OWNER_PASSWORD are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx := context.Background()
	repo, closeStore, err := persistence.OpenOwnerRepo(ctx, cfg, logger.NewZapLogger(cfg.App.Env))
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	defer closeStore()

	now := time.Now().UTC()
	o, err := repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		o = owner.New(email, "Demo Owner", hash, now)
		if err := fill(o, now); err != nil {
			log.Fatalf("cannot build demo owner: %v", err)
		}
		err = repo.Create(ctx, o)
	case err == nil:
		o.PasswordHash = hash
		err = fill(o, now)
		if err == nil {
			err = repo.Save(ctx, o)
		}
	}
	if err != nil {
		log.Fatalf("cannot add owner: %v", err)
	}

	fmt.Printf("added or updated owner '%s' (%s) successfully!\n", o.Email, o.ID)
}

func fill(o *owner.Owner, now time.Time) error {
	name, education := "Demo Owner", "B.Sc. Computer Science"
	skills := []string{"Go", "React", "PostgreSQL"}
	links := owner.Links{GitHub: "https://github.com/devfolio-demo"}
	if err := o.CompleteProfile(owner.ProfilePatch{
		Name:      &name,
		Education: &education,
		Skills:    &skills,
		Links:     &links,
	}, now); err != nil {
		return err
	}
	if o.Projects.Len() > 0 {
		return nil
	}

	demo := []owner.ProjectFields{
		{Title: "Devfolio API", Description: "Portfolio backend in Go", SkillsUsed: []string{"Go", "PostgreSQL"}},
		{Title: "Devfolio UI", Description: "Portfolio frontend", SkillsUsed: []string{"React"}},
	}
	for i, f := range demo {
		p, err := owner.NewProject(f, now.Add(time.Duration(i)*time.Second))
		if err != nil {
			return err
		}
		if err := o.Projects.Append(p); err != nil {
			return err
		}
	}
	return nil
}
