package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/pkg/logger"
)

const feedSize = 20

type FeedUseCase struct {
	lister  *ListProjectsUseCase
	baseURL string
	logger  logger.Logger
}

func NewFeedUseCase(lister *ListProjectsUseCase, baseURL string, log logger.Logger) *FeedUseCase {
	return &FeedUseCase{
		lister:  lister,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

// Execute builds a feed of the newest listed projects.
func (uc *FeedUseCase) Execute(ctx context.Context, skill string) (*feeds.Feed, error) {
	ctx, span := tracer.Start(ctx, "ProjectFeed")
	defer span.End()

	listed, err := uc.lister.Execute(ctx, ListProjectsInput{Skill: skill, Page: 1, Limit: feedSize})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	title := "Devfolio - Latest projects"
	if s := strings.TrimSpace(skill); s != "" {
		title = fmt.Sprintf("%s (%s)", title, s)
	}
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: uc.baseURL + "/projects"},
		Description: "Newest projects from completed developer profiles.",
		Created:     time.Now().UTC(),
	}

	items := make([]*feeds.Item, 0, len(listed.Projects))
	for _, p := range listed.Projects {
		items = append(items, &feeds.Item{
			Id:          p.ID.String(),
			Title:       p.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/profile/%s#project-%s", uc.baseURL, p.OwnerID, p.ID)},
			Description: p.Description,
			Author:      &feeds.Author{Name: p.OwnerName},
			Created:     p.CreatedTime(),
			Updated:     p.UpdatedAt,
		})
	}
	feed.Items = items

	uc.logger.Debug("RSS feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
