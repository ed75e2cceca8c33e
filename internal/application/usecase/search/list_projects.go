package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

var tracer = otel.Tracer("search_usecase")

// ListedProject is a project flattened out of its owner document.
type ListedProject struct {
	owner.Project
	OwnerID   uuid.UUID `json:"ownerId"`
	OwnerName string    `json:"ownerName"`
}

type ListProjectsUseCase struct {
	ownerRepo owner.Repository
	cache     service.Cache
	cacheTTL  time.Duration
	logger    logger.Logger
}

func NewListProjectsUseCase(repo owner.Repository, cache service.Cache, cacheTTL time.Duration, log logger.Logger) *ListProjectsUseCase {
	return &ListProjectsUseCase{
		ownerRepo: repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    log,
	}
}

type ListProjectsInput struct {
	Skill string
	Page  int
	Limit int
}

type ListProjectsOutput struct {
	Projects   []ListedProject `json:"projects"`
	Pagination Pagination      `json:"pagination"`
}

// Execute lists the projects of every completed profile, newest first,
// optionally keeping only those tagged with a skill containing input.Skill.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, input ListProjectsInput) (*ListProjectsOutput, error) {
	ctx, span := tracer.Start(ctx, "ListProjects")
	defer span.End()

	input.Page, input.Limit = normalize(input.Page, input.Limit)
	skill := strings.ToLower(strings.TrimSpace(input.Skill))
	span.SetAttributes(attribute.String("skill", skill), attribute.Int("page", input.Page))

	cached := newPageCache(uc.cache, uc.cacheTTL, uc.logger)
	key := cached.key(ctx, "projects", skill, input.Page, input.Limit)
	var out ListProjectsOutput
	if cached.get(ctx, key, &out) {
		return &out, nil
	}

	owners, err := uc.ownerRepo.ListComplete(ctx)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("List completed owners failed", err)
		return nil, apperror.NewInternal("list projects failed", err)
	}

	all := make([]ListedProject, 0)
	for _, o := range owners {
		for _, p := range o.Projects.Items() {
			if skill != "" && !p.HasSkill(skill) {
				continue
			}
			all = append(all, ListedProject{Project: p, OwnerID: o.ID, OwnerName: o.Name})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedTime().After(all[j].CreatedTime())
	})

	start, end := window(len(all), input.Page, input.Limit)
	out = ListProjectsOutput{
		Projects:   all[start:end],
		Pagination: NewPagination(int64(len(all)), input.Page, input.Limit),
	}
	cached.set(ctx, key, out)
	return &out, nil
}

// pageCache wraps the listing cache. Keys embed the current generation, so a
// write anywhere retires every cached page. Cache failures only cost a
// lookup.
type pageCache struct {
	cache  service.Cache
	ttl    time.Duration
	logger logger.Logger
}

func newPageCache(cache service.Cache, ttl time.Duration, log logger.Logger) pageCache {
	return pageCache{cache: cache, ttl: ttl, logger: log}
}

// key returns "" when the generation cannot be read; an empty key disables
// caching for the request.
func (c pageCache) key(ctx context.Context, scope, query string, page, limit int) string {
	if c.ttl <= 0 {
		return ""
	}
	gen, err := c.cache.Counter(ctx, service.GenerationKey)
	if err != nil {
		c.logger.Warn("Read cache generation failed", zap.Error(err))
		return ""
	}
	return fmt.Sprintf("devfolio:%d:%s:%s:%d:%d", gen, scope, query, page, limit)
}

func (c pageCache) get(ctx context.Context, key string, dest any) bool {
	if key == "" {
		return false
	}
	hit, err := c.cache.GetJSON(ctx, key, dest)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (c pageCache) set(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}
	if err := c.cache.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
