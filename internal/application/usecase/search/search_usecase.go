package search

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type SearchUseCase struct {
	ownerRepo owner.Repository
	cache     service.Cache
	cacheTTL  time.Duration
	logger    logger.Logger
}

func NewSearchUseCase(repo owner.Repository, cache service.Cache, cacheTTL time.Duration, log logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		ownerRepo: repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    log,
	}
}

type SearchInput struct {
	Query string
	Page  int
	Limit int
}

type SearchOutput struct {
	Owners     []*owner.Owner `json:"owners"`
	Pagination Pagination     `json:"pagination"`
}

// Execute finds completed profiles whose name, email, education or skills
// contain the query, ignoring case. The query is matched literally.
func (uc *SearchUseCase) Execute(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := tracer.Start(ctx, "SearchOwners")
	defer span.End()

	input.Page, input.Limit = normalize(input.Page, input.Limit)
	query := strings.TrimSpace(input.Query)
	span.SetAttributes(attribute.String("query", query), attribute.Int("page", input.Page))

	cached := newPageCache(uc.cache, uc.cacheTTL, uc.logger)
	key := cached.key(ctx, "search", strings.ToLower(query), input.Page, input.Limit)
	var out SearchOutput
	if cached.get(ctx, key, &out) {
		return &out, nil
	}

	uc.logger.Debug("Executing owner search", zap.String("query", query))
	owners, total, err := uc.ownerRepo.Search(ctx, owner.SearchQuery{
		Text:  query,
		Skip:  (input.Page - 1) * input.Limit,
		Limit: input.Limit,
	})
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Search execution failed", err)
		return nil, apperror.NewInternal("search failed", err)
	}

	out = SearchOutput{
		Owners:     owners,
		Pagination: NewPagination(total, input.Page, input.Limit),
	}
	cached.set(ctx, key, out)
	return &out, nil
}
