package catalog

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/catalog"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/cache"
	"github.com/dispensa/backend/internal/infrastructure/config"
	"github.com/dispensa/backend/internal/infrastructure/fileimport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles catalog browsing, statistics and ingestion.
type Service struct {
	repo  catalog.Repository
	cache cache.StatsCache
	cfg   config.CatalogConfig
	log   *zap.Logger
}

// NewService creates a new catalog Service
func NewService(repo catalog.Repository, statsCache cache.StatsCache, cfg config.CatalogConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: statsCache, cfg: cfg, log: log}
}

// Browse returns one page of a province catalog.
func (s *Service) Browse(ctx context.Context, province string, req BrowseRequest) (*shared.Paginated[ProductListResponse], error) {
	if !catalog.IsSupportedProvince(province) {
		return nil, shared.NewDomainError("INVALID_PROVINCE", "Unsupported province code")
	}

	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			Search:   strings.TrimSpace(req.Search),
			OrderBy:  req.SortBy,
			OrderDir: req.SortDir,
		},
		Category: req.Category,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	products, total, err := s.repo.FindAll(ctx, province, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductListResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductListResponse(&products[i]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetProduct returns the full catalog row for one product.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductDetailResponse(product), nil
}

// Stats returns the aggregate view of a province catalog, cached for
// the configured TTL. Cache failures fall through to the database.
func (s *Service) Stats(ctx context.Context, province string) (*catalog.Stats, error) {
	if !catalog.IsSupportedProvince(province) {
		return nil, shared.NewDomainError("INVALID_PROVINCE", "Unsupported province code")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, province)
		if err != nil {
			s.log.Warn("stats cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.repo.Stats(ctx, province)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, province, stats, s.cfg.StatsCacheTTL); err != nil {
			s.log.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Import ingests a provincial catalog export. Rows that fail to parse
// are collected and reported; the rest of the file still lands.
func (s *Service) Import(ctx context.Context, province, filename string, file io.Reader) (*ImportResult, error) {
	if !catalog.IsSupportedProvince(province) {
		return nil, shared.NewDomainError("INVALID_PROVINCE", "Unsupported province code")
	}
	if !fileimport.SupportedExtension(filename) {
		return nil, shared.ErrInvalidFileType
	}

	reader, err := fileimport.Open(filename, file)
	if err != nil {
		return nil, err
	}

	mapper := newRowMapper(reader.Headers())
	if err := mapper.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &ImportResult{
		Province: strings.ToUpper(province),
		Errors:   []fileimport.RowError{},
	}

	for {
		row, err := reader.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors,
				fileimport.NewRowError(result.TotalRecords+1, "", err.Error()))
			continue
		}
		if row.IsEmpty() {
			continue
		}

		result.TotalRecords++
		if s.cfg.MaxUploadRows > 0 && result.TotalRecords > s.cfg.MaxUploadRows {
			return nil, shared.NewDomainError("FILE_TOO_LARGE",
				"Upload exceeds the maximum row count")
		}

		product, rowErr := mapper.toProduct(province, row)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		created, err := s.repo.Upsert(ctx, product)
		if err != nil {
			result.Errors = append(result.Errors,
				fileimport.NewRowError(row.LineNumber, "", err.Error()))
			continue
		}
		if created {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	result.Duration = time.Since(start)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, province); err != nil {
			s.log.Warn("stats cache invalidation failed", zap.Error(err))
		}
	}

	s.log.Info("catalog import finished",
		zap.String("province", result.Province),
		zap.String("filename", filename),
		zap.Int("total_records", result.TotalRecords),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}
