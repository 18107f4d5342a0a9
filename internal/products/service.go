package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
	"github.com/akinleyeOJ/culturer-backend/pkg/pagination"
	"github.com/akinleyeOJ/culturer-backend/pkg/query"
)

// ProductReader defines the persistence surface the browse paths need.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, spec *query.Spec, page pagination.Params) ([]models.Product, pagination.Page, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type favoriteLoader interface {
	IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type viewRecorder interface {
	RecordView(ctx context.Context, userID, productID uuid.UUID) error
}

type activityPublisher interface {
	ProductViewed(ctx context.Context, viewerID, productID uuid.UUID)
}

// Service exposes the product browse surface.
type Service interface {
	ListProducts(ctx context.Context, viewerID uuid.UUID, input ListInput) (*ListResult, error)
	GetProduct(ctx context.Context, viewerID, id uuid.UUID) (*ProductDTO, error)
	Categories() []Category
}

// ListInput carries the browse filters as the client sends them. Price
// bounds are display strings and parsed leniently; condition and shipping
// are validated, everything else narrows best-effort.
type ListInput struct {
	Query          string
	Categories     []string
	Condition      string
	CulturalOrigin string
	Shipping       string
	MinPrice       string
	MaxPrice       string
	Sort           string
	Limit          int
	Offset         int
}

type service struct {
	repo      ProductReader
	favorites favoriteLoader
	recents   viewRecorder
	events    activityPublisher
	logg      *logger.Logger
}

// NewService builds the product service. Recents and events are optional;
// the browse path works without them.
func NewService(repo ProductReader, favorites favoriteLoader, recents viewRecorder, events activityPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if favorites == nil {
		return nil, fmt.Errorf("favorite loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		favorites: favorites,
		recents:   recents,
		events:    events,
		logg:      logg,
	}, nil
}

// ListProducts translates the browse filters into a query spec, fetches one
// page, and marks the viewer's favorites.
func (s *service) ListProducts(ctx context.Context, viewerID uuid.UUID, input ListInput) (*ListResult, error) {
	sortKey, err := enums.ParseRemoteSortKey(input.Sort)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort key %q", input.Sort))
	}

	spec, err := buildBrowseSpec(input, sortKey)
	if err != nil {
		return nil, err
	}
	rows, page, err := s.repo.List(ctx, spec, pagination.Params{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	favoriteSet, err := s.favoriteSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Products: make([]ProductDTO, 0, len(rows)),
		Page:     page,
	}
	for _, row := range rows {
		result.Products = append(result.Products, NewProductDTO(row, favoriteSet[row.ID]))
	}
	return result, nil
}

// GetProduct returns one product, records the view for signed-in users, and
// bumps the popularity counter. View bookkeeping is best effort; a failure
// there never hides the product.
func (s *service) GetProduct(ctx context.Context, viewerID, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithProductID(ctx, id.String()), "incrementing view count failed")
	}

	if viewerID != uuid.Nil && s.recents != nil {
		if err := s.recents.RecordView(ctx, viewerID, id); err != nil {
			s.logg.Warn(s.logg.WithProductID(ctx, id.String()), "recording recent view failed")
		}
	}
	if s.events != nil {
		s.events.ProductViewed(ctx, viewerID, id)
	}

	isFavorite := false
	if viewerID != uuid.Nil {
		favoriteSet, err := s.favoriteSet(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		isFavorite = favoriteSet[id]
	}

	dto := NewProductDTO(*row, isFavorite)
	return &dto, nil
}

// Categories returns the browse catalog.
func (s *service) Categories() []Category {
	return Categories()
}

func (s *service) favoriteSet(ctx context.Context, viewerID uuid.UUID) (map[uuid.UUID]bool, error) {
	set := map[uuid.UUID]bool{}
	if viewerID == uuid.Nil {
		return set, nil
	}
	ids, err := s.favorites.IDsForUser(ctx, viewerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading favorites")
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func buildBrowseSpec(input ListInput, sortKey enums.RemoteSortKey) (*query.Spec, error) {
	spec := query.NewSpec().Eq("status", enums.ListingStatusActive.String())

	if selected := categoryTerms(input.Categories); len(selected) > 0 {
		spec = spec.In("category", selected)
	}

	if input.Condition != "" {
		condition, err := enums.ParseProductCondition(input.Condition)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown condition %q", input.Condition))
		}
		spec = spec.Eq("condition", condition.String())
	}

	if origin := strings.TrimSpace(input.CulturalOrigin); origin != "" {
		spec = spec.ILike("cultural_origin", origin)
	}

	switch shipping := strings.ToLower(strings.TrimSpace(input.Shipping)); shipping {
	case "", "any":
	case "free":
		spec = spec.Eq("shipping_cost", "Free")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shipping filter %q", input.Shipping))
	}

	if input.MinPrice != "" {
		spec = spec.Gte("price_cents", toCents(input.MinPrice))
	}
	if input.MaxPrice != "" {
		spec = spec.Lte("price_cents", toCents(input.MaxPrice))
	}
	if input.Query != "" {
		spec = spec.ILike("name", input.Query)
	}

	switch sortKey {
	case enums.SortKeyPriceAsc:
		spec = spec.OrderBy("price_cents", false)
	case enums.SortKeyPriceDesc:
		spec = spec.OrderBy("price_cents", true)
	case enums.SortKeyPopularity:
		spec = spec.OrderBy("view_count", true)
	default:
		spec = spec.OrderBy("created_at", true)
	}
	return spec.OrderBy("id", true), nil
}

// categoryTerms expands the selected categories into the stored values a row
// may carry: catalog entries match by id or display name, unknown selections
// pass through verbatim. Empty and "all" selections never narrow.
func categoryTerms(selected []string) []string {
	seen := map[string]bool{}
	terms := make([]string, 0, len(selected) * 2)
	add := func(term string) {
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}
	for _, value := range selected {
		v := strings.TrimSpace(value)
		if v == "" || strings.EqualFold(v, "all") {
			continue
		}
		if cat, ok := FindCategory(v); ok {
			add(cat.ID)
			add(cat.Name)
			continue
		}
		add(v)
	}
	return terms
}

func toCents(display string) int64 {
	return money.ParsePrice(display).Mul(money.Hundred).IntPart()
}
