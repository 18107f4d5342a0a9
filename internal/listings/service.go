package listings

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/pkg/config"
	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

// Service covers the sell-an-item flow: drafts, publishing, edits and
// image uploads, always scoped to the listing's seller.
type Service interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, sellerName string, input CreateListingInput) (*ListingDTO, error)
	UpdateListing(ctx context.Context, sellerID, listingID uuid.UUID, input UpdateListingInput) (*ListingDTO, error)
	PublishListing(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingDTO, error)
	DeleteListing(ctx context.Context, sellerID, listingID uuid.UUID) error
	ListMine(ctx context.Context, sellerID uuid.UUID) ([]ListingDTO, error)
	AttachImage(ctx context.Context, sellerID, listingID uuid.UUID, filename, contentType string, data []byte) (*ListingDTO, error)
}

// listingStore is the product persistence surface the sell flow needs.
type listingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectUploader interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, data []byte) (string, error)
}

type activityNotifier interface {
	ListingPublished(ctx context.Context, sellerID, productID uuid.UUID)
}

// ServiceParams wires the listings service dependencies.
type ServiceParams struct {
	Repo    listingStore
	Storage objectUploader
	Events  activityNotifier
	Config  config.ListingsConfig
	Logger  *logger.Logger
}

type service struct {
	repo    listingStore
	storage objectUploader
	events  activityNotifier
	cfg     config.ListingsConfig
	logg    *logger.Logger
}

// NewService validates dependencies and returns the sell-flow service.
// Storage and Events are optional; without storage, image uploads fail
// with a dependency error.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "listings service requires a repository")
	}
	return &service{
		repo:    params.Repo,
		storage: params.Storage,
		events:  params.Events,
		cfg:     params.Config,
		logg:    params.Logger,
	}, nil
}

func (s *service) CreateListing(ctx context.Context, sellerID uuid.UUID, sellerName string, input CreateListingInput) (*ListingDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller is required")
	}

	label, cents, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	shipping, err := parseShipping(input.ShippingCost)
	if err != nil {
		return nil, err
	}
	condition, err := parseCondition(input.Condition)
	if err != nil {
		return nil, err
	}

	status := enums.ListingStatusDraft
	if input.Publish {
		status = enums.ListingStatusActive
	}

	row := &models.Product{
		SellerID:       sellerID,
		SellerName:     sellerName,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		PriceLabel:     label,
		PriceCents:     cents,
		ShippingCost:   shipping,
		Category:       input.Category,
		Condition:      condition,
		CulturalOrigin: input.CulturalOrigin,
		StockQuantity:  input.StockQuantity,
		OutOfStock:     input.StockQuantity == 0,
		ImageEmoji:     input.ImageEmoji,
		Status:         status,
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create listing")
	}

	if status == enums.ListingStatusActive && s.events != nil {
		s.events.ListingPublished(ctx, sellerID, created.ID)
	}

	dto := newListingDTO(*created)
	return &dto, nil
}

func (s *service) UpdateListing(ctx context.Context, sellerID, listingID uuid.UUID, input UpdateListingInput) (*ListingDTO, error) {
	row, err := s.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Price != nil {
		label, cents, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		row.PriceLabel = label
		row.PriceCents = cents
	}
	if input.ShippingCost != nil {
		shipping, err := parseShipping(*input.ShippingCost)
		if err != nil {
			return nil, err
		}
		row.ShippingCost = shipping
	}
	if input.Category != nil {
		row.Category = input.Category
	}
	if input.Condition != nil {
		condition, err := parseCondition(*input.Condition)
		if err != nil {
			return nil, err
		}
		row.Condition = condition
	}
	if input.CulturalOrigin != nil {
		row.CulturalOrigin = input.CulturalOrigin
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		row.StockQuantity = *input.StockQuantity
		row.OutOfStock = *input.StockQuantity == 0
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update listing")
	}

	dto := newListingDTO(*updated)
	return &dto, nil
}

func (s *service) PublishListing(ctx context.Context, sellerID, listingID uuid.UUID) (*ListingDTO, error) {
	row, err := s.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.ListingStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sold listings cannot be republished")
	}
	if row.Status == enums.ListingStatusActive {
		dto := newListingDTO(*row)
		return &dto, nil
	}

	row.Status = enums.ListingStatusActive
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to publish listing")
	}

	if s.events != nil {
		s.events.ListingPublished(ctx, sellerID, updated.ID)
	}

	dto := newListingDTO(*updated)
	return &dto, nil
}

func (s *service) DeleteListing(ctx context.Context, sellerID, listingID uuid.UUID) error {
	if _, err := s.ownedListing(ctx, sellerID, listingID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, listingID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete listing")
	}
	return nil
}

func (s *service) ListMine(ctx context.Context, sellerID uuid.UUID) ([]ListingDTO, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load listings")
	}

	dtos := make([]ListingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, newListingDTO(row))
	}
	return dtos, nil
}

func (s *service) AttachImage(ctx context.Context, sellerID, listingID uuid.UUID, filename, contentType string, data []byte) (*ListingDTO, error) {
	if s.storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image storage is not configured")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data is empty")
	}
	if maxBytes := s.cfg.MaxUploadMB * 1024 * 1024; maxBytes > 0 && len(data) > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds the %dMB upload limit", s.cfg.MaxUploadMB))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are accepted")
	}

	row, err := s.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxImages > 0 && len(row.Images) >= s.cfg.MaxImages {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("listing already has the maximum of %d images", s.cfg.MaxImages))
	}

	object := imageObjectPath(listingID, filename)
	publicURL, err := s.storage.UploadObject(ctx, "", object, contentType, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to upload listing image")
	}

	row.Images = append(row.Images, publicURL)
	if row.ImageURL == nil {
		row.ImageURL = &publicURL
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save listing image")
	}

	dto := newListingDTO(*updated)
	return &dto, nil
}

// ownedListing loads the listing and enforces seller ownership. Listings
// owned by someone else surface as not found rather than forbidden.
func (s *service) ownedListing(ctx context.Context, sellerID, listingID uuid.UUID) (*models.Product, error) {
	if sellerID == uuid.Nil || listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller and listing are required")
	}

	row, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load listing")
	}
	if row == nil || row.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return row, nil
}

func imageObjectPath(listingID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("listings/%s/%s%s", listingID, uuid.NewString(), ext)
}
