package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/travel-kanban/internal/access"
	"github.com/and161185/travel-kanban/internal/model"
	"github.com/and161185/travel-kanban/internal/repository"
)

// LocationService manages the map points pinned to a board.
type LocationService interface {
	Add(ctx context.Context, userID, boardID uuid.UUID, in LocationInput) (model.Location, error)
	List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Location, error)
	Delete(ctx context.Context, userID, locationID uuid.UUID) error
}

// LocationInput is a named coordinate.
type LocationInput struct {
	Name string  `json:"name" validate:"required,max=200"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type LocationServiceImpl struct {
	locations repository.LocationRepository
	auth      *access.Authorizer
}

// NewLocationService constructs LocationService.
func NewLocationService(boards repository.BoardRepository, locations repository.LocationRepository) *LocationServiceImpl {
	return &LocationServiceImpl{locations: locations, auth: access.NewAuthorizer(boards)}
}

func (s *LocationServiceImpl) Add(ctx context.Context, userID, boardID uuid.UUID, in LocationInput) (model.Location, error) {
	if err := checkInput(in); err != nil {
		return model.Location{}, err
	}
	name, err := required("name", in.Name)
	if err != nil {
		return model.Location{}, err
	}
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionWrite); err != nil {
		return model.Location{}, err
	}
	id, err := newID()
	if err != nil {
		return model.Location{}, err
	}
	l := model.Location{ID: id, BoardID: boardID, Name: name, Lat: in.Lat, Lng: in.Lng, CreatedBy: userID}
	if err := s.locations.Create(ctx, &l); err != nil {
		return model.Location{}, err
	}
	return l, nil
}

func (s *LocationServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Location, error) {
	if _, err := s.auth.Authorize(ctx, userID, access.Board(boardID), access.ActionRead); err != nil {
		return nil, err
	}
	return s.locations.List(ctx, boardID)
}

func (s *LocationServiceImpl) Delete(ctx context.Context, userID, locationID uuid.UUID) error {
	if _, err := s.auth.Authorize(ctx, userID, access.Location(locationID), access.ActionWrite); err != nil {
		return err
	}
	return s.locations.Delete(ctx, locationID)
}
