package handlers_test

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/application/services"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/stretchr/testify/mock"
)

type MockFacilityService struct {
	mock.Mock
}

func (m *MockFacilityService) Create(ctx context.Context, facility *entities.Facility) (*entities.Facility, error) {
	args := m.Called(ctx, facility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

func (m *MockFacilityService) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

func (m *MockFacilityService) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Facility), args.Error(1)
}

func (m *MockFacilityService) Update(ctx context.Context, id int64, patch *entities.FacilityPatch) (*entities.Facility, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

func (m *MockFacilityService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFacilityService) Schedule(ctx context.Context, id int64) ([]*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Create(ctx context.Context, reservation *entities.Reservation) (*entities.Reservation, error) {
	args := m.Called(ctx, reservation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) Get(ctx context.Context, id int64) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) List(ctx context.Context, offset, limit int) ([]*entities.Reservation, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationService) Update(ctx context.Context, id int64, patch *entities.ReservationPatch) (*entities.Reservation, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockTrailService struct {
	mock.Mock
}

func (m *MockTrailService) GetByID(ctx context.Context, id int64) (*entities.Trail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trail), args.Error(1)
}

func (m *MockTrailService) List(ctx context.Context, limit, offset int) ([]*entities.Trail, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trail), args.Error(1)
}

func (m *MockTrailService) Search(ctx context.Context, query string, limit int) ([]*entities.Trail, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trail), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, review *entities.TrailReview) (*entities.TrailReview, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TrailReview), args.Error(1)
}

func (m *MockReviewService) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.TrailReview, error) {
	args := m.Called(ctx, trailID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TrailReview), args.Error(1)
}

type MockWalkRecordService struct {
	mock.Mock
}

func (m *MockWalkRecordService) ListMine(ctx context.Context, limit, offset int) ([]*entities.WalkRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalkRecord), args.Error(1)
}

func (m *MockWalkRecordService) Create(ctx context.Context, record *entities.WalkRecord) (*entities.WalkRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalkRecord), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) MyPage(ctx context.Context) (*services.MyPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MyPage), args.Error(1)
}

func (m *MockUserService) Dashboard(ctx context.Context) (*services.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Dashboard), args.Error(1)
}
