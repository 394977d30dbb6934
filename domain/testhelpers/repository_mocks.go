package testhelpers

import (
	"context"
	"time"

	"raffler/domain/entities"
	"raffler/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetIDsWithUnconsumedGrants(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockGiveawayRepository is a mock implementation of GiveawayRepository
type MockGiveawayRepository struct {
	mock.Mock
}

func (m *MockGiveawayRepository) GetByID(ctx context.Context, id int64) (*entities.Giveaway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Giveaway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) GetOpenForUpdate(ctx context.Context) (*entities.Giveaway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Giveaway), args.Error(1)
}

func (m *MockGiveawayRepository) Create(ctx context.Context, giveaway *entities.Giveaway) error {
	args := m.Called(ctx, giveaway)
	return args.Error(0)
}

func (m *MockGiveawayRepository) DecrementCapacity(ctx context.Context, id int64, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

// MockTicketGrantRepository is a mock implementation of TicketGrantRepository
type MockTicketGrantRepository struct {
	mock.Mock
}

func (m *MockTicketGrantRepository) Create(ctx context.Context, grant *entities.TicketGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockTicketGrantRepository) GetByID(ctx context.Context, id int64) (*entities.TicketGrant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketGrant), args.Error(1)
}

func (m *MockTicketGrantRepository) GetUnconsumedByUserForUpdate(ctx context.Context, userID int64) ([]*entities.TicketGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TicketGrant), args.Error(1)
}

func (m *MockTicketGrantRepository) UpdateTicketIDs(ctx context.Context, grantID int64, ticketIDs []string) error {
	args := m.Called(ctx, grantID, ticketIDs)
	return args.Error(0)
}

func (m *MockTicketGrantRepository) UpdatePaymentStatus(ctx context.Context, grantID int64, status entities.PaymentStatus) error {
	args := m.Called(ctx, grantID, status)
	return args.Error(0)
}

func (m *MockTicketGrantRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketGrantRepository) ExistsSubscriptionGrantSince(ctx context.Context, userID int64, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, since)
	return args.Bool(0), args.Error(1)
}

// MockSubscriptionQuotaRepository is a mock implementation of SubscriptionQuotaRepository
type MockSubscriptionQuotaRepository struct {
	mock.Mock
}

func (m *MockSubscriptionQuotaRepository) GetByID(ctx context.Context, id int64) (*entities.SubscriptionQuota, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SubscriptionQuota), args.Error(1)
}

func (m *MockSubscriptionQuotaRepository) GetActiveByUserForUpdate(ctx context.Context, userID int64) (*entities.SubscriptionQuota, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SubscriptionQuota), args.Error(1)
}

func (m *MockSubscriptionQuotaRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.SubscriptionQuota, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SubscriptionQuota), args.Error(1)
}

func (m *MockSubscriptionQuotaRepository) UpdateUsage(ctx context.Context, quota *entities.SubscriptionQuota) error {
	args := m.Called(ctx, quota)
	return args.Error(0)
}

// MockTicketPoolRepository is a mock implementation of TicketPoolRepository
type MockTicketPoolRepository struct {
	mock.Mock
}

func (m *MockTicketPoolRepository) Upsert(ctx context.Context, pool *entities.TicketPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockTicketPoolRepository) GetByUser(ctx context.Context, userID int64) (*entities.TicketPool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketPool), args.Error(1)
}

func (m *MockTicketPoolRepository) GetAll(ctx context.Context) ([]*entities.TicketPool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TicketPool), args.Error(1)
}

func (m *MockTicketPoolRepository) GetAllTicketIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTicketPoolRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPoolArchiveRepository is a mock implementation of PoolArchiveRepository
type MockPoolArchiveRepository struct {
	mock.Mock
}

func (m *MockPoolArchiveRepository) CreateBatch(ctx context.Context, archives []*entities.PoolArchive) error {
	args := m.Called(ctx, archives)
	return args.Error(0)
}

func (m *MockPoolArchiveRepository) CountMatching(ctx context.Context, pools []*entities.TicketPool) (int64, error) {
	args := m.Called(ctx, pools)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPoolArchiveRepository) GetAll(ctx context.Context) ([]*entities.PoolArchive, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolArchive), args.Error(1)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) Create(ctx context.Context, winner *entities.Winner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

func (m *MockWinnerRepository) GetAll(ctx context.Context) ([]*entities.Winner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Winner), args.Error(1)
}

func (m *MockWinnerRepository) GetByGiveaway(ctx context.Context, giveawayID int64) ([]*entities.Winner, error) {
	args := m.Called(ctx, giveawayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Winner), args.Error(1)
}

func (m *MockWinnerRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockWinnerArchiveRepository is a mock implementation of WinnerArchiveRepository
type MockWinnerArchiveRepository struct {
	mock.Mock
}

func (m *MockWinnerArchiveRepository) CreateBatch(ctx context.Context, archives []*entities.WinnerArchive) error {
	args := m.Called(ctx, archives)
	return args.Error(0)
}

func (m *MockWinnerArchiveRepository) GetAll(ctx context.Context) ([]*entities.WinnerArchive, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WinnerArchive), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
