package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGeocoder returns fixed coordinates or an error, standing in for the
// external geocoding API
type stubGeocoder struct {
	coords *models.Coordinates
	err    error
}

func (s *stubGeocoder) Geocode(_ context.Context, _, _, _ string) (*models.Coordinates, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.coords, nil
}

// fakeOrderRepo is in-memory OrderRepository recording mutations for assertions
type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
	active []models.Order

	combineUpdates []models.StatusUpdate
	combineCredits []models.RewardCredit
	combineErr     error

	statusUpdates []models.StatusUpdate
	statusCredits []models.RewardCredit
	statusErr     error

	groupOrders []models.Order

	coordUpdates map[uuid.UUID]models.Coordinates
}

func newFakeOrderRepo(active ...models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		orders:       map[uuid.UUID]*models.Order{},
		active:       active,
		coordUpdates: map[uuid.UUID]models.Coordinates{},
	}
	for i := range active {
		order := active[i]
		repo.orders[order.ID] = &order
	}
	return repo
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	r.orders[order.ID] = order
	return order, nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) GetOrdersByCustomerID(_ context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) GetOrdersByRestaurantID(_ context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.RestaurantID == restaurantID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) GetOrdersByDriverID(_ context.Context, driverID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.DriverID != nil && *order.DriverID == driverID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) GetAvailableOrders(_ context.Context) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.DriverID == nil &&
			(order.Status == models.OrderStatusReady || order.Status == models.OrderStatusCombined) {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) GetActiveOrderByCustomer(_ context.Context, customerID uuid.UUID) (*models.Order, error) {
	for i := range r.active {
		order := &r.active[i]
		if order.CustomerID == customerID && isActiveStatus(order.Status) {
			return order, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (r *fakeOrderRepo) GetActiveOrdersByCityZip(_ context.Context, city, zipCode string) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.active {
		if order.DeliveryAddress.City == city && order.DeliveryAddress.ZipCode == zipCode && isActiveStatus(order.Status) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) GetGroupOrdersWithoutDriver(_ context.Context, _ string, _ uuid.UUID) ([]models.Order, error) {
	return r.groupOrders, nil
}

func (r *fakeOrderRepo) GetOrdersMissingCoordinates(_ context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.DeliveryAddress.Coordinates == nil && len(orders) < limit {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, update models.StatusUpdate, credits []models.RewardCredit) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	r.statusUpdates = append(r.statusUpdates, update)
	r.statusCredits = append(r.statusCredits, credits...)
	return nil
}

func (r *fakeOrderRepo) CombineOrders(_ context.Context, updates []models.StatusUpdate, credits []models.RewardCredit) error {
	if r.combineErr != nil {
		return r.combineErr
	}
	r.combineUpdates = append(r.combineUpdates, updates...)
	r.combineCredits = append(r.combineCredits, credits...)
	return nil
}

func (r *fakeOrderRepo) UpdateOrderCoordinates(_ context.Context, orderID uuid.UUID, coords models.Coordinates) error {
	r.coordUpdates[orderID] = coords
	return nil
}

func isActiveStatus(status string) bool {
	for _, s := range models.ActiveOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func activeOrder(customerID uuid.UUID, status string, coords *models.Coordinates) models.Order {
	return models.Order{
		ID:           uuid.New(),
		CustomerID:   customerID,
		RestaurantID: uuid.New(),
		Status:       status,
		DeliveryAddress: models.Address{
			Street:      "12 Oak Ave",
			City:        "Raleigh",
			ZipCode:     "27601",
			Coordinates: coords,
		},
	}
}

func TestCombineService_CombinesNearbyOrders(t *testing.T) {
	customerID := uuid.New()
	neighborID := uuid.New()
	coords := &models.Coordinates{Lat: 35.7796, Lng: -78.6382}

	mine := activeOrder(customerID, models.OrderStatusPlaced, coords)
	theirs := activeOrder(neighborID, models.OrderStatusPreparing, coords)

	repo := newFakeOrderRepo(mine, theirs)
	svc := NewCombineService(repo, &stubGeocoder{coords: coords})

	result, err := svc.Combine(context.Background(), customerID, 0)
	require.NoError(t, err)

	require.Len(t, result.CombinedOrders, 2)
	assert.Contains(t, result.Message, "Orders combined")
	assert.Equal(t, []uuid.UUID{mine.ID, theirs.ID}, result.UpdatedOrderIDs)

	hex := strings.ReplaceAll(mine.ID.String(), "-", "")
	wantGroupID := "GRP" + hex[len(hex)-6:]

	for _, order := range result.CombinedOrders {
		assert.Equal(t, models.OrderStatusCombined, order.Status)
		require.NotNil(t, order.CombineGroupID)
		assert.Equal(t, wantGroupID, *order.CombineGroupID)
	}

	// transition keeps the status each order was loaded at
	require.Len(t, repo.combineUpdates, 2)
	assert.Equal(t, models.OrderStatusPlaced, repo.combineUpdates[0].FromStatus)
	assert.Equal(t, models.OrderStatusPreparing, repo.combineUpdates[1].FromStatus)

	// each customer earns combine points exactly once
	require.Len(t, repo.combineCredits, 2)
	credited := map[uuid.UUID]int{}
	for _, credit := range repo.combineCredits {
		credited[credit.UserID] += credit.Points
	}
	assert.Equal(t, models.CombineRewardPoints, credited[customerID])
	assert.Equal(t, models.CombineRewardPoints, credited[neighborID])
}

func TestCombineService_NoActiveOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewCombineService(repo, &stubGeocoder{err: models.ErrAddressNotFound})

	_, err := svc.Combine(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, models.ErrNoActiveOrders)
}

func TestCombineService_NothingNearby(t *testing.T) {
	customerID := uuid.New()

	mine := activeOrder(customerID, models.OrderStatusPlaced, &models.Coordinates{Lat: 35.7796, Lng: -78.6382})
	// same city and zip, but roughly a kilometer away
	far := activeOrder(uuid.New(), models.OrderStatusPlaced, &models.Coordinates{Lat: 35.7886, Lng: -78.6382})

	repo := newFakeOrderRepo(mine, far)
	svc := NewCombineService(repo, &stubGeocoder{})

	result, err := svc.Combine(context.Background(), customerID, 500)
	require.NoError(t, err)

	assert.Equal(t, "No nearby orders to combine", result.Message)
	assert.Empty(t, result.CombinedOrders)
	assert.Empty(t, repo.combineUpdates)
}

func TestCombineService_SkipsOwnOrders(t *testing.T) {
	customerID := uuid.New()
	coords := &models.Coordinates{Lat: 35.7796, Lng: -78.6382}

	first := activeOrder(customerID, models.OrderStatusPlaced, coords)
	second := activeOrder(customerID, models.OrderStatusReady, coords)

	repo := newFakeOrderRepo(first, second)
	svc := NewCombineService(repo, &stubGeocoder{coords: coords})

	result, err := svc.Combine(context.Background(), customerID, 0)
	require.NoError(t, err)

	assert.Equal(t, "No nearby orders to combine", result.Message)
	assert.Empty(t, repo.combineUpdates)
}

func TestCombineService_CreditsCustomerOnce(t *testing.T) {
	customerID := uuid.New()
	neighborID := uuid.New()
	coords := &models.Coordinates{Lat: 35.7796, Lng: -78.6382}

	mine := activeOrder(customerID, models.OrderStatusPlaced, coords)
	lunch := activeOrder(neighborID, models.OrderStatusPlaced, coords)
	dinner := activeOrder(neighborID, models.OrderStatusPreparing, coords)

	repo := newFakeOrderRepo(mine, lunch, dinner)
	svc := NewCombineService(repo, &stubGeocoder{coords: coords})

	result, err := svc.Combine(context.Background(), customerID, 0)
	require.NoError(t, err)

	assert.Len(t, result.CombinedOrders, 3)
	// three orders, two customers, two credits
	require.Len(t, repo.combineCredits, 2)
	for _, credit := range repo.combineCredits {
		assert.Equal(t, models.CombineRewardPoints, credit.Points)
	}
}

func TestCombineService_DifferentCityNeverCombined(t *testing.T) {
	aliceID := uuid.New()
	bobID := uuid.New()
	carolID := uuid.New()

	alice := models.Order{
		ID:         uuid.New(),
		CustomerID: aliceID,
		Status:     models.OrderStatusPlaced,
		DeliveryAddress: models.Address{
			Street:  "200 Main St",
			City:    "Raleigh",
			ZipCode: "27601",
		},
	}
	bob := models.Order{
		ID:         uuid.New(),
		CustomerID: bobID,
		Status:     models.OrderStatusPreparing,
		DeliveryAddress: models.Address{
			Street:  "201 Main St",
			City:    "Raleigh",
			ZipCode: "27601",
		},
	}
	carol := models.Order{
		ID:         uuid.New(),
		CustomerID: carolID,
		Status:     models.OrderStatusPlaced,
		DeliveryAddress: models.Address{
			Street:  "200 Main St",
			City:    "Durham",
			ZipCode: "27701",
		},
	}

	// geocoder down, fallback coordinates put the two Main St orders
	// a few meters apart
	repo := newFakeOrderRepo(alice, bob, carol)
	svc := NewCombineService(repo, &stubGeocoder{err: models.ErrAddressNotFound})

	result, err := svc.Combine(context.Background(), aliceID, 0)
	require.NoError(t, err)

	require.Len(t, result.CombinedOrders, 2)
	assert.Equal(t, []uuid.UUID{alice.ID, bob.ID}, result.UpdatedOrderIDs)

	groupID := result.CombinedOrders[0].CombineGroupID
	require.NotNil(t, groupID)
	assert.True(t, strings.HasPrefix(*groupID, "GRP"))
	require.NotNil(t, result.CombinedOrders[1].CombineGroupID)
	assert.Equal(t, *groupID, *result.CombinedOrders[1].CombineGroupID)

	// the other city's order is untouched
	for _, update := range repo.combineUpdates {
		assert.NotEqual(t, carol.ID, update.Order.ID)
	}

	require.Len(t, repo.combineCredits, 2)
	credited := map[uuid.UUID]int{}
	for _, credit := range repo.combineCredits {
		credited[credit.UserID] += credit.Points
	}
	assert.Equal(t, models.CombineRewardPoints, credited[aliceID])
	assert.Equal(t, models.CombineRewardPoints, credited[bobID])
	assert.NotContains(t, credited, carolID)
}

func TestCombineService_ConcurrentCombineConflict(t *testing.T) {
	customerID := uuid.New()
	coords := &models.Coordinates{Lat: 35.7796, Lng: -78.6382}

	mine := activeOrder(customerID, models.OrderStatusPlaced, coords)
	theirs := activeOrder(uuid.New(), models.OrderStatusPlaced, coords)

	repo := newFakeOrderRepo(mine, theirs)
	repo.combineErr = models.ErrOrderConflict
	svc := NewCombineService(repo, &stubGeocoder{coords: coords})

	_, err := svc.Combine(context.Background(), customerID, 0)
	assert.ErrorIs(t, err, models.ErrOrderConflict)
}

func TestCombineService_ResolvesMissingCoordinates(t *testing.T) {
	customerID := uuid.New()

	// neither order has coordinates and the geocoder is down, so the
	// deterministic fallback kicks in for both; identical addresses must
	// land on the same point and still combine
	mine := activeOrder(customerID, models.OrderStatusPlaced, nil)
	theirs := activeOrder(uuid.New(), models.OrderStatusPlaced, nil)

	repo := newFakeOrderRepo(mine, theirs)
	svc := NewCombineService(repo, &stubGeocoder{err: models.ErrAddressNotFound})

	result, err := svc.Combine(context.Background(), customerID, 0)
	require.NoError(t, err)

	require.Len(t, result.CombinedOrders, 2)
	assert.Contains(t, result.Message, "Orders combined")

	// resolved coordinates are persisted for the next combine
	assert.Contains(t, repo.coordUpdates, mine.ID)
	assert.Contains(t, repo.coordUpdates, theirs.ID)
	assert.Equal(t, repo.coordUpdates[mine.ID], repo.coordUpdates[theirs.ID])
}
