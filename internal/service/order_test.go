package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.users[user.ID]; ok {
		return nil, models.ErrConflictData
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (r *fakeUserRepo) GetRestaurants(_ context.Context) ([]models.User, error) {
	var restaurants []models.User
	for _, user := range r.users {
		if user.Role == models.RoleRestaurant {
			restaurants = append(restaurants, *user)
		}
	}
	return restaurants, nil
}

func (r *fakeUserRepo) UpdateUserAddress(_ context.Context, userID uuid.UUID, address models.Address) error {
	user, ok := r.users[userID]
	if !ok {
		return models.ErrDataNotFound
	}
	user.Address = &address
	return nil
}

type fakeMenuRepo struct {
	items map[uuid.UUID]models.MenuItem
}

func newFakeMenuRepo(items ...models.MenuItem) *fakeMenuRepo {
	repo := &fakeMenuRepo{items: map[uuid.UUID]models.MenuItem{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeMenuRepo) CreateMenuItem(_ context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	r.items[item.ID] = *item
	return item, nil
}

func (r *fakeMenuRepo) GetMenuItemByID(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &item, nil
}

func (r *fakeMenuRepo) GetMenuItemsByIDs(_ context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeMenuRepo) GetMenuByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, item := range r.items {
		if item.RestaurantID == restaurantID && item.IsAvailable {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeMenuRepo) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return models.ErrDataNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeMenuRepo) DeleteMenuItem(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(r.items, id)
	return nil
}

func TestOrderService_Create(t *testing.T) {
	restaurantID := uuid.New()
	otherRestaurantID := uuid.New()
	customerID := uuid.New()

	salad := models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         "Garden Salad",
		Price:        8.5,
		IsAvailable:  true,
	}
	soup := models.MenuItem{
		ID:                   uuid.New(),
		RestaurantID:         restaurantID,
		Name:                 "Pumpkin Soup",
		Price:                6.0,
		IsAvailable:          true,
		IsSeasonal:           true,
		SeasonalRewardPoints: 5,
	}
	burger := models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: otherRestaurantID,
		Name:         "Burger",
		Price:        11.0,
		IsAvailable:  true,
	}

	customer := &models.TokenPayload{UserID: customerID, Role: models.RoleCustomer}
	coords := &models.Coordinates{Lat: 35.78, Lng: -78.64}

	newService := func() (*OrderService, *fakeOrderRepo) {
		repo := newFakeOrderRepo()
		svc := NewOrderService(repo, newFakeMenuRepo(salad, soup, burger), newFakeUserRepo(), &stubGeocoder{coords: coords})
		return svc, repo
	}

	t.Run("places_order_with_totals_and_rewards", func(t *testing.T) {
		svc, _ := newService()

		order, err := svc.Create(context.Background(), customer, CreateOrderRequest{
			Items: []CreateOrderItem{
				{MenuItemID: salad.ID, Quantity: 2},
				{MenuItemID: soup.ID, Quantity: 1},
			},
			DeliveryAddress:     models.Address{Street: "12 Oak Ave", City: "Raleigh", ZipCode: "27601"},
			PackagingPreference: models.PackagingReusable,
		})
		require.NoError(t, err)

		assert.Equal(t, customerID, order.CustomerID)
		assert.Equal(t, restaurantID, order.RestaurantID)
		assert.Equal(t, 2*8.5+6.0, order.Subtotal)
		assert.Equal(t, order.Subtotal, order.Total)

		// packaging reward plus the seasonal item bonus
		assert.Equal(t, models.EcoReward(models.PackagingReusable)+5, order.EcoRewardPoints)
		assert.False(t, order.EcoRewardCredited)

		assert.Equal(t, models.OrderStatusPlaced, order.Status)
		require.Len(t, order.StatusHistory, 1)
		assert.Equal(t, customerID.String(), order.StatusHistory[0].UpdatedBy)

		require.NotNil(t, order.DeliveryAddress.Coordinates)
		assert.Equal(t, *coords, *order.DeliveryAddress.Coordinates)
	})

	t.Run("defaults_zero_quantity_to_one", func(t *testing.T) {
		svc, _ := newService()

		order, err := svc.Create(context.Background(), customer, CreateOrderRequest{
			Items: []CreateOrderItem{{MenuItemID: salad.ID}},
		})
		require.NoError(t, err)

		require.Len(t, order.Items, 1)
		assert.Equal(t, 1, order.Items[0].Quantity)
		assert.Equal(t, salad.Price, order.Subtotal)
	})

	t.Run("rejects_empty_order", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.Create(context.Background(), customer, CreateOrderRequest{})
		assert.ErrorIs(t, err, models.ErrNoOrderItems)
	})

	t.Run("rejects_unknown_menu_item", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.Create(context.Background(), customer, CreateOrderRequest{
			Items: []CreateOrderItem{{MenuItemID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, models.ErrInvalidOrderItems)
	})

	t.Run("rejects_items_from_multiple_restaurants", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.Create(context.Background(), customer, CreateOrderRequest{
			Items: []CreateOrderItem{
				{MenuItemID: salad.ID, Quantity: 1},
				{MenuItemID: burger.ID, Quantity: 1},
			},
		})
		assert.ErrorIs(t, err, models.ErrMixedRestaurants)
	})

	t.Run("rejects_non_customer", func(t *testing.T) {
		svc, _ := newService()

		driver := &models.TokenPayload{UserID: uuid.New(), Role: models.RoleDriver}
		_, err := svc.Create(context.Background(), driver, CreateOrderRequest{
			Items: []CreateOrderItem{{MenuItemID: salad.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestOrderService_UpdateStatusAuthorization(t *testing.T) {
	customerID := uuid.New()
	restaurantID := uuid.New()
	driverID := uuid.New()

	tests := []struct {
		name    string
		actor   *models.TokenPayload
		status  string
		wantErr error
	}{
		{
			name:   "customer_cancels_own_order",
			actor:  &models.TokenPayload{UserID: customerID, Role: models.RoleCustomer},
			status: "cancelled",
		},
		{
			name:    "stranger_cannot_cancel",
			actor:   &models.TokenPayload{UserID: uuid.New(), Role: models.RoleCustomer},
			status:  models.OrderStatusCancelled,
			wantErr: models.ErrForbidden,
		},
		{
			name:   "restaurant_accepts_own_order",
			actor:  &models.TokenPayload{UserID: restaurantID, Role: models.RoleRestaurant},
			status: models.OrderStatusAccepted,
		},
		{
			name:    "other_restaurant_cannot_accept",
			actor:   &models.TokenPayload{UserID: uuid.New(), Role: models.RoleRestaurant},
			status:  models.OrderStatusPreparing,
			wantErr: models.ErrForbidden,
		},
		{
			name:   "driver_marks_delivered",
			actor:  &models.TokenPayload{UserID: driverID, Role: models.RoleDriver},
			status: models.OrderStatusDelivered,
		},
		{
			name:    "customer_cannot_mark_delivered",
			actor:   &models.TokenPayload{UserID: customerID, Role: models.RoleCustomer},
			status:  models.OrderStatusDelivered,
			wantErr: models.ErrForbidden,
		},
		{
			name:    "unknown_status",
			actor:   &models.TokenPayload{UserID: customerID, Role: models.RoleCustomer},
			status:  "VANISHED",
			wantErr: models.ErrInvalidOrderStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := models.Order{
				ID:           uuid.New(),
				CustomerID:   customerID,
				RestaurantID: restaurantID,
				Status:       models.OrderStatusPlaced,
			}

			repo := newFakeOrderRepo()
			repo.orders[order.ID] = &order
			svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(), &stubGeocoder{})

			updated, err := svc.UpdateStatus(context.Background(), tt.actor, order.ID, tt.status, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, repo.statusUpdates, 1)
			assert.Equal(t, models.OrderStatusPlaced, repo.statusUpdates[0].FromStatus)
			assert.Equal(t, tt.actor.Role, updated.StatusHistory[len(updated.StatusHistory)-1].UpdatedBy)
		})
	}
}

func TestOrderService_TerminalOrderConflict(t *testing.T) {
	order := models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     models.OrderStatusDelivered,
	}

	repo := newFakeOrderRepo()
	repo.orders[order.ID] = &order
	svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(), &stubGeocoder{})

	actor := &models.TokenPayload{UserID: order.CustomerID, Role: models.RoleCustomer}
	_, err := svc.UpdateStatus(context.Background(), actor, order.ID, models.OrderStatusCancelled, nil)
	assert.ErrorIs(t, err, models.ErrOrderConflict)
}

func TestOrderService_DeliveredCreditsRewards(t *testing.T) {
	customerID := uuid.New()
	driver := &models.User{
		ID:          uuid.New(),
		Role:        models.RoleDriver,
		VehicleType: "electric car",
	}

	order := models.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		RestaurantID:    uuid.New(),
		DriverID:        &driver.ID,
		Status:          models.OrderStatusOutForDelivery,
		EcoRewardPoints: 30,
	}

	repo := newFakeOrderRepo()
	repo.orders[order.ID] = &order
	svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(driver), &stubGeocoder{})

	actor := &models.TokenPayload{UserID: driver.ID, Role: models.RoleDriver}
	updated, err := svc.UpdateStatus(context.Background(), actor, order.ID, models.OrderStatusDelivered, nil)
	require.NoError(t, err)

	assert.True(t, updated.EcoRewardCredited)
	assert.True(t, updated.DriverRewardCredited)
	assert.Equal(t, models.DriverIncentive("electric car"), updated.DriverRewardPoints)

	require.Len(t, repo.statusCredits, 2)
	credited := map[uuid.UUID]int{}
	for _, credit := range repo.statusCredits {
		credited[credit.UserID] = credit.Points
	}
	assert.Equal(t, 30, credited[customerID])
	assert.Equal(t, models.DriverIncentive("electric car"), credited[driver.ID])
}

func TestOrderService_DeliveredSurvivesDriverLookupFailure(t *testing.T) {
	customerID := uuid.New()
	missingDriverID := uuid.New()

	order := models.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		DriverID:        &missingDriverID,
		Status:          models.OrderStatusOutForDelivery,
		EcoRewardPoints: 30,
	}

	repo := newFakeOrderRepo()
	repo.orders[order.ID] = &order
	svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(), &stubGeocoder{})

	actor := &models.TokenPayload{UserID: missingDriverID, Role: models.RoleDriver}
	updated, err := svc.UpdateStatus(context.Background(), actor, order.ID, models.OrderStatusDelivered, nil)
	require.NoError(t, err)

	// the customer's eco points are credited, the incentive stays
	// claimable for a later replay
	assert.True(t, updated.EcoRewardCredited)
	assert.False(t, updated.DriverRewardCredited)
	assert.Zero(t, updated.DriverRewardPoints)

	require.Len(t, repo.statusCredits, 1)
	assert.Equal(t, customerID, repo.statusCredits[0].UserID)
	assert.Equal(t, 30, repo.statusCredits[0].Points)
}

func TestOrderService_DeliveredRewardsCreditedOnce(t *testing.T) {
	customerID := uuid.New()

	// crediting flags survive a replayed delivery transition
	order := models.Order{
		ID:                   uuid.New(),
		CustomerID:           customerID,
		Status:               models.OrderStatusOutForDelivery,
		EcoRewardPoints:      30,
		EcoRewardCredited:    true,
		DriverRewardCredited: true,
	}

	repo := newFakeOrderRepo()
	repo.orders[order.ID] = &order
	svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(), &stubGeocoder{})

	actor := &models.TokenPayload{UserID: uuid.New(), Role: models.RoleDriver}
	_, err := svc.UpdateStatus(context.Background(), actor, order.ID, models.OrderStatusDelivered, nil)
	require.NoError(t, err)

	assert.Empty(t, repo.statusCredits)
}

func TestOrderService_GeocodeBackfill(t *testing.T) {
	order := models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     models.OrderStatusPlaced,
		DeliveryAddress: models.Address{
			Street:  "12 Oak Ave",
			City:    "Raleigh",
			ZipCode: "27601",
		},
	}

	coords := &models.Coordinates{Lat: 35.78, Lng: -78.64}

	repo := newFakeOrderRepo()
	repo.orders[order.ID] = &order
	svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(), &stubGeocoder{coords: coords})

	orderCh := make(chan uuid.UUID, 10)
	require.NoError(t, svc.GetOrdersForGeocoding(context.Background(), orderCh))
	close(orderCh)

	svc.ResolveCoordinates(context.Background(), orderCh)

	require.Contains(t, repo.coordUpdates, order.ID)
	assert.Equal(t, *coords, repo.coordUpdates[order.ID])
}

func TestOrderService_AssignDriverPropagatesToGroup(t *testing.T) {
	driverID := uuid.New()
	groupID := "GRPa1b2c3"

	order := models.Order{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		Status:         models.OrderStatusCombined,
		CombineGroupID: &groupID,
	}
	sibling := models.Order{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		Status:         models.OrderStatusCombined,
		CombineGroupID: &groupID,
	}

	repo := newFakeOrderRepo()
	repo.orders[order.ID] = &order
	repo.groupOrders = []models.Order{sibling}
	svc := NewOrderService(repo, newFakeMenuRepo(), newFakeUserRepo(), &stubGeocoder{})

	actor := &models.TokenPayload{UserID: driverID, Role: models.RoleDriver}
	updated, err := svc.UpdateStatus(context.Background(), actor, order.ID, models.OrderStatusDriverAssigned, &driverID)
	require.NoError(t, err)

	require.NotNil(t, updated.DriverID)
	assert.Equal(t, driverID, *updated.DriverID)

	// the sibling order of the group is assigned too
	require.Len(t, repo.statusUpdates, 2)
	group := repo.statusUpdates[1].Order
	assert.Equal(t, sibling.ID, group.ID)
	assert.Equal(t, models.OrderStatusDriverAssigned, group.Status)
	require.NotNil(t, group.DriverID)
	assert.Equal(t, driverID, *group.DriverID)
}
