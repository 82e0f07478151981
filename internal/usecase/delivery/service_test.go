package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domDelivery "msme-logistics/internal/domain/delivery"
	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
	"msme-logistics/pkg/geo"
)

type fakeDeliveryRepo struct {
	deliveries map[uuid.UUID]*domDelivery.Delivery
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{deliveries: make(map[uuid.UUID]*domDelivery.Delivery)}
}

func (r *fakeDeliveryRepo) Create(_ context.Context, d *domDelivery.Delivery) error {
	copied := *d
	r.deliveries[d.ID] = &copied
	return nil
}

func (r *fakeDeliveryRepo) GetByID(_ context.Context, id uuid.UUID) (*domDelivery.Delivery, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, domDelivery.ErrDeliveryNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDeliveryRepo) List(_ context.Context, filter domDelivery.Filter) ([]*domDelivery.Delivery, int64, error) {
	var out []*domDelivery.Delivery
	for _, d := range r.deliveries {
		if filter.MSMEID != nil && d.MSMEID != *filter.MSMEID {
			continue
		}
		if filter.DriverID != nil && (d.DriverID == nil || *d.DriverID != *filter.DriverID) {
			continue
		}
		if filter.WarehouseID != nil && (d.WarehouseID == nil || *d.WarehouseID != *filter.WarehouseID) {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		copied := *d
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) Mutate(_ context.Context, id uuid.UUID, fn func(*domDelivery.Delivery) error) (*domDelivery.Delivery, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, domDelivery.ErrDeliveryNotFound
	}
	working := *d
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.deliveries[id] = &working
	copied := working
	return &copied, nil
}

func (r *fakeDeliveryRepo) Summarize(_ context.Context, filter domDelivery.Filter, _ int) (*domDelivery.Summary, error) {
	summary := &domDelivery.Summary{}
	deliveries, _, _ := r.List(context.Background(), filter)
	for _, d := range deliveries {
		summary.TotalDeliveries++
		switch d.Status {
		case domDelivery.StatusDelivered:
			summary.CompletedDeliveries++
		case domDelivery.StatusPending:
			summary.PendingDeliveries++
		case domDelivery.StatusPicked, domDelivery.StatusInTransit:
			summary.InTransitDeliveries++
		}
		summary.TotalRevenue += d.Pricing.TotalAmount
	}
	return summary, nil
}

type fakeUserRepo struct {
	users  map[uuid.UUID]*domUser.User
	getErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domUser.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domUser.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domUser.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domUser.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domUser.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domUser.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(_ context.Context, _ domUser.Filter) ([]*domUser.User, int64, error) {
	var out []*domUser.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domUser.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

type testEnv struct {
	service *Service
	repo    *fakeDeliveryRepo
	users   *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newFakeDeliveryRepo()
	users := newFakeUserRepo()
	return &testEnv{
		service: NewService(repo, users, nil, "INR", zap.NewNop()),
		repo:    repo,
		users:   users,
	}
}

func (e *testEnv) addDriver(active bool) uuid.UUID {
	id := uuid.New()
	e.users.users[id] = &domUser.User{ID: id, Role: domUser.RoleDriver, IsActive: active}
	return id
}

func (e *testEnv) seedDelivery(d *domDelivery.Delivery) *domDelivery.Delivery {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.OrderID == "" {
		d.OrderID = domDelivery.NewOrderID(time.Now())
	}
	e.repo.deliveries[d.ID] = d
	return d
}

func msmePrincipal(id uuid.UUID) domUser.Principal {
	return domUser.Principal{ID: id, Role: domUser.RoleMSME}
}

func driverPrincipal(id uuid.UUID) domUser.Principal {
	return domUser.Principal{ID: id, Role: domUser.RoleDriver}
}

func warehousePrincipal(id uuid.UUID) domUser.Principal {
	return domUser.Principal{ID: id, Role: domUser.RoleWarehouse}
}

func createRequest() *CreateDeliveryRequest {
	return &CreateDeliveryRequest{
		PickupLocation: LocationRequest{
			Address:     "Connaught Place, New Delhi",
			Coordinates: geo.Point{77.2090, 28.6139},
		},
		DropLocation: LocationRequest{
			Address:     "Pitampura, New Delhi",
			Coordinates: geo.Point{77.1025, 28.7041},
		},
		Cargo: CargoRequest{
			Type:   "textiles",
			Weight: 25,
		},
		VehicleType:         "tempo",
		ScheduledPickupTime: time.Now().Add(2 * time.Hour),
	}
}

func TestCreateComputesPricingAndRoute(t *testing.T) {
	env := newTestEnv(t)
	msmeID := uuid.New()

	resp, err := env.service.Create(context.Background(), msmePrincipal(msmeID), createRequest())
	require.NoError(t, err)

	// tempo rate 100, 25 kg rounds up to 3 weight steps: 100 * 1.3
	require.InDelta(t, 130.0, resp.Pricing.BaseFare, 1e-9)
	require.Equal(t, resp.Pricing.BaseFare, resp.Pricing.TotalAmount)
	require.Equal(t, "INR", resp.Pricing.Currency)

	require.InDelta(t, 14.44, resp.Route.Distance, 0.01)

	require.Equal(t, "pending", resp.Status)
	require.Equal(t, msmeID, resp.MSMEID)
	require.Len(t, resp.OrderID, 12)
	require.Equal(t, "DEL", resp.OrderID[:3])
}

func TestCreateRejectsNonMSME(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Create(context.Background(), driverPrincipal(uuid.New()), createRequest())
	require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestBaseFareWeightSteps(t *testing.T) {
	cases := []struct {
		vehicle domDelivery.VehicleType
		weight  float64
		want    float64
	}{
		{domDelivery.VehicleTwoWheeler, 5, 55},     // one step
		{domDelivery.VehicleTwoWheeler, 10, 55},    // boundary stays one step
		{domDelivery.VehicleTempo, 25, 130},        // three steps
		{domDelivery.VehicleTruck, 100, 400},       // ten steps
		{domDelivery.VehicleTruck, 100.5, 420},     // started step counts
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, BaseFare(tc.vehicle, tc.weight), 1e-9)
	}
}

func TestUpdateStatusPolicyTable(t *testing.T) {
	msmeID := uuid.New()
	driverID := uuid.New()
	warehouseID := uuid.New()

	cases := []struct {
		name      string
		principal domUser.Principal
		assigned  bool
		status    domDelivery.Status
		target    string
		wantCode  string
	}{
		{"assigned driver picks up", driverPrincipal(driverID), true, domDelivery.StatusAssigned, "picked", ""},
		{"assigned driver in transit", driverPrincipal(driverID), true, domDelivery.StatusPicked, "in-transit", ""},
		{"assigned driver skips to delivered", driverPrincipal(driverID), true, domDelivery.StatusAssigned, "delivered", ""},
		{"unassigned driver rejected", driverPrincipal(uuid.New()), true, domDelivery.StatusAssigned, "picked", appErrors.CodeUnauthorized},
		{"driver cannot cancel", driverPrincipal(driverID), true, domDelivery.StatusAssigned, "cancelled", appErrors.CodeInvalidTransition},
		{"warehouse assigns", warehousePrincipal(warehouseID), false, domDelivery.StatusPending, "assigned", ""},
		{"warehouse cancels", warehousePrincipal(warehouseID), false, domDelivery.StatusPending, "cancelled", ""},
		{"warehouse cannot deliver", warehousePrincipal(warehouseID), false, domDelivery.StatusPending, "delivered", appErrors.CodeInvalidTransition},
		{"other warehouse rejected", warehousePrincipal(uuid.New()), false, domDelivery.StatusPending, "assigned", appErrors.CodeUnauthorized},
		{"msme cancels pending", msmePrincipal(msmeID), false, domDelivery.StatusPending, "cancelled", ""},
		{"msme cancels assigned", msmePrincipal(msmeID), true, domDelivery.StatusAssigned, "cancelled", ""},
		{"msme cannot cancel picked", msmePrincipal(msmeID), true, domDelivery.StatusPicked, "cancelled", appErrors.CodeInvalidTransition},
		{"msme cannot deliver", msmePrincipal(msmeID), false, domDelivery.StatusPending, "delivered", appErrors.CodeInvalidTransition},
		{"other msme rejected", msmePrincipal(uuid.New()), false, domDelivery.StatusPending, "cancelled", appErrors.CodeUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			d := &domDelivery.Delivery{
				MSMEID:      msmeID,
				WarehouseID: &warehouseID,
				Status:      tc.status,
			}
			if tc.assigned {
				id := driverID
				d.DriverID = &id
			}
			env.seedDelivery(d)

			_, err := env.service.UpdateStatus(context.Background(), tc.principal, d.ID, &UpdateStatusRequest{Status: tc.target})
			if tc.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Equal(t, tc.wantCode, appErrors.CodeOf(err))
			}
		})
	}
}

func TestUpdateStatusAppendsHistoryAndStampsTimes(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()
	pickup := geo.Point{77.2090, 28.6139}

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:   uuid.New(),
		DriverID: &driverID,
		Status:   domDelivery.StatusAssigned,
	})

	resp, err := env.service.UpdateStatus(context.Background(), driverPrincipal(driverID), d.ID,
		&UpdateStatusRequest{Status: "picked", Location: &pickup, Notes: "Loaded at dock 3"})
	require.NoError(t, err)
	require.NotNil(t, resp.ActualPickupTime)
	require.Len(t, resp.Tracking.History, 1)
	require.Equal(t, domDelivery.StatusPicked, resp.Tracking.History[0].Status)
	require.Equal(t, "Loaded at dock 3", resp.Tracking.History[0].Notes)
	require.Equal(t, pickup, *resp.Tracking.CurrentLocation)

	// no location supplied: the entry reuses the last known location
	resp, err = env.service.UpdateStatus(context.Background(), driverPrincipal(driverID), d.ID,
		&UpdateStatusRequest{Status: "in-transit"})
	require.NoError(t, err)
	require.Len(t, resp.Tracking.History, 2)
	require.NotNil(t, resp.Tracking.History[1].Location)
	require.Equal(t, pickup, *resp.Tracking.History[1].Location)

	resp, err = env.service.UpdateStatus(context.Background(), driverPrincipal(driverID), d.ID,
		&UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	require.NotNil(t, resp.ActualDeliveryTime)
	require.Len(t, resp.Tracking.History, 3)
}

func TestAssignDriver(t *testing.T) {
	env := newTestEnv(t)
	warehouseID := uuid.New()
	driverID := env.addDriver(true)

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:      uuid.New(),
		WarehouseID: &warehouseID,
		Status:      domDelivery.StatusPending,
	})

	resp, err := env.service.AssignDriver(context.Background(), warehousePrincipal(warehouseID), d.ID,
		&AssignDriverRequest{DriverID: driverID})
	require.NoError(t, err)
	require.Equal(t, "assigned", resp.Status)
	require.Equal(t, driverID, *resp.DriverID)
}

func TestAssignDriverRejectsInvalidDriver(t *testing.T) {
	env := newTestEnv(t)
	warehouseID := uuid.New()
	inactive := env.addDriver(false)
	msme := uuid.New()
	env.users.users[msme] = &domUser.User{ID: msme, Role: domUser.RoleMSME, IsActive: true}

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:      uuid.New(),
		WarehouseID: &warehouseID,
		Status:      domDelivery.StatusPending,
	})

	for _, driverID := range []uuid.UUID{inactive, msme, uuid.New()} {
		_, err := env.service.AssignDriver(context.Background(), warehousePrincipal(warehouseID), d.ID,
			&AssignDriverRequest{DriverID: driverID})
		require.Equal(t, appErrors.CodeInvalidDriver, appErrors.CodeOf(err))
	}
}

func TestAssignDriverSurfacesUserStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	warehouseID := uuid.New()
	env.users.getErr = errors.New("connection reset")

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:      uuid.New(),
		WarehouseID: &warehouseID,
		Status:      domDelivery.StatusPending,
	})

	_, err := env.service.AssignDriver(context.Background(), warehousePrincipal(warehouseID), d.ID,
		&AssignDriverRequest{DriverID: uuid.New()})
	require.Equal(t, appErrors.CodePersistenceFailure, appErrors.CodeOf(err))
}

func TestAssignDriverRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	warehouseID := uuid.New()
	driverID := env.addDriver(true)

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:      uuid.New(),
		WarehouseID: &warehouseID,
		Status:      domDelivery.StatusPending,
	})

	_, err := env.service.AssignDriver(context.Background(), warehousePrincipal(uuid.New()), d.ID,
		&AssignDriverRequest{DriverID: driverID})
	require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestUpdateLocationKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:   uuid.New(),
		DriverID: &driverID,
		Status:   domDelivery.StatusInTransit,
	})

	ping := geo.Point{77.15, 28.65}
	resp, err := env.service.UpdateLocation(context.Background(), driverPrincipal(driverID), d.ID,
		&UpdateLocationRequest{Location: ping})
	require.NoError(t, err)
	require.Equal(t, "in-transit", resp.Status)
	require.Equal(t, ping, *resp.Tracking.CurrentLocation)
	require.Len(t, resp.Tracking.History, 1)
	require.Equal(t, domDelivery.StatusInTransit, resp.Tracking.History[0].Status)
	require.Equal(t, "Location updated", resp.Tracking.History[0].Notes)
}

func TestUpdateLocationRejectsUnassignedDriver(t *testing.T) {
	env := newTestEnv(t)
	driverID := uuid.New()

	d := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:   uuid.New(),
		DriverID: &driverID,
		Status:   domDelivery.StatusInTransit,
	})

	_, err := env.service.UpdateLocation(context.Background(), driverPrincipal(uuid.New()), d.ID,
		&UpdateLocationRequest{Location: geo.Point{77.15, 28.65}})
	require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestAddRating(t *testing.T) {
	msmeID := uuid.New()
	driverID := uuid.New()

	newDelivered := func(env *testEnv) *domDelivery.Delivery {
		return env.seedDelivery(&domDelivery.Delivery{
			MSMEID:   msmeID,
			DriverID: &driverID,
			Status:   domDelivery.StatusDelivered,
		})
	}

	t.Run("msme rates driver", func(t *testing.T) {
		env := newTestEnv(t)
		d := newDelivered(env)
		resp, err := env.service.AddRating(context.Background(), msmePrincipal(msmeID), d.ID,
			&AddRatingRequest{Score: 5, Feedback: "On time", RatingType: "driver"})
		require.NoError(t, err)
		require.NotNil(t, resp.Rating.DriverRating)
		require.Equal(t, 5, resp.Rating.DriverRating.Score)
		require.Nil(t, resp.Rating.MSMERating)
	})

	t.Run("driver rates msme", func(t *testing.T) {
		env := newTestEnv(t)
		d := newDelivered(env)
		resp, err := env.service.AddRating(context.Background(), driverPrincipal(driverID), d.ID,
			&AddRatingRequest{Score: 4, RatingType: "msme"})
		require.NoError(t, err)
		require.NotNil(t, resp.Rating.MSMERating)
	})

	t.Run("msme cannot rate itself", func(t *testing.T) {
		env := newTestEnv(t)
		d := newDelivered(env)
		_, err := env.service.AddRating(context.Background(), msmePrincipal(msmeID), d.ID,
			&AddRatingRequest{Score: 5, RatingType: "msme"})
		require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
	})

	t.Run("only delivered deliveries", func(t *testing.T) {
		env := newTestEnv(t)
		d := env.seedDelivery(&domDelivery.Delivery{
			MSMEID:   msmeID,
			DriverID: &driverID,
			Status:   domDelivery.StatusInTransit,
		})
		_, err := env.service.AddRating(context.Background(), msmePrincipal(msmeID), d.ID,
			&AddRatingRequest{Score: 5, RatingType: "driver"})
		require.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
	})
}

func TestGetRequiresParty(t *testing.T) {
	env := newTestEnv(t)
	msmeID := uuid.New()
	d := env.seedDelivery(&domDelivery.Delivery{MSMEID: msmeID, Status: domDelivery.StatusPending})

	_, err := env.service.Get(context.Background(), msmePrincipal(msmeID), d.ID)
	require.NoError(t, err)

	_, err = env.service.Get(context.Background(), msmePrincipal(uuid.New()), d.ID)
	require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))

	_, err = env.service.Get(context.Background(), msmePrincipal(msmeID), uuid.New())
	require.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestListScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	msmeID := uuid.New()
	driverID := uuid.New()

	env.seedDelivery(&domDelivery.Delivery{MSMEID: msmeID, Status: domDelivery.StatusPending})
	env.seedDelivery(&domDelivery.Delivery{MSMEID: msmeID, DriverID: &driverID, Status: domDelivery.StatusAssigned})
	env.seedDelivery(&domDelivery.Delivery{MSMEID: uuid.New(), Status: domDelivery.StatusPending})

	resp, err := env.service.List(context.Background(), msmePrincipal(msmeID), &ListFilterRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Pagination.Total)

	resp, err = env.service.List(context.Background(), driverPrincipal(driverID), &ListFilterRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Pagination.Total)

	resp, err = env.service.List(context.Background(), msmePrincipal(msmeID), &ListFilterRequest{Status: "assigned"})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Pagination.Total)
}

func TestHaversineScenario(t *testing.T) {
	km := geo.RoundKm(geo.DistanceKm(geo.Point{77.2090, 28.6139}, geo.Point{77.1025, 28.7041}))
	require.InDelta(t, 14.44, km, 0.01)
}

type capturingBroadcaster struct {
	events []Event
}

func (b *capturingBroadcaster) Broadcast(event Event) {
	b.events = append(b.events, event)
}

func TestRecordDriverLocationTouchesOnlyActiveDeliveries(t *testing.T) {
	env := newTestEnv(t)
	broadcaster := &capturingBroadcaster{}
	env.service.broadcaster = broadcaster

	driverID := env.addDriver(true)

	inTransit := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:   uuid.New(),
		DriverID: &driverID,
		Status:   domDelivery.StatusInTransit,
	})
	pending := env.seedDelivery(&domDelivery.Delivery{
		MSMEID:   uuid.New(),
		DriverID: &driverID,
		Status:   domDelivery.StatusPending,
	})
	otherDriver := uuid.New()
	env.seedDelivery(&domDelivery.Delivery{
		MSMEID:   uuid.New(),
		DriverID: &otherDriver,
		Status:   domDelivery.StatusInTransit,
	})

	at := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	point := geo.Point{77.15, 28.65}
	applied, err := env.service.RecordDriverLocation(context.Background(), driverID, point, at)
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	updated := env.repo.deliveries[inTransit.ID]
	require.NotNil(t, updated.Tracking.CurrentLocation)
	require.Equal(t, point, *updated.Tracking.CurrentLocation)
	require.Len(t, updated.Tracking.History, 1)
	require.Equal(t, domDelivery.StatusInTransit, updated.Status)

	untouched := env.repo.deliveries[pending.ID]
	require.Nil(t, untouched.Tracking.CurrentLocation)

	require.Len(t, broadcaster.events, 1)
	require.Equal(t, inTransit.ID, broadcaster.events[0].DeliveryID)
	require.Equal(t, "location", broadcaster.events[0].Kind)
	require.Equal(t, at, broadcaster.events[0].Timestamp)
}
