package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"ejaraat_backend/internal/auth"
	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/currency"
	"ejaraat_backend/internal/email"
	"ejaraat_backend/internal/models"
	"ejaraat_backend/internal/render"
	"ejaraat_backend/internal/services/dto"
	"ejaraat_backend/internal/storage"
	"ejaraat_backend/internal/testutil"
	"ejaraat_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []*email.Email
}

func (m *recordingMailer) Send(_ context.Context, e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeRates struct {
	rate decimal.Decimal
	err  error
}

func (f fakeRates) Convert(_ context.Context, from, to models.Currency, amount decimal.Decimal) (*currency.Conversion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &currency.Conversion{From: from, To: to, Rate: f.rate, Amount: amount, Result: amount.Mul(f.rate)}, nil
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	hub    *broadcast.Hub
	mailer *recordingMailer
	svc    *ServiceContainer
	now    time.Time
	user   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	f := &fixture{
		ctx:    context.Background(),
		db:     testutil.NewDB(t),
		hub:    broadcast.NewHub(32),
		mailer: &recordingMailer{},
		now:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	t.Cleanup(func() { _ = f.hub.Close() })

	f.svc = NewServiceContainer(Dependencies{
		Tokens:   auth.NewTokenManager("test-secret", time.Hour),
		Storage:  store,
		Broker:   f.hub,
		Renderer: render.MustNew(),
		Mailer:   f.mailer,
		Rates:    fakeRates{rate: decimal.RequireFromString("0.5")},
		Clock:    func() time.Time { return f.now },
	})
	f.user = testutil.CreateUser(t, f.db, "owner@example.com")
	return f
}

func (f *fixture) subscribe(t *testing.T, userID string) *broadcast.Subscription {
	t.Helper()
	sub, err := f.hub.Subscribe(f.ctx, broadcast.UserTopic(userID))
	require.NoError(t, err)
	t.Cleanup(sub.Close)
	return sub
}

// drain забирает всё, что уже опубликовано (публикация синхронная)
func drain(t *testing.T, sub *broadcast.Subscription) []broadcast.Envelope {
	t.Helper()
	var out []broadcast.Envelope
	for {
		select {
		case payload := <-sub.C:
			var env broadcast.Envelope
			require.NoError(t, json.Unmarshal(payload, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func (f *fixture) createProperty(t *testing.T, name, country string) *dto.PropertyResponse {
	t.Helper()
	p, err := f.svc.PropertyService.Create(f.ctx, f.db, f.user.ID, &dto.CreatePropertyRequest{
		Name:    name,
		Country: country,
		City:    "Khartoum",
		Address: "Street 1",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) rent(t *testing.T, propertyID string, req dto.RentRequest) *dto.RentalResponse {
	t.Helper()
	if req.TenantName == "" {
		req.TenantName = "john smith"
	}
	if req.PhoneNumber == "" {
		req.PhoneNumber = "+249123456"
	}
	if req.Price == 0 {
		req.Price = 12500
	}
	r, err := f.svc.RentalService.Rent(f.ctx, f.db, f.user.ID, propertyID, &req, dto.RentUploads{})
	require.NoError(t, err)
	return r
}

func countActivities(t *testing.T, db *gorm.DB, kind models.ActivityType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.RecentActivity{}).Where("activity_type = ?", kind).Count(&n).Error)
	return n
}

func assertAppCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

// ---------------- properties ----------------

func TestPropertyCreate_DerivesCurrencyAndRecordsAdd(t *testing.T) {
	f := newFixture(t)
	sub := f.subscribe(t, f.user.ID)

	p := f.createProperty(t, "Sunset Flat", "US")

	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "A", p.PropertyType)
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityAdd))

	msgs := drain(t, sub)
	require.Len(t, msgs, 1)
	assert.Equal(t, broadcast.TypeRecentActivities, msgs[0].Type)
	assert.Contains(t, msgs[0].HTML, "New property Sunset Flat added")
}

func TestPropertyList_SearchByNameOrCountry(t *testing.T) {
	f := newFixture(t)
	f.createProperty(t, "Nile View", "SD")
	f.createProperty(t, "Cairo Loft", "EG")

	all, err := f.svc.PropertyService.List(f.ctx, f.db, f.user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := f.svc.PropertyService.List(f.ctx, f.db, f.user.ID, &dto.PropertyListQuery{Q: "nile"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Nile View", byName[0].Name)

	byCountry, err := f.svc.PropertyService.List(f.ctx, f.db, f.user.ID, &dto.PropertyListQuery{Q: "eg"})
	require.NoError(t, err)
	require.Len(t, byCountry, 1)
	assert.Equal(t, "EGP", byCountry[0].Currency)
}

func TestProperty_OtherLandlordIsNotFound(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Mine", "SD")
	stranger := testutil.CreateUser(t, f.db, "stranger@example.com")

	_, err := f.svc.PropertyService.Get(f.ctx, f.db, stranger.ID, p.ID)
	assertAppCode(t, err, apperrors.CodeNotFound)

	err = f.svc.PropertyService.Delete(f.ctx, f.db, stranger.ID, p.ID)
	assertAppCode(t, err, apperrors.CodeNotFound)

	_, err = f.svc.RentalService.Rent(f.ctx, f.db, stranger.ID, p.ID, &dto.RentRequest{TenantName: "x", PhoneNumber: "+1", Price: 1}, dto.RentUploads{})
	assertAppCode(t, err, apperrors.CodeNotFound)
}

func TestPropertyUpdate_KeepsCurrencyUnlessCleared(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat", "SD")

	country := "EG"
	updated, err := f.svc.PropertyService.Update(f.ctx, f.db, f.user.ID, p.ID, &dto.UpdatePropertyRequest{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "SDG", updated.Currency)

	empty := ""
	updated, err = f.svc.PropertyService.Update(f.ctx, f.db, f.user.ID, p.ID, &dto.UpdatePropertyRequest{Currency: &empty})
	require.NoError(t, err)
	assert.Equal(t, "EGP", updated.Currency)

	// редактирование не пишет активностей
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityAdd))
}

func TestPropertyDelete_CascadesRental(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat", "SD")
	f.rent(t, p.ID, dto.RentRequest{})

	require.NoError(t, f.svc.PropertyService.Delete(f.ctx, f.db, f.user.ID, p.ID))

	var rentals, activities int64
	require.NoError(t, f.db.Model(&models.RentProperty{}).Count(&rentals).Error)
	require.NoError(t, f.db.Model(&models.RecentActivity{}).Count(&activities).Error)
	assert.Zero(t, rentals)
	assert.Zero(t, activities)
}

// ---------------- rentals ----------------

func TestRent_PushesExactlyOneRecentActivity(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat 1", "SD")
	sub := f.subscribe(t, f.user.ID)

	r := f.rent(t, p.ID, dto.RentRequest{})

	assert.Equal(t, "paid", r.Status)
	assert.Equal(t, "2024-03-01", r.StartDate)
	assert.Equal(t, "2024-03-31", r.EndDate)
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityRent))

	msgs := drain(t, sub)
	require.Len(t, msgs, 1)
	assert.Equal(t, broadcast.TypeRecentActivities, msgs[0].Type)
	assert.Contains(t, msgs[0].HTML, "Flat 1 has been rented")

	details, err := f.svc.PropertyService.Get(f.ctx, f.db, f.user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, details.IsRented)
	require.NotNil(t, details.Rental)
	assert.Equal(t, "John Smith", details.Rental.Tenant.Name)
}

func TestRent_ReusesTenantByNameAndPhone(t *testing.T) {
	f := newFixture(t)
	a := f.createProperty(t, "A", "SD")
	b := f.createProperty(t, "B", "SD")

	r1 := f.rent(t, a.ID, dto.RentRequest{TenantName: "JOHN smith"})
	r2 := f.rent(t, b.ID, dto.RentRequest{TenantName: "john SMITH"})

	assert.Equal(t, r1.Tenant.ID, r2.Tenant.ID)

	var tenants int64
	require.NoError(t, f.db.Model(&models.Tenant{}).Count(&tenants).Error)
	assert.Equal(t, int64(1), tenants)
}

func TestRent_AlreadyRentedIsConflict(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "A", "SD")
	f.rent(t, p.ID, dto.RentRequest{})

	_, err := f.svc.RentalService.Rent(f.ctx, f.db, f.user.ID, p.ID,
		&dto.RentRequest{TenantName: "x", PhoneNumber: "+1", Price: 1}, dto.RentUploads{})
	assertAppCode(t, err, apperrors.CodeConflict)
}

func TestRent_EndBeforeStartIsValidationError(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "A", "SD")

	_, err := f.svc.RentalService.Rent(f.ctx, f.db, f.user.ID, p.ID, &dto.RentRequest{
		TenantName: "x", PhoneNumber: "+1", Price: 1,
		StartDate: "2024-05-01", EndDate: "2024-04-01",
	}, dto.RentUploads{})
	assertAppCode(t, err, apperrors.CodeValidationFailed)

	var rentals int64
	require.NoError(t, f.db.Model(&models.RentProperty{}).Count(&rentals).Error)
	assert.Zero(t, rentals)
}

func TestRent_StoresUploads(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "A", "SD")

	r, err := f.svc.RentalService.Rent(f.ctx, f.db, f.user.ID, p.ID,
		&dto.RentRequest{TenantName: "x", PhoneNumber: "+1", Price: 1},
		dto.RentUploads{
			IDImage:  &dto.FileUpload{Filename: "passport.PNG", Content: pngImage(t, 2400, 1200)},
			Contract: &dto.FileUpload{Filename: "lease.pdf", Content: strings.NewReader("pdf")},
		})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.Tenant.IDImage, "tenants/"))
	assert.True(t, strings.HasSuffix(r.Tenant.IDImage, ".png"))
	assert.True(t, strings.HasPrefix(r.Contract, "contracts/"))

	ok, err := f.svc.Storage.Exists(f.ctx, r.Contract)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.svc.Storage.Get(f.ctx, r.Tenant.IDImage)
	require.NoError(t, err)
	defer stored.Close()
	cfg, format, err := image.DecodeConfig(stored)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 1600, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
}

func TestRent_RejectsBrokenIDImage(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "A", "SD")

	_, err := f.svc.RentalService.Rent(f.ctx, f.db, f.user.ID, p.ID,
		&dto.RentRequest{TenantName: "x", PhoneNumber: "+1", Price: 1},
		dto.RentUploads{
			IDImage: &dto.FileUpload{Filename: "passport.jpg", Content: strings.NewReader("not an image")},
		})
	assertAppCode(t, err, apperrors.CodeValidationFailed)

	var tenants int64
	require.NoError(t, f.db.Model(&models.Tenant{}).Count(&tenants).Error)
	assert.Zero(t, tenants)
}

func pngImage(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return &buf
}

func TestUpcomingPayments_DueTodayBecomesPending(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateProperty(t, f.db, f.user.ID, "Flat", "SD")
	rental := testutil.CreateRental(t, f.db, p, &models.RentProperty{
		Payment:   models.PaymentMonthly,
		Price:     1000,
		StartDate: testutil.Date(2024, 1, 1),
		EndDate:   testutil.Date(2024, 12, 31),
		Status:    models.RentalStatusUnpaid,
	})

	upcoming, err := f.svc.RentalService.UpcomingPayments(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, rental.ID, upcoming[0].RentalID)
	assert.Equal(t, "pending", upcoming[0].Status)
	assert.Equal(t, "2024-03-01", upcoming[0].DueDate)
	require.NotNil(t, upcoming[0].DaysUntilDue)
	assert.Equal(t, 0, *upcoming[0].DaysUntilDue)

	var stored models.RentProperty
	require.NoError(t, f.db.First(&stored, "id = ?", rental.ID).Error)
	assert.Equal(t, models.RentalStatusPending, stored.Status)
}

func TestReclassifyAll_OverdueFansOut(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateProperty(t, f.db, f.user.ID, "Villa", "SD")
	rental := testutil.CreateRental(t, f.db, p, &models.RentProperty{
		Payment:   models.PaymentYearly,
		Price:     120000,
		StartDate: testutil.Date(2023, 1, 1),
		EndDate:   testutil.Date(2025, 1, 1),
		Status:    models.RentalStatusUnpaid,
	})
	f.now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	sub := f.subscribe(t, f.user.ID)

	changed, err := f.svc.RentalService.ReclassifyAll(f.ctx, f.db)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	var stored models.RentProperty
	require.NoError(t, f.db.First(&stored, "id = ?", rental.ID).Error)
	assert.Equal(t, models.RentalStatusOverdue, stored.Status)
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityOverdue))

	var notifications []models.Notification
	require.NoError(t, f.db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.OverdueMessage, notifications[0].Message)
	assert.Contains(t, string(notifications[0].Data), rental.ID)

	msgs := drain(t, sub)
	types := make([]string, 0, len(msgs))
	for _, m := range msgs {
		types = append(types, m.Type)
	}
	assert.Equal(t, []string{
		broadcast.TypeRecentActivities,
		broadcast.TypeNotifications,
		broadcast.TypePaymentStatusChart,
	}, types)
	assert.Contains(t, msgs[1].HTML, "Payment overdue for the property.")
	chart, ok := msgs[2].Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), chart["overdue"])

	assert.Equal(t, 1, f.mailer.count())
	assert.Equal(t, []string{"owner@example.com"}, f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].HTMLBody, "120,000")

	// второй проход на ту же дату ничего не меняет
	changed, err = f.svc.RentalService.ReclassifyAll(f.ctx, f.db)
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Empty(t, drain(t, sub))
	assert.Equal(t, 1, f.mailer.count())
}

func TestReclassifyAll_ElapsedUnpaidContractIsOverdue(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateProperty(t, f.db, f.user.ID, "Room", "SD")
	testutil.CreateRental(t, f.db, p, &models.RentProperty{
		Payment:   models.PaymentWeekly,
		Price:     50,
		StartDate: testutil.Date(2024, 1, 1),
		EndDate:   testutil.Date(2024, 2, 1),
		Status:    models.RentalStatusUnpaid,
	})

	changed, err := f.svc.RentalService.ReclassifyAll(f.ctx, f.db)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	upcoming, err := f.svc.RentalService.UpcomingPayments(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestMarkPaid_RecordsPaymentEveryTime(t *testing.T) {
	f := newFixture(t)
	p := testutil.CreateProperty(t, f.db, f.user.ID, "Flat", "SD")
	rental := testutil.CreateRental(t, f.db, p, &models.RentProperty{
		Payment:   models.PaymentMonthly,
		Price:     1000,
		StartDate: testutil.Date(2024, 1, 1),
		EndDate:   testutil.Date(2024, 12, 31),
		Status:    models.RentalStatusPending,
	})

	upcoming, err := f.svc.RentalService.MarkPaid(f.ctx, f.db, f.user.ID, rental.ID)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityPayment))

	_, err = f.svc.RentalService.MarkPaid(f.ctx, f.db, f.user.ID, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countActivities(t, f.db, models.ActivityPayment))
}

func TestUpdateRental_SavedStatusFiresActivity(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat", "SD")
	r := f.rent(t, p.ID, dto.RentRequest{StartDate: "2024-01-01", EndDate: "2024-12-31"})

	price := int64(15000)
	updated, err := f.svc.RentalService.Update(f.ctx, f.db, f.user.ID, r.ID, &dto.UpdateRentalRequest{Price: &price}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.Price)
	assert.Equal(t, "2024-12-31", updated.EndDate)
	// новая аренда по умолчанию оплачена, правка цены фиксируется как платёж
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityPayment))

	overdue := "overdue"
	_, err = f.svc.RentalService.Update(f.ctx, f.db, f.user.ID, r.ID, &dto.UpdateRentalRequest{Status: &overdue}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityOverdue))

	// правка уже просроченной аренды: ещё одна активность и уведомление
	price = 16000
	_, err = f.svc.RentalService.Update(f.ctx, f.db, f.user.ID, r.ID, &dto.UpdateRentalRequest{Price: &price}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countActivities(t, f.db, models.ActivityOverdue))
	assert.Equal(t, int64(1), countActivities(t, f.db, models.ActivityPayment))

	unread, err := f.svc.NotificationService.GetUnread(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread.Unread)
}

func TestVacate_BeforeStartKeepsStartDate(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat", "SD")
	r := f.rent(t, p.ID, dto.RentRequest{StartDate: "2024-05-01", EndDate: "2024-12-31"})

	h, err := f.svc.RentalService.Vacate(f.ctx, f.db, f.user.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", h.StartDate)
	assert.Equal(t, "2024-05-01", h.EndDate)
}

func TestVacate_SnapshotsHistory(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat", "SD")
	r := f.rent(t, p.ID, dto.RentRequest{StartDate: "2024-01-01", EndDate: "2024-12-31"})

	h, err := f.svc.RentalService.Vacate(f.ctx, f.db, f.user.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", h.EndDate)
	assert.Equal(t, "month", h.PaymentType)
	assert.Equal(t, "John Smith", h.TenantName)

	details, err := f.svc.PropertyService.Get(f.ctx, f.db, f.user.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, details.IsRented)
	assert.Nil(t, details.Rental)
	require.Len(t, details.History, 1)

	// договор, закончившийся раньше, сохраняет свою дату
	r2 := f.rent(t, p.ID, dto.RentRequest{StartDate: "2024-01-01", EndDate: "2024-02-01"})
	h2, err := f.svc.RentalService.Vacate(f.ctx, f.db, f.user.ID, r2.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", h2.EndDate)

	history, err := f.svc.PropertyService.History(f.ctx, f.db, f.user.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-01", history[0].EndDate)

	name, data, err := f.svc.PropertyService.ExportHistory(f.ctx, f.db, f.user.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".xlsx"))
	assert.NotEmpty(t, data)
}

// ---------------- dashboard & notifications ----------------

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	sd := f.createProperty(t, "Nile", "SD")
	us := f.createProperty(t, "Brooklyn", "US")
	f.createProperty(t, "Empty", "EG")

	f.rent(t, sd.ID, dto.RentRequest{Payment: 30, Price: 1000, StartDate: "2024-01-01", EndDate: "2024-03-20"})
	f.rent(t, us.ID, dto.RentRequest{Payment: 7, Price: 100, StartDate: "2024-01-01", EndDate: "2024-12-31"})

	d, err := f.svc.DashboardService.Get(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)

	assert.Len(t, d.AvailableProperties, 1)
	assert.Len(t, d.RentedProperties, 2)
	assert.Equal(t, map[string]int64{"SDG": 1000, "USD": 400}, d.MonthlyRevenue)

	require.Len(t, d.ExpiringContracts, 1)
	assert.Equal(t, "Nile", d.ExpiringContracts[0].PropertyName)
	assert.Equal(t, 19, d.ExpiringContracts[0].DaysLeft)

	assert.Len(t, d.RecentActivities, 5)
	assert.Equal(t, int64(2), d.PaymentStatus.Paid)
	assert.Empty(t, d.Notifications)
}

func TestNotificationClear(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "Flat", "SD")
	for i := 0; i < 2; i++ {
		propertyID := p.ID
		require.NoError(t, f.db.Create(&models.Notification{
			UserID: f.user.ID, PropertyID: &propertyID, Message: models.OverdueMessage, Timestamp: f.now,
		}).Error)
	}
	sub := f.subscribe(t, f.user.ID)

	list, err := f.svc.NotificationService.GetUnread(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Unread)
	assert.Len(t, list.Notifications, 2)
	assert.Contains(t, list.HTML, "Flat")

	cleared, err := f.svc.NotificationService.Clear(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared.Cleared)
	assert.Contains(t, cleared.HTML, "No new notifications")

	f.svc.NotificationService.PublishCleared(f.ctx, f.user.ID, cleared.HTML)
	msgs := drain(t, sub)
	require.Len(t, msgs, 1)
	assert.Equal(t, broadcast.TypeClearNotifications, msgs[0].Type)
}

// ---------------- auth & currency ----------------

func TestAuth_RegisterLogin(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.AuthService.Register(f.ctx, f.db, &dto.RegisterRequest{Email: "New@Example.com", Password: "password123", Name: "Sara"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.AuthService.Register(f.ctx, f.db, &dto.RegisterRequest{Email: "new@example.com", Password: "password123"})
	assertAppCode(t, err, apperrors.CodeAlreadyExists)

	login, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: "new@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: "new@example.com", Password: "wrong-password"})
	assertAppCode(t, err, apperrors.CodeInvalidCredentials)

	_, err = f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: "missing@example.com", Password: "password123"})
	assertAppCode(t, err, apperrors.CodeInvalidCredentials)
}

func TestCurrencyService(t *testing.T) {
	svc := NewCurrencyService(fakeRates{rate: decimal.RequireFromString("0.5")})

	conv, err := svc.Convert(context.Background(), &dto.ConvertQuery{From: "USD", To: "EUR", Amount: "10"})
	require.NoError(t, err)
	assert.True(t, conv.Result.Equal(decimal.NewFromInt(5)))

	_, err = svc.Convert(context.Background(), &dto.ConvertQuery{From: "USD", To: "EUR", Amount: "-1"})
	assertAppCode(t, err, apperrors.CodeValidationFailed)

	failing := NewCurrencyService(fakeRates{err: currency.ErrUnavailable})
	_, err = failing.Convert(context.Background(), &dto.ConvertQuery{From: "USD", To: "EUR", Amount: "10"})
	assertAppCode(t, err, apperrors.CodeExternalServiceError)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, 503, appErr.HTTPCode)
}

func TestFileService_OnlyOwnerCanOpen(t *testing.T) {
	f := newFixture(t)
	p := f.createProperty(t, "A", "SD")

	r, err := f.svc.RentalService.Rent(f.ctx, f.db, f.user.ID, p.ID,
		&dto.RentRequest{TenantName: "x", PhoneNumber: "+1", Price: 1},
		dto.RentUploads{Contract: &dto.FileUpload{Filename: "lease.pdf", Content: strings.NewReader("pdf")}})
	require.NoError(t, err)

	file, err := f.svc.FileService.Open(f.ctx, f.db, f.user.ID, r.Contract)
	require.NoError(t, err)
	defer file.Content.Close()
	assert.Equal(t, "application/pdf", file.ContentType)

	stranger := testutil.CreateUser(t, f.db, "stranger@example.com")
	_, err = f.svc.FileService.Open(f.ctx, f.db, stranger.ID, r.Contract)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	_, err = f.svc.FileService.Open(f.ctx, f.db, f.user.ID, "contracts/missing.pdf")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
