package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
)

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

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context) ([]*entities.Appointment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]*entities.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Payment, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

type MockNursePaymentRepository struct {
	mock.Mock
}

func (m *MockNursePaymentRepository) ServiceFeeForAppointment(ctx context.Context, appointmentID int64) (*repositories.ServiceFee, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ServiceFee), args.Error(1)
}

func (m *MockNursePaymentRepository) Create(ctx context.Context, payment *entities.NursePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockNursePaymentRepository) GetByID(ctx context.Context, id int64) (*entities.NursePayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NursePayment), args.Error(1)
}

func (m *MockNursePaymentRepository) List(ctx context.Context, filter entities.NursePaymentFilter) ([]*entities.NursePayment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entities.NursePayment), args.Error(1)
}

func (m *MockNursePaymentRepository) MarkPaid(ctx context.Context, id int64) (*entities.NursePayment, *entities.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*entities.NursePayment), args.Get(1).(*entities.Notification), args.Error(2)
}

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *entities.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id int64) (*entities.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Blog), args.Error(1)
}

func (m *MockBlogRepository) List(ctx context.Context, category string) ([]*entities.Blog, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]*entities.Blog), args.Error(1)
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *entities.Blog, keepImage bool) error {
	args := m.Called(ctx, blog, keepImage)
	return args.Error(0)
}

func (m *MockBlogRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*entities.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockContactMessageRepository struct {
	mock.Mock
}

func (m *MockContactMessageRepository) Create(ctx context.Context, msg *entities.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockContactMessageRepository) List(ctx context.Context) ([]*entities.ContactMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.ContactMessage), args.Error(1)
}

func (m *MockContactMessageRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockContactMessageRepository) SetAutoReplyStatus(ctx context.Context, id int64, status entities.AutoReplyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

func (m *MockMailer) Enabled() bool {
	return m.Called().Bool(0)
}

type MockBlogSearch struct {
	mock.Mock
}

func (m *MockBlogSearch) Index(ctx context.Context, blog *entities.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogSearch) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogSearch) Search(ctx context.Context, query, category string, limit int) ([]*entities.BlogSearchHit, error) {
	args := m.Called(ctx, query, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BlogSearchHit), args.Error(1)
}

// recordingBus keeps published events for assertions
type recordingBus struct {
	mu        sync.Mutex
	published map[string][]*entities.NotificationEvent
	err       error
}

func newRecordingBus() *recordingBus {
	return &recordingBus{published: make(map[string][]*entities.NotificationEvent)}
}

func (b *recordingBus) Publish(_ context.Context, channel string, event *entities.NotificationEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.published[channel] = append(b.published[channel], event)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string) (<-chan *entities.NotificationEvent, error) {
	return make(chan *entities.NotificationEvent), nil
}

func (b *recordingBus) Unsubscribe(context.Context, string) error { return nil }

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) events(channel string) []*entities.NotificationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published[channel]
}

// fakeHasher prefixes the password so tests can assert on it without bcrypt cost
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

// countingHasher records every Compare call
type countingHasher struct {
	fakeHasher
	compared []string
}

func (h *countingHasher) Compare(hash, password string) bool {
	h.compared = append(h.compared, hash)
	return h.fakeHasher.Compare(hash, password)
}

type fakeTokens struct{}

func (fakeTokens) Issue(user *entities.User) (string, error) { return "token-for-" + user.Email, nil }
