package handlers_test

import (
	"context"
	"io"

	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/entities"
)

type stubUserService struct {
	registered []services.NewUserInput
	loginErr   error
	err        error
}

func (s *stubUserService) Register(_ context.Context, in services.NewUserInput) (*entities.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = append(s.registered, in)
	return &entities.User{ID: 1, Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (s *stubUserService) Create(_ context.Context, in services.NewUserInput) (*entities.User, *services.Credentials, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &entities.User{ID: 2, Email: in.Email, Role: in.Role},
		&services.Credentials{Email: in.Email, Password: in.Password, LoginURL: "http://localhost:3000/login.html", Note: "share"}, nil
}

func (s *stubUserService) Login(_ context.Context, email, _ string) (*services.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &services.LoginResult{User: &entities.User{ID: 1, Email: email, PasswordHash: "secret-hash"}, Token: "tok"}, nil
}

func (s *stubUserService) Get(_ context.Context, id int64) (*entities.User, error) {
	return &entities.User{ID: id}, s.err
}

func (s *stubUserService) List(context.Context) ([]*entities.User, error) {
	return []*entities.User{}, s.err
}

func (s *stubUserService) Update(context.Context, int64, entities.UserPatch) error { return s.err }

func (s *stubUserService) Delete(context.Context, int64) error { return s.err }

type stubAppointmentService struct {
	updated *entities.AppointmentPatch
	err     error
}

func (s *stubAppointmentService) Create(_ context.Context, in services.NewAppointmentInput) (*entities.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Appointment{ID: 11, PatientID: in.PatientID, AppointmentDate: in.AppointmentDate}, nil
}

func (s *stubAppointmentService) Get(_ context.Context, id int64) (*entities.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Appointment{ID: id}, nil
}

func (s *stubAppointmentService) List(context.Context) ([]*entities.Appointment, error) {
	return []*entities.Appointment{}, s.err
}

func (s *stubAppointmentService) ListByPatient(context.Context, int64) ([]*entities.Appointment, error) {
	return []*entities.Appointment{}, s.err
}

func (s *stubAppointmentService) Update(_ context.Context, _ int64, patch entities.AppointmentPatch) error {
	s.updated = &patch
	return s.err
}

type stubNursePaymentService struct {
	calculated *entities.NursePayment
	payErr     error
	listStatus string
	listNurse  *int64
}

func (s *stubNursePaymentService) Calculate(_ context.Context, appointmentID int64, pct *float64) (*entities.NursePayment, error) {
	p := 70.0
	if pct != nil {
		p = *pct
	}
	s.calculated = &entities.NursePayment{ID: 1, AppointmentID: appointmentID, ServiceAmount: 100, CommissionPercentage: p, NurseAmount: p}
	return s.calculated, nil
}

func (s *stubNursePaymentService) Pay(_ context.Context, id int64) (*entities.NursePayment, error) {
	if s.payErr != nil {
		return nil, s.payErr
	}
	return &entities.NursePayment{ID: id, PaymentStatus: entities.NursePaymentStatusPaid}, nil
}

func (s *stubNursePaymentService) Get(_ context.Context, id int64) (*entities.NursePayment, error) {
	return &entities.NursePayment{ID: id}, nil
}

func (s *stubNursePaymentService) List(_ context.Context, status string, nurseID *int64) ([]*entities.NursePayment, error) {
	s.listStatus, s.listNurse = status, nurseID
	return []*entities.NursePayment{}, nil
}

func (s *stubNursePaymentService) ListByNurse(_ context.Context, nurseID int64, status string) ([]*entities.NursePayment, error) {
	s.listStatus, s.listNurse = status, &nurseID
	return []*entities.NursePayment{}, nil
}

type stubBlogService struct {
	created []services.BlogInput
	updated []services.BlogInput
	err     error
}

func (s *stubBlogService) Create(_ context.Context, in services.BlogInput) (*entities.Blog, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	return &entities.Blog{ID: 21, Image: in.Image}, nil
}

func (s *stubBlogService) Update(_ context.Context, id int64, in services.BlogInput) (*entities.Blog, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = append(s.updated, in)
	return &entities.Blog{ID: id, Image: in.Image}, nil
}

func (s *stubBlogService) Sample(_ context.Context, authorID int64) (*entities.Blog, error) {
	return &entities.Blog{ID: 30, AuthorID: authorID}, s.err
}

func (s *stubBlogService) Get(_ context.Context, id int64) (*entities.Blog, error) {
	return &entities.Blog{ID: id}, s.err
}

func (s *stubBlogService) List(context.Context, string) ([]*entities.Blog, error) {
	return []*entities.Blog{}, s.err
}

func (s *stubBlogService) Delete(context.Context, int64) error { return s.err }

func (s *stubBlogService) Search(context.Context, string, string, int) ([]*entities.BlogSearchHit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entities.BlogSearchHit{}, nil
}

type stubImageStore struct {
	contentType string
	data        []byte
	deleted     []string
}

func (s *stubImageStore) Delete(_ context.Context, publicPath string) error {
	s.deleted = append(s.deleted, publicPath)
	return nil
}

func (s *stubImageStore) Save(_ context.Context, _ string, contentType string, r io.Reader) (string, error) {
	s.contentType = contentType
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.data = data
	return "/uploads/fixed.png", nil
}

type stubNotificationService struct {
	events chan *entities.NotificationEvent
	subErr error
}

func (s *stubNotificationService) Create(_ context.Context, n *entities.Notification) error {
	n.ID = 50
	return nil
}

func (s *stubNotificationService) ListByUser(context.Context, int64) ([]*entities.Notification, error) {
	return []*entities.Notification{}, nil
}

func (s *stubNotificationService) MarkRead(context.Context, int64) error { return nil }

func (s *stubNotificationService) Subscribe(context.Context, int64) (<-chan *entities.NotificationEvent, error) {
	if s.subErr != nil {
		return nil, s.subErr
	}
	return s.events, nil
}

type stubContactService struct {
	submitted []*entities.ContactMessage
}

func (s *stubContactService) Submit(_ context.Context, msg *entities.ContactMessage) error {
	msg.ID = 9
	msg.AutoReplyStatus = entities.AutoReplySkipped
	s.submitted = append(s.submitted, msg)
	return nil
}

func (s *stubContactService) List(context.Context) ([]*entities.ContactMessage, error) {
	return []*entities.ContactMessage{}, nil
}

func (s *stubContactService) Update(context.Context, int64, entities.ContactMessagePatch) error {
	return nil
}
