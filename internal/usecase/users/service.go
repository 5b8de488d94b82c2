package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/user"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

var (
	ErrInvalidUserID = errors.New("user id must be positive")
	ErrRoleRequired  = errors.New("role is required")
	ErrEmptyUpdate   = errors.New("update changes nothing")
)

type Service struct {
	gateway ports.UserGateway
}

func NewService(gateway ports.UserGateway) *Service {
	return &Service{gateway: gateway}
}

func (s *Service) List(ctx context.Context, filter user.ListFilter) (user.Page, error) {
	page, err := s.gateway.ListUsers(ctx, filter)
	if err != nil {
		return user.Page{}, errs.Wrap(err, "list users")
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id int64) (user.User, error) {
	if id <= 0 {
		return user.User{}, ErrInvalidUserID
	}
	found, err := s.gateway.GetUser(ctx, id)
	if err != nil {
		return user.User{}, errs.Wrapf(err, "get user %d", id)
	}
	return found, nil
}

func (s *Service) Create(ctx context.Context, request user.CreateRequest) (user.User, error) {
	request.Email = strings.TrimSpace(request.Email)
	request.Username = strings.TrimSpace(request.Username)
	request.FullName = strings.TrimSpace(request.FullName)
	if err := request.Validate(); err != nil {
		return user.User{}, err
	}
	if request.RoleIDs == nil {
		request.RoleIDs = []int64{}
	}

	created, err := s.gateway.CreateUser(ctx, request)
	if err != nil {
		return user.User{}, errs.Wrap(err, "create user")
	}
	logging.Info(logging.WithComponent(ctx, "usecase.users"), "user created", slog.Int64("user_id", created.ID))
	return created, nil
}

// Update sends only the fields that are set. A blank password is treated as
// unchanged.
func (s *Service) Update(ctx context.Context, id int64, request user.UpdateRequest) (user.User, error) {
	if id <= 0 {
		return user.User{}, ErrInvalidUserID
	}
	if request.Password != nil && *request.Password == "" {
		request.Password = nil
	}
	if request.Email == nil && request.Username == nil && request.FullName == nil &&
		request.Phone == nil && request.Password == nil && request.RoleIDs == nil {
		return user.User{}, ErrEmptyUpdate
	}

	updated, err := s.gateway.UpdateUser(ctx, id, request)
	if err != nil {
		return user.User{}, errs.Wrapf(err, "update user %d", id)
	}
	return updated, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) (user.User, error) {
	if id <= 0 {
		return user.User{}, ErrInvalidUserID
	}
	deactivated, err := s.gateway.DeactivateUser(ctx, id)
	if err != nil {
		return user.User{}, errs.Wrapf(err, "deactivate user %d", id)
	}
	logging.Info(logging.WithComponent(ctx, "usecase.users"), "user deactivated", slog.Int64("user_id", id))
	return deactivated, nil
}

func (s *Service) ByRole(ctx context.Context, role string) ([]user.User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrRoleRequired
	}
	found, err := s.gateway.UsersByRole(ctx, role)
	if err != nil {
		return nil, errs.Wrapf(err, "list users with role %s", role)
	}
	return found, nil
}
