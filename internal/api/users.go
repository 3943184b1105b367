package api

import (
	"context"
	"net/http"

	"github.com/spec-kit/workforce-client/internal/api/dto"
	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/transport"
)

// UsersService drives the workspace member endpoints.
type UsersService struct {
	pipeline *transport.Pipeline
}

// NewUsersService builds the service.
func NewUsersService(pipeline *transport.Pipeline) *UsersService {
	return &UsersService{pipeline: pipeline}
}

// List returns all members of the active workspace.
func (s *UsersService) List(ctx context.Context) ([]domain.UserRecord, error) {
	var out []domain.UserRecord
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/users",
	}, &out)
	return out, err
}

// Get returns one member by id.
func (s *UsersService) Get(ctx context.Context, id string) (domain.UserRecord, error) {
	var out domain.UserRecord
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/users/" + id,
	}, &out)
	return out, err
}

// Update applies a partial update to a member.
func (s *UsersService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (domain.UserRecord, error) {
	var out domain.UserRecord
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   "/api/v1/users/" + id,
		Body:   req,
	}, &out)
	return out, err
}

// Delete removes a member from the workspace.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	return s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodDelete,
		Path:   "/api/v1/users/" + id,
	}, nil)
}
