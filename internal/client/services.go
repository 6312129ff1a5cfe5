package client

import (
	"context"
	"net/http"
)

// AuthService wraps the authentication endpoints.
type AuthService struct {
	c *Client
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := s.c.Validate(req); err != nil {
		return LoginResult{}, err
	}
	env, err := s.c.Do(ctx, http.MethodPost, PathAuth+"/login", nil, req)
	if err != nil {
		return LoginResult{}, err
	}
	return ExtractData[LoginResult](env)
}

// Me returns the user the context's token belongs to.
func (s *AuthService) Me(ctx context.Context) (User, error) {
	env, err := s.c.Do(ctx, http.MethodGet, PathAuth+"/me", nil, nil)
	if err != nil {
		return User{}, err
	}
	return ExtractData[User](env)
}

// Logout revokes the context's token on the API.
func (s *AuthService) Logout(ctx context.Context) error {
	env, err := s.c.Do(ctx, http.MethodPost, PathAuth+"/logout", nil, nil)
	if err != nil {
		return err
	}
	return ValidateDeleteResponse(env)
}

// AttendanceService adds clocking to the attendance resource.
type AttendanceService struct {
	*Resource[Attendance, AttendanceInput]
}

// ClockIn records the start of the caller's working day.
func (s *AttendanceService) ClockIn(ctx context.Context, req ClockRequest) (Attendance, error) {
	return s.clock(ctx, "/clock-in", req, ExtractCreateData[Attendance])
}

// ClockOut records the end of the caller's working day.
func (s *AttendanceService) ClockOut(ctx context.Context, req ClockRequest) (Attendance, error) {
	return s.clock(ctx, "/clock-out", req, ExtractUpdateData[Attendance])
}

func (s *AttendanceService) clock(ctx context.Context, suffix string, req ClockRequest, extract func(*Envelope) (Attendance, error)) (Attendance, error) {
	if err := s.c.Validate(req); err != nil {
		return Attendance{}, err
	}
	env, err := s.c.Do(ctx, http.MethodPost, s.path+suffix, nil, req)
	if err != nil {
		return Attendance{}, err
	}
	return extract(env)
}

// TimeOffService adds the review workflow to the time off resource.
type TimeOffService struct {
	*Resource[TimeOff, TimeOffInput]
}

// Approve marks a pending request approved.
func (s *TimeOffService) Approve(ctx context.Context, id string, review ReviewInput) (TimeOff, error) {
	return s.review(ctx, id, "approve", review)
}

// Reject marks a pending request rejected.
func (s *TimeOffService) Reject(ctx context.Context, id string, review ReviewInput) (TimeOff, error) {
	return s.review(ctx, id, "reject", review)
}

func (s *TimeOffService) review(ctx context.Context, id, action string, review ReviewInput) (TimeOff, error) {
	p, err := s.itemPath(id, action)
	if err != nil {
		return TimeOff{}, err
	}
	if err := s.c.Validate(review); err != nil {
		return TimeOff{}, err
	}
	env, err := s.c.Do(ctx, http.MethodPost, p, nil, review)
	if err != nil {
		return TimeOff{}, err
	}
	return ExtractUpdateData[TimeOff](env)
}
