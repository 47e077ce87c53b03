// Package auth is the only code allowed to write the session.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/validation"
)

// Gateway is the subset of the remote client used for authentication
type Gateway interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
}

// Service logs users in and out
type Service struct {
	gateway Gateway
	session *session.Store
}

func NewService(gw Gateway, store *session.Store) *Service {
	return &Service{gateway: gw, session: store}
}

// Login exchanges credentials for a session and stores token, role and
// identity together
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, error) {
	const op = "login"

	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := validation.ValidateStruct(req); err != nil {
		return models.Session{}, errors.Validation(op, constants.MsgFillAllFields)
	}

	resp, err := s.gateway.Login(ctx, req)
	if err != nil {
		logger.Warn("Login failed", "email", req.Email, "error", err)
		if errors.Is(err, errors.KindApplication) {
			return models.Session{}, &errors.Error{
				Kind:    errors.KindApplication,
				Op:      op,
				Status:  errors.StatusOf(err),
				Message: constants.MsgInvalidCredentials,
				Err:     err,
			}
		}
		return models.Session{}, err
	}

	if !session.WellFormedToken(resp.Token) {
		return models.Session{}, errors.Transport(op, fmt.Errorf("service returned a malformed token"))
	}
	if resp.Role != constants.RolePatient && resp.Role != constants.RoleAdmin {
		return models.Session{}, errors.Transport(op, fmt.Errorf("service returned unknown role %q", resp.Role))
	}
	if resp.Email == "" {
		resp.Email = req.Email
	}

	id := session.Identity{Email: resp.Email, Name: resp.Name}
	if err := s.session.Set(resp.Token, resp.Role, id); err != nil {
		return models.Session{}, err
	}
	logger.Info("Logged in", "email", resp.Email, "role", resp.Role)
	return s.session.Snapshot(), nil
}

// Logout clears the session. Logging out while anonymous is not an error.
func (s *Service) Logout() error {
	if err := s.session.Clear(); err != nil {
		return err
	}
	logger.Info("Logged out")
	return nil
}

// Signup registers a patient account. It does not log in.
func (s *Service) Signup(ctx context.Context, name, email, password string) (string, error) {
	const op = "signup"

	req := models.SignupRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := validation.ValidateStruct(req); err != nil {
		if validation.HasTag(err, "required") {
			return "", errors.Validation(op, constants.MsgFillAllFields)
		}
		return "", errors.Validation(op, validation.FormatFirstError(err))
	}

	if _, err := s.gateway.Signup(ctx, req); err != nil {
		logger.Warn("Signup failed", "email", req.Email, "error", err)
		if errors.Is(err, errors.KindApplication) && errors.MessageOf(err) == "" {
			return "", &errors.Error{
				Kind:    errors.KindApplication,
				Op:      op,
				Status:  errors.StatusOf(err),
				Message: constants.MsgSignupFailed,
				Err:     err,
			}
		}
		return "", err
	}
	logger.Info("Signed up", "email", req.Email)
	return constants.MsgSignupConfirmed, nil
}

// LandingView is where a freshly logged-in user starts
func LandingView(role constants.Role) constants.View {
	if role == constants.RoleAdmin {
		return constants.ViewAdmin
	}
	return constants.ViewAvailable
}
