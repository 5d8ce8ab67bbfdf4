package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/imagine/internal/backend"
	"github.com/mmeshcher/imagine/internal/model"
)

// Authenticator проверяет учётные данные сотрудника и возвращает его профиль.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.Employee, error)
	Profile(ctx context.Context, username string) (*model.Employee, error)
}

// LocalAuthenticator сверяет учётные данные с единственной учётной записью из конфигурации.
type LocalAuthenticator struct {
	username string
	hash     []byte
}

// NewLocalAuthenticator хеширует пароль bcrypt при старте, открытый пароль не хранится.
func NewLocalAuthenticator(username, password string) (*LocalAuthenticator, error) {
	return newLocalAuthenticator(username, password, bcrypt.DefaultCost)
}

func newLocalAuthenticator(username, password string, cost int) (*LocalAuthenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &LocalAuthenticator{username: username, hash: hash}, nil
}

// Authenticate сравнивает логин за постоянное время и проверяет пароль по хешу.
func (a *LocalAuthenticator) Authenticate(_ context.Context, username, password string) (*model.Employee, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}
	return &model.Employee{Username: a.username}, nil
}

// Profile возвращает профиль единственного локального администратора.
func (a *LocalAuthenticator) Profile(_ context.Context, username string) (*model.Employee, error) {
	if username != a.username {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, username)
	}
	return &model.Employee{Username: a.username}, nil
}

// EmployeeDirectory: удалённый справочник сотрудников.
type EmployeeDirectory interface {
	Login(ctx context.Context, username, password string) (*model.Employee, error)
	GetEmployee(ctx context.Context, username string) (*model.Employee, error)
}

// RemoteAuthenticator проверяет учётные данные через бэкенд кампании.
type RemoteAuthenticator struct {
	dir EmployeeDirectory
}

// NewRemoteAuthenticator создаёт аутентификатор поверх справочника сотрудников.
func NewRemoteAuthenticator(dir EmployeeDirectory) *RemoteAuthenticator {
	return &RemoteAuthenticator{dir: dir}
}

// Authenticate проверяет учётные данные через бэкенд. Если бэкенд не вернул имя сотрудника,
// используется введённый логин.
func (a *RemoteAuthenticator) Authenticate(ctx context.Context, username, password string) (*model.Employee, error) {
	emp, err := a.dir.Login(ctx, username, password)
	switch {
	case err == nil:
		if emp == nil {
			return &model.Employee{Username: username}, nil
		}
		if emp.Username == "" {
			withName := *emp
			withName.Username = username
			return &withName, nil
		}
		return emp, nil
	case errors.Is(err, backend.ErrInvalidCredentials):
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
}

// Profile запрашивает профиль сотрудника у бэкенда.
func (a *RemoteAuthenticator) Profile(ctx context.Context, username string) (*model.Employee, error) {
	emp, err := a.dir.GetEmployee(ctx, username)
	switch {
	case err == nil:
		return emp, nil
	case errors.Is(err, backend.ErrEmployeeNotFound):
		return nil, fmt.Errorf("%w: %w", ErrEmployeeNotFound, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
}

// Login проверяет учётные данные сотрудника.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Employee, error) {
	if s.auth == nil {
		return nil, ErrInvalidCredentials
	}

	emp, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			s.logger.Error("login failed", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}
	return emp, nil
}

// Profile возвращает профиль сотрудника текущей сессии.
func (s *Service) Profile(ctx context.Context, username string) (*model.Employee, error) {
	if s.auth == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, username)
	}

	emp, err := s.auth.Profile(ctx, username)
	if err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			s.logger.Error("load profile failed", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}
	return emp, nil
}

// Logout забывает состояние экранов сотрудника.
func (s *Service) Logout(username string) {
	s.dropViews(username)
}
