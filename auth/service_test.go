package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	identities Repository
	tokens     *TokenIssuer
	svc        Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.identities = NewIdentityRepository()
	s.tokens = NewTokenIssuer(testSecret, 0)
	s.svc = NewService(s.identities, s.tokens, ClearText{})
}

func (s *ServiceTestSuite) TestRegister_StoresIdentity() {
	id, err := s.svc.Register(s.ctx, validRegisterRequest())
	s.Require().NoError(err)
	s.True(isValidID(string(id)))

	acc, err := s.identities.FindByName(s.ctx, "alice01")
	s.Require().NoError(err)
	s.Equal(id, acc.ID)
	s.Equal("a@b.com", acc.Email)
	s.Equal("Abcdef1!", acc.Password)
	s.Equal(2000, acc.DateOfBirth.Year())
	s.False(acc.CreatedAt.IsZero())
}

func (s *ServiceTestSuite) TestRegister_SameNameIsRejectedEveryTime() {
	_, err := s.svc.Register(s.ctx, validRegisterRequest())
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		req := validRegisterRequest()
		req.Email = String("other@b.com")
		_, err := s.svc.Register(s.ctx, req)
		s.Equal(ErrExistingName, err)
	}
}

func (s *ServiceTestSuite) TestRegister_EarliestDateIsPresent() {
	req := validRegisterRequest()
	req.DateOfBirth = String("0001-01-01")

	id, err := s.svc.Register(s.ctx, req)

	s.Require().NoError(err)
	s.True(isValidID(string(id)))
}

func (s *ServiceTestSuite) TestRegister_ValidationComesFirst() {
	_, err := s.svc.Register(s.ctx, validRegisterRequest())
	s.Require().NoError(err)

	req := validRegisterRequest()
	req.Password = String("weak")
	_, err = s.svc.Register(s.ctx, req)

	var v Violations
	s.ErrorAs(err, &v)
}

func (s *ServiceTestSuite) TestLogin_ExactMatchOnly() {
	_, err := s.svc.Register(s.ctx, validRegisterRequest())
	s.Require().NoError(err)

	token, err := s.svc.Login(s.ctx, LoginRequest{Email: String("a@b.com"), Password: String("Abcdef1!")})
	s.Require().NoError(err)
	claims, err := s.tokens.Verify(token)
	s.Require().NoError(err)
	s.Equal("a@b.com", claims.Email)

	deviations := []LoginRequest{
		{Email: String("b@b.com"), Password: String("Abcdef1!")},
		{Email: String("a@b.con"), Password: String("Abcdef1!")},
		{Email: String("a@b.com"), Password: String("Abcdef1?")},
		{Email: String("a@b.com"), Password: String("abcdef1!A")},
	}
	for _, req := range deviations {
		_, err := s.svc.Login(s.ctx, req)
		s.Equal(ErrInvalidCredentials, err)
	}
}

func (s *ServiceTestSuite) TestLogin_Violations() {
	_, err := s.svc.Login(s.ctx, LoginRequest{Email: String("bad")})

	var v Violations
	s.Require().ErrorAs(err, &v)
	s.Equal("email", v[0].Field)
	s.Equal("password", v[1].Field)
}

func (s *ServiceTestSuite) TestNewService_DefaultsToClearText() {
	svc := NewService(s.identities, s.tokens, nil).(*service)

	s.Equal(s.identities, svc.identities)
	s.Equal(ClearText{}, svc.passwords)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestService_BcryptScheme(t *testing.T) {
	ctx := context.Background()
	identities := NewIdentityRepository()
	svc := NewService(identities, NewTokenIssuer(testSecret, 0), Bcrypt{Cost: 4})

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	acc, err := identities.FindByName(ctx, "alice01")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", acc.Password)

	_, err = svc.Login(ctx, LoginRequest{Email: String("a@b.com"), Password: String("Abcdef1!")})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, LoginRequest{Email: String("a@b.com"), Password: String("Abcdef1?")})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestService_ConcurrentRegistrationsOfOneName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewIdentityRepository(), NewTokenIssuer(testSecret, 0), ClearText{})

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, validRegisterRequest())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, ErrExistingName, err)
	}
	assert.Equal(t, 1, succeeded)
}

var errStoreDown = errors.New("store down")

type failingRepository struct{ Repository }

func (failingRepository) FindByName(context.Context, string) (*Identity, error) {
	return nil, errStoreDown
}

func (failingRepository) FindByCredentials(context.Context, string, string) (*Identity, error) {
	return nil, errStoreDown
}

func TestService_DependencyFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewService(failingRepository{}, NewTokenIssuer(testSecret, 0), ClearText{})

	_, err := svc.Register(ctx, validRegisterRequest())
	assert.ErrorIs(t, err, ErrDependency)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.Login(ctx, LoginRequest{Email: String("a@b.com"), Password: String("Abcdef1!")})
	assert.ErrorIs(t, err, ErrDependency)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
