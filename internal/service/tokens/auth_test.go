package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokensTestSuite struct {
	suite.Suite
	key []byte
}

func TestTokensSuite(t *testing.T) {
	suite.Run(t, new(TokensTestSuite))
}

func (s *TokensTestSuite) SetupTest() {
	s.key = []byte("secret")
}

func (s *TokensTestSuite) TestRoundTrip() {
	tokenStr, err := GenerateUserJWT(42, "PARENT", time.Hour, s.key)
	s.Require().NoError(err)

	claims, validateErr := ValidateUserJWT(tokenStr, s.key)
	s.Require().NoError(validateErr)
	s.Equal(int64(42), claims.ID)
	s.Equal("PARENT", claims.Role)
	s.Equal("42", claims.Subject)
}

func (s *TokensTestSuite) TestValidateErrors() {
	expired, err := GenerateUserJWT(1, "PARENT", -time.Minute, s.key)
	s.Require().NoError(err)
	foreign, err := GenerateUserJWT(1, "PARENT", time.Hour, []byte("another secret"))
	s.Require().NoError(err)

	cases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expired, wantErr: ErrTokenExpired},
		{name: "wrong key", token: foreign},
		{name: "garbage", token: "not.a.token"},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			claims, validateErr := ValidateUserJWT(t.token, s.key)
			s.Require().Error(validateErr)
			s.Nil(claims)
			if t.wantErr != nil {
				s.Require().ErrorIs(validateErr, t.wantErr)
			}
		})
	}
}
