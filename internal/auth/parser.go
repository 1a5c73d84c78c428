package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/fleet-reports/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload issued by the identity service.
type Claims struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(strings.TrimSpace(claims.UserID))
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: user_id", ErrInvalidToken)
	}

	principal := model.Principal{
		UserID: userID,
		Role:   model.UserRole(strings.ToUpper(strings.TrimSpace(claims.Role))),
	}
	if raw := strings.TrimSpace(claims.OrgID); raw != "" {
		orgID, err := uuid.Parse(raw)
		if err != nil {
			return model.Principal{}, fmt.Errorf("%w: org_id", ErrInvalidToken)
		}
		principal.OrgID = &orgID
	}
	return principal, nil
}
