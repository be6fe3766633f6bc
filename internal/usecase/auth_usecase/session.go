package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
)

// トークンが不正・未知・失効・期限切れ
var ErrInvalidToken = errors.New("invalid token")

// 認証済みの呼び出し元
type Principal struct {
	UserID    int64
	Role      model.Role
	SessionID string
}

// セッションの発行・検証・失効
type SessionStore interface {
	Issue(ctx context.Context, user model.User) (string, error)
	Validate(ctx context.Context, token string) (Principal, error)
	Revoke(ctx context.Context, token string) error
}

// トークンはHS256署名。jtiがsessionsテーブルの行を指す。
// 署名だけでは通さず、必ずDBの行（失効・期限）を見る。
type JWTSessionStore struct {
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
	idGen    IDGenerator
	clock    Clock
}

func NewJWTSessionStore(
	sessions repository.SessionRepository,
	secret string,
	ttl time.Duration,
	idGen IDGenerator,
	clock Clock,
) *JWTSessionStore {
	return &JWTSessionStore{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		idGen:    idGen,
		clock:    clock,
	}
}

func (s *JWTSessionStore) Issue(ctx context.Context, user model.User) (string, error) {
	now := s.clock.Now()

	//期限切れの古いセッションを掃除
	if _, err := s.sessions.DeleteExpiredByUserID(ctx, user.ID, now); err != nil {
		return "", err
	}

	sess := &model.Session{
		ID:        s.idGen.NewID(),
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

func (s *JWTSessionStore) Validate(ctx context.Context, token string) (Principal, error) {
	claims := &jwt.RegisteredClaims{}

	//期限は自前の時計とDBで見る
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || parsed == nil || !parsed.Valid || claims.ID == "" {
		return Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Principal{}, ErrInvalidToken
	}

	sess, err := s.sessions.FindByID(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return Principal{}, ErrInvalidToken
	}
	if err != nil {
		return Principal{}, err
	}

	if sess.UserID != userID || !sess.Active(s.clock.Now()) {
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: sess.UserID, Role: sess.Role, SessionID: sess.ID}, nil
}

func (s *JWTSessionStore) Revoke(ctx context.Context, token string) error {
	p, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}

	err = s.sessions.Revoke(ctx, p.SessionID, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}
