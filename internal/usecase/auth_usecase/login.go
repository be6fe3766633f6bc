package auth

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// handlerがJSONにして返す
type LoginOutput struct {
	Token string `json:"token"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 入力の形が不正
var ErrInvalidInput = errors.New("invalid input")

// ログイン入力の検証
type LoginValidator interface {
	ValidateLogin(email string, password string) error
}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	verifier  PasswordVerifier
	sessions  SessionStore
	validator LoginValidator
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	sessions SessionStore,
	validator LoginValidator,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		verifier:  verifier,
		sessions:  sessions,
		validator: validator,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(in.Email)
	if err := u.validator.ValidateLogin(email, in.Password); err != nil {
		return LoginOutput{}, ErrInvalidInput
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginOutput{}, ErrInvalidCredentials
		}
		return LoginOutput{}, err
	}

	//パスワード照合（bcrypt）
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return LoginOutput{}, ErrInvalidCredentials
	}

	token, err := u.sessions.Issue(ctx, *user)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{Token: token}, nil
}

// ログアウト（提示されたトークンのセッションを失効）
func (u *LoginUsecase) Logout(ctx context.Context, token string) error {
	return u.sessions.Revoke(ctx, token)
}
