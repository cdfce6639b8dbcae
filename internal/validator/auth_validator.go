package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
	"github.com/annie604/iPaidUpay-Server/internal/usecase"
)

// 英数字と._-のみ、3〜64文字
var accountPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,64}$`)

type authValidator struct {
	users repo.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repo.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, account string, name string, password string) error {
	account = strings.TrimSpace(account)
	name = strings.TrimSpace(name)

	// 必須チェック
	if account == "" || name == "" || password == "" {
		return usecase.ErrInvalidInput
	}

	if !accountPattern.MatchString(account) {
		return usecase.ErrInvalidInput
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return usecase.ErrInvalidInput
	}

	// アカウント名の重複
	_, err := v.users.FindByAccount(ctx, account)
	if err == nil {
		return usecase.ErrAccountAlreadyUsed
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, account string, password string) error {
	if strings.TrimSpace(account) == "" || password == "" {
		return usecase.ErrInvalidInput
	}
	return nil
}
