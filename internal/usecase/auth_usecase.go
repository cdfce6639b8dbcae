package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/config"
	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, account string, name string, password string) error
	ValidateLogin(ctx context.Context, account string, password string) error
}

// validator側のエラー（usecaseがHTTPステータスへ変換する）
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountAlreadyUsed = errors.New("account already used")
)

type UserDTO struct {
	ID      int64  `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
}

type AuthRegisterInput struct {
	Account  string `json:"account"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthLoginInput struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

type AuthLoginOutput struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
	ExpiresIn   int     `json:"expires_in"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	validator AuthValidator
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users, validator: validator}
}

func (u *AuthUsecase) Register(ctx context.Context, in AuthRegisterInput) (UserDTO, error) {
	if err := u.validator.ValidateRegister(ctx, in.Account, in.Name, in.Password); err != nil {
		if errors.Is(err, ErrAccountAlreadyUsed) {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "account already used")
		}
		if errors.Is(err, ErrInvalidInput) {
			return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid input")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Account:      in.Account,
		Name:         in.Name,
		PasswordHash: string(hash),
	}
	if err := u.users.Create(ctx, &user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return UserDTO{ID: user.ID, Account: user.Account, Name: user.Name}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in AuthLoginInput) (AuthLoginOutput, error) {
	if err := u.validator.ValidateLogin(ctx, in.Account, in.Password); err != nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	user, err := u.users.FindByAccount(ctx, in.Account)
	if errors.Is(err, repo.ErrNotFound) {
		return AuthLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"account": user.Account,
		"iat":     now.Unix(),
		"exp":     now.Add(accessTokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthLoginOutput{
		User:        UserDTO{ID: user.ID, Account: user.Account, Name: user.Name},
		AccessToken: signed,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
	}, nil
}
