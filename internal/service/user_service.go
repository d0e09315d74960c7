package service

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"sns-system/internal/model"
	"sns-system/internal/repository"
	"sns-system/pkg/jwt"
	"sns-system/pkg/logger"
	"sns-system/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	usernameMaxLength = 150
	emailMaxLength    = 254

	msgRequired       = "This field is required."
	msgUsernameTaken  = "A user with that username already exists."
	msgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

// reservedUsernames 站点根路径下的静态段
// 关注路由 /<username>/follow/ 与这些前缀共用第一段，同名用户将无法被关注
var reservedUsernames = map[string]struct{}{
	"home":    {},
	"profile": {},
	"tweets":  {},
	"signup":  {},
	"login":   {},
	"logout":  {},
	"health":  {},
	"metrics": {},
}

// IsReservedUsername 用户名是否与站点路径冲突，不区分大小写
func IsReservedUsername(name string) bool {
	_, ok := reservedUsernames[strings.ToLower(name)]
	return ok
}

// SignupInput 注册表单
type SignupInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

type UserService struct {
	tx         *repository.Transactor
	users      *repository.UserRepository
	profiles   *repository.ProfileRepository
	jwtService *jwt.JWTService
}

func NewUserService(
	tx *repository.Transactor,
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	jwtService *jwt.JWTService,
) *UserService {
	return &UserService{tx: tx, users: users, profiles: profiles, jwtService: jwtService}
}

// Signup 注册：校验表单，创建用户与资料，签发 token
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fields := validateSignup(in)
	if len(fields) == 0 {
		taken, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, "", model.NewInternalError("failed to check username", err)
		}
		if taken {
			fields = map[string][]string{"username": {msgUsernameTaken}}
		}
	}
	if len(fields) > 0 {
		return nil, "", model.NewValidationError("signup form is invalid", fields)
	}

	user, err := s.CreateUser(ctx, in.Username, in.Email, in.Password1)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", model.NewInternalError("failed to issue token", err)
	}
	return user, token, nil
}

// CreateUser 创建用户并在同一事务内生成资料
// 所有创建用户的路径都必须经过这里
func (s *UserService) CreateUser(ctx context.Context, username, email, plainPassword string) (*model.User, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, model.NewInternalError("failed to hash password", err)
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		_, err := s.profiles.WithTx(tx).EnsureForUser(ctx, user.ID)
		return err
	})
	if err != nil {
		// 唯一索引冲突：并发注册了同名用户
		if taken, lookupErr := s.users.ExistsByUsername(ctx, username); lookupErr == nil && taken {
			return nil, model.NewValidationError("signup form is invalid",
				map[string][]string{"username": {msgUsernameTaken}})
		}
		logger.Error("创建用户失败", zap.String("username", username), zap.Error(err))
		return nil, model.NewInternalError("failed to create user", err)
	}

	logger.Info("用户注册成功", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 登录
func (s *UserService) Login(ctx context.Context, username, plainPassword string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	fields := map[string][]string{}
	if username == "" {
		fields["username"] = []string{msgRequired}
	}
	if plainPassword == "" {
		fields["password"] = []string{msgRequired}
	}
	if len(fields) > 0 {
		return nil, "", model.NewValidationError("login form is invalid", fields)
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, "", model.NewAuthenticationError(msgBadCredentials)
		}
		return nil, "", model.NewInternalError("failed to load user", err)
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		logger.Warn("登录密码错误", zap.String("username", username))
		return nil, "", model.NewAuthenticationError(msgBadCredentials)
	}

	if err := s.users.TouchLastLogin(ctx, u.ID, time.Now()); err != nil {
		logger.Warn("更新最近登录时间失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	token, err := s.jwtService.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, "", model.NewInternalError("failed to issue token", err)
	}
	return u, token, nil
}

// GetByID 获取用户
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil && !model.IsNotFound(err) {
		return nil, model.NewInternalError("failed to load user", err)
	}
	return u, err
}

func validateSignup(in SignupInput) map[string][]string {
	fields := map[string][]string{}
	add := func(field, msg string) {
		fields[field] = append(fields[field], msg)
	}

	switch {
	case in.Username == "":
		add("username", msgRequired)
	case utf8.RuneCountInString(in.Username) > usernameMaxLength:
		add("username", "Ensure this value has at most 150 characters.")
	case !validUsername(in.Username):
		add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	case IsReservedUsername(in.Username):
		add("username", msgUsernameTaken)
	}

	switch {
	case in.Email == "":
		add("email", msgRequired)
	case len(in.Email) > emailMaxLength || !validEmail(in.Email):
		add("email", "Enter a valid email address.")
	}

	if in.Password1 == "" {
		add("password1", msgRequired)
	}
	if in.Password2 == "" {
		add("password2", msgRequired)
	}
	if in.Password1 != "" && in.Password2 != "" {
		if in.Password1 != in.Password2 {
			add("password2", "The two password fields didn't match.")
		} else {
			for _, problem := range password.Validate(in.Password1, in.Username, in.Email) {
				add("password2", problem)
			}
		}
	}
	return fields
}

func validUsername(name string) bool {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return false
	}
	return true
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
